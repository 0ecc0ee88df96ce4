/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	pdscontext "github.com/wso2/plant-data-service/internal/system/context"
)

var (
	logger      *Logger
	mu          sync.RWMutex
	defaultOnce sync.Once
)

// Logger is a wrapper around the slog logger. A logger derived with FromContext carries the
// request trace id and stamps it on every line and audit event.
type Logger struct {
	internal *slog.Logger
	traceID  string
}

// Options configure the process wide logger.
type Options struct {
	// Level is one of DEBUG, INFO, WARN or ERROR. Empty means INFO.
	Level string
	// Format is "text" (default) or "json".
	Format string
	Writer io.Writer
}

// GetLogger returns the process wide logger. If Init was never called a logger writing
// errors only to stderr is returned.
func GetLogger() *Logger {

	mu.RLock()
	l := logger
	mu.RUnlock()
	if l != nil {
		return l
	}
	defaultOnce.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		if logger == nil {
			logger = &Logger{internal: slog.New(slog.NewTextHandler(os.Stderr,
				&slog.HandlerOptions{Level: slog.LevelError}))}
		}
	})
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// FromContext returns the process wide logger tagged with the trace id found in ctx.
func FromContext(ctx context.Context) *Logger {

	l := GetLogger()
	traceID := pdscontext.GetTraceID(ctx)
	if traceID == "" {
		return l
	}
	return &Logger{internal: l.internal.With(slog.String("trace_id", traceID)), traceID: traceID}
}

// Init initializes the process wide text logger on stdout with the given level.
func Init(logLevel string) error {
	return Configure(Options{Level: logLevel})
}

// InitWithWriter initializes the logger so that it writes to w.
func InitWithWriter(logLevel string, w io.Writer) error {
	return Configure(Options{Level: logLevel, Writer: w})
}

// Configure replaces the process wide logger.
func Configure(opts Options) error {

	level := slog.LevelInfo
	if opts.Level == "" {
		opts.Level = level.String()
	}
	if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
		return fmt.Errorf("error parsing log level: %w", err)
	}
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}

	handlerOptions := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", "text":
		handler = slog.NewTextHandler(w, handlerOptions)
	case "json":
		handler = slog.NewJSONHandler(w, handlerOptions)
	default:
		return fmt.Errorf("unknown log format %q", opts.Format)
	}

	mu.Lock()
	logger = &Logger{internal: slog.New(handler)}
	mu.Unlock()
	return nil
}

// With creates a new logger instance with additional fields.
func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{internal: l.internal.With(convertFields(fields)...), traceID: l.traceID}
}

func (l *Logger) Info(msg string, fields ...Field) {
	l.internal.Info(msg, convertFields(fields)...)
}

func (l *Logger) Debug(msg string, fields ...Field) {
	l.internal.Debug(msg, convertFields(fields)...)
}

func (l *Logger) Warn(msg string, fields ...Field) {
	l.internal.Warn(msg, convertFields(fields)...)
}

func (l *Logger) Error(msg string, fields ...Field) {
	l.internal.Error(msg, convertFields(fields)...)
}

// Fatal logs at error level and exits the process.
func (l *Logger) Fatal(msg string, fields ...Field) {
	l.internal.Error(msg, convertFields(fields)...)
	os.Exit(1)
}

func convertFields(fields []Field) []any {
	attrs := make([]any, len(fields))
	for i, field := range fields {
		attrs[i] = slog.Any(field.Key, field.Value)
	}
	return attrs
}
