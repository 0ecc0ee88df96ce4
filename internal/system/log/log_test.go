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
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pdscontext "github.com/wso2/plant-data-service/internal/system/context"
)

func TestConfigure_JSONWithTraceID(t *testing.T) {

	var buf bytes.Buffer
	require.NoError(t, Configure(Options{Level: "DEBUG", Format: "json", Writer: &buf}))

	ctx := pdscontext.WithTraceID(context.Background(), "trace-9")
	FromContext(ctx).With(ContributionID("c-1")).Info("stored", Duration("took", 1500*time.Millisecond))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "stored", line["msg"])
	assert.Equal(t, "trace-9", line["trace_id"])
	assert.Equal(t, "c-1", line["contribution_id"])
	assert.EqualValues(t, 1500, line["took_ms"])
}

func TestAudit_InheritsTraceID(t *testing.T) {

	var buf bytes.Buffer
	require.NoError(t, InitWithWriter("INFO", &buf))

	ctx := pdscontext.WithTraceID(context.Background(), "trace-audit")
	FromContext(ctx).Audit(AuditEvent{InitiatorID: "u1", ActionID: ActionUpdateConsent})

	out := buf.String()
	assert.Contains(t, out, "AUDIT")
	assert.Contains(t, out, `traceId`)
	assert.Contains(t, out, "trace-audit")
}

func TestConfigure_RejectsUnknownSettings(t *testing.T) {

	assert.Error(t, Configure(Options{Level: "LOUD"}))
	assert.Error(t, Configure(Options{Level: "INFO", Format: "xml"}))
}

func TestFromContext_WithoutTraceID(t *testing.T) {

	var buf bytes.Buffer
	require.NoError(t, InitWithWriter("INFO", &buf))

	FromContext(context.Background()).Info("plain")
	assert.False(t, strings.Contains(buf.String(), "trace_id"))
}
