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

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	batchservice "github.com/wso2/plant-data-service/internal/batch_processor/service"
	dataset "github.com/wso2/plant-data-service/internal/dataset/model"
	"github.com/wso2/plant-data-service/internal/external_import"
	"github.com/wso2/plant-data-service/internal/system/config"
	"github.com/wso2/plant-data-service/internal/system/constants"
	"github.com/wso2/plant-data-service/internal/system/log"
	"github.com/wso2/plant-data-service/internal/system/managers"
	"github.com/wso2/plant-data-service/internal/system/workers"
)

const usage = `usage: pipeline [-pdsHome dir] <command> [flags]

commands:
  batch           reprocess queued contributions (-size n)
  reconcile       mirror contributions missing from the memory store (-limit n)
  import          import an external dataset directory (-dir path -source name)
  ensure-dataset  create the default dataset when none is active
`

type importer interface {
	ImportDirectory(ctx context.Context, dir, source string) (*external_import.ImportReport, error)
}

type datasetEnsurer interface {
	EnsureDefaultDataset(ctx context.Context) (*dataset.Dataset, error)
}

// runner executes one pipeline command and prints its report as JSON.
type runner struct {
	batches    batchservice.BatchServiceInterface
	reconciler workers.MemoryReconcilerInterface
	importer   importer
	datasets   datasetEnsurer
	out        io.Writer
}

var errUsage = errors.New("invalid usage")

func (r *runner) run(ctx context.Context, args []string) error {

	if len(args) == 0 {
		return errUsage
	}
	command, rest := args[0], args[1:]
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var report any
	var err error
	switch command {
	case "batch":
		size := fs.Int("size", 0, "number of contributions to reprocess")
		if err := fs.Parse(rest); err != nil {
			return errors.Wrap(errUsage, err.Error())
		}
		report, err = r.batches.ProcessBatch(ctx, *size)
	case "reconcile":
		limit := fs.Int("limit", 0, "maximum contributions to repair")
		if err := fs.Parse(rest); err != nil {
			return errors.Wrap(errUsage, err.Error())
		}
		report, err = r.reconciler.ReconcileMemoryMirrors(ctx, *limit)
	case "import":
		dir := fs.String("dir", "", "directory holding one sub directory per category")
		source := fs.String("source", "", "name of the external source")
		if err := fs.Parse(rest); err != nil {
			return errors.Wrap(errUsage, err.Error())
		}
		if *dir == "" {
			return errors.Wrap(errUsage, "-dir is required")
		}
		report, err = r.importer.ImportDirectory(ctx, *dir, *source)
	case "ensure-dataset":
		report, err = r.datasets.EnsureDefaultDataset(ctx)
	default:
		return errors.Wrapf(errUsage, "unknown command %q", command)
	}
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func main() {

	pdsHome := flag.String("pdsHome", "", "Path to plant data service home directory")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	home := *pdsHome
	if home == "" {
		dir, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to get current working directory: %v\n", err)
			os.Exit(1)
		}
		home = dir
	}
	if envFiles, err := filepath.Glob(filepath.Join(home, "config", "*.env")); err == nil && len(envFiles) > 0 {
		_ = godotenv.Load(envFiles...)
	}

	pdsConfig, err := config.LoadConfig(home, constants.ConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := config.InitializePDSRuntime(home, pdsConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize runtime: %v\n", err)
		os.Exit(1)
	}
	if err := log.Configure(log.Options{Level: pdsConfig.Log.LogLevel, Format: pdsConfig.Log.Format}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := log.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := managers.BuildComponents(ctx, home, pdsConfig)
	if err != nil {
		logger.Fatal("Failed to initialize the service components", log.Error(err))
	}

	r := &runner{
		batches:    components.Batches,
		reconciler: components.Reconciler,
		importer:   components.Importer,
		datasets:   components.Datasets,
		out:        os.Stdout,
	}
	runErr := r.run(ctx, flag.Args())
	components.Close()

	if errors.Is(runErr, errUsage) {
		fmt.Fprintf(os.Stderr, "%v\n\n%s", runErr, usage)
		os.Exit(2)
	}
	if runErr != nil {
		logger.Error("Pipeline command failed", log.Error(runErr))
		os.Exit(1)
	}
}
