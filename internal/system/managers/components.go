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

package managers

import (
	"context"
	"time"

	"github.com/pkg/errors"

	batchservice "github.com/wso2/plant-data-service/internal/batch_processor/service"
	"github.com/wso2/plant-data-service/internal/blob_store"
	consentservice "github.com/wso2/plant-data-service/internal/consent/service"
	consentstore "github.com/wso2/plant-data-service/internal/consent/store"
	contributionstore "github.com/wso2/plant-data-service/internal/contribution/store"
	datasetservice "github.com/wso2/plant-data-service/internal/dataset/service"
	datasetstore "github.com/wso2/plant-data-service/internal/dataset/store"
	deletionservice "github.com/wso2/plant-data-service/internal/deletion/service"
	deletionstore "github.com/wso2/plant-data-service/internal/deletion/store"
	"github.com/wso2/plant-data-service/internal/external_import"
	healthservice "github.com/wso2/plant-data-service/internal/health_check/service"
	"github.com/wso2/plant-data-service/internal/imaging"
	ingestionservice "github.com/wso2/plant-data-service/internal/ingestion/service"
	labelingservice "github.com/wso2/plant-data-service/internal/labeling/service"
	labelingstore "github.com/wso2/plant-data-service/internal/labeling/store"
	"github.com/wso2/plant-data-service/internal/memory_store"
	"github.com/wso2/plant-data-service/internal/system/config"
	"github.com/wso2/plant-data-service/internal/system/database/client"
	"github.com/wso2/plant-data-service/internal/system/database/lock"
	"github.com/wso2/plant-data-service/internal/system/database/provider"
	"github.com/wso2/plant-data-service/internal/system/log"
	"github.com/wso2/plant-data-service/internal/system/metrics"
	"github.com/wso2/plant-data-service/internal/system/workers"
	usageservice "github.com/wso2/plant-data-service/internal/usage_stats/service"
	usagestore "github.com/wso2/plant-data-service/internal/usage_stats/store"
)

// Components is the fully wired service graph shared by the HTTP server and the pipeline CLI.
type Components struct {
	DB      client.DBClientInterface
	Memory  *memory_store.MongoStore
	Blobs   blob_store.BlobStore
	Metrics *metrics.Metrics

	Consents   consentservice.ConsentServiceInterface
	Datasets   datasetservice.DatasetServiceInterface
	Ingestion  ingestionservice.IngestionServiceInterface
	Labeling   labelingservice.LabelingServiceInterface
	Usage      usageservice.UsageStatsServiceInterface
	Deletion   deletionservice.DeletionServiceInterface
	Batches    batchservice.BatchServiceInterface
	Reconciler workers.MemoryReconcilerInterface
	Importer   *external_import.Importer
	Health     healthservice.HealthCheckServiceInterface
}

// BuildComponents opens the stores named in cfg and wires every service on top of them.
// The schema file is applied first when cfg.DataSource.Schema is set.
func BuildComponents(ctx context.Context, pdsHome string, cfg *config.Config) (*Components, error) {

	logger := log.GetLogger()

	db, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open the relational store")
	}
	if cfg.DataSource.Schema != "" {
		if err := db.InitDatabase(pdsHome, cfg.DataSource.Schema); err != nil {
			return nil, err
		}
	}

	memory, err := memory_store.Connect(ctx, cfg.MemoryStore)
	if err != nil {
		return nil, err
	}

	blobs, err := blob_store.NewBlobStore(cfg.BlobStore)
	if err != nil {
		_ = memory.Close(context.Background())
		return nil, err
	}

	m := metrics.New()
	contributions := contributionstore.NewContributionStore()
	consentStore := consentstore.NewConsentStore()

	consents := consentservice.NewConsentService(db, consentStore, cfg.Pipeline.ConsentCacheDuration())
	datasets := datasetservice.NewDatasetService(db, datasetstore.NewDatasetStore(), datasetservice.WithMetrics(m))
	processor := imaging.NewProcessor(cfg.Pipeline.MaxEdge, cfg.Pipeline.JPEGQuality)
	ingestion := ingestionservice.NewIngestionService(db, contributions, datasets, blobs, memory, processor, m)
	appLock := lock.NewPostgresLock(db)

	components := &Components{
		DB:         db,
		Memory:     memory,
		Blobs:      blobs,
		Metrics:    m,
		Consents:   consents,
		Datasets:   datasets,
		Ingestion:  ingestion,
		Labeling:   labelingservice.NewLabelingService(db, labelingstore.NewLabelingStore(), contributions, memory),
		Usage:      usageservice.NewUsageStatsService(db, usagestore.NewUsageStatsStore()),
		Deletion:   deletionservice.NewDeletionService(db, deletionstore.NewDeletionStore(), consentStore, consents, blobs, memory, m),
		Batches:    batchservice.NewBatchService(db, contributions, ingestion, appLock, m, cfg.Pipeline.BatchSize),
		Reconciler: workers.NewMemoryReconciler(db, contributions, ingestion, appLock),
		Importer:   external_import.NewImporter(ingestion, datasets),
		Health:     healthservice.NewHealthCheckService(db, memory),
	}

	if _, err := datasets.EnsureDefaultDataset(ctx); err != nil {
		components.Close()
		return nil, err
	}
	logger.Info("Plant data service components initialized",
		log.String("blobStore", cfg.BlobStore.Type), log.String("memoryDatabase", cfg.MemoryStore.Database))
	return components, nil
}

// Close releases the memory store client and the database pool.
func (c *Components) Close() {

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if c.Memory != nil {
		if err := c.Memory.Close(ctx); err != nil {
			log.GetLogger().Warn("Failed to close the memory store", log.Error(err))
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.GetLogger().Warn("Failed to close the database", log.Error(err))
		}
	}
}
