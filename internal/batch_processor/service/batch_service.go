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

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/wso2/plant-data-service/internal/batch_processor/model"
	contributionstore "github.com/wso2/plant-data-service/internal/contribution/store"
	ingestion "github.com/wso2/plant-data-service/internal/ingestion/service"
	"github.com/wso2/plant-data-service/internal/system/constants"
	"github.com/wso2/plant-data-service/internal/system/database/client"
	"github.com/wso2/plant-data-service/internal/system/database/lock"
	"github.com/wso2/plant-data-service/internal/system/errors"
	"github.com/wso2/plant-data-service/internal/system/log"
	"github.com/wso2/plant-data-service/internal/system/metrics"
)

type BatchServiceInterface interface {
	ProcessBatch(ctx context.Context, batchSize int) (*model.BatchResult, error)
}

// BatchService reprocesses queued contributions one at a time. Across processes only one batch
// runs at once; the advisory lock is taken for the duration of the batch.
type BatchService struct {
	db            client.DBClientInterface
	contributions contributionstore.ContributionStoreInterface
	ingestion     ingestion.IngestionServiceInterface
	lock          lock.DistributedLock
	metrics       *metrics.Metrics
	defaultSize   int
}

func NewBatchService(db client.DBClientInterface, contributions contributionstore.ContributionStoreInterface,
	ingestionService ingestion.IngestionServiceInterface, distributedLock lock.DistributedLock, m *metrics.Metrics,
	defaultSize int) *BatchService {

	if defaultSize <= 0 || defaultSize > model.MaxBatchSize {
		defaultSize = model.DefaultBatchSize
	}
	return &BatchService{
		db:            db,
		contributions: contributions,
		ingestion:     ingestionService,
		lock:          distributedLock,
		metrics:       m,
		defaultSize:   defaultSize,
	}
}

// ProcessBatch reprocesses up to batchSize contributions in status pending_review or error.
// Only a failure to read the queue fails the call; item failures are reported in the result.
func (s *BatchService) ProcessBatch(ctx context.Context, batchSize int) (*model.BatchResult, error) {

	if batchSize == 0 {
		batchSize = s.defaultSize
	}
	if batchSize < 0 || batchSize > model.MaxBatchSize {
		return nil, errors.NewValidationError(errors.INVALID_BATCH_SIZE,
			fmt.Sprintf("Batch size must be between 1 and %d.", model.MaxBatchSize))
	}

	acquired, err := s.lock.Acquire(ctx, constants.BatchProcessorLockKey)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, errors.NewConflictError(errors.BATCH_RUNNING)
	}
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx), constants.BatchProcessorLockKey); err != nil {
			log.GetLogger().Warn("Failed to release the batch lock", log.Error(err))
		}
	}()

	logger := log.FromContext(ctx)
	queue, err := s.contributions.GetQueue(ctx, s.db.Executor(), batchSize)
	if err != nil {
		logger.Error("Failed to read the processing queue", log.Error(err))
		return nil, errors.NewStoreError(errors.GET_BATCH_QUEUE, "Failed to read the processing queue.", err)
	}

	started := time.Now()
	result := &model.BatchResult{Results: make([]model.ItemResult, 0, len(queue))}
	for _, c := range queue {
		item := model.ItemResult{ID: c.ID, Status: model.ItemProcessed}
		if err := s.processItem(ctx, c.ID); err != nil {
			item.Status = model.ItemFailed
			item.Error = err.Error()
			result.Failed++
			if markErr := s.ingestion.MarkFailed(ctx, c.ID, err.Error()); markErr != nil {
				logger.Warn("Failed to mark the contribution as failed", log.ContributionID(c.ID), log.Error(markErr))
			}
		} else {
			result.Successful++
		}
		s.metrics.BatchItem(item.Status)
		result.Processed++
		result.Results = append(result.Results, item)
	}

	logger.Info("Batch processed", log.Int("processed", result.Processed), log.Int("successful", result.Successful),
		log.Int("failed", result.Failed), log.String("elapsed", time.Since(started).String()))
	logger.Audit(log.AuditEvent{
		InitiatorType: log.InitiatorTypeSystem,
		TargetType:    log.TargetTypeBatch,
		ActionID:      log.ActionProcessBatch,
		Data: map[string]any{
			"processed":  result.Processed,
			"successful": result.Successful,
			"failed":     result.Failed,
		},
	})
	return result, nil
}

// processItem runs one reprocess. A panic is reported as the item's error.
func (s *BatchService) processItem(ctx context.Context, contributionID string) (err error) {

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing: %v", r)
		}
	}()
	_, err = s.ingestion.Reprocess(ctx, contributionID)
	return err
}
