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

package workers

import (
	"context"

	contributionstore "github.com/wso2/plant-data-service/internal/contribution/store"
	ingestion "github.com/wso2/plant-data-service/internal/ingestion/service"
	"github.com/wso2/plant-data-service/internal/system/constants"
	"github.com/wso2/plant-data-service/internal/system/database/client"
	"github.com/wso2/plant-data-service/internal/system/database/lock"
	"github.com/wso2/plant-data-service/internal/system/errors"
	"github.com/wso2/plant-data-service/internal/system/log"
	"github.com/wso2/plant-data-service/internal/system/pagination"
)

// ReconcileReport counts the contributions a reconciliation run looked at.
type ReconcileReport struct {
	Scanned  int `json:"scanned"`
	Repaired int `json:"repaired"`
	Failed   int `json:"failed"`
}

type MemoryReconcilerInterface interface {
	ReconcileMemoryMirrors(ctx context.Context, limit int) (*ReconcileReport, error)
}

// MemoryReconciler mirrors contributions whose memory record was never created. It runs on
// demand, from the pipeline CLI or the admin endpoint.
type MemoryReconciler struct {
	db            client.DBClientInterface
	contributions contributionstore.ContributionStoreInterface
	ingestion     ingestion.IngestionServiceInterface
	lock          lock.DistributedLock
}

func NewMemoryReconciler(db client.DBClientInterface, contributions contributionstore.ContributionStoreInterface,
	ingestionService ingestion.IngestionServiceInterface, distributedLock lock.DistributedLock) *MemoryReconciler {

	return &MemoryReconciler{
		db:            db,
		contributions: contributions,
		ingestion:     ingestionService,
		lock:          distributedLock,
	}
}

func (r *MemoryReconciler) ReconcileMemoryMirrors(ctx context.Context, limit int) (*ReconcileReport, error) {

	acquired, err := r.lock.Acquire(ctx, constants.MemoryReconcilerLockKey)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, errors.NewConflictError(errors.RECONCILE_RUNNING)
	}
	defer func() {
		if err := r.lock.Release(context.WithoutCancel(ctx), constants.MemoryReconcilerLockKey); err != nil {
			log.GetLogger().Warn("Failed to release the reconciler lock", log.Error(err))
		}
	}()

	logger := log.GetLogger()
	pending, err := r.contributions.GetWithoutMemory(ctx, r.db.Executor(), pagination.Clamp(limit))
	if err != nil {
		return nil, errors.NewStoreError(errors.GET_BATCH_QUEUE, "Failed to read unmirrored contributions.", err)
	}

	report := &ReconcileReport{Scanned: len(pending)}
	for i := range pending {
		c := &pending[i]
		if err := r.ingestion.MirrorToMemory(ctx, c); err != nil {
			logger.Warn("Memory mirror still failing", log.ContributionID(c.ID), log.Error(err))
			report.Failed++
			continue
		}
		report.Repaired++
	}

	logger.Audit(log.AuditEvent{
		InitiatorType: log.InitiatorTypeSystem,
		TargetType:    log.TargetTypeContribution,
		ActionID:      log.ActionReconcileMemory,
		Data:          map[string]any{"scanned": report.Scanned, "repaired": report.Repaired, "failed": report.Failed},
	})
	return report, nil
}
