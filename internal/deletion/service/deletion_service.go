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

	consentservice "github.com/wso2/plant-data-service/internal/consent/service"
	consentstore "github.com/wso2/plant-data-service/internal/consent/store"
	contribution "github.com/wso2/plant-data-service/internal/contribution/model"
	"github.com/wso2/plant-data-service/internal/blob_store"
	"github.com/wso2/plant-data-service/internal/deletion/model"
	"github.com/wso2/plant-data-service/internal/deletion/store"
	"github.com/wso2/plant-data-service/internal/memory_store"
	"github.com/wso2/plant-data-service/internal/system/constants"
	"github.com/wso2/plant-data-service/internal/system/database/client"
	"github.com/wso2/plant-data-service/internal/system/errors"
	"github.com/wso2/plant-data-service/internal/system/log"
	"github.com/wso2/plant-data-service/internal/system/metrics"
)

type DeletionServiceInterface interface {
	DeleteUserData(ctx context.Context, userID string) (*model.DeletionReport, error)
}

type DeletionService struct {
	db       client.DBClientInterface
	store    store.DeletionStoreInterface
	consent  consentstore.ConsentStoreInterface
	consents consentservice.ConsentServiceInterface
	blobs    blob_store.BlobStore
	memory   memory_store.MemoryStore
	metrics  *metrics.Metrics
}

func NewDeletionService(db client.DBClientInterface, deletionStore store.DeletionStoreInterface,
	consentStore consentstore.ConsentStoreInterface, consents consentservice.ConsentServiceInterface,
	blobs blob_store.BlobStore, memory memory_store.MemoryStore, m *metrics.Metrics) *DeletionService {

	return &DeletionService{
		db:       db,
		store:    deletionStore,
		consent:  consentStore,
		consents: consents,
		blobs:    blobs,
		memory:   memory,
		metrics:  m,
	}
}

// DeleteUserData removes every relational row of the user in one transaction, then deletes the
// images and memory records of the removed contributions. Those secondary deletions are attempted
// once; failures are counted in the report.
func (s *DeletionService) DeleteUserData(ctx context.Context, userID string) (*model.DeletionReport, error) {

	if userID == "" {
		return nil, errors.NewValidationError(errors.BAD_REQUEST, "User id is required.")
	}
	logger := log.FromContext(ctx).With(log.UserID(userID))

	report := &model.DeletionReport{UserID: userID, Deleted: map[model.RowKind]int64{}}
	var refs []contribution.ContributionRef
	err := s.db.WithTx(ctx, func(tx client.Executor) error {
		var err error
		refs, err = s.store.LockUserContributions(ctx, tx, userID)
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(refs))
		for _, ref := range refs {
			ids = append(ids, ref.ID)
		}

		for _, kind := range append(model.DependentRows, model.RowsContributions) {
			n, err := s.store.DeleteRows(ctx, tx, kind, ids)
			if err != nil {
				return err
			}
			report.Deleted[kind] = n
		}
		if report.Deleted[model.RowsAuditEntries], err = s.consent.DeleteAuditLog(ctx, tx, userID); err != nil {
			return err
		}
		report.Deleted[model.RowsConsent], err = s.consent.DeleteConsent(ctx, tx, userID)
		return err
	})
	if err != nil {
		logger.Error("User data deletion rolled back", log.Error(err))
		return nil, errors.NewStoreError(errors.DELETE_USER_DATA, "Failed to delete the user's data.", err)
	}
	s.consents.InvalidateConsent(userID)
	logger.Debug("User rows deleted", log.Int64("contributions", report.Deleted[model.RowsContributions]),
		log.Int64("auditEntries", report.Deleted[model.RowsAuditEntries]))

	for _, ref := range refs {
		s.cleanup(ctx, ref, report)
	}
	if report.CleanupFailures > 0 {
		s.metrics.CleanupFailed(report.CleanupFailures)
		logger.Warn("Some secondary data could not be deleted", log.Int("failures", report.CleanupFailures))
	}

	logger.Audit(log.AuditEvent{
		InitiatorID:   userID,
		InitiatorType: log.InitiatorTypeUser,
		TargetID:      userID,
		TargetType:    log.TargetTypeUserData,
		ActionID:      log.ActionDeleteUserData,
		Data: map[string]any{
			"contributions":    report.Deleted[model.RowsContributions],
			"cleanup_failures": report.CleanupFailures,
		},
	})
	return report, nil
}

func (s *DeletionService) cleanup(ctx context.Context, ref contribution.ContributionRef, report *model.DeletionReport) {

	fail := func(target string, err error) {
		log.GetLogger().Warn("Cleanup failed", log.ContributionID(ref.ID), log.String("target", target), log.Error(err))
		report.CleanupFailures++
		report.Failures = append(report.Failures, model.CleanupFailure{
			ContributionID: ref.ID,
			Target:         target,
			Error:          err.Error(),
		})
	}

	blobs := []struct {
		target, bucket, key string
	}{
		{model.TargetRawImage, constants.RawImageBucket, ref.ImagePath},
		{model.TargetProcessedImage, constants.ProcessedImageBucket, ref.ProcessedPath},
	}
	for _, b := range blobs {
		if b.key == "" {
			continue
		}
		if err := s.blobs.Delete(ctx, b.bucket, b.key); err != nil {
			fail(b.target, err)
			continue
		}
		report.BlobsDeleted++
	}

	if ref.MemoryID == nil {
		return
	}
	if err := s.memory.Delete(ctx, *ref.MemoryID); err != nil {
		fail(model.TargetMemoryRecord, err)
		return
	}
	report.MemoryRecordsDeleted++
}
