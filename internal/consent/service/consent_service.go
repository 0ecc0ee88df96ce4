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

	"github.com/google/uuid"

	"github.com/wso2/plant-data-service/internal/consent/model"
	"github.com/wso2/plant-data-service/internal/consent/policy"
	"github.com/wso2/plant-data-service/internal/consent/store"
	"github.com/wso2/plant-data-service/internal/system/cache"
	"github.com/wso2/plant-data-service/internal/system/database/client"
	"github.com/wso2/plant-data-service/internal/system/errors"
	"github.com/wso2/plant-data-service/internal/system/log"
	"github.com/wso2/plant-data-service/internal/system/pagination"
)

// ConsentServiceInterface exposes consent reads, audited consent updates and the audit log.
type ConsentServiceInterface interface {
	GetConsent(ctx context.Context, userID string) (*model.ConsentSettings, error)
	// GetCurrentConsent reads the stored consent bypassing the cache. Write paths gate on it.
	GetCurrentConsent(ctx context.Context, userID string) (*model.ConsentSettings, error)
	UpdateConsent(ctx context.Context, userID string, settings model.ConsentSettings,
		meta model.RequestMeta) (*model.ConsentSettings, error)
	GetAuditLog(ctx context.Context, userID string, limit int) ([]model.AuditEntry, error)
	// InvalidateConsent drops any cached consent of the user.
	InvalidateConsent(userID string)
}

// ConsentService is the default implementation of ConsentServiceInterface.
type ConsentService struct {
	db    client.DBClientInterface
	store store.ConsentStoreInterface
	cache *cache.Cache[model.ConsentSettings]
}

func NewConsentService(db client.DBClientInterface, consentStore store.ConsentStoreInterface,
	cacheTTL time.Duration) *ConsentService {

	return &ConsentService{
		db:    db,
		store: consentStore,
		cache: cache.NewCache[model.ConsentSettings](cacheTTL),
	}
}

// GetConsent returns the stored consent of userID or the defaults when none was stored. The
// result may be cached for the configured ttl.
func (s *ConsentService) GetConsent(ctx context.Context, userID string) (*model.ConsentSettings, error) {

	if userID == "" {
		return nil, errors.NewValidationError(errors.INVALID_CONSENT, "User id is required.")
	}
	if cached, ok := s.cache.Get(userID); ok {
		return &cached, nil
	}

	generation := s.cache.Generation(userID)
	consent, err := s.loadConsent(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.SetIfGeneration(userID, *consent, generation)
	return consent, nil
}

// GetCurrentConsent returns the committed consent of userID without consulting the cache.
func (s *ConsentService) GetCurrentConsent(ctx context.Context, userID string) (*model.ConsentSettings, error) {

	if userID == "" {
		return nil, errors.NewValidationError(errors.INVALID_CONSENT, "User id is required.")
	}
	return s.loadConsent(ctx, userID)
}

func (s *ConsentService) loadConsent(ctx context.Context, userID string) (*model.ConsentSettings, error) {

	consent, err := s.store.GetConsent(ctx, s.db.Executor(), userID, false)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch consent of user: %s", userID)
		log.FromContext(ctx).Debug(errorMsg, log.Error(err))
		return nil, errors.NewStoreError(errors.GET_CONSENT, errorMsg, err)
	}
	if consent == nil {
		defaults := policy.DefaultConsent()
		defaults.UserID = userID
		consent = &defaults
	}
	return consent, nil
}

// UpdateConsent stores settings and the audit entries that describe the change in one
// transaction.
func (s *ConsentService) UpdateConsent(ctx context.Context, userID string, settings model.ConsentSettings,
	meta model.RequestMeta) (*model.ConsentSettings, error) {

	logger := log.FromContext(ctx)
	if userID == "" {
		return nil, errors.NewValidationError(errors.INVALID_CONSENT, "User id is required.")
	}
	if !settings.BasicIdentification {
		return nil, errors.NewValidationError(errors.INVALID_CONSENT,
			"Basic identification consent is required and cannot be revoked.")
	}

	var stored *model.ConsentSettings
	var entries []model.AuditEntry
	err := s.db.WithTx(ctx, func(tx client.Executor) error {
		previous, err := s.store.GetConsent(ctx, tx, userID, true)
		if err != nil {
			return err
		}

		settings.UserID = userID
		if previous != nil {
			settings.ID = previous.ID
		} else {
			settings.ID = uuid.New().String()
		}
		stored, err = s.store.UpsertConsent(ctx, tx, settings)
		if err != nil {
			return err
		}

		entries = policy.Diff(previous, *stored, userID, stored.ID, meta)
		return s.store.InsertAuditEntries(ctx, tx, entries)
	})
	s.cache.Delete(userID)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to update consent of user: %s", userID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors.NewStoreError(errors.UPDATE_CONSENT, errorMsg, err)
	}

	logger.Audit(log.AuditEvent{
		InitiatorID:   userID,
		InitiatorType: log.InitiatorTypeUser,
		TargetID:      stored.ID,
		TargetType:    log.TargetTypeConsent,
		ActionID:      log.ActionUpdateConsent,
		Data:          map[string]any{"changes": len(entries)},
	})
	return stored, nil
}

// GetAuditLog returns the audit entries of userID, newest first.
func (s *ConsentService) GetAuditLog(ctx context.Context, userID string, limit int) ([]model.AuditEntry, error) {

	entries, err := s.store.GetAuditLog(ctx, s.db.Executor(), userID, pagination.Clamp(limit))
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch consent audit log of user: %s", userID)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, errors.NewStoreError(errors.GET_AUDIT_LOG, errorMsg, err)
	}
	return entries, nil
}

func (s *ConsentService) InvalidateConsent(userID string) {
	s.cache.Delete(userID)
}
