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

// Package storetest provides a testify mock of the consent store.
package storetest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/wso2/plant-data-service/internal/consent/model"
	"github.com/wso2/plant-data-service/internal/consent/store"
	"github.com/wso2/plant-data-service/internal/system/database/client"
)

var _ store.ConsentStoreInterface = (*MockConsentStore)(nil)

type MockConsentStore struct {
	mock.Mock
}

func (m *MockConsentStore) GetConsent(ctx context.Context, q client.Executor, userID string,
	forUpdate bool) (*model.ConsentSettings, error) {
	args := m.Called(ctx, q, userID, forUpdate)
	consent, _ := args.Get(0).(*model.ConsentSettings)
	return consent, args.Error(1)
}

func (m *MockConsentStore) UpsertConsent(ctx context.Context, q client.Executor,
	settings model.ConsentSettings) (*model.ConsentSettings, error) {
	args := m.Called(ctx, q, settings)
	if fn, ok := args.Get(0).(func(model.ConsentSettings) *model.ConsentSettings); ok {
		return fn(settings), args.Error(1)
	}
	consent, _ := args.Get(0).(*model.ConsentSettings)
	return consent, args.Error(1)
}

func (m *MockConsentStore) InsertAuditEntries(ctx context.Context, q client.Executor, entries []model.AuditEntry) error {
	return m.Called(ctx, q, entries).Error(0)
}

func (m *MockConsentStore) GetAuditLog(ctx context.Context, q client.Executor, userID string,
	limit int) ([]model.AuditEntry, error) {
	args := m.Called(ctx, q, userID, limit)
	entries, _ := args.Get(0).([]model.AuditEntry)
	return entries, args.Error(1)
}

func (m *MockConsentStore) DeleteAuditLog(ctx context.Context, q client.Executor, userID string) (int64, error) {
	args := m.Called(ctx, q, userID)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockConsentStore) DeleteConsent(ctx context.Context, q client.Executor, userID string) (int64, error) {
	args := m.Called(ctx, q, userID)
	return int64(args.Int(0)), args.Error(1)
}
