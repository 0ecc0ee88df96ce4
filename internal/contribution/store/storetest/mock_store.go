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

// Package storetest provides a testify mock of the contribution store.
package storetest

import (
	"context"

	"github.com/stretchr/testify/mock"

	contribution "github.com/wso2/plant-data-service/internal/contribution/model"
	contributionstore "github.com/wso2/plant-data-service/internal/contribution/store"
	"github.com/wso2/plant-data-service/internal/system/database/client"
)

var _ contributionstore.ContributionStoreInterface = (*MockContributionStore)(nil)

type MockContributionStore struct {
	mock.Mock
}

func (m *MockContributionStore) InsertContribution(ctx context.Context, q client.Executor, c *contribution.Contribution) error {
	return m.Called(ctx, q, c).Error(0)
}

func (m *MockContributionStore) GetContribution(ctx context.Context, q client.Executor, id string,
	forUpdate bool) (*contribution.Contribution, error) {
	args := m.Called(ctx, q, id, forUpdate)
	c, _ := args.Get(0).(*contribution.Contribution)
	return c, args.Error(1)
}

func (m *MockContributionStore) GetContributionsByMemoryIDs(ctx context.Context, q client.Executor,
	memoryIDs []string) ([]contribution.Contribution, error) {
	args := m.Called(ctx, q, memoryIDs)
	rows, _ := args.Get(0).([]contribution.Contribution)
	return rows, args.Error(1)
}

func (m *MockContributionStore) GetQueue(ctx context.Context, q client.Executor, limit int) ([]contribution.Contribution, error) {
	args := m.Called(ctx, q, limit)
	rows, _ := args.Get(0).([]contribution.Contribution)
	return rows, args.Error(1)
}

func (m *MockContributionStore) GetWithoutMemory(ctx context.Context, q client.Executor,
	limit int) ([]contribution.Contribution, error) {
	args := m.Called(ctx, q, limit)
	rows, _ := args.Get(0).([]contribution.Contribution)
	return rows, args.Error(1)
}

func (m *MockContributionStore) SetMemoryID(ctx context.Context, q client.Executor, id, memoryID string) error {
	return m.Called(ctx, q, id, memoryID).Error(0)
}

func (m *MockContributionStore) SetStatus(ctx context.Context, q client.Executor, id string, status contribution.Status) error {
	return m.Called(ctx, q, id, status).Error(0)
}

func (m *MockContributionStore) MarkError(ctx context.Context, q client.Executor, id, note string) error {
	return m.Called(ctx, q, id, note).Error(0)
}

func (m *MockContributionStore) ReplaceFeatures(ctx context.Context, q client.Executor, contributionID string,
	features []contribution.Feature) error {
	return m.Called(ctx, q, contributionID, features).Error(0)
}

func (m *MockContributionStore) GetFeatures(ctx context.Context, q client.Executor,
	contributionID string) ([]contribution.Feature, error) {
	args := m.Called(ctx, q, contributionID)
	rows, _ := args.Get(0).([]contribution.Feature)
	return rows, args.Error(1)
}

func (m *MockContributionStore) InsertImageMetadata(ctx context.Context, q client.Executor,
	metadata contribution.ImageMetadata) error {
	return m.Called(ctx, q, metadata).Error(0)
}

func (m *MockContributionStore) GetAnnotations(ctx context.Context, q client.Executor,
	contributionID string) ([]contribution.Annotation, error) {
	args := m.Called(ctx, q, contributionID)
	rows, _ := args.Get(0).([]contribution.Annotation)
	return rows, args.Error(1)
}
