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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wso2/plant-data-service/internal/system/database/client"
	"github.com/wso2/plant-data-service/internal/system/database/dbtest"
	"github.com/wso2/plant-data-service/internal/system/log"
	"github.com/wso2/plant-data-service/internal/usage_stats/model"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	m.Run()
}

type MockUsageStatsStore struct {
	mock.Mock
}

func (m *MockUsageStatsStore) CountContributionsByStatus(ctx context.Context, q client.Executor,
	userID string) (map[string]int, error) {
	args := m.Called(ctx, q, userID)
	counts, _ := args.Get(0).(map[string]int)
	return counts, args.Error(1)
}

func (m *MockUsageStatsStore) CountDatasetItemsBySplit(ctx context.Context, q client.Executor,
	userID string) (map[string]int, error) {
	args := m.Called(ctx, q, userID)
	counts, _ := args.Get(0).(map[string]int)
	return counts, args.Error(1)
}

func (m *MockUsageStatsStore) GetModelVersions(ctx context.Context, q client.Executor,
	userID string) ([]model.ModelDetail, error) {
	args := m.Called(ctx, q, userID)
	details, _ := args.Get(0).([]model.ModelDetail)
	return details, args.Error(1)
}

func TestGetUsageStats_Aggregates(t *testing.T) {

	mockStore := new(MockUsageStatsStore)
	mockStore.On("CountContributionsByStatus", mock.Anything, mock.Anything, "user-1").
		Return(map[string]int{"approved": 2, "pending_review": 3, "rejected": 1, "error": 1}, nil)
	mockStore.On("CountDatasetItemsBySplit", mock.Anything, mock.Anything, "user-1").
		Return(map[string]int{"train": 4, "validation": 1}, nil)
	mockStore.On("GetModelVersions", mock.Anything, mock.Anything, "user-1").
		Return([]model.ModelDetail{{Name: "leafnet", Version: "1.0", Status: "deployed"}}, nil)

	stats, err := NewUsageStatsService(dbtest.NewFakeDBClient(), mockStore).GetUsageStats(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, 7, stats.TotalContributions)
	assert.Equal(t, 2, stats.ApprovedContributions)
	assert.Equal(t, 3, stats.PendingContributions)
	assert.Equal(t, 1, stats.RejectedContributions)
	assert.Equal(t, 1, stats.ErrorContributions)
	assert.Equal(t, model.DatasetUsage{Training: 4, Validation: 1, Testing: 0}, stats.DatasetUsage)
	assert.Equal(t, 1, stats.ModelUsage)
	assert.Empty(t, stats.Degraded)
}

func TestGetUsageStats_DegradesPerSection(t *testing.T) {

	mockStore := new(MockUsageStatsStore)
	mockStore.On("CountContributionsByStatus", mock.Anything, mock.Anything, "user-1").
		Return(map[string]int{"approved": 1}, nil)
	mockStore.On("CountDatasetItemsBySplit", mock.Anything, mock.Anything, "user-1").
		Return(nil, errors.New("timeout"))
	mockStore.On("GetModelVersions", mock.Anything, mock.Anything, "user-1").
		Return(nil, errors.New("timeout"))

	stats, err := NewUsageStatsService(dbtest.NewFakeDBClient(), mockStore).GetUsageStats(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalContributions)
	assert.Equal(t, model.DatasetUsage{}, stats.DatasetUsage)
	assert.Equal(t, 0, stats.ModelUsage)
	assert.NotNil(t, stats.ModelDetails)
	assert.Equal(t, []string{model.SectionDatasetUsage, model.SectionModelUsage}, stats.Degraded)
}
