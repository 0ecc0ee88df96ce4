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

// Package servicetest provides a testify mock of the ingestion service.
package servicetest

import (
	"context"

	"github.com/stretchr/testify/mock"

	contribution "github.com/wso2/plant-data-service/internal/contribution/model"
	"github.com/wso2/plant-data-service/internal/ingestion/model"
	"github.com/wso2/plant-data-service/internal/ingestion/service"
)

var _ service.IngestionServiceInterface = (*MockIngestionService)(nil)

type MockIngestionService struct {
	mock.Mock
}

func (m *MockIngestionService) Ingest(ctx context.Context, req model.IngestRequest) (*model.IngestResult, error) {
	args := m.Called(ctx, req)
	result, _ := args.Get(0).(*model.IngestResult)
	return result, args.Error(1)
}

func (m *MockIngestionService) Reprocess(ctx context.Context, contributionID string) (*model.IngestResult, error) {
	args := m.Called(ctx, contributionID)
	if fn, ok := args.Get(0).(func(string) *model.IngestResult); ok {
		return fn(contributionID), args.Error(1)
	}
	result, _ := args.Get(0).(*model.IngestResult)
	return result, args.Error(1)
}

func (m *MockIngestionService) MarkFailed(ctx context.Context, contributionID, note string) error {
	return m.Called(ctx, contributionID, note).Error(0)
}

func (m *MockIngestionService) GetContribution(ctx context.Context,
	contributionID string) (*contribution.ContributionView, error) {
	args := m.Called(ctx, contributionID)
	view, _ := args.Get(0).(*contribution.ContributionView)
	return view, args.Error(1)
}

func (m *MockIngestionService) SearchContributions(ctx context.Context, query, ownerTag string,
	limit int) ([]contribution.ContributionView, error) {
	args := m.Called(ctx, query, ownerTag, limit)
	views, _ := args.Get(0).([]contribution.ContributionView)
	return views, args.Error(1)
}

func (m *MockIngestionService) MirrorToMemory(ctx context.Context, c *contribution.Contribution) error {
	return m.Called(ctx, c).Error(0)
}
