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

	"github.com/stretchr/testify/mock"

	contributionstore "github.com/wso2/plant-data-service/internal/contribution/store"
	"github.com/wso2/plant-data-service/internal/contribution/store/storetest"
	dataset "github.com/wso2/plant-data-service/internal/dataset/model"
	"github.com/wso2/plant-data-service/internal/imaging"
	"github.com/wso2/plant-data-service/internal/system/database/client"
)

type MockContributionStore = storetest.MockContributionStore

type MockDatasetService struct {
	mock.Mock
}

func (m *MockDatasetService) EnsureDefaultDataset(ctx context.Context) (*dataset.Dataset, error) {
	args := m.Called(ctx)
	d, _ := args.Get(0).(*dataset.Dataset)
	return d, args.Error(1)
}

func (m *MockDatasetService) Assign(ctx context.Context, q client.Executor, contributionID string) (*dataset.DatasetItem, error) {
	args := m.Called(ctx, q, contributionID)
	item, _ := args.Get(0).(*dataset.DatasetItem)
	return item, args.Error(1)
}

func (m *MockDatasetService) AssignTo(ctx context.Context, q client.Executor, contributionID,
	datasetID string) (*dataset.DatasetItem, error) {
	args := m.Called(ctx, q, contributionID, datasetID)
	item, _ := args.Get(0).(*dataset.DatasetItem)
	return item, args.Error(1)
}

func (m *MockDatasetService) CreateDataset(ctx context.Context, name, description, source string) (*dataset.Dataset, error) {
	args := m.Called(ctx, name, description, source)
	d, _ := args.Get(0).(*dataset.Dataset)
	return d, args.Error(1)
}

// fakeProcessor passes bytes through and returns canned features.
type fakeProcessor struct {
	features   *imaging.Features
	extractErr error
}

func (p *fakeProcessor) Standardize(raw []byte) (*imaging.StandardizedImage, error) {
	return &imaging.StandardizedImage{Data: raw, Width: 40, Height: 20}, nil
}

func (p *fakeProcessor) ExtractFeatures(ctx context.Context, img *imaging.StandardizedImage) (*imaging.Features, error) {
	if p.extractErr != nil {
		return nil, p.extractErr
	}
	return p.features, nil
}

// fakeStandardizer returns fixed standardized bytes and healthy features.
type fakeStandardizer struct {
	data []byte
}

func (p *fakeStandardizer) Standardize(raw []byte) (*imaging.StandardizedImage, error) {
	return &imaging.StandardizedImage{Data: p.data, Width: 40, Height: 20}, nil
}

func (p *fakeStandardizer) ExtractFeatures(ctx context.Context, img *imaging.StandardizedImage) (*imaging.Features, error) {
	return &imaging.Features{Dimensions: imaging.Dimensions{Width: 40, Height: 20, AspectRatio: 2}}, nil
}

func errContributionMissing() error {
	return contributionstore.ErrContributionMissing
}
