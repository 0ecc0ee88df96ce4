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
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/wso2/plant-data-service/internal/dataset/model"
	"github.com/wso2/plant-data-service/internal/dataset/store"
	"github.com/wso2/plant-data-service/internal/system/database/client"
	"github.com/wso2/plant-data-service/internal/system/errors"
	"github.com/wso2/plant-data-service/internal/system/log"
	"github.com/wso2/plant-data-service/internal/system/metrics"
)

const (
	trainThreshold      = 0.8
	validationThreshold = 0.9
)

// DatasetServiceInterface places contributions into dataset splits.
type DatasetServiceInterface interface {
	// EnsureDefaultDataset creates the default dataset when no active dataset exists and
	// returns the active dataset.
	EnsureDefaultDataset(ctx context.Context) (*model.Dataset, error)
	// Assign returns the dataset item of contributionID, creating it in the newest active
	// dataset when the contribution has none. q is usually the caller's transaction.
	Assign(ctx context.Context, q client.Executor, contributionID string) (*model.DatasetItem, error)
	// AssignTo is Assign with an explicit target dataset.
	AssignTo(ctx context.Context, q client.Executor, contributionID, datasetID string) (*model.DatasetItem, error)
	CreateDataset(ctx context.Context, name, description, source string) (*model.Dataset, error)
}

type DatasetService struct {
	db      client.DBClientInterface
	store   store.DatasetStoreInterface
	metrics *metrics.Metrics
	random  func() float64
}

// Option customises a DatasetService.
type Option func(*DatasetService)

// WithRandom replaces the uniform [0,1) source used to draw splits.
func WithRandom(random func() float64) Option {
	return func(s *DatasetService) {
		s.random = random
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *DatasetService) {
		s.metrics = m
	}
}

func NewDatasetService(db client.DBClientInterface, datasetStore store.DatasetStoreInterface,
	opts ...Option) *DatasetService {

	s := &DatasetService{
		db:     db,
		store:  datasetStore,
		random: rand.Float64,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SplitFor maps a draw r in [0,1) to a split: 80% train, 10% validation, 10% test in expectation.
func SplitFor(r float64) model.Split {
	switch {
	case r < trainThreshold:
		return model.SplitTrain
	case r < validationThreshold:
		return model.SplitValidation
	default:
		return model.SplitTest
	}
}

func (s *DatasetService) EnsureDefaultDataset(ctx context.Context) (*model.Dataset, error) {

	var dataset *model.Dataset
	created := false
	err := s.db.WithTx(ctx, func(tx client.Executor) error {
		if err := s.store.LockDefaultDataset(ctx, tx); err != nil {
			return err
		}
		active, err := s.store.GetActiveDataset(ctx, tx)
		if err != nil {
			return err
		}
		if active != nil {
			dataset = active
			return nil
		}
		dataset = &model.Dataset{
			ID:          uuid.New().String(),
			Name:        model.DefaultDatasetName,
			Description: "Created automatically for incoming contributions.",
			Source:      "user",
			Status:      model.StatusInProgress,
		}
		created = true
		return s.store.InsertDataset(ctx, tx, dataset)
	})
	if err != nil {
		errorMsg := "Failed to ensure the default dataset"
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, errors.NewStoreError(errors.ENSURE_DATASET, errorMsg, err)
	}
	if created {
		log.GetLogger().Info("Created default dataset", log.DatasetID(dataset.ID))
	}
	return dataset, nil
}

func (s *DatasetService) Assign(ctx context.Context, q client.Executor, contributionID string) (*model.DatasetItem, error) {
	return s.assign(ctx, q, contributionID, "")
}

func (s *DatasetService) AssignTo(ctx context.Context, q client.Executor, contributionID,
	datasetID string) (*model.DatasetItem, error) {

	if datasetID == "" {
		return nil, errors.NewValidationError(errors.BAD_REQUEST, "Dataset id is required.")
	}
	return s.assign(ctx, q, contributionID, datasetID)
}

// assign targets datasetID, or the active dataset when it is empty.
func (s *DatasetService) assign(ctx context.Context, q client.Executor, contributionID,
	datasetID string) (*model.DatasetItem, error) {

	logger := log.FromContext(ctx)
	if q == nil {
		q = s.db.Executor()
	}

	existing, err := s.store.GetItem(ctx, q, contributionID)
	if err != nil {
		return nil, s.assignError(contributionID, err)
	}
	if existing != nil {
		return existing, nil
	}

	var dataset *model.Dataset
	if datasetID == "" {
		dataset, err = s.store.GetActiveDataset(ctx, q)
	} else {
		dataset, err = s.store.GetDataset(ctx, q, datasetID)
	}
	if err != nil {
		return nil, s.assignError(contributionID, err)
	}
	if dataset == nil && datasetID != "" {
		return nil, errors.NewNotFoundError(errors.DATASET_NOT_FOUND, fmt.Sprintf("Dataset %s does not exist.", datasetID))
	}
	if dataset == nil {
		return nil, errors.NewNotFoundError(errors.DATASET_NOT_FOUND,
			"No dataset with status in_progress or ready exists.")
	}

	item := model.DatasetItem{
		ID:             uuid.New().String(),
		DatasetID:      dataset.ID,
		ContributionID: contributionID,
		Split:          SplitFor(s.random()),
	}
	inserted, err := s.store.InsertItem(ctx, q, item)
	if err != nil {
		return nil, s.assignError(contributionID, err)
	}
	if !inserted {
		// A concurrent caller won. Its row is the assignment.
		winner, err := s.store.GetItem(ctx, q, contributionID)
		if err != nil {
			return nil, s.assignError(contributionID, err)
		}
		if winner == nil {
			return nil, s.assignError(contributionID, fmt.Errorf("dataset item vanished after conflict"))
		}
		return winner, nil
	}

	s.metrics.SplitAssigned(string(item.Split))
	logger.Debug("Assigned contribution to dataset", log.ContributionID(contributionID),
		log.DatasetID(dataset.ID), log.String("split", string(item.Split)))
	return &item, nil
}

func (s *DatasetService) CreateDataset(ctx context.Context, name, description, source string) (*model.Dataset, error) {

	if name == "" {
		return nil, errors.NewValidationError(errors.BAD_REQUEST, "Dataset name is required.")
	}
	dataset := &model.Dataset{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		Source:      source,
		Status:      model.StatusInProgress,
	}
	if err := s.store.InsertDataset(ctx, s.db.Executor(), dataset); err != nil {
		errorMsg := fmt.Sprintf("Failed to create dataset: %s", name)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, errors.NewStoreError(errors.ENSURE_DATASET, errorMsg, err)
	}
	return dataset, nil
}

func (s *DatasetService) assignError(contributionID string, err error) error {
	errorMsg := fmt.Sprintf("Failed to assign contribution %s to a dataset", contributionID)
	log.GetLogger().Debug(errorMsg, log.Error(err))
	return errors.NewStoreError(errors.ASSIGN_DATASET, errorMsg, err)
}
