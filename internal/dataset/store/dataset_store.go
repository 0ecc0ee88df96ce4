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

package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/wso2/plant-data-service/internal/dataset/model"
	"github.com/wso2/plant-data-service/internal/system/database/client"
	"github.com/wso2/plant-data-service/internal/system/database/scripts"
)

const dialect = "postgres"

type DatasetStoreInterface interface {
	// GetActiveDataset returns the newest in_progress or ready dataset, or nil.
	GetActiveDataset(ctx context.Context, q client.Executor) (*model.Dataset, error)
	GetDataset(ctx context.Context, q client.Executor, id string) (*model.Dataset, error)
	InsertDataset(ctx context.Context, q client.Executor, dataset *model.Dataset) error
	LockDefaultDataset(ctx context.Context, q client.Executor) error
	// GetItem returns the dataset item of the contribution, or nil.
	GetItem(ctx context.Context, q client.Executor, contributionID string) (*model.DatasetItem, error)
	// InsertItem inserts item unless the contribution already has one. It reports whether a row was written.
	InsertItem(ctx context.Context, q client.Executor, item model.DatasetItem) (bool, error)
}

type DatasetStore struct{}

func NewDatasetStore() *DatasetStore {
	return &DatasetStore{}
}

func (s *DatasetStore) GetActiveDataset(ctx context.Context, q client.Executor) (*model.Dataset, error) {

	d, err := scanDataset(q.QueryRowContext(ctx, scripts.GetActiveDataset[dialect]))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return d, errors.Wrap(err, "failed to read the active dataset")
}

func (s *DatasetStore) GetDataset(ctx context.Context, q client.Executor, id string) (*model.Dataset, error) {

	d, err := scanDataset(q.QueryRowContext(ctx, scripts.GetDatasetById[dialect], id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return d, errors.Wrapf(err, "failed to read dataset %s", id)
}

func (s *DatasetStore) InsertDataset(ctx context.Context, q client.Executor, dataset *model.Dataset) error {

	err := q.QueryRowContext(ctx, scripts.InsertDataset[dialect], dataset.ID, dataset.Name, dataset.Description,
		dataset.Source, string(dataset.Status)).Scan(&dataset.CreatedAt)
	return errors.Wrapf(err, "failed to insert dataset %s", dataset.Name)
}

func (s *DatasetStore) LockDefaultDataset(ctx context.Context, q client.Executor) error {

	_, err := q.ExecContext(ctx, scripts.LockDefaultDataset[dialect])
	return errors.Wrap(err, "failed to lock default dataset creation")
}

func (s *DatasetStore) GetItem(ctx context.Context, q client.Executor, contributionID string) (*model.DatasetItem, error) {

	var item model.DatasetItem
	var split string
	err := q.QueryRowContext(ctx, scripts.GetDatasetItemByContribution[dialect], contributionID).
		Scan(&item.ID, &item.DatasetID, &item.ContributionID, &split, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read dataset item of contribution %s", contributionID)
	}
	item.Split = model.Split(split)
	return &item, nil
}

func (s *DatasetStore) InsertItem(ctx context.Context, q client.Executor, item model.DatasetItem) (bool, error) {

	res, err := q.ExecContext(ctx, scripts.InsertDatasetItem[dialect], item.ID, item.DatasetID, item.ContributionID,
		string(item.Split))
	if err != nil {
		return false, errors.Wrapf(err, "failed to insert dataset item of contribution %s", item.ContributionID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "failed to read affected rows")
	}
	return n == 1, nil
}

func scanDataset(row *sql.Row) (*model.Dataset, error) {

	var d model.Dataset
	var status string
	if err := row.Scan(&d.ID, &d.Name, &d.Description, &d.Source, &status, &d.CreatedAt); err != nil {
		return nil, err
	}
	d.Status = model.Status(status)
	return &d, nil
}
