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
	"fmt"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	contribution "github.com/wso2/plant-data-service/internal/contribution/model"
	"github.com/wso2/plant-data-service/internal/deletion/model"
	"github.com/wso2/plant-data-service/internal/system/database/client"
	"github.com/wso2/plant-data-service/internal/system/database/scripts"
)

const dialect = "postgres"

var deleteQueries = map[model.RowKind]map[string]string{
	model.RowsReviewTasks:   scripts.DeleteReviewTasksByContributions,
	model.RowsLabelingTasks: scripts.DeleteLabelingTasksByContributions,
	model.RowsDatasetItems:  scripts.DeleteDatasetItemsByContributions,
	model.RowsAnnotations:   scripts.DeleteAnnotationsByContributions,
	model.RowsFeatures:      scripts.DeleteFeaturesByContributions,
	model.RowsImageMetadata: scripts.DeleteImageMetadataByContributions,
	model.RowsContributions: scripts.DeleteContributionsByIds,
}

type DeletionStoreInterface interface {
	// LockUserContributions locks and returns every contribution of the user.
	LockUserContributions(ctx context.Context, q client.Executor, userID string) ([]contribution.ContributionRef, error)
	// DeleteRows deletes rows of kind that belong to the given contributions.
	DeleteRows(ctx context.Context, q client.Executor, kind model.RowKind, contributionIDs []string) (int64, error)
}

type DeletionStore struct{}

func NewDeletionStore() *DeletionStore {
	return &DeletionStore{}
}

func (s *DeletionStore) LockUserContributions(ctx context.Context, q client.Executor,
	userID string) ([]contribution.ContributionRef, error) {

	rows, err := q.QueryContext(ctx, scripts.LockUserContributions[dialect], userID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to lock contributions of user %s", userID)
	}
	defer rows.Close()

	refs := []contribution.ContributionRef{}
	for rows.Next() {
		var ref contribution.ContributionRef
		var memoryID sql.NullString
		if err := rows.Scan(&ref.ID, &ref.ImagePath, &ref.ProcessedPath, &memoryID); err != nil {
			return nil, errors.Wrap(err, "failed to scan contribution")
		}
		if memoryID.Valid {
			ref.MemoryID = &memoryID.String
		}
		refs = append(refs, ref)
	}
	return refs, errors.Wrap(rows.Err(), "failed to iterate contributions")
}

func (s *DeletionStore) DeleteRows(ctx context.Context, q client.Executor, kind model.RowKind,
	contributionIDs []string) (int64, error) {

	queries, ok := deleteQueries[kind]
	if !ok {
		return 0, fmt.Errorf("no delete query for %s", kind)
	}
	if len(contributionIDs) == 0 {
		return 0, nil
	}
	res, err := q.ExecContext(ctx, queries[dialect], pq.Array(contributionIDs))
	if err != nil {
		return 0, errors.Wrapf(err, "failed to delete %s", kind)
	}
	n, err := res.RowsAffected()
	return n, errors.Wrapf(err, "failed to count deleted %s", kind)
}
