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

	"github.com/pkg/errors"

	"github.com/wso2/plant-data-service/internal/usage_stats/model"
	"github.com/wso2/plant-data-service/internal/system/database/client"
	"github.com/wso2/plant-data-service/internal/system/database/scripts"
)

const dialect = "postgres"

type UsageStatsStoreInterface interface {
	// CountContributionsByStatus returns the user's contribution count per status.
	CountContributionsByStatus(ctx context.Context, q client.Executor, userID string) (map[string]int, error)
	// CountDatasetItemsBySplit returns the user's dataset item count per split.
	CountDatasetItemsBySplit(ctx context.Context, q client.Executor, userID string) (map[string]int, error)
	GetModelVersions(ctx context.Context, q client.Executor, userID string) ([]model.ModelDetail, error)
}

type UsageStatsStore struct{}

func NewUsageStatsStore() *UsageStatsStore {
	return &UsageStatsStore{}
}

func (s *UsageStatsStore) CountContributionsByStatus(ctx context.Context, q client.Executor,
	userID string) (map[string]int, error) {

	counts, err := countBy(ctx, q, scripts.CountContributionsByStatus[dialect], userID)
	return counts, errors.Wrapf(err, "failed to count contributions of user %s", userID)
}

func (s *UsageStatsStore) CountDatasetItemsBySplit(ctx context.Context, q client.Executor,
	userID string) (map[string]int, error) {

	counts, err := countBy(ctx, q, scripts.CountDatasetItemsBySplit[dialect], userID)
	return counts, errors.Wrapf(err, "failed to count dataset items of user %s", userID)
}

func (s *UsageStatsStore) GetModelVersions(ctx context.Context, q client.Executor,
	userID string) ([]model.ModelDetail, error) {

	rows, err := q.QueryContext(ctx, scripts.GetModelVersionsByUser[dialect], userID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read model versions of user %s", userID)
	}
	defer rows.Close()

	details := []model.ModelDetail{}
	for rows.Next() {
		var d model.ModelDetail
		if err := rows.Scan(&d.Name, &d.Version, &d.Status); err != nil {
			return nil, errors.Wrap(err, "failed to scan model version")
		}
		details = append(details, d)
	}
	return details, errors.Wrap(rows.Err(), "failed to iterate model versions")
}

// countBy runs a two column (key, count) grouping query.
func countBy(ctx context.Context, q client.Executor, query string, args ...any) (map[string]int, error) {

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		counts[key] = count
	}
	return counts, rows.Err()
}
