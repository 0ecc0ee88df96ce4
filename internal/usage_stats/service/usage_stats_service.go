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

	contribution "github.com/wso2/plant-data-service/internal/contribution/model"
	dataset "github.com/wso2/plant-data-service/internal/dataset/model"
	"github.com/wso2/plant-data-service/internal/system/database/client"
	"github.com/wso2/plant-data-service/internal/system/log"
	"github.com/wso2/plant-data-service/internal/usage_stats/model"
	"github.com/wso2/plant-data-service/internal/usage_stats/store"
)

type UsageStatsServiceInterface interface {
	GetUsageStats(ctx context.Context, userID string) (*model.UsageStats, error)
}

// UsageStatsService computes usage statistics from independent reads. A failed read leaves its
// section at zero and is reported in UsageStats.Degraded; the call itself does not fail.
type UsageStatsService struct {
	db    client.DBClientInterface
	store store.UsageStatsStoreInterface
}

func NewUsageStatsService(db client.DBClientInterface, usageStore store.UsageStatsStoreInterface) *UsageStatsService {
	return &UsageStatsService{db: db, store: usageStore}
}

func (s *UsageStatsService) GetUsageStats(ctx context.Context, userID string) (*model.UsageStats, error) {

	logger := log.FromContext(ctx).With(log.UserID(userID))
	executor := s.db.Executor()
	stats := &model.UsageStats{ModelDetails: []model.ModelDetail{}}
	degrade := func(section string, err error) {
		logger.Warn("Usage statistics section unavailable", log.String("section", section), log.Error(err))
		stats.Degraded = append(stats.Degraded, section)
	}

	if byStatus, err := s.store.CountContributionsByStatus(ctx, executor, userID); err != nil {
		degrade(model.SectionContributions, err)
	} else {
		for _, count := range byStatus {
			stats.TotalContributions += count
		}
		stats.ApprovedContributions = byStatus[string(contribution.StatusApproved)]
		stats.PendingContributions = byStatus[string(contribution.StatusPendingReview)]
		stats.RejectedContributions = byStatus[string(contribution.StatusRejected)]
		stats.ProcessedContributions = byStatus[string(contribution.StatusProcessed)]
		stats.ErrorContributions = byStatus[string(contribution.StatusError)]
	}

	if bySplit, err := s.store.CountDatasetItemsBySplit(ctx, executor, userID); err != nil {
		degrade(model.SectionDatasetUsage, err)
	} else {
		stats.DatasetUsage = model.DatasetUsage{
			Training:   bySplit[string(dataset.SplitTrain)],
			Validation: bySplit[string(dataset.SplitValidation)],
			Testing:    bySplit[string(dataset.SplitTest)],
		}
	}

	if models, err := s.store.GetModelVersions(ctx, executor, userID); err != nil {
		degrade(model.SectionModelUsage, err)
	} else {
		stats.ModelUsage = len(models)
		stats.ModelDetails = models
	}

	return stats, nil
}
