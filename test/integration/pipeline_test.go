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

package integration

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	consent "github.com/wso2/plant-data-service/internal/consent/model"
	contribution "github.com/wso2/plant-data-service/internal/contribution/model"
	deletion "github.com/wso2/plant-data-service/internal/deletion/model"
	ingestion "github.com/wso2/plant-data-service/internal/ingestion/model"
	labeling "github.com/wso2/plant-data-service/internal/labeling/model"
	"github.com/wso2/plant-data-service/internal/system/constants"
	"github.com/wso2/plant-data-service/internal/system/errors"
)

func grantTraining(t *testing.T, userID string) consent.ConsentSettings {
	t.Helper()
	settings, err := components.Consents.UpdateConsent(context.Background(), userID, consent.ConsentSettings{
		BasicIdentification: true,
		ModelTraining:       true,
	}, consent.RequestMeta{IPAddress: "127.0.0.1", UserAgent: "integration"})
	require.NoError(t, err)
	return *settings
}

func ingest(t *testing.T, userID string, settings consent.ConsentSettings) *ingestion.IngestResult {
	t.Helper()
	user := userID
	result, err := components.Ingestion.Ingest(context.Background(), ingestion.IngestRequest{
		Payload: contribution.Payload{
			UserID:         &user,
			ScientificName: "Solanum lycopersicum",
			CommonName:     "Tomato",
			HealthStatus:   contribution.HealthHealthy,
			Notes:          "greenhouse " + userID,
		},
		Image:   testJPEG(64, 48),
		Consent: settings,
	})
	require.NoError(t, err)
	return result
}

func TestConcurrentFirstConsentWritesAuditOnce(t *testing.T) {

	ctx := context.Background()
	userID := newUserID()
	settings := consent.ConsentSettings{BasicIdentification: true, ModelTraining: true}

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = components.Consents.UpdateConsent(ctx, userID, settings, consent.RequestMeta{})
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	entries, err := components.Consents.GetAuditLog(ctx, userID, 50)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "only the first writer sees no previous consent")
}

func TestConsentUpdatesAreAudited(t *testing.T) {

	ctx := context.Background()
	userID := newUserID()
	meta := consent.RequestMeta{IPAddress: "10.0.0.1", UserAgent: "integration"}

	_, err := components.Consents.UpdateConsent(ctx, userID, consent.ConsentSettings{
		BasicIdentification: true, ModelTraining: true, LocationData: true,
	}, meta)
	require.NoError(t, err)
	_, err = components.Consents.UpdateConsent(ctx, userID, consent.ConsentSettings{
		BasicIdentification: true, ModelTraining: true,
	}, meta)
	require.NoError(t, err)

	stored, err := components.Consents.GetConsent(ctx, userID)
	require.NoError(t, err)
	assert.True(t, stored.ModelTraining)
	assert.False(t, stored.LocationData)

	entries, err := components.Consents.GetAuditLog(ctx, userID, 50)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, consent.ActionRevoked, entries[0].Action)
	assert.Equal(t, "10.0.0.1", entries[0].IPAddress)
	require.NotNil(t, entries[0].PreviousValue)
	assert.True(t, *entries[0].PreviousValue)

	_, err = components.Consents.UpdateConsent(ctx, userID, consent.ConsentSettings{BasicIdentification: false}, meta)
	assert.True(t, errors.IsValidation(err))
}

func TestIngestionMirrorsAndAssignsSplit(t *testing.T) {

	ctx := context.Background()
	userID := newUserID()
	result := ingest(t, userID, grantTraining(t, userID))

	c := result.Contribution
	assert.Empty(t, result.Warnings)
	require.NotNil(t, c.MemoryID)
	require.NotNil(t, result.DatasetItem)
	assert.Equal(t, contribution.StatusPendingReview, c.Status)

	_, err := os.Stat(filepath.Join(blobRoot, constants.ProcessedImageBucket, filepath.FromSlash(c.ProcessedPath)))
	assert.NoError(t, err)

	view, err := components.Ingestion.GetContribution(ctx, c.ID)
	require.NoError(t, err)
	assert.Contains(t, view.MemoryContent, "Tomato (Solanum lycopersicum)")

	hits, err := components.Ingestion.SearchContributions(ctx, "greenhouse",
		contribution.UserOwnerTag(userID), 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, c.ID, hits[0].ID)

	stats, err := components.Usage.GetUsageStats(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalContributions)
	assert.Equal(t, 1, stats.PendingContributions)
	assert.Equal(t, 1, stats.DatasetUsage.Training+stats.DatasetUsage.Validation+stats.DatasetUsage.Testing)
	assert.Empty(t, stats.Degraded)
}

func TestConsentGatedFieldsAreNotStored(t *testing.T) {

	userID := newUserID()
	settings := grantTraining(t, userID)
	user := userID

	_, err := components.Ingestion.Ingest(context.Background(), ingestion.IngestRequest{
		Payload: contribution.Payload{
			UserID:         &user,
			ScientificName: "Ocimum basilicum",
			LocationData:   map[string]any{"latitude": 6.9, "longitude": 79.8},
		},
		Image:   testJPEG(32, 32),
		Consent: settings,
	})
	assert.True(t, errors.IsConsentDenied(err))

	stats, err := components.Usage.GetUsageStats(context.Background(), userID)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalContributions)
}

func TestLabelingReviewApprovesContribution(t *testing.T) {

	ctx := context.Background()
	userID := newUserID()
	c := ingest(t, userID, grantTraining(t, userID)).Contribution

	task, err := components.Labeling.CreateLabelingTask(ctx, labeling.CreateLabelingTaskRequest{
		ContributionID: c.ID,
		TaskType:       "species_verification",
		Priority:       labeling.PriorityHigh,
	})
	require.NoError(t, err)
	assert.Equal(t, labeling.TaskPending, task.Status)

	_, err = components.Labeling.StartLabelingTask(ctx, task.ID, "labeler-1")
	require.NoError(t, err)

	completion, err := components.Labeling.CompleteLabelingTask(ctx, task.ID, labeling.AnnotationInput{
		Type:   contribution.AnnotationSpecies,
		Value:  "Solanum lycopersicum",
		Source: contribution.AnnotationSourceExpert,
	})
	require.NoError(t, err)
	assert.Empty(t, completion.Warnings)
	assert.Equal(t, labeling.TaskCompleted, completion.Task.Status)
	assert.Equal(t, labeling.PriorityHigh, completion.ReviewTask.Priority)

	_, err = components.Labeling.StartLabelingTask(ctx, task.ID, "labeler-2")
	assert.True(t, errors.IsValidation(err))

	review, err := components.Labeling.ReviewTask(ctx, completion.ReviewTask.ID, "reviewer-1",
		labeling.ReviewApproved, "looks right")
	require.NoError(t, err)
	assert.Equal(t, labeling.ReviewApproved, review.Status)

	_, err = components.Labeling.ReviewTask(ctx, completion.ReviewTask.ID, "reviewer-1", labeling.ReviewRejected, "")
	assert.True(t, errors.IsValidation(err))

	view, err := components.Ingestion.GetContribution(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, contribution.StatusApproved, view.Status)
	require.Len(t, view.Annotations, 1)
	record, err := components.Memory.Get(ctx, *c.MemoryID)
	require.NoError(t, err)
	assert.Contains(t, record.Metadata, "annotations")
}

func TestDeleteUserDataRemovesEverything(t *testing.T) {

	ctx := context.Background()
	userID := newUserID()
	c := ingest(t, userID, grantTraining(t, userID)).Contribution
	_, err := components.Labeling.CreateLabelingTask(ctx, labeling.CreateLabelingTaskRequest{
		ContributionID: c.ID,
		TaskType:       "health_assessment",
	})
	require.NoError(t, err)

	report, err := components.Deletion.DeleteUserData(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Deleted[deletion.RowsContributions])
	assert.Equal(t, int64(1), report.Deleted[deletion.RowsLabelingTasks])
	assert.Equal(t, int64(1), report.Deleted[deletion.RowsConsent])
	assert.Equal(t, 2, report.BlobsDeleted)
	assert.Equal(t, 1, report.MemoryRecordsDeleted)
	assert.Zero(t, report.CleanupFailures)

	_, err = components.Ingestion.GetContribution(ctx, c.ID)
	assert.True(t, errors.IsNotFound(err))
	_, err = os.Stat(filepath.Join(blobRoot, constants.RawImageBucket, filepath.FromSlash(c.ImagePath)))
	assert.True(t, os.IsNotExist(err))

	settings, err := components.Consents.GetConsent(ctx, userID)
	require.NoError(t, err)
	assert.False(t, settings.ModelTraining)
	entries, err := components.Consents.GetAuditLog(ctx, userID, 50)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
