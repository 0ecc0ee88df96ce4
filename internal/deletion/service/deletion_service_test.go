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

	"github.com/wso2/plant-data-service/internal/blob_store/blobtest"
	consent "github.com/wso2/plant-data-service/internal/consent/model"
	"github.com/wso2/plant-data-service/internal/consent/store/storetest"
	contribution "github.com/wso2/plant-data-service/internal/contribution/model"
	"github.com/wso2/plant-data-service/internal/deletion/model"
	"github.com/wso2/plant-data-service/internal/memory_store/memorytest"
	"github.com/wso2/plant-data-service/internal/system/constants"
	"github.com/wso2/plant-data-service/internal/system/database/client"
	"github.com/wso2/plant-data-service/internal/system/database/dbtest"
	customerrors "github.com/wso2/plant-data-service/internal/system/errors"
	"github.com/wso2/plant-data-service/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	m.Run()
}

type MockDeletionStore struct {
	mock.Mock
}

func (m *MockDeletionStore) LockUserContributions(ctx context.Context, q client.Executor,
	userID string) ([]contribution.ContributionRef, error) {
	args := m.Called(ctx, q, userID)
	refs, _ := args.Get(0).([]contribution.ContributionRef)
	return refs, args.Error(1)
}

func (m *MockDeletionStore) DeleteRows(ctx context.Context, q client.Executor, kind model.RowKind,
	contributionIDs []string) (int64, error) {
	args := m.Called(ctx, q, kind, contributionIDs)
	return int64(args.Int(0)), args.Error(1)
}

// fakeConsents records cache invalidations.
type fakeConsents struct {
	invalidated []string
}

func (f *fakeConsents) GetConsent(ctx context.Context, userID string) (*consent.ConsentSettings, error) {
	return &consent.ConsentSettings{UserID: userID, BasicIdentification: true}, nil
}

func (f *fakeConsents) GetCurrentConsent(ctx context.Context, userID string) (*consent.ConsentSettings, error) {
	return f.GetConsent(ctx, userID)
}

func (f *fakeConsents) UpdateConsent(ctx context.Context, userID string, settings consent.ConsentSettings,
	meta consent.RequestMeta) (*consent.ConsentSettings, error) {
	return &settings, nil
}

func (f *fakeConsents) GetAuditLog(ctx context.Context, userID string, limit int) ([]consent.AuditEntry, error) {
	return nil, nil
}

func (f *fakeConsents) InvalidateConsent(userID string) {
	f.invalidated = append(f.invalidated, userID)
}

type fixture struct {
	db        *dbtest.FakeDBClient
	store     *MockDeletionStore
	consent   *storetest.MockConsentStore
	consents  *fakeConsents
	blobs     *blobtest.FakeStore
	memory    *memorytest.FakeStore
	svc       *DeletionService
	memoryIDs []string
}

// newFixture stores two contributions of user-1 in the secondary stores.
func newFixture(t *testing.T) (*fixture, []contribution.ContributionRef) {

	f := &fixture{
		db:       dbtest.NewFakeDBClient(),
		store:    new(MockDeletionStore),
		consent:  new(storetest.MockConsentStore),
		consents: &fakeConsents{},
		blobs:    blobtest.NewFakeStore(),
		memory:   memorytest.NewFakeStore(),
	}
	f.svc = NewDeletionService(f.db, f.store, f.consent, f.consents, f.blobs, f.memory, nil)

	ctx := context.Background()
	var refs []contribution.ContributionRef
	for _, id := range []string{"c-1", "c-2"} {
		ref := contribution.ContributionRef{ID: id, ImagePath: id + "/original.jpg", ProcessedPath: id + "/processed.jpg"}
		require.NoError(t, f.blobs.Put(ctx, constants.RawImageBucket, ref.ImagePath, []byte("raw")))
		require.NoError(t, f.blobs.Put(ctx, constants.ProcessedImageBucket, ref.ProcessedPath, []byte("jpg")))
		memID, err := f.memory.Create(ctx, "Plant: Tomato", "user-1", nil)
		require.NoError(t, err)
		ref.MemoryID = &memID
		refs = append(refs, ref)
	}
	return f, refs
}

func (f *fixture) expectRelationalDeletes(counts map[model.RowKind]int) {
	for _, kind := range append(model.DependentRows, model.RowsContributions) {
		f.store.On("DeleteRows", mock.Anything, mock.Anything, kind, []string{"c-1", "c-2"}).Return(counts[kind], nil)
	}
	f.consent.On("DeleteAuditLog", mock.Anything, mock.Anything, "user-1").Return(counts[model.RowsAuditEntries], nil)
	f.consent.On("DeleteConsent", mock.Anything, mock.Anything, "user-1").Return(1, nil)
}

func TestDeleteUserData_RemovesEverything(t *testing.T) {

	f, refs := newFixture(t)
	f.store.On("LockUserContributions", mock.Anything, mock.Anything, "user-1").Return(refs, nil)
	f.expectRelationalDeletes(map[model.RowKind]int{model.RowsContributions: 2, model.RowsFeatures: 6,
		model.RowsAuditEntries: 5})

	report, err := f.svc.DeleteUserData(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, int64(2), report.Deleted[model.RowsContributions])
	assert.Equal(t, int64(6), report.Deleted[model.RowsFeatures])
	assert.Equal(t, int64(5), report.Deleted[model.RowsAuditEntries])
	assert.Equal(t, int64(1), report.Deleted[model.RowsConsent])
	assert.Equal(t, 4, report.BlobsDeleted)
	assert.Equal(t, 2, report.MemoryRecordsDeleted)
	assert.Zero(t, report.CleanupFailures)
	assert.Zero(t, f.blobs.Len())
	assert.Zero(t, f.memory.Len())
	assert.Equal(t, []string{"user-1"}, f.consents.invalidated)
	assert.Equal(t, 1, f.db.Commits)
}

func TestDeleteUserData_RollsBackAndKeepsSecondaryData(t *testing.T) {

	f, refs := newFixture(t)
	f.store.On("LockUserContributions", mock.Anything, mock.Anything, "user-1").Return(refs, nil)
	f.store.On("DeleteRows", mock.Anything, mock.Anything, model.RowsReviewTasks, mock.Anything).Return(0, nil)
	f.store.On("DeleteRows", mock.Anything, mock.Anything, model.RowsLabelingTasks, mock.Anything).
		Return(0, errors.New("deadlock detected"))

	_, err := f.svc.DeleteUserData(context.Background(), "user-1")

	require.Error(t, err)
	assert.True(t, customerrors.IsStoreError(err))
	assert.Equal(t, 1, f.db.Rollbacks)
	assert.Equal(t, 0, f.db.Commits)
	assert.Equal(t, 4, f.blobs.Len())
	assert.Equal(t, 2, f.memory.Len())
	assert.Empty(t, f.consents.invalidated)
	f.consent.AssertNotCalled(t, "DeleteConsent", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteUserData_CountsCleanupFailures(t *testing.T) {

	f, refs := newFixture(t)
	f.memory.DeleteErr = errors.New("mongo down")
	f.store.On("LockUserContributions", mock.Anything, mock.Anything, "user-1").Return(refs, nil)
	f.expectRelationalDeletes(map[model.RowKind]int{model.RowsContributions: 2})

	report, err := f.svc.DeleteUserData(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, 2, report.CleanupFailures)
	require.Len(t, report.Failures, 2)
	assert.Equal(t, model.TargetMemoryRecord, report.Failures[0].Target)
	assert.Equal(t, 4, report.BlobsDeleted)
	assert.Equal(t, 1, f.db.Commits)
}

func TestDeleteUserData_NoContributions(t *testing.T) {

	f, _ := newFixture(t)
	f.store.On("LockUserContributions", mock.Anything, mock.Anything, "user-1").
		Return([]contribution.ContributionRef{}, nil)
	f.store.On("DeleteRows", mock.Anything, mock.Anything, mock.Anything, []string{}).Return(0, nil)
	f.consent.On("DeleteAuditLog", mock.Anything, mock.Anything, "user-1").Return(3, nil)
	f.consent.On("DeleteConsent", mock.Anything, mock.Anything, "user-1").Return(1, nil)

	report, err := f.svc.DeleteUserData(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, int64(3), report.Deleted[model.RowsAuditEntries])
	assert.Zero(t, report.BlobsDeleted)
	assert.Equal(t, 4, f.blobs.Len())
}
