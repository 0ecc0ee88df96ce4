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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wso2/plant-data-service/internal/consent/model"
	"github.com/wso2/plant-data-service/internal/consent/store/storetest"
	"github.com/wso2/plant-data-service/internal/system/database/dbtest"
	customerrors "github.com/wso2/plant-data-service/internal/system/errors"
	"github.com/wso2/plant-data-service/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	m.Run()
}

type MockConsentStore = storetest.MockConsentStore

func echoUpsert(mockStore *MockConsentStore) {
	mockStore.On("UpsertConsent", mock.Anything, mock.Anything, mock.Anything).
		Return(func(s model.ConsentSettings) *model.ConsentSettings { return &s }, nil)
}

func TestGetConsent_DefaultsWhenMissing(t *testing.T) {

	mockStore := new(MockConsentStore)
	mockStore.On("GetConsent", mock.Anything, mock.Anything, "user-1", false).Return(nil, nil).Once()
	svc := NewConsentService(dbtest.NewFakeDBClient(), mockStore, time.Minute)

	consent, err := svc.GetConsent(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, consent.BasicIdentification)
	assert.False(t, consent.ModelTraining)
	assert.False(t, consent.ExifMetadata)
	assert.False(t, consent.LocationData)
	assert.False(t, consent.AdvancedSensors)

	// Served from cache.
	_, err = svc.GetConsent(context.Background(), "user-1")
	require.NoError(t, err)
	mockStore.AssertExpectations(t)
}

func TestUpdateConsent_RejectsRevokingBasicIdentification(t *testing.T) {

	mockStore := new(MockConsentStore)
	db := dbtest.NewFakeDBClient()
	svc := NewConsentService(db, mockStore, 0)

	_, err := svc.UpdateConsent(context.Background(), "user-1", model.ConsentSettings{}, model.RequestMeta{})

	require.Error(t, err)
	assert.True(t, customerrors.IsValidation(err))
	assert.Equal(t, 0, db.Begins)
	mockStore.AssertNotCalled(t, "UpsertConsent", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateConsent_WritesOnlyChangedFields(t *testing.T) {

	mockStore := new(MockConsentStore)
	db := dbtest.NewFakeDBClient()
	previous := &model.ConsentSettings{ID: "consent-1", UserID: "user-1", BasicIdentification: true}
	mockStore.On("GetConsent", mock.Anything, mock.Anything, "user-1", true).Return(previous, nil)
	echoUpsert(mockStore)
	mockStore.On("InsertAuditEntries", mock.Anything, mock.Anything, mock.MatchedBy(func(entries []model.AuditEntry) bool {
		return len(entries) == 2 &&
			entries[0].ConsentType == model.ConsentTypeModelTraining && entries[0].Action == model.ActionGranted &&
			entries[1].ConsentType == model.ConsentTypeLocationData && entries[1].Action == model.ActionGranted &&
			entries[0].ConsentID == "consent-1" && entries[0].IPAddress == "203.0.113.1"
	})).Return(nil)

	svc := NewConsentService(db, mockStore, time.Minute)
	next := model.ConsentSettings{BasicIdentification: true, ModelTraining: true, LocationData: true}
	stored, err := svc.UpdateConsent(context.Background(), "user-1", next,
		model.RequestMeta{IPAddress: "203.0.113.1", UserAgent: "test"})

	require.NoError(t, err)
	assert.Equal(t, "consent-1", stored.ID)
	assert.Equal(t, 1, db.Commits)
	mockStore.AssertExpectations(t)
}

func TestUpdateConsent_FirstTimeAssignsID(t *testing.T) {

	mockStore := new(MockConsentStore)
	mockStore.On("GetConsent", mock.Anything, mock.Anything, "user-2", true).Return(nil, nil)
	echoUpsert(mockStore)
	mockStore.On("InsertAuditEntries", mock.Anything, mock.Anything, mock.MatchedBy(func(entries []model.AuditEntry) bool {
		return len(entries) == 2 && entries[0].ConsentType == model.ConsentTypeBasicIdentification &&
			entries[0].PreviousValue == nil
	})).Return(nil)

	svc := NewConsentService(dbtest.NewFakeDBClient(), mockStore, 0)
	stored, err := svc.UpdateConsent(context.Background(), "user-2",
		model.ConsentSettings{BasicIdentification: true, ExifMetadata: true}, model.RequestMeta{})

	require.NoError(t, err)
	assert.Len(t, stored.ID, 36)
	mockStore.AssertExpectations(t)
}

func TestUpdateConsent_AuditFailureRollsBack(t *testing.T) {

	mockStore := new(MockConsentStore)
	db := dbtest.NewFakeDBClient()
	mockStore.On("GetConsent", mock.Anything, mock.Anything, "user-1", true).
		Return(&model.ConsentSettings{ID: "consent-1", BasicIdentification: true}, nil)
	echoUpsert(mockStore)
	mockStore.On("InsertAuditEntries", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("disk full"))

	svc := NewConsentService(db, mockStore, time.Minute)
	_, err := svc.UpdateConsent(context.Background(), "user-1",
		model.ConsentSettings{BasicIdentification: true, ModelTraining: true}, model.RequestMeta{})

	require.Error(t, err)
	assert.True(t, customerrors.IsStoreError(err))
	assert.NotContains(t, err.Error(), "consent-1")
	assert.Equal(t, 0, db.Commits)
	assert.Equal(t, 1, db.Rollbacks)
}

func TestUpdateConsent_InvalidatesCache(t *testing.T) {

	mockStore := new(MockConsentStore)
	mockStore.On("GetConsent", mock.Anything, mock.Anything, "user-1", false).
		Return(&model.ConsentSettings{ID: "c", UserID: "user-1", BasicIdentification: true}, nil).Twice()
	mockStore.On("GetConsent", mock.Anything, mock.Anything, "user-1", true).
		Return(&model.ConsentSettings{ID: "c", UserID: "user-1", BasicIdentification: true}, nil)
	echoUpsert(mockStore)
	mockStore.On("InsertAuditEntries", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := NewConsentService(dbtest.NewFakeDBClient(), mockStore, time.Minute)
	ctx := context.Background()
	_, err := svc.GetConsent(ctx, "user-1")
	require.NoError(t, err)
	_, err = svc.UpdateConsent(ctx, "user-1", model.ConsentSettings{BasicIdentification: true, ExifMetadata: true},
		model.RequestMeta{})
	require.NoError(t, err)
	_, err = svc.GetConsent(ctx, "user-1")
	require.NoError(t, err)

	mockStore.AssertNumberOfCalls(t, "GetConsent", 3)
}

func TestGetAuditLog_ClampsLimit(t *testing.T) {

	mockStore := new(MockConsentStore)
	mockStore.On("GetAuditLog", mock.Anything, mock.Anything, "user-1", 20).Return([]model.AuditEntry{{ID: "a"}}, nil)

	svc := NewConsentService(dbtest.NewFakeDBClient(), mockStore, 0)
	entries, err := svc.GetAuditLog(context.Background(), "user-1", 0)

	require.NoError(t, err)
	assert.Len(t, entries, 1)
	mockStore.AssertExpectations(t)
}

func TestGetConsent_ReadRacingAnUpdateIsNotCached(t *testing.T) {

	granted := &model.ConsentSettings{ID: "c", UserID: "user-1", BasicIdentification: true, ExifMetadata: true}
	revoked := &model.ConsentSettings{ID: "c", UserID: "user-1", BasicIdentification: true}
	reading := make(chan struct{})
	release := make(chan struct{})

	mockStore := new(MockConsentStore)
	mockStore.On("GetConsent", mock.Anything, mock.Anything, "user-1", false).
		Run(func(mock.Arguments) {
			close(reading)
			<-release
		}).Return(granted, nil).Once()
	mockStore.On("GetConsent", mock.Anything, mock.Anything, "user-1", false).Return(revoked, nil)
	mockStore.On("GetConsent", mock.Anything, mock.Anything, "user-1", true).Return(granted, nil)
	echoUpsert(mockStore)
	mockStore.On("InsertAuditEntries", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := NewConsentService(dbtest.NewFakeDBClient(), mockStore, time.Minute)
	ctx := context.Background()

	done := make(chan *model.ConsentSettings)
	go func() {
		consent, _ := svc.GetConsent(ctx, "user-1")
		done <- consent
	}()
	<-reading
	_, err := svc.UpdateConsent(ctx, "user-1", *revoked, model.RequestMeta{})
	require.NoError(t, err)
	close(release)
	assert.True(t, (<-done).ExifMetadata)

	consent, err := svc.GetConsent(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, consent.ExifMetadata)
}

func TestGetCurrentConsent_BypassesCache(t *testing.T) {

	mockStore := new(MockConsentStore)
	mockStore.On("GetConsent", mock.Anything, mock.Anything, "user-1", false).
		Return(&model.ConsentSettings{UserID: "user-1", BasicIdentification: true}, nil)
	svc := NewConsentService(dbtest.NewFakeDBClient(), mockStore, time.Minute)
	ctx := context.Background()

	_, err := svc.GetConsent(ctx, "user-1")
	require.NoError(t, err)
	_, err = svc.GetCurrentConsent(ctx, "user-1")
	require.NoError(t, err)
	_, err = svc.GetCurrentConsent(ctx, "user-1")
	require.NoError(t, err)

	mockStore.AssertNumberOfCalls(t, "GetConsent", 3)
}
