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

package workers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	contribution "github.com/wso2/plant-data-service/internal/contribution/model"
	"github.com/wso2/plant-data-service/internal/contribution/store/storetest"
	"github.com/wso2/plant-data-service/internal/ingestion/service/servicetest"
	"github.com/wso2/plant-data-service/internal/system/constants"
	"github.com/wso2/plant-data-service/internal/system/database/dbtest"
	"github.com/wso2/plant-data-service/internal/system/database/lock/locktest"
	customerrors "github.com/wso2/plant-data-service/internal/system/errors"
	"github.com/wso2/plant-data-service/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	m.Run()
}

func TestReconcileMemoryMirrors(t *testing.T) {

	store := new(storetest.MockContributionStore)
	ingest := new(servicetest.MockIngestionService)
	distLock := locktest.NewFakeLock()
	store.On("GetWithoutMemory", mock.Anything, mock.Anything, 20).Return([]contribution.Contribution{
		{ID: "c-1"}, {ID: "c-2"}, {ID: "c-3"},
	}, nil)
	ingest.On("MirrorToMemory", mock.Anything, mock.MatchedBy(func(c *contribution.Contribution) bool {
		return c.ID != "c-2"
	})).Return(nil)
	ingest.On("MirrorToMemory", mock.Anything, mock.MatchedBy(func(c *contribution.Contribution) bool {
		return c.ID == "c-2"
	})).Return(errors.New("mongo down"))

	report, err := NewMemoryReconciler(dbtest.NewFakeDBClient(), store, ingest, distLock).
		ReconcileMemoryMirrors(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, ReconcileReport{Scanned: 3, Repaired: 2, Failed: 1}, *report)
	assert.Equal(t, []string{constants.MemoryReconcilerLockKey}, distLock.Released)
}

func TestReconcileMemoryMirrors_AlreadyRunning(t *testing.T) {

	distLock := locktest.NewFakeLock()
	_, _ = distLock.Acquire(context.Background(), constants.MemoryReconcilerLockKey)

	_, err := NewMemoryReconciler(dbtest.NewFakeDBClient(), new(storetest.MockContributionStore),
		new(servicetest.MockIngestionService), distLock).ReconcileMemoryMirrors(context.Background(), 10)

	assert.True(t, customerrors.IsValidation(err))
}

func TestReconcileMemoryMirrors_StoreFailure(t *testing.T) {

	store := new(storetest.MockContributionStore)
	store.On("GetWithoutMemory", mock.Anything, mock.Anything, 5).Return(nil, errors.New("timeout"))

	_, err := NewMemoryReconciler(dbtest.NewFakeDBClient(), store, new(servicetest.MockIngestionService),
		locktest.NewFakeLock()).ReconcileMemoryMirrors(context.Background(), 5)

	assert.True(t, customerrors.IsStoreError(err))
}
