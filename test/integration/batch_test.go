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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	batchmodel "github.com/wso2/plant-data-service/internal/batch_processor/model"
	"github.com/wso2/plant-data-service/internal/system/constants"
	"github.com/wso2/plant-data-service/internal/system/database/lock"
	"github.com/wso2/plant-data-service/internal/system/errors"
)

func TestProcessBatchSerializedByAdvisoryLock(t *testing.T) {

	ctx := context.Background()
	userID := newUserID()
	ingest(t, userID, grantTraining(t, userID))

	holder := lock.NewPostgresLock(components.DB)
	acquired, err := holder.Acquire(ctx, constants.BatchProcessorLockKey)
	require.NoError(t, err)
	require.True(t, acquired)

	_, err = components.Batches.ProcessBatch(ctx, 5)
	assert.True(t, errors.IsValidation(err))

	require.NoError(t, holder.Release(ctx, constants.BatchProcessorLockKey))

	result, err := components.Batches.ProcessBatch(ctx, batchmodel.MaxBatchSize)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.Processed, 1)
	assert.Equal(t, result.Processed, result.Successful+result.Failed)

	_, err = components.Batches.ProcessBatch(ctx, batchmodel.MaxBatchSize+1)
	assert.True(t, errors.IsValidation(err))
}

func TestReconcileMemoryMirrorsIsIdempotent(t *testing.T) {

	ctx := context.Background()
	first, err := components.Reconciler.ReconcileMemoryMirrors(ctx, 50)
	require.NoError(t, err)
	assert.Zero(t, first.Failed)

	second, err := components.Reconciler.ReconcileMemoryMirrors(ctx, 50)
	require.NoError(t, err)
	assert.Zero(t, second.Scanned)
}
