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

package dbtest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wso2/plant-data-service/internal/system/database/client"
)

func TestFakeDBClient_RecordsOutcome(t *testing.T) {

	f := NewFakeDBClient()
	ctx := context.Background()

	assert.NoError(t, f.WithTx(ctx, func(tx client.Executor) error { return nil }))
	assert.Error(t, f.WithTx(ctx, func(tx client.Executor) error { return errors.New("boom") }))
	assert.Panics(t, func() {
		_ = f.WithTx(ctx, func(tx client.Executor) error { panic("bad") })
	})

	assert.Equal(t, 3, f.Begins)
	assert.Equal(t, 1, f.Commits)
	assert.Equal(t, 2, f.Rollbacks)
}
