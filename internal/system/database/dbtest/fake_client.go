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

// Package dbtest provides a DBClientInterface that needs no database, for service level tests
// whose stores are mocked.
package dbtest

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/wso2/plant-data-service/internal/system/database/client"
)

// FakeDBClient runs transactions against a nil Executor and records their outcome.
type FakeDBClient struct {
	mu        sync.Mutex
	Begins    int
	Commits   int
	Rollbacks int
	// BeginErr, when set, is returned by every WithTx call before fn runs.
	BeginErr error
	// PingErr is returned by Ping.
	PingErr error
}

var _ client.DBClientInterface = (*FakeDBClient)(nil)

func NewFakeDBClient() *FakeDBClient {
	return &FakeDBClient{}
}

func (f *FakeDBClient) ExecuteQuery(ctx context.Context, query string, args ...any) ([]map[string]interface{}, error) {
	return nil, nil
}

func (f *FakeDBClient) Executor() client.Executor {
	return nil
}

func (f *FakeDBClient) WithTx(ctx context.Context, fn client.TxFunc) error {

	f.mu.Lock()
	if f.BeginErr != nil {
		f.mu.Unlock()
		return f.BeginErr
	}
	f.Begins++
	f.mu.Unlock()

	committed := false
	defer func() {
		if !committed {
			f.mu.Lock()
			f.Rollbacks++
			f.mu.Unlock()
		}
	}()

	if err := fn(nil); err != nil {
		return err
	}
	f.mu.Lock()
	f.Commits++
	f.mu.Unlock()
	committed = true
	return nil
}

func (f *FakeDBClient) Conn(ctx context.Context) (*sql.Conn, error) {
	return nil, errors.New("dbtest: dedicated connections are not supported")
}

func (f *FakeDBClient) Ping(ctx context.Context) error {
	return f.PingErr
}

func (f *FakeDBClient) Close() error {
	return nil
}

func (f *FakeDBClient) InitDatabase(pdsHome, file string) error {
	return nil
}
