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

package lock

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/wso2/plant-data-service/internal/system/database/client"
	"github.com/wso2/plant-data-service/internal/system/errors"
	"github.com/wso2/plant-data-service/internal/system/log"
)

type DistributedLock interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// PostgresLock implements DistributedLock using PostgreSQL session advisory locks. Each held
// lock pins one pooled connection until it is released.
type PostgresLock struct {
	dbClient client.DBClientInterface
	mu       sync.Mutex
	held     map[string]*sql.Conn
}

func NewPostgresLock(dbClient client.DBClientInterface) *PostgresLock {
	return &PostgresLock{
		dbClient: dbClient,
		held:     map[string]*sql.Conn{},
	}
}

// PostgreSQL advisory locks use bigint or two integers. We'll use a single bigint.
func generateLockKey(key string) (int64, error) {

	h := fnv.New64a()
	if _, err := h.Write([]byte(key)); err != nil {
		errorMsg := fmt.Sprintf("failed to hash lock key '%s'", key)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return 0, errors.NewStoreError(errors.LOCK_KEY_GEN, errorMsg, err)
	}
	return int64(h.Sum64()), nil
}

func (l *PostgresLock) Acquire(ctx context.Context, key string) (bool, error) {

	logger := log.GetLogger()
	lockID, err := generateLockKey(key)
	if err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return false, nil
	}

	conn, err := l.dbClient.Conn(ctx)
	if err != nil {
		errorMsg := "Failed to obtain a connection for advisory lock acquiring."
		logger.Error(errorMsg, log.Error(err))
		return false, errors.NewStoreError(errors.DB_CLIENT_INIT, errorMsg, err)
	}

	var acquired bool
	if err := conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", lockID).Scan(&acquired); err != nil {
		_ = conn.Close()
		errorMsg := "Failed to execute pg_try_advisory_lock"
		logger.Error(errorMsg, log.Error(err))
		return false, errors.NewStoreError(errors.LOCK_ACQUIRE, errorMsg, err)
	}
	if !acquired {
		_ = conn.Close()
		logger.Debug(fmt.Sprintf("Advisory lock %s is held elsewhere", key))
		return false, nil
	}

	l.held[key] = conn
	return true, nil
}

func (l *PostgresLock) Release(ctx context.Context, key string) error {

	lockID, err := generateLockKey(key)
	if err != nil {
		return err
	}

	l.mu.Lock()
	conn, ok := l.held[key]
	delete(l.held, key)
	l.mu.Unlock()
	if !ok {
		return nil
	}
	defer conn.Close()

	var released bool
	if err := conn.QueryRowContext(ctx, "SELECT pg_advisory_unlock($1)", lockID).Scan(&released); err != nil {
		errorMsg := fmt.Sprintf("Failed to release advisory lock %s", key)
		log.GetLogger().Error(errorMsg, log.Error(err))
		return errors.NewStoreError(errors.LOCK_RELEASE, errorMsg, err)
	}
	if !released {
		log.GetLogger().Warn(fmt.Sprintf("Advisory lock %s was not held by this session", key))
	}
	return nil
}
