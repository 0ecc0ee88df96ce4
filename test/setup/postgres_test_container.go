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

package setup

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDatabase contains the running container and DB connection
type TestDatabase struct {
	Container *postgres.PostgresContainer
	DB        *sql.DB
}

// SchemaFile is the schema path relative to RepoRoot.
const SchemaFile = "dbscripts/postgres.sql"

// RepoRoot is the module root, used as the service home by the integration tests.
func RepoRoot() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}

// SetupTestDB spins up a Postgres container. The schema is applied when applySchema is set.
func SetupTestDB(ctx context.Context, applySchema bool) (*TestDatabase, error) {
	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	if applySchema {
		schemaBytes, err := os.ReadFile(filepath.Join(RepoRoot(), SchemaFile))
		if err != nil {
			_ = container.Terminate(ctx)
			return nil, fmt.Errorf("failed to read schema: %w", err)
		}
		if _, err := db.ExecContext(ctx, string(schemaBytes)); err != nil {
			_ = container.Terminate(ctx)
			return nil, fmt.Errorf("failed to execute schema: %w", err)
		}
	}

	return &TestDatabase{
		Container: container,
		DB:        db,
	}, nil
}

// Terminate closes the pool and stops the container.
func (t *TestDatabase) Terminate(ctx context.Context) {
	_ = t.DB.Close()
	_ = t.Container.Terminate(ctx)
}
