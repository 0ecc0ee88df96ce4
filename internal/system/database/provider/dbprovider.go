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

package provider

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wso2/plant-data-service/internal/system/config"
	"github.com/wso2/plant-data-service/internal/system/database/client"
	"github.com/wso2/plant-data-service/internal/system/log"
)

const pingTimeout = 10 * time.Second

// DBConfig is the resolved connection and pool configuration.
type DBConfig struct {
	dsn             string
	driverName      string
	maxOpenConns    int
	maxIdleConns    int
	connMaxLifetime time.Duration
}

// DBProviderInterface defines the interface for getting database clients.
type DBProviderInterface interface {
	GetDBClient() (client.DBClientInterface, error)
}

// DBProvider hands out clients backed by one process wide pool.
type DBProvider struct{}

var (
	sharedClient client.DBClientInterface
	sharedErr    error
	openOnce     sync.Once
	testDB       *sql.DB
)

// NewDBProvider creates a new instance of DBProvider.
func NewDBProvider() DBProviderInterface {

	return &DBProvider{}
}

// SetTestDB makes every provider return a client for db. Used by integration tests.
func SetTestDB(db *sql.DB) {

	testDB = db
}

// GetDBClient opens the pool on first use and returns the shared client.
func (d *DBProvider) GetDBClient() (client.DBClientInterface, error) {

	if testDB != nil {
		return client.NewDBClient(testDB), nil
	}

	openOnce.Do(func() {
		dbConfig := getDBConfig(config.GetPDSRuntime().Config)

		db, err := sql.Open(dbConfig.driverName, dbConfig.dsn)
		if err != nil {
			sharedErr = fmt.Errorf("failed to open database: %w", err)
			return
		}
		db.SetMaxOpenConns(dbConfig.maxOpenConns)
		db.SetMaxIdleConns(dbConfig.maxIdleConns)
		db.SetConnMaxLifetime(dbConfig.connMaxLifetime)

		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			sharedErr = fmt.Errorf("failed to ping database: %w", err)
			return
		}
		log.GetLogger().Info("Database pool opened",
			log.Int("max_open_conns", dbConfig.maxOpenConns),
			log.Duration("conn_max_lifetime", dbConfig.connMaxLifetime))
		sharedClient = client.NewDBClient(db)
	})

	return sharedClient, sharedErr
}

func getDBConfig(cfg config.Config) DBConfig {

	ds := cfg.DataSource
	dbConfig := DBConfig{
		driverName:   "postgres",
		maxOpenConns: ds.MaxOpenConns,
		maxIdleConns: ds.MaxIdleConns,
	}
	dbConfig.dsn = strings.Join([]string{
		dsnPair("host", ds.Hostname),
		dsnPair("port", fmt.Sprint(ds.Port)),
		dsnPair("user", ds.Username),
		dsnPair("password", ds.Password),
		dsnPair("dbname", ds.Name),
		dsnPair("sslmode", ds.SSLMode),
	}, " ")

	if dbConfig.maxOpenConns <= 0 {
		dbConfig.maxOpenConns = 25
	}
	if dbConfig.maxIdleConns <= 0 || dbConfig.maxIdleConns > dbConfig.maxOpenConns {
		dbConfig.maxIdleConns = dbConfig.maxOpenConns
	}
	dbConfig.connMaxLifetime = 30 * time.Minute
	if lifetime, err := time.ParseDuration(ds.ConnMaxLifetime); err == nil && lifetime > 0 {
		dbConfig.connMaxLifetime = lifetime
	}
	return dbConfig
}

// dsnPair renders key=value, quoting values libpq would otherwise split.
func dsnPair(key, value string) string {

	if value != "" && !strings.ContainsAny(value, ` '\`) {
		return key + "=" + value
	}
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(value)
	return key + "='" + escaped + "'"
}
