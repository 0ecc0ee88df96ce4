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

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/wso2/plant-data-service/internal/consent/model"
	"github.com/wso2/plant-data-service/internal/system/database/client"
	"github.com/wso2/plant-data-service/internal/system/database/scripts"
)

const dialect = "postgres"

// ConsentStoreInterface is the relational persistence of consent settings and their audit log.
type ConsentStoreInterface interface {
	// GetConsent returns nil when the user never stored consent. forUpdate locks the row and,
	// inside a transaction, the user's consent for writing even before the row exists.
	GetConsent(ctx context.Context, q client.Executor, userID string, forUpdate bool) (*model.ConsentSettings, error)
	UpsertConsent(ctx context.Context, q client.Executor, settings model.ConsentSettings) (*model.ConsentSettings, error)
	InsertAuditEntries(ctx context.Context, q client.Executor, entries []model.AuditEntry) error
	GetAuditLog(ctx context.Context, q client.Executor, userID string, limit int) ([]model.AuditEntry, error)
	DeleteAuditLog(ctx context.Context, q client.Executor, userID string) (int64, error)
	DeleteConsent(ctx context.Context, q client.Executor, userID string) (int64, error)
}

type ConsentStore struct{}

func NewConsentStore() *ConsentStore {
	return &ConsentStore{}
}

func (s *ConsentStore) GetConsent(ctx context.Context, q client.Executor, userID string,
	forUpdate bool) (*model.ConsentSettings, error) {

	query := scripts.GetConsentByUser[dialect]
	if forUpdate {
		if _, err := q.ExecContext(ctx, scripts.LockConsentOfUser[dialect], userID); err != nil {
			return nil, errors.Wrapf(err, "failed to lock consent of user %s", userID)
		}
		query = scripts.GetConsentByUserForUpdate[dialect]
	}

	var c model.ConsentSettings
	err := q.QueryRowContext(ctx, query, userID).Scan(&c.ID, &c.UserID, &c.BasicIdentification,
		&c.ModelTraining, &c.ExifMetadata, &c.LocationData, &c.AdvancedSensors, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read consent of user %s", userID)
	}
	return &c, nil
}

// UpsertConsent writes settings. settings.ID is only used when the row does not exist yet.
func (s *ConsentStore) UpsertConsent(ctx context.Context, q client.Executor,
	settings model.ConsentSettings) (*model.ConsentSettings, error) {

	err := q.QueryRowContext(ctx, scripts.UpsertConsent[dialect], settings.ID, settings.UserID,
		settings.BasicIdentification, settings.ModelTraining, settings.ExifMetadata, settings.LocationData,
		settings.AdvancedSensors).Scan(&settings.ID, &settings.CreatedAt, &settings.UpdatedAt)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to upsert consent of user %s", settings.UserID)
	}
	return &settings, nil
}

// InsertAuditEntries writes all entries with a single statement.
func (s *ConsentStore) InsertAuditEntries(ctx context.Context, q client.Executor, entries []model.AuditEntry) error {

	if len(entries) == 0 {
		return nil
	}

	const columns = 10
	placeholders := make([]string, 0, len(entries))
	args := make([]any, 0, len(entries)*columns)
	for i, e := range entries {
		base := i * columns
		placeholders = append(placeholders, fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10))
		args = append(args, e.ID, e.UserID, e.ConsentID, string(e.Action), string(e.ConsentType),
			e.PreviousValue, e.NewValue, e.IPAddress, e.UserAgent, e.CreatedAt)
	}

	query := scripts.InsertAuditEntries[dialect] + strings.Join(placeholders, ",")
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "failed to insert consent audit entries")
	}
	return nil
}

func (s *ConsentStore) GetAuditLog(ctx context.Context, q client.Executor, userID string,
	limit int) ([]model.AuditEntry, error) {

	rows, err := q.QueryContext(ctx, scripts.GetAuditLogByUser[dialect], userID, limit)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read audit log of user %s", userID)
	}
	defer rows.Close()

	entries := []model.AuditEntry{}
	for rows.Next() {
		var e model.AuditEntry
		var previous sql.NullBool
		var action, consentType string
		if err := rows.Scan(&e.ID, &e.UserID, &e.ConsentID, &action, &consentType, &previous, &e.NewValue,
			&e.IPAddress, &e.UserAgent, &e.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan audit entry")
		}
		e.Action = model.AuditAction(action)
		e.ConsentType = model.ConsentType(consentType)
		if previous.Valid {
			value := previous.Bool
			e.PreviousValue = &value
		}
		entries = append(entries, e)
	}
	return entries, errors.Wrap(rows.Err(), "failed to iterate audit entries")
}

func (s *ConsentStore) DeleteAuditLog(ctx context.Context, q client.Executor, userID string) (int64, error) {

	res, err := q.ExecContext(ctx, scripts.DeleteAuditLogByUser[dialect], userID)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to delete audit log of user %s", userID)
	}
	return res.RowsAffected()
}

func (s *ConsentStore) DeleteConsent(ctx context.Context, q client.Executor, userID string) (int64, error) {

	res, err := q.ExecContext(ctx, scripts.DeleteConsentByUser[dialect], userID)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to delete consent of user %s", userID)
	}
	return res.RowsAffected()
}
