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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/wso2/plant-data-service/internal/contribution/model"
	"github.com/wso2/plant-data-service/internal/system/database/client"
	"github.com/wso2/plant-data-service/internal/system/database/scripts"
)

const dialect = "postgres"

// ContributionStoreInterface is the relational persistence of contributions and their
// derived rows.
type ContributionStoreInterface interface {
	InsertContribution(ctx context.Context, q client.Executor, c *model.Contribution) error
	// GetContribution returns nil when no contribution has the id.
	GetContribution(ctx context.Context, q client.Executor, id string, forUpdate bool) (*model.Contribution, error)
	GetContributionsByMemoryIDs(ctx context.Context, q client.Executor, memoryIDs []string) ([]model.Contribution, error)
	GetQueue(ctx context.Context, q client.Executor, limit int) ([]model.Contribution, error)
	GetWithoutMemory(ctx context.Context, q client.Executor, limit int) ([]model.Contribution, error)
	SetMemoryID(ctx context.Context, q client.Executor, id, memoryID string) error
	SetStatus(ctx context.Context, q client.Executor, id string, status model.Status) error
	MarkError(ctx context.Context, q client.Executor, id, note string) error
	ReplaceFeatures(ctx context.Context, q client.Executor, contributionID string, features []model.Feature) error
	GetFeatures(ctx context.Context, q client.Executor, contributionID string) ([]model.Feature, error)
	InsertImageMetadata(ctx context.Context, q client.Executor, metadata model.ImageMetadata) error
	GetAnnotations(ctx context.Context, q client.Executor, contributionID string) ([]model.Annotation, error)
}

type ContributionStore struct{}

func NewContributionStore() *ContributionStore {
	return &ContributionStore{}
}

func (s *ContributionStore) InsertContribution(ctx context.Context, q client.Executor, c *model.Contribution) error {

	args, err := jsonArgs(c.DiseaseInfo, c.ExifData, c.LocationData, c.EnvironmentalData, c.SensorData)
	if err != nil {
		return errors.Wrapf(err, "failed to encode contribution %s", c.ID)
	}
	health := c.HealthStatus
	if health == "" {
		health = model.HealthUnknown
	}
	err = q.QueryRowContext(ctx, scripts.InsertContribution[dialect], c.ID, c.UserID, c.ImagePath, c.ProcessedPath,
		c.ImageURL, c.ScientificName, c.CommonName, string(health), args[0], c.Notes, args[1], args[2], args[3],
		args[4], c.MemoryID, c.Source, string(c.Status)).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return errors.Wrapf(err, "failed to insert contribution %s", c.ID)
	}
	c.HealthStatus = health
	return nil
}

func (s *ContributionStore) GetContribution(ctx context.Context, q client.Executor, id string,
	forUpdate bool) (*model.Contribution, error) {

	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	query := scripts.GetContributionById[dialect]
	if forUpdate {
		query = scripts.GetContributionByIdForUpdate[dialect]
	}
	c, err := scanContribution(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read contribution %s", id)
	}
	return c, nil
}

func (s *ContributionStore) GetContributionsByMemoryIDs(ctx context.Context, q client.Executor,
	memoryIDs []string) ([]model.Contribution, error) {

	if len(memoryIDs) == 0 {
		return []model.Contribution{}, nil
	}
	return s.list(ctx, q, scripts.GetContributionsByMemoryIds[dialect], pq.Array(memoryIDs))
}

// GetQueue returns contributions awaiting (re)processing, least recently touched first.
func (s *ContributionStore) GetQueue(ctx context.Context, q client.Executor, limit int) ([]model.Contribution, error) {
	return s.list(ctx, q, scripts.GetContributionQueue[dialect], limit)
}

func (s *ContributionStore) GetWithoutMemory(ctx context.Context, q client.Executor,
	limit int) ([]model.Contribution, error) {
	return s.list(ctx, q, scripts.GetContributionsWithoutMemory[dialect], limit)
}

func (s *ContributionStore) SetMemoryID(ctx context.Context, q client.Executor, id, memoryID string) error {
	return exec(ctx, q, scripts.SetContributionMemoryId[dialect], "set memory id of", id, id, memoryID)
}

func (s *ContributionStore) SetStatus(ctx context.Context, q client.Executor, id string, status model.Status) error {
	return exec(ctx, q, scripts.SetContributionStatus[dialect], "set status of", id, id, string(status))
}

// MarkError sets status error and appends note to the contribution notes.
func (s *ContributionStore) MarkError(ctx context.Context, q client.Executor, id, note string) error {
	return exec(ctx, q, scripts.MarkContributionError[dialect], "mark error on", id, id, note)
}

// ReplaceFeatures deletes the existing feature rows of the contribution and writes features.
func (s *ContributionStore) ReplaceFeatures(ctx context.Context, q client.Executor, contributionID string,
	features []model.Feature) error {

	if _, err := q.ExecContext(ctx, scripts.DeleteFeaturesByContribution[dialect], contributionID); err != nil {
		return errors.Wrapf(err, "failed to clear features of contribution %s", contributionID)
	}
	if len(features) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(features))
	args := make([]any, 0, len(features)*4)
	for i, f := range features {
		base := i * 4
		placeholders = append(placeholders, fmt.Sprintf("($%d,$%d,$%d,$%d,now())", base+1, base+2, base+3, base+4))
		id := f.ID
		if id == "" {
			id = uuid.New().String()
		}
		args = append(args, id, contributionID, f.FeatureType, string(f.FeatureData))
	}
	query := scripts.InsertFeatures[dialect] + strings.Join(placeholders, ",")
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "failed to insert features of contribution %s", contributionID)
	}
	return nil
}

func (s *ContributionStore) GetFeatures(ctx context.Context, q client.Executor,
	contributionID string) ([]model.Feature, error) {

	rows, err := q.QueryContext(ctx, scripts.GetFeaturesByContribution[dialect], contributionID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read features of contribution %s", contributionID)
	}
	defer rows.Close()

	features := []model.Feature{}
	for rows.Next() {
		var f model.Feature
		var data []byte
		if err := rows.Scan(&f.ID, &f.ContributionID, &f.FeatureType, &data, &f.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan feature")
		}
		f.FeatureData = json.RawMessage(data)
		features = append(features, f)
	}
	return features, errors.Wrap(rows.Err(), "failed to iterate features")
}

func (s *ContributionStore) InsertImageMetadata(ctx context.Context, q client.Executor,
	metadata model.ImageMetadata) error {

	args, err := jsonArgs(metadata.ExifData, metadata.EnvironmentalData)
	if err != nil {
		return errors.Wrap(err, "failed to encode image metadata")
	}
	if metadata.ID == "" {
		metadata.ID = uuid.New().String()
	}
	if _, err := q.ExecContext(ctx, scripts.InsertImageMetadata[dialect], metadata.ID, metadata.ContributionID,
		args[0], args[1]); err != nil {
		return errors.Wrapf(err, "failed to insert image metadata of contribution %s", metadata.ContributionID)
	}
	return nil
}

func (s *ContributionStore) GetAnnotations(ctx context.Context, q client.Executor,
	contributionID string) ([]model.Annotation, error) {

	rows, err := q.QueryContext(ctx, scripts.GetAnnotationsByContribution[dialect], contributionID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read annotations of contribution %s", contributionID)
	}
	defer rows.Close()

	annotations := []model.Annotation{}
	for rows.Next() {
		var a model.Annotation
		var labelType string
		var confidence sql.NullFloat64
		if err := rows.Scan(&a.ID, &a.ContributionID, &labelType, &a.Value, &confidence, &a.Source,
			&a.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan annotation")
		}
		a.Type = model.AnnotationType(labelType)
		if confidence.Valid {
			value := confidence.Float64
			a.Confidence = &value
		}
		annotations = append(annotations, a)
	}
	return annotations, errors.Wrap(rows.Err(), "failed to iterate annotations")
}

func (s *ContributionStore) list(ctx context.Context, q client.Executor, query string,
	args ...any) ([]model.Contribution, error) {

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list contributions")
	}
	defer rows.Close()

	contributions := []model.Contribution{}
	for rows.Next() {
		c, err := scanContribution(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan contribution")
		}
		contributions = append(contributions, *c)
	}
	return contributions, errors.Wrap(rows.Err(), "failed to iterate contributions")
}

func exec(ctx context.Context, q client.Executor, query, action, id string, args ...any) error {

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrapf(err, "failed to %s contribution %s", action, id)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.Wrapf(ErrContributionMissing, "failed to %s contribution %s", action, id)
	}
	return nil
}

// ErrContributionMissing is returned by updates that matched no row.
var ErrContributionMissing = errors.New("contribution does not exist")

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContribution(row rowScanner) (*model.Contribution, error) {

	var c model.Contribution
	var userID, memoryID sql.NullString
	var health, status string
	var disease, exif, location, environment, sensors []byte
	if err := row.Scan(&c.ID, &userID, &c.ImagePath, &c.ProcessedPath, &c.ImageURL, &c.ScientificName,
		&c.CommonName, &health, &disease, &c.Notes, &exif, &location, &environment, &sensors, &memoryID,
		&c.Source, &status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if userID.Valid {
		c.UserID = &userID.String
	}
	if memoryID.Valid {
		c.MemoryID = &memoryID.String
	}
	c.HealthStatus = model.HealthStatus(health)
	c.Status = model.Status(status)

	targets := []*map[string]any{&c.DiseaseInfo, &c.ExifData, &c.LocationData, &c.EnvironmentalData, &c.SensorData}
	for i, raw := range [][]byte{disease, exif, location, environment, sensors} {
		if len(raw) == 0 {
			continue
		}
		if err := json.Unmarshal(raw, targets[i]); err != nil {
			return nil, errors.Wrap(err, "failed to decode contribution json column")
		}
	}
	return &c, nil
}

// jsonArgs encodes maps for JSONB columns as text, since lib/pq sends []byte as bytea. A nil
// map becomes SQL NULL.
func jsonArgs(values ...map[string]any) ([]any, error) {

	out := make([]any, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		out[i] = string(encoded)
	}
	return out, nil
}
