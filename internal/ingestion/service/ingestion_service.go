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
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/wso2/plant-data-service/internal/blob_store"
	consent "github.com/wso2/plant-data-service/internal/consent/model"
	"github.com/wso2/plant-data-service/internal/consent/policy"
	contribution "github.com/wso2/plant-data-service/internal/contribution/model"
	contributionstore "github.com/wso2/plant-data-service/internal/contribution/store"
	dataset "github.com/wso2/plant-data-service/internal/dataset/model"
	datasetservice "github.com/wso2/plant-data-service/internal/dataset/service"
	"github.com/wso2/plant-data-service/internal/imaging"
	"github.com/wso2/plant-data-service/internal/ingestion/model"
	"github.com/wso2/plant-data-service/internal/memory_store"
	"github.com/wso2/plant-data-service/internal/system/constants"
	"github.com/wso2/plant-data-service/internal/system/database/client"
	"github.com/wso2/plant-data-service/internal/system/errors"
	"github.com/wso2/plant-data-service/internal/system/log"
	"github.com/wso2/plant-data-service/internal/system/metrics"
	"github.com/wso2/plant-data-service/internal/system/pagination"
)

// IngestionServiceInterface drives contributions from upload to a dataset split.
type IngestionServiceInterface interface {
	Ingest(ctx context.Context, req model.IngestRequest) (*model.IngestResult, error)
	// Reprocess re-runs feature extraction, memory mirroring and split assignment of a stored
	// contribution from its processed image.
	Reprocess(ctx context.Context, contributionID string) (*model.IngestResult, error)
	MarkFailed(ctx context.Context, contributionID, note string) error
	GetContribution(ctx context.Context, contributionID string) (*contribution.ContributionView, error)
	SearchContributions(ctx context.Context, query, ownerTag string, limit int) ([]contribution.ContributionView, error)
	// MirrorToMemory creates the memory record of c and links it. c.MemoryID is set on success.
	MirrorToMemory(ctx context.Context, c *contribution.Contribution) error
}

type IngestionService struct {
	db            client.DBClientInterface
	contributions contributionstore.ContributionStoreInterface
	datasets      datasetservice.DatasetServiceInterface
	blobs         blob_store.BlobStore
	memory        memory_store.MemoryStore
	processor     imaging.ImageProcessor
	metrics       *metrics.Metrics
}

func NewIngestionService(db client.DBClientInterface, contributions contributionstore.ContributionStoreInterface,
	datasets datasetservice.DatasetServiceInterface, blobs blob_store.BlobStore, memory memory_store.MemoryStore,
	processor imaging.ImageProcessor, m *metrics.Metrics) *IngestionService {

	return &IngestionService{
		db:            db,
		contributions: contributions,
		datasets:      datasets,
		blobs:         blobs,
		memory:        memory,
		processor:     processor,
		metrics:       m,
	}
}

// tracker logs stage transitions of one contribution and times them.
type tracker struct {
	logger  *log.Logger
	metrics *metrics.Metrics
	stage   model.Stage
	since   time.Time
}

func newTracker(logger *log.Logger, m *metrics.Metrics) *tracker {
	t := &tracker{logger: logger, metrics: m, stage: model.StageReceived, since: time.Now()}
	logger.Debug("Contribution stage", log.String("stage", string(model.StageReceived)))
	return t
}

func (t *tracker) enter(stage model.Stage) {
	elapsed := time.Since(t.since)
	t.metrics.ObserveStage(string(t.stage), elapsed.Seconds())
	t.logger.Debug("Contribution stage", log.String("from", string(t.stage)), log.String("stage", string(stage)),
		log.Duration("elapsed", elapsed))
	t.stage = stage
	t.since = time.Now()
}

func blobKeys(id, source string, external bool) (rawKey, processedKey string) {
	if external {
		key := fmt.Sprintf("external/%s/%s.jpg", source, id)
		return key, key
	}
	return id + "/original.jpg", id + "/processed.jpg"
}

func (s *IngestionService) Ingest(ctx context.Context, req model.IngestRequest) (*model.IngestResult, error) {

	id := uuid.New().String()
	logger := log.FromContext(ctx).With(log.ContributionID(id))
	track := newTracker(logger, s.metrics)
	external := req.Payload.UserID == nil

	if err := policy.ValidateWritable(req.Payload, req.Consent); err != nil {
		s.metrics.IngestionFinished("denied")
		logger.Debug("Contribution rejected by consent policy", log.Error(err))
		return nil, err
	}
	if err := validatePayload(req); err != nil {
		s.metrics.IngestionFinished("invalid")
		return nil, err
	}
	std, err := s.processor.Standardize(req.Image)
	if err != nil {
		s.metrics.IngestionFinished("invalid")
		return nil, errors.NewValidationError(errors.INVALID_IMAGE, fmt.Sprintf("The image could not be decoded: %v", err))
	}

	sanitized := policy.Sanitize(req.Payload, req.Consent)
	sanitized.ExifData = mergeExif(sanitized.ExifData, imaging.ReadExif(req.Image), req.Consent.ExifMetadata,
		req.Consent.LocationData)
	track.enter(model.StageSanitized)

	source := contribution.SourceUser
	if external {
		source = req.Source
		if source == "" {
			source = constants.ExternalOwnerTag
		}
	}
	rawKey, processedKey := blobKeys(id, source, external)
	raw := rawForConsent(req.Image, std, req.Consent)
	imageURL, err := s.storeImages(ctx, rawKey, raw, processedKey, std.Data)
	if err != nil {
		s.failIngestion(track, err)
		return nil, err
	}
	track.enter(model.StageImageStored)

	result := &model.IngestResult{}
	features, err := s.processor.ExtractFeatures(ctx, std)
	if err != nil {
		s.deleteImages(ctx, logger, rawKey, processedKey)
		s.failIngestion(track, err)
		return nil, errors.NewStoreError(errors.EXTRACT_FEATURES, "Feature extraction failed.", err)
	}
	if features.Degraded() {
		result.Warnings = append(result.Warnings, s.degrade(logger, errors.FEATURE_EXTRACTION_DEGRADED,
			features.Error, nil))
	}
	result.Features = features
	track.enter(model.StageFeaturesExtracted)

	c := &contribution.Contribution{
		ID:                id,
		UserID:            req.Payload.UserID,
		ImagePath:         rawKey,
		ProcessedPath:     processedKey,
		ImageURL:          imageURL,
		ScientificName:    sanitized.ScientificName,
		CommonName:        sanitized.CommonName,
		HealthStatus:      sanitized.HealthStatus,
		DiseaseInfo:       sanitized.DiseaseInfo,
		Notes:             sanitized.Notes,
		ExifData:          sanitized.ExifData,
		LocationData:      sanitized.LocationData,
		EnvironmentalData: sanitized.EnvironmentalData,
		SensorData:        sanitized.SensorData,
		Source:            source,
		Status:            contribution.StatusPendingReview,
	}
	featureRows, err := featureRows(features)
	if err == nil {
		err = s.db.WithTx(ctx, func(tx client.Executor) error {
			if err := s.contributions.InsertContribution(ctx, tx, c); err != nil {
				return err
			}
			if err := s.contributions.ReplaceFeatures(ctx, tx, id, featureRows); err != nil {
				return err
			}
			if c.ExifData == nil && c.EnvironmentalData == nil {
				return nil
			}
			return s.contributions.InsertImageMetadata(ctx, tx, contribution.ImageMetadata{
				ContributionID:    id,
				ExifData:          c.ExifData,
				EnvironmentalData: c.EnvironmentalData,
			})
		})
	}
	if err != nil {
		s.deleteImages(ctx, logger, rawKey, processedKey)
		s.failIngestion(track, err)
		logger.Debug("Failed to persist contribution", log.Error(err))
		return nil, errors.NewStoreError(errors.ADD_CONTRIBUTION, "Failed to persist the contribution.", err)
	}
	result.Contribution = c

	if err := s.MirrorToMemory(ctx, c); err != nil {
		result.Warnings = append(result.Warnings, s.degrade(logger, errors.MEMORY_MIRROR_FAILED,
			"The contribution is stored without a memory record.", err))
	}
	track.enter(model.StagePersisted)

	var item *dataset.DatasetItem
	if req.DatasetID != "" {
		item, err = s.datasets.AssignTo(ctx, s.db.Executor(), id, req.DatasetID)
	} else {
		item, err = s.datasets.Assign(ctx, s.db.Executor(), id)
	}
	if err != nil {
		s.markError(ctx, logger, c, fmt.Sprintf("dataset assignment failed: %v", err))
		s.failIngestion(track, err)
		return result, errors.NewStoreError(errors.ASSIGN_DATASET,
			"The contribution was stored but could not be assigned to a dataset.", err)
	}
	result.DatasetItem = item
	track.enter(model.StageSplitAssigned)

	if external {
		if err := s.contributions.SetStatus(ctx, s.db.Executor(), id, contribution.StatusApproved); err != nil {
			s.markError(ctx, logger, c, fmt.Sprintf("status update failed: %v", err))
			s.failIngestion(track, err)
			return result, errors.NewStoreError(errors.UPDATE_CONTRIBUTION, "Failed to approve the contribution.", err)
		}
		c.Status = contribution.StatusApproved
	}
	track.enter(model.StageProcessed)

	outcome := "success"
	if result.Degraded() {
		outcome = "degraded"
	}
	s.metrics.IngestionFinished(outcome)
	logger.Info("Contribution ingested", log.String("status", string(c.Status)),
		log.Int("warnings", len(result.Warnings)))
	logger.Audit(log.AuditEvent{
		InitiatorID:   initiatorOf(c),
		InitiatorType: log.InitiatorTypeUser,
		TargetID:      id,
		TargetType:    log.TargetTypeContribution,
		ActionID:      log.ActionIngestContribution,
		Data:          map[string]any{"source": source, "status": string(c.Status)},
	})
	return result, nil
}

// storeImages puts both blobs. When the second put fails the first is removed again.
func (s *IngestionService) storeImages(ctx context.Context, rawKey string, raw []byte, processedKey string,
	processed []byte) (string, error) {

	logger := log.FromContext(ctx)
	if err := s.blobs.Put(ctx, constants.RawImageBucket, rawKey, raw); err != nil {
		return "", errors.NewStoreError(errors.STORE_IMAGE, "Failed to store the original image.", err)
	}
	if err := s.blobs.Put(ctx, constants.ProcessedImageBucket, processedKey, processed); err != nil {
		if delErr := s.blobs.Delete(ctx, constants.RawImageBucket, rawKey); delErr != nil {
			logger.Warn("Failed to remove original image after failed upload", log.String("key", rawKey),
				log.Error(delErr))
		}
		return "", errors.NewStoreError(errors.STORE_IMAGE, "Failed to store the processed image.", err)
	}
	url, err := s.blobs.PublicURL(constants.ProcessedImageBucket, processedKey)
	if err != nil {
		s.deleteImages(ctx, logger, rawKey, processedKey)
		return "", errors.NewStoreError(errors.STORE_IMAGE, "Failed to resolve the image url.", err)
	}
	return url, nil
}

func (s *IngestionService) deleteImages(ctx context.Context, logger *log.Logger, rawKey, processedKey string) {

	if err := s.blobs.Delete(ctx, constants.RawImageBucket, rawKey); err != nil {
		logger.Warn("Failed to remove original image", log.String("key", rawKey), log.Error(err))
	}
	if err := s.blobs.Delete(ctx, constants.ProcessedImageBucket, processedKey); err != nil {
		logger.Warn("Failed to remove processed image", log.String("key", processedKey), log.Error(err))
	}
}

func (s *IngestionService) failIngestion(track *tracker, err error) {
	track.logger.Debug("Contribution failed", log.String("stage", string(track.stage)), log.Error(err))
	track.enter(model.StageError)
	s.metrics.IngestionFinished("failed")
}

func (s *IngestionService) markError(ctx context.Context, logger *log.Logger, c *contribution.Contribution, note string) {

	if err := s.contributions.MarkError(ctx, s.db.Executor(), c.ID, processingNote(note)); err != nil {
		logger.Error("Failed to mark contribution as failed", log.Error(err))
		return
	}
	c.Status = contribution.StatusError
}

func (s *IngestionService) degrade(logger *log.Logger, msg errors.ErrorMessage, description string,
	cause error) *errors.Degradation {

	msg.Description = description
	d := errors.NewDegradation(msg, cause)
	s.metrics.Degraded(msg.Code)
	fields := []log.Field{log.String("description", description)}
	if cause != nil {
		fields = append(fields, log.Error(cause))
	}
	logger.Warn(msg.Message, fields...)
	return d
}

func (s *IngestionService) MirrorToMemory(ctx context.Context, c *contribution.Contribution) error {

	memoryID, err := s.memory.Create(ctx, MemoryContent(c), c.OwnerTag(), MemoryMetadata(c))
	if err != nil {
		return err
	}
	if err := s.contributions.SetMemoryID(ctx, s.db.Executor(), c.ID, memoryID); err != nil {
		// An unlinked record would never be found again.
		if delErr := s.memory.Delete(ctx, memoryID); delErr != nil {
			log.GetLogger().Warn("Failed to remove unlinked memory record", log.String("memoryId", memoryID),
				log.Error(delErr))
		}
		return err
	}
	c.MemoryID = &memoryID
	return nil
}

// MemoryContent is the human readable text stored for c in the memory store.
func MemoryContent(c *contribution.Contribution) string {

	plant := c.ScientificName
	if c.CommonName != "" {
		plant = fmt.Sprintf("%s (%s)", c.CommonName, c.ScientificName)
	}
	health := c.HealthStatus
	if health == "" {
		health = contribution.HealthUnknown
	}
	return fmt.Sprintf("Plant: %s\n\nHealth: %s\n\nNotes: %s", plant, health, c.Notes)
}

func MemoryMetadata(c *contribution.Contribution) map[string]any {
	return map[string]any{
		"type":            "plant_data",
		"contribution_id": c.ID,
		"scientific_name": c.ScientificName,
		"health_status":   string(c.HealthStatus),
		"source":          c.Source,
	}
}

func (s *IngestionService) Reprocess(ctx context.Context, contributionID string) (*model.IngestResult, error) {

	logger := log.FromContext(ctx).With(log.ContributionID(contributionID))
	executor := s.db.Executor()

	c, err := s.contributions.GetContribution(ctx, executor, contributionID, false)
	if err != nil {
		return nil, errors.NewStoreError(errors.GET_CONTRIBUTION, "Failed to read the contribution.", err)
	}
	if c == nil {
		return nil, errors.NewNotFoundError(errors.CONTRIBUTION_NOT_FOUND,
			fmt.Sprintf("Contribution %s does not exist.", contributionID))
	}

	data, err := s.blobs.Get(ctx, constants.ProcessedImageBucket, c.ProcessedPath)
	if err != nil {
		return nil, errors.NewStoreError(errors.STORE_IMAGE, "Failed to read the processed image.", err)
	}
	std := &imaging.StandardizedImage{Data: data}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		std.Width, std.Height = cfg.Width, cfg.Height
	}

	result := &model.IngestResult{Contribution: c}
	features, err := s.processor.ExtractFeatures(ctx, std)
	if err != nil {
		return nil, errors.NewStoreError(errors.EXTRACT_FEATURES, "Feature extraction failed.", err)
	}
	if features.Degraded() {
		result.Warnings = append(result.Warnings, s.degrade(logger, errors.FEATURE_EXTRACTION_DEGRADED,
			features.Error, nil))
	}
	result.Features = features

	rows, err := featureRows(features)
	if err == nil {
		err = s.db.WithTx(ctx, func(tx client.Executor) error {
			return s.contributions.ReplaceFeatures(ctx, tx, contributionID, rows)
		})
	}
	if err != nil {
		return nil, errors.NewStoreError(errors.UPDATE_CONTRIBUTION, "Failed to replace the contribution features.", err)
	}

	if c.MemoryID == nil {
		if err := s.MirrorToMemory(ctx, c); err != nil {
			result.Warnings = append(result.Warnings, s.degrade(logger, errors.MEMORY_MIRROR_FAILED,
				"The contribution is still without a memory record.", err))
		}
	}

	item, err := s.datasets.Assign(ctx, executor, contributionID)
	if err != nil {
		return nil, errors.NewStoreError(errors.ASSIGN_DATASET, "Failed to assign the contribution to a dataset.", err)
	}
	result.DatasetItem = item

	if err := s.contributions.SetStatus(ctx, executor, contributionID, contribution.StatusProcessed); err != nil {
		return nil, errors.NewStoreError(errors.UPDATE_CONTRIBUTION, "Failed to update the contribution status.", err)
	}
	c.Status = contribution.StatusProcessed
	logger.Debug("Contribution reprocessed", log.Int("warnings", len(result.Warnings)))
	return result, nil
}

func (s *IngestionService) MarkFailed(ctx context.Context, contributionID, note string) error {

	err := s.contributions.MarkError(ctx, s.db.Executor(), contributionID, processingNote(note))
	if stderrors.Is(err, contributionstore.ErrContributionMissing) {
		return errors.NewNotFoundError(errors.CONTRIBUTION_NOT_FOUND,
			fmt.Sprintf("Contribution %s does not exist.", contributionID))
	}
	if err != nil {
		return errors.NewStoreError(errors.UPDATE_CONTRIBUTION, "Failed to mark the contribution as failed.", err)
	}
	return nil
}

func processingNote(note string) string {
	return "Processing error: " + note
}

func (s *IngestionService) GetContribution(ctx context.Context, contributionID string) (*contribution.ContributionView, error) {

	executor := s.db.Executor()
	c, err := s.contributions.GetContribution(ctx, executor, contributionID, false)
	if err != nil {
		return nil, errors.NewStoreError(errors.GET_CONTRIBUTION, "Failed to read the contribution.", err)
	}
	if c == nil {
		return nil, errors.NewNotFoundError(errors.CONTRIBUTION_NOT_FOUND,
			fmt.Sprintf("Contribution %s does not exist.", contributionID))
	}
	annotations, err := s.contributions.GetAnnotations(ctx, executor, contributionID)
	if err != nil {
		return nil, errors.NewStoreError(errors.GET_CONTRIBUTION, "Failed to read the contribution annotations.", err)
	}

	view := &contribution.ContributionView{Contribution: *c, Annotations: annotations}
	if c.MemoryID != nil {
		record, err := s.memory.Get(ctx, *c.MemoryID)
		if err != nil {
			log.GetLogger().Debug("Memory record unavailable", log.ContributionID(contributionID), log.Error(err))
		} else {
			view.MemoryContent = record.Content
			view.MemoryMeta = record.Metadata
		}
	}
	return view, nil
}

// SearchContributions ranks contributions by their memory records. Hits without a relational
// row are dropped.
func (s *IngestionService) SearchContributions(ctx context.Context, query, ownerTag string,
	limit int) ([]contribution.ContributionView, error) {

	if query == "" {
		return nil, errors.NewValidationError(errors.INVALID_SEARCH, "Query parameter q is required.")
	}
	records, err := s.memory.Search(ctx, query, ownerTag, pagination.Clamp(limit))
	if err != nil {
		return nil, errors.NewStoreError(errors.SEARCH_CONTRIBUTIONS, "Failed to search the memory store.", err)
	}
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	rows, err := s.contributions.GetContributionsByMemoryIDs(ctx, s.db.Executor(), ids)
	if err != nil {
		return nil, errors.NewStoreError(errors.SEARCH_CONTRIBUTIONS, "Failed to read matching contributions.", err)
	}
	byMemoryID := make(map[string]contribution.Contribution, len(rows))
	for _, row := range rows {
		if row.MemoryID != nil {
			byMemoryID[*row.MemoryID] = row
		}
	}

	views := make([]contribution.ContributionView, 0, len(records))
	for _, r := range records {
		row, ok := byMemoryID[r.ID]
		if !ok {
			continue
		}
		views = append(views, contribution.ContributionView{
			Contribution:  row,
			MemoryContent: r.Content,
			MemoryMeta:    r.Metadata,
			Score:         r.Score,
		})
	}
	return views, nil
}

func validatePayload(req model.IngestRequest) error {

	if len(req.Image) == 0 {
		return errors.NewValidationError(errors.INVALID_IMAGE, "An image is required.")
	}
	if !req.Payload.HealthStatus.Valid() {
		return errors.NewValidationError(errors.INVALID_CONTRIBUTION,
			fmt.Sprintf("Unknown health status %q.", req.Payload.HealthStatus))
	}
	if req.Payload.UserID != nil && *req.Payload.UserID == "" {
		return errors.NewValidationError(errors.INVALID_CONTRIBUTION, "User id must not be empty.")
	}
	return nil
}

func initiatorOf(c *contribution.Contribution) string {
	if c.UserID == nil {
		return constants.ExternalOwnerTag
	}
	return *c.UserID
}

// rawForConsent returns the bytes kept as the original image. Embedded metadata is only kept
// when both exif and location consent are granted, since EXIF may carry GPS. Input whose
// metadata cannot be removed in place is replaced by the standardized encoding.
func rawForConsent(original []byte, std *imaging.StandardizedImage, granted consent.ConsentSettings) []byte {

	if granted.ExifMetadata && granted.LocationData {
		return original
	}
	if stripped, ok := imaging.StripMetadata(original); ok {
		return stripped
	}
	return std.Data
}

// mergeExif adds the EXIF read from the image to the submitted EXIF. GPS tags are only kept
// when location consent is also given.
func mergeExif(submitted, read map[string]any, exifConsent, locationConsent bool) map[string]any {

	if !exifConsent {
		return nil
	}
	merged := maps.Clone(submitted)
	if len(read) > 0 && merged == nil {
		merged = map[string]any{}
	}
	for key, value := range read {
		if _, ok := merged[key]; !ok {
			merged[key] = value
		}
	}
	if !locationConsent && merged != nil {
		merged, _ = imaging.SplitGPS(merged)
	}
	return merged
}

func featureRows(f *imaging.Features) ([]contribution.Feature, error) {

	type rowSpec struct {
		featureType string
		value       any
	}
	dimensions := struct {
		imaging.Dimensions
		Error string `json:"error,omitempty"`
	}{f.Dimensions, f.Error}

	specs := []rowSpec{{contribution.FeatureDimensions, dimensions}}
	if f.Color != nil {
		specs = append(specs, rowSpec{contribution.FeatureColorHistogram, f.Color})
	}
	if f.Texture != nil {
		specs = append(specs, rowSpec{contribution.FeatureTexture, f.Texture})
	}

	rows := make([]contribution.Feature, 0, len(specs))
	for _, spec := range specs {
		data, err := json.Marshal(spec.value)
		if err != nil {
			return nil, err
		}
		rows = append(rows, contribution.Feature{FeatureType: spec.featureType, FeatureData: data})
	}
	return rows, nil
}
