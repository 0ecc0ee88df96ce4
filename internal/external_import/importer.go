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

// Package external_import loads open plant image datasets from a local directory into the
// pipeline as external data.
package external_import

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wso2/plant-data-service/internal/consent/policy"
	contribution "github.com/wso2/plant-data-service/internal/contribution/model"
	datasetservice "github.com/wso2/plant-data-service/internal/dataset/service"
	"github.com/wso2/plant-data-service/internal/ingestion/model"
	ingestion "github.com/wso2/plant-data-service/internal/ingestion/service"
	"github.com/wso2/plant-data-service/internal/system/errors"
	"github.com/wso2/plant-data-service/internal/system/log"
)

// PlantVillage separates the plant from the condition with three underscores.
const categorySeparator = "___"

const externalDatasetSource = "external"

var imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

// ImportReport summarises one ImportDirectory run.
type ImportReport struct {
	DatasetID string      `json:"dataset_id"`
	Source    string      `json:"source"`
	Imported  int         `json:"imported"`
	Failed    int         `json:"failed"`
	Skipped   int         `json:"skipped"`
	Errors    []FileError `json:"errors,omitempty"`
}

type FileError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Labels are the contribution fields derived from a category directory name.
type Labels struct {
	ScientificName string
	HealthStatus   contribution.HealthStatus
	DiseaseInfo    map[string]any
}

type Importer struct {
	ingestion ingestion.IngestionServiceInterface
	datasets  datasetservice.DatasetServiceInterface
	now       func() time.Time
}

func NewImporter(ingestionService ingestion.IngestionServiceInterface,
	datasets datasetservice.DatasetServiceInterface) *Importer {

	return &Importer{ingestion: ingestionService, datasets: datasets, now: time.Now}
}

// ImportDirectory ingests every image under dir/<category>/ into a new dataset. A failing file
// is recorded and the import continues.
func (i *Importer) ImportDirectory(ctx context.Context, dir, source string) (*ImportReport, error) {

	if err := validateSource(source); err != nil {
		return nil, err
	}
	categories, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.NewValidationError(errors.INVALID_IMPORT, fmt.Sprintf("Cannot read %s: %v", dir, err))
	}

	name := fmt.Sprintf("%s import %s", source, i.now().UTC().Format(time.DateOnly))
	dataset, err := i.datasets.CreateDataset(ctx, name, fmt.Sprintf("Images imported from %s.", source),
		externalDatasetSource)
	if err != nil {
		return nil, err
	}

	logger := log.FromContext(ctx).With(log.String("source", source), log.DatasetID(dataset.ID))
	logger.Info("Starting external import", log.String("dir", dir))
	report := &ImportReport{DatasetID: dataset.ID, Source: source}

	for _, category := range categories {
		if !category.IsDir() {
			report.Skipped++
			continue
		}
		labels := ParseCategory(category.Name())
		categoryDir := filepath.Join(dir, category.Name())
		files, err := os.ReadDir(categoryDir)
		if err != nil {
			report.fail(categoryDir, err)
			continue
		}
		for _, file := range files {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			path := filepath.Join(categoryDir, file.Name())
			if file.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(file.Name()))] {
				report.Skipped++
				continue
			}
			if err := i.importFile(ctx, path, source, dataset.ID, labels); err != nil {
				logger.Debug("Skipping file that failed to import", log.String("path", path), log.Error(err))
				report.fail(path, err)
				continue
			}
			report.Imported++
		}
	}

	logger.Info("External import finished", log.Int("imported", report.Imported), log.Int("failed", report.Failed))
	logger.Audit(log.AuditEvent{
		InitiatorType: log.InitiatorTypeAdmin,
		TargetID:      dataset.ID,
		TargetType:    log.TargetTypeDataset,
		ActionID:      log.ActionImportDataset,
		Data:          map[string]any{"source": source, "imported": report.Imported, "failed": report.Failed},
	})
	return report, nil
}

func (i *Importer) importFile(ctx context.Context, path, source, datasetID string, labels Labels) error {

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = i.ingestion.Ingest(ctx, model.IngestRequest{
		Payload: contribution.Payload{
			ScientificName: labels.ScientificName,
			HealthStatus:   labels.HealthStatus,
			DiseaseInfo:    labels.DiseaseInfo,
			Notes:          "Imported from " + source,
		},
		Image:     data,
		Consent:   policy.ExternalConsent(),
		Source:    source,
		DatasetID: datasetID,
	})
	return err
}

func (r *ImportReport) fail(path string, err error) {
	r.Failed++
	r.Errors = append(r.Errors, FileError{Path: path, Error: err.Error()})
}

// ParseCategory reads labels from a directory name. "Tomato___Late_blight" is an unhealthy
// tomato with disease "Late blight", "Tomato___healthy" a healthy one. A name without the
// separator is a species name only.
func ParseCategory(name string) Labels {

	plant, condition, found := strings.Cut(name, categorySeparator)
	labels := Labels{
		ScientificName: humanize(plant),
		HealthStatus:   contribution.HealthUnknown,
	}
	if !found {
		return labels
	}
	if strings.Contains(strings.ToLower(condition), "healthy") {
		labels.HealthStatus = contribution.HealthHealthy
		return labels
	}
	labels.HealthStatus = contribution.HealthUnhealthy
	labels.DiseaseInfo = map[string]any{"name": humanize(condition)}
	return labels
}

func humanize(s string) string {
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool { return r == '_' }), " ")
}

func validateSource(source string) error {

	switch {
	case strings.TrimSpace(source) == "":
		return errors.NewValidationError(errors.INVALID_IMPORT, "Import source is required.")
	case source == contribution.SourceUser:
		return errors.NewValidationError(errors.INVALID_IMPORT, "Import source must not be \"user\".")
	case strings.ContainsAny(source, `/\`) || strings.Contains(source, ".."):
		return errors.NewValidationError(errors.INVALID_IMPORT, "Import source must be a plain name.")
	}
	return nil
}
