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

package external_import

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	contribution "github.com/wso2/plant-data-service/internal/contribution/model"
	dataset "github.com/wso2/plant-data-service/internal/dataset/model"
	"github.com/wso2/plant-data-service/internal/ingestion/model"
	"github.com/wso2/plant-data-service/internal/ingestion/service/servicetest"
	"github.com/wso2/plant-data-service/internal/system/database/client"
	customerrors "github.com/wso2/plant-data-service/internal/system/errors"
	"github.com/wso2/plant-data-service/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	m.Run()
}

// fakeDatasets only creates datasets.
type fakeDatasets struct {
	created []dataset.Dataset
}

func (f *fakeDatasets) EnsureDefaultDataset(ctx context.Context) (*dataset.Dataset, error) {
	return nil, errors.New("not used")
}

func (f *fakeDatasets) Assign(ctx context.Context, q client.Executor, contributionID string) (*dataset.DatasetItem, error) {
	return nil, errors.New("not used")
}

func (f *fakeDatasets) AssignTo(ctx context.Context, q client.Executor, contributionID,
	datasetID string) (*dataset.DatasetItem, error) {
	return nil, errors.New("not used")
}

func (f *fakeDatasets) CreateDataset(ctx context.Context, name, description, source string) (*dataset.Dataset, error) {
	d := dataset.Dataset{ID: "ds-import", Name: name, Description: description, Source: source,
		Status: dataset.StatusInProgress}
	f.created = append(f.created, d)
	return &d, nil
}

func writeFile(t *testing.T, path string, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func TestParseCategory(t *testing.T) {

	cases := map[string]Labels{
		"Tomato___Late_blight": {ScientificName: "Tomato", HealthStatus: contribution.HealthUnhealthy,
			DiseaseInfo: map[string]any{"name": "Late blight"}},
		"Apple___healthy": {ScientificName: "Apple", HealthStatus: contribution.HealthHealthy},
		"Quercus_robur":   {ScientificName: "Quercus robur", HealthStatus: contribution.HealthUnknown},
	}
	for name, want := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, want, ParseCategory(name))
		})
	}
}

func TestImportDirectory(t *testing.T) {

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Tomato___Late_blight", "a.jpg"), "jpeg-a")
	writeFile(t, filepath.Join(dir, "Tomato___Late_blight", "b.JPG"), "jpeg-b")
	writeFile(t, filepath.Join(dir, "Apple___healthy", "c.png"), "png-c")
	writeFile(t, filepath.Join(dir, "Apple___healthy", "README.txt"), "notes")
	writeFile(t, filepath.Join(dir, "LICENSE"), "cc-by")

	ingest := new(servicetest.MockIngestionService)
	var requests []model.IngestRequest
	ingest.On("Ingest", mock.Anything, mock.MatchedBy(func(req model.IngestRequest) bool {
		return string(req.Image) == "jpeg-b"
	})).Return(nil, errors.New("corrupt image"))
	ingest.On("Ingest", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		requests = append(requests, args.Get(1).(model.IngestRequest))
	}).Return(&model.IngestResult{}, nil)

	datasets := &fakeDatasets{}
	importer := NewImporter(ingest, datasets)
	importer.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	report, err := importer.ImportDirectory(context.Background(), dir, "PlantVillage")

	require.NoError(t, err)
	require.Len(t, datasets.created, 1)
	assert.Equal(t, "PlantVillage import 2026-03-01", datasets.created[0].Name)
	assert.Equal(t, "ds-import", report.DatasetID)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 2, report.Skipped)
	require.Len(t, requests, 2)

	for _, req := range requests {
		assert.Nil(t, req.Payload.UserID)
		assert.Equal(t, "Imported from PlantVillage", req.Payload.Notes)
		assert.Equal(t, "PlantVillage", req.Source)
		assert.Equal(t, "ds-import", req.DatasetID)
		assert.True(t, req.Consent.ModelTraining)
	}
}

func TestImportDirectory_RejectsBadInput(t *testing.T) {

	importer := NewImporter(new(servicetest.MockIngestionService), &fakeDatasets{})

	_, err := importer.ImportDirectory(context.Background(), t.TempDir(), "../etc")
	assert.True(t, customerrors.IsValidation(err))

	_, err = importer.ImportDirectory(context.Background(), filepath.Join(t.TempDir(), "missing"), "PlantVillage")
	assert.True(t, customerrors.IsValidation(err))
}
