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

package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	batchmodel "github.com/wso2/plant-data-service/internal/batch_processor/model"
	dataset "github.com/wso2/plant-data-service/internal/dataset/model"
	"github.com/wso2/plant-data-service/internal/external_import"
	"github.com/wso2/plant-data-service/internal/system/log"
	"github.com/wso2/plant-data-service/internal/system/workers"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	m.Run()
}

type fakePipeline struct {
	batchSize   int
	limit       int
	importedDir string
	source      string
	err         error
}

func (f *fakePipeline) ProcessBatch(ctx context.Context, batchSize int) (*batchmodel.BatchResult, error) {
	f.batchSize = batchSize
	return &batchmodel.BatchResult{Processed: 2, Successful: 2}, f.err
}

func (f *fakePipeline) ReconcileMemoryMirrors(ctx context.Context, limit int) (*workers.ReconcileReport, error) {
	f.limit = limit
	return &workers.ReconcileReport{Scanned: 1, Repaired: 1}, f.err
}

func (f *fakePipeline) ImportDirectory(ctx context.Context, dir, source string) (*external_import.ImportReport, error) {
	f.importedDir, f.source = dir, source
	return &external_import.ImportReport{Source: source, Imported: 3}, f.err
}

func (f *fakePipeline) EnsureDefaultDataset(ctx context.Context) (*dataset.Dataset, error) {
	return &dataset.Dataset{ID: "ds-1", Name: "Default Dataset"}, f.err
}

func newRunner(f *fakePipeline) (*runner, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &runner{batches: f, reconciler: f, importer: f, datasets: f, out: out}, out
}

func TestRun_Batch(t *testing.T) {

	f := &fakePipeline{}
	r, out := newRunner(f)

	require.NoError(t, r.run(context.Background(), []string{"batch", "-size", "25"}))
	assert.Equal(t, 25, f.batchSize)
	assert.Contains(t, out.String(), `"successful": 2`)
}

func TestRun_ReconcileAndEnsureDataset(t *testing.T) {

	f := &fakePipeline{}
	r, out := newRunner(f)

	require.NoError(t, r.run(context.Background(), []string{"reconcile", "-limit", "7"}))
	assert.Equal(t, 7, f.limit)

	out.Reset()
	require.NoError(t, r.run(context.Background(), []string{"ensure-dataset"}))
	assert.Contains(t, out.String(), `"ds-1"`)
}

func TestRun_Import(t *testing.T) {

	f := &fakePipeline{}
	r, out := newRunner(f)

	require.NoError(t, r.run(context.Background(), []string{"import", "-dir", "/data/plantvillage", "-source", "plantvillage"}))
	assert.Equal(t, "/data/plantvillage", f.importedDir)
	assert.Equal(t, "plantvillage", f.source)
	assert.Contains(t, out.String(), `"imported": 3`)

	err := r.run(context.Background(), []string{"import", "-source", "plantvillage"})
	assert.True(t, errors.Is(err, errUsage))
}

func TestRun_UsageErrors(t *testing.T) {

	r, _ := newRunner(&fakePipeline{})

	assert.True(t, errors.Is(r.run(context.Background(), nil), errUsage))
	assert.True(t, errors.Is(r.run(context.Background(), []string{"train"}), errUsage))
	assert.True(t, errors.Is(r.run(context.Background(), []string{"batch", "-size", "many"}), errUsage))
}

func TestRun_ServiceErrorPassesThrough(t *testing.T) {

	f := &fakePipeline{err: errors.New("queue unavailable")}
	r, out := newRunner(f)

	err := r.run(context.Background(), []string{"batch"})
	assert.EqualError(t, err, "queue unavailable")
	assert.False(t, errors.Is(err, errUsage))
	assert.Empty(t, out.String())
}
