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

package model

import (
	consent "github.com/wso2/plant-data-service/internal/consent/model"
	contribution "github.com/wso2/plant-data-service/internal/contribution/model"
	dataset "github.com/wso2/plant-data-service/internal/dataset/model"
	"github.com/wso2/plant-data-service/internal/imaging"
	"github.com/wso2/plant-data-service/internal/system/errors"
)

// Stage of a contribution moving through the pipeline.
type Stage string

const (
	StageReceived          Stage = "received"
	StageSanitized         Stage = "sanitized"
	StageImageStored       Stage = "image_stored"
	StageFeaturesExtracted Stage = "features_extracted"
	StagePersisted         Stage = "persisted"
	StageSplitAssigned     Stage = "split_assigned"
	StageProcessed         Stage = "processed"
	StageError             Stage = "error"
)

// IngestRequest is one image with its metadata. A nil Payload.UserID marks external data,
// in which case Source names the origin of the import. DatasetID overrides the active dataset.
type IngestRequest struct {
	Payload   contribution.Payload
	Image     []byte
	Consent   consent.ConsentSettings
	Source    string
	DatasetID string
}

// IngestResult is returned on success and, when dataset assignment failed, together with the
// error so the caller can see what was persisted.
type IngestResult struct {
	Contribution *contribution.Contribution `json:"contribution"`
	DatasetItem  *dataset.DatasetItem       `json:"dataset_item,omitempty"`
	Features     *imaging.Features          `json:"features,omitempty"`
	Warnings     []*errors.Degradation      `json:"warnings,omitempty"`
}

// Degraded reports whether any non fatal step failed.
func (r *IngestResult) Degraded() bool {
	return len(r.Warnings) > 0
}
