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

import "time"

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusReady      Status = "ready"
	StatusArchived   Status = "archived"
)

type Split string

const (
	SplitTrain      Split = "train"
	SplitValidation Split = "validation"
	SplitTest       Split = "test"
)

// DefaultDatasetName is the dataset created when no active dataset exists.
const DefaultDatasetName = "Default training dataset"

type Dataset struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Source      string    `json:"source"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// DatasetItem places one contribution in one split. It is written once and never changed.
type DatasetItem struct {
	ID             string    `json:"id"`
	DatasetID      string    `json:"dataset_id"`
	ContributionID string    `json:"contribution_id"`
	Split          Split     `json:"split"`
	CreatedAt      time.Time `json:"created_at"`
}
