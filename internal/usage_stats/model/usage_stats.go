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

// Sections of UsageStats, named in Degraded when their query failed.
const (
	SectionContributions = "contributions"
	SectionDatasetUsage  = "dataset_usage"
	SectionModelUsage    = "model_usage"
)

// UsageStats describes how a user's contributions are being used.
type UsageStats struct {
	TotalContributions     int           `json:"totalContributions"`
	ApprovedContributions  int           `json:"approvedContributions"`
	PendingContributions   int           `json:"pendingContributions"`
	RejectedContributions  int           `json:"rejectedContributions"`
	ProcessedContributions int           `json:"processedContributions"`
	ErrorContributions     int           `json:"errorContributions"`
	DatasetUsage           DatasetUsage  `json:"datasetUsage"`
	ModelUsage             int           `json:"modelUsage"`
	ModelDetails           []ModelDetail `json:"modelDetails"`
	// Degraded lists the sections that could not be computed. Their values are zero.
	Degraded []string `json:"degraded,omitempty"`
}

type DatasetUsage struct {
	Training   int `json:"training"`
	Validation int `json:"validation"`
	Testing    int `json:"testing"`
}

type ModelDetail struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Status  string `json:"status"`
}
