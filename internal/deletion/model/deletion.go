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

// Row kinds removed by a deletion, in deletion order.
type RowKind string

const (
	RowsReviewTasks   RowKind = "review_tasks"
	RowsLabelingTasks RowKind = "labeling_tasks"
	RowsDatasetItems  RowKind = "dataset_items"
	RowsAnnotations   RowKind = "annotations"
	RowsFeatures      RowKind = "features"
	RowsImageMetadata RowKind = "image_metadata"
	RowsContributions RowKind = "contributions"
	RowsAuditEntries  RowKind = "consent_audit_entries"
	RowsConsent       RowKind = "consent"
)

// DependentRows are deleted before the contributions they reference.
var DependentRows = []RowKind{
	RowsReviewTasks,
	RowsLabelingTasks,
	RowsDatasetItems,
	RowsAnnotations,
	RowsFeatures,
	RowsImageMetadata,
}

// Cleanup targets outside the relational store.
const (
	TargetRawImage       = "raw_image"
	TargetProcessedImage = "processed_image"
	TargetMemoryRecord   = "memory_record"
)

// DeletionReport describes what DeleteUserData removed.
type DeletionReport struct {
	UserID  string            `json:"user_id"`
	Deleted map[RowKind]int64 `json:"deleted"`
	// BlobsDeleted and MemoryRecordsDeleted count successful best effort cleanups.
	BlobsDeleted         int              `json:"blobs_deleted"`
	MemoryRecordsDeleted int              `json:"memory_records_deleted"`
	CleanupFailures      int              `json:"cleanup_failures"`
	Failures             []CleanupFailure `json:"failures,omitempty"`
}

type CleanupFailure struct {
	ContributionID string `json:"contribution_id"`
	Target         string `json:"target"`
	Error          string `json:"error"`
}
