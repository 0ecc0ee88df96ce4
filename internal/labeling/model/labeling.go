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
	"time"

	contribution "github.com/wso2/plant-data-service/internal/contribution/model"
	"github.com/wso2/plant-data-service/internal/system/errors"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskRejected   TaskStatus = "rejected"
)

// Open reports whether the task can still be worked on.
func (s TaskStatus) Open() bool {
	return s == TaskPending || s == TaskInProgress
}

type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Task types mirror the annotation types a labeler produces.
var TaskTypes = map[string]bool{
	string(contribution.AnnotationSpecies):     true,
	string(contribution.AnnotationHealth):      true,
	string(contribution.AnnotationGrowthStage): true,
	string(contribution.AnnotationCustom):      true,
}

type LabelingTask struct {
	ID             string     `json:"id"`
	ContributionID string     `json:"contribution_id"`
	TaskType       string     `json:"task_type"`
	Status         TaskStatus `json:"status"`
	AssignedTo     *string    `json:"assigned_to,omitempty"`
	Priority       Priority   `json:"priority"`
	AnnotationID   *string    `json:"annotation_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type ReviewTask struct {
	ID             string       `json:"id"`
	ContributionID string       `json:"contribution_id"`
	LabelingTaskID string       `json:"labeling_task_id"`
	ReviewerID     *string      `json:"reviewer_id,omitempty"`
	Status         ReviewStatus `json:"status"`
	Feedback       *string      `json:"feedback,omitempty"`
	Priority       Priority     `json:"priority,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

type CreateLabelingTaskRequest struct {
	ContributionID string   `json:"contribution_id"`
	TaskType       string   `json:"task_type"`
	Priority       Priority `json:"priority,omitempty"`
}

type StartLabelingTaskRequest struct {
	AssignedTo string `json:"assigned_to,omitempty"`
}

// AnnotationInput is the label submitted when completing a task.
type AnnotationInput struct {
	Type       contribution.AnnotationType `json:"type"`
	Value      string                      `json:"value"`
	Confidence *float64                    `json:"confidence,omitempty"`
	Source     string                      `json:"source"`
}

type ReviewRequest struct {
	Status   ReviewStatus `json:"status"`
	Feedback string       `json:"feedback,omitempty"`
}

// CompletionResult is what CompleteLabelingTask wrote.
type CompletionResult struct {
	Task       *LabelingTask            `json:"labeling_task"`
	Annotation *contribution.Annotation `json:"annotation"`
	ReviewTask *ReviewTask              `json:"review_task"`
	Warnings   []*errors.Degradation    `json:"warnings,omitempty"`
}
