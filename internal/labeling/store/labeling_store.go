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

	"github.com/google/uuid"
	"github.com/pkg/errors"

	contribution "github.com/wso2/plant-data-service/internal/contribution/model"
	"github.com/wso2/plant-data-service/internal/labeling/model"
	"github.com/wso2/plant-data-service/internal/system/database/client"
	"github.com/wso2/plant-data-service/internal/system/database/scripts"
)

const dialect = "postgres"

type LabelingStoreInterface interface {
	InsertLabelingTask(ctx context.Context, q client.Executor, task *model.LabelingTask) error
	// GetLabelingTask returns nil when no task has the id. forUpdate locks the row.
	GetLabelingTask(ctx context.Context, q client.Executor, id string, forUpdate bool) (*model.LabelingTask, error)
	StartLabelingTask(ctx context.Context, q client.Executor, id string, assignee *string) error
	SetLabelingTaskStatus(ctx context.Context, q client.Executor, id string, status model.TaskStatus) error
	CompleteLabelingTask(ctx context.Context, q client.Executor, id, annotationID string) error
	GetPendingLabelingTasks(ctx context.Context, q client.Executor, limit int) ([]model.LabelingTask, error)
	InsertAnnotation(ctx context.Context, q client.Executor, annotation *contribution.Annotation) error
	InsertReviewTask(ctx context.Context, q client.Executor, task *model.ReviewTask) error
	GetReviewTask(ctx context.Context, q client.Executor, id string, forUpdate bool) (*model.ReviewTask, error)
	UpdateReviewTask(ctx context.Context, q client.Executor, task *model.ReviewTask) error
	GetPendingReviewTasks(ctx context.Context, q client.Executor, reviewerID string, limit int) ([]model.ReviewTask, error)
}

type LabelingStore struct{}

func NewLabelingStore() *LabelingStore {
	return &LabelingStore{}
}

func (s *LabelingStore) InsertLabelingTask(ctx context.Context, q client.Executor, task *model.LabelingTask) error {

	err := q.QueryRowContext(ctx, scripts.InsertLabelingTask[dialect], task.ID, task.ContributionID, task.TaskType,
		string(task.Status), task.AssignedTo, string(task.Priority)).Scan(&task.CreatedAt, &task.UpdatedAt)
	return errors.Wrapf(err, "failed to insert labeling task for contribution %s", task.ContributionID)
}

func (s *LabelingStore) GetLabelingTask(ctx context.Context, q client.Executor, id string,
	forUpdate bool) (*model.LabelingTask, error) {

	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	query := scripts.GetLabelingTaskById[dialect]
	if forUpdate {
		query = scripts.GetLabelingTaskByIdForUpdate[dialect]
	}
	task, err := scanLabelingTask(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read labeling task %s", id)
	}
	return task, nil
}

func (s *LabelingStore) StartLabelingTask(ctx context.Context, q client.Executor, id string, assignee *string) error {
	_, err := q.ExecContext(ctx, scripts.StartLabelingTask[dialect], id, assignee)
	return errors.Wrapf(err, "failed to start labeling task %s", id)
}

func (s *LabelingStore) SetLabelingTaskStatus(ctx context.Context, q client.Executor, id string,
	status model.TaskStatus) error {
	_, err := q.ExecContext(ctx, scripts.SetLabelingTaskStatus[dialect], id, string(status))
	return errors.Wrapf(err, "failed to update labeling task %s", id)
}

func (s *LabelingStore) CompleteLabelingTask(ctx context.Context, q client.Executor, id, annotationID string) error {
	_, err := q.ExecContext(ctx, scripts.CompleteLabelingTask[dialect], id, annotationID)
	return errors.Wrapf(err, "failed to complete labeling task %s", id)
}

func (s *LabelingStore) GetPendingLabelingTasks(ctx context.Context, q client.Executor,
	limit int) ([]model.LabelingTask, error) {

	rows, err := q.QueryContext(ctx, scripts.GetPendingLabelingTasks[dialect], limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list pending labeling tasks")
	}
	defer rows.Close()

	tasks := []model.LabelingTask{}
	for rows.Next() {
		task, err := scanLabelingTask(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan labeling task")
		}
		tasks = append(tasks, *task)
	}
	return tasks, errors.Wrap(rows.Err(), "failed to iterate labeling tasks")
}

func (s *LabelingStore) InsertAnnotation(ctx context.Context, q client.Executor, annotation *contribution.Annotation) error {

	err := q.QueryRowContext(ctx, scripts.InsertAnnotation[dialect], annotation.ID, annotation.ContributionID,
		string(annotation.Type), annotation.Value, annotation.Confidence, annotation.Source).Scan(&annotation.CreatedAt)
	return errors.Wrapf(err, "failed to insert annotation for contribution %s", annotation.ContributionID)
}

func (s *LabelingStore) InsertReviewTask(ctx context.Context, q client.Executor, task *model.ReviewTask) error {

	err := q.QueryRowContext(ctx, scripts.InsertReviewTask[dialect], task.ID, task.ContributionID, task.LabelingTaskID,
		task.ReviewerID, string(task.Status)).Scan(&task.CreatedAt, &task.UpdatedAt)
	return errors.Wrapf(err, "failed to insert review task for labeling task %s", task.LabelingTaskID)
}

func (s *LabelingStore) GetReviewTask(ctx context.Context, q client.Executor, id string,
	forUpdate bool) (*model.ReviewTask, error) {

	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	query := scripts.GetReviewTaskById[dialect]
	if forUpdate {
		query = scripts.GetReviewTaskByIdForUpdate[dialect]
	}
	task, err := scanReviewTask(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read review task %s", id)
	}
	return task, nil
}

func (s *LabelingStore) UpdateReviewTask(ctx context.Context, q client.Executor, task *model.ReviewTask) error {
	_, err := q.ExecContext(ctx, scripts.UpdateReviewTask[dialect], task.ID, string(task.Status), task.ReviewerID,
		task.Feedback)
	return errors.Wrapf(err, "failed to update review task %s", task.ID)
}

func (s *LabelingStore) GetPendingReviewTasks(ctx context.Context, q client.Executor, reviewerID string,
	limit int) ([]model.ReviewTask, error) {

	rows, err := q.QueryContext(ctx, scripts.GetPendingReviewTasks[dialect], limit, reviewerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list pending review tasks")
	}
	defer rows.Close()

	tasks := []model.ReviewTask{}
	for rows.Next() {
		task, err := scanReviewTask(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan review task")
		}
		tasks = append(tasks, *task)
	}
	return tasks, errors.Wrap(rows.Err(), "failed to iterate review tasks")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLabelingTask(row rowScanner) (*model.LabelingTask, error) {

	var task model.LabelingTask
	var status, priority string
	var assignedTo, annotationID sql.NullString
	if err := row.Scan(&task.ID, &task.ContributionID, &task.TaskType, &status, &assignedTo, &priority,
		&annotationID, &task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}
	task.Status = model.TaskStatus(status)
	task.Priority = model.Priority(priority)
	task.AssignedTo = nullable(assignedTo)
	task.AnnotationID = nullable(annotationID)
	return &task, nil
}

func scanReviewTask(row rowScanner) (*model.ReviewTask, error) {

	var task model.ReviewTask
	var status, priority string
	var reviewerID, feedback sql.NullString
	if err := row.Scan(&task.ID, &task.ContributionID, &task.LabelingTaskID, &reviewerID, &status, &feedback,
		&priority, &task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}
	task.Status = model.ReviewStatus(status)
	task.Priority = model.Priority(priority)
	task.ReviewerID = nullable(reviewerID)
	task.Feedback = nullable(feedback)
	return &task, nil
}

func nullable(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}
