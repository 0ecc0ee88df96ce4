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
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	contribution "github.com/wso2/plant-data-service/internal/contribution/model"
	contributionstore "github.com/wso2/plant-data-service/internal/contribution/store"
	"github.com/wso2/plant-data-service/internal/labeling/model"
	"github.com/wso2/plant-data-service/internal/labeling/store"
	"github.com/wso2/plant-data-service/internal/memory_store"
	"github.com/wso2/plant-data-service/internal/system/database/client"
	"github.com/wso2/plant-data-service/internal/system/errors"
	"github.com/wso2/plant-data-service/internal/system/log"
	"github.com/wso2/plant-data-service/internal/system/pagination"
)

// LabelingServiceInterface is the labeling and review workflow over stored contributions.
type LabelingServiceInterface interface {
	CreateLabelingTask(ctx context.Context, req model.CreateLabelingTaskRequest) (*model.LabelingTask, error)
	StartLabelingTask(ctx context.Context, taskID, assignee string) (*model.LabelingTask, error)
	RejectLabelingTask(ctx context.Context, taskID string) (*model.LabelingTask, error)
	CompleteLabelingTask(ctx context.Context, taskID string, annotation model.AnnotationInput) (*model.CompletionResult, error)
	ReviewTask(ctx context.Context, reviewTaskID, reviewerID string, status model.ReviewStatus,
		feedback string) (*model.ReviewTask, error)
	GetPendingLabelingTasks(ctx context.Context, limit int) ([]model.LabelingTask, error)
	GetPendingReviewTasks(ctx context.Context, reviewerID string, limit int) ([]model.ReviewTask, error)
}

type LabelingService struct {
	db            client.DBClientInterface
	store         store.LabelingStoreInterface
	contributions contributionstore.ContributionStoreInterface
	memory        memory_store.MemoryStore
}

func NewLabelingService(db client.DBClientInterface, labelingStore store.LabelingStoreInterface,
	contributions contributionstore.ContributionStoreInterface, memory memory_store.MemoryStore) *LabelingService {

	return &LabelingService{
		db:            db,
		store:         labelingStore,
		contributions: contributions,
		memory:        memory,
	}
}

func (s *LabelingService) CreateLabelingTask(ctx context.Context,
	req model.CreateLabelingTaskRequest) (*model.LabelingTask, error) {

	if req.Priority == "" {
		req.Priority = model.PriorityMedium
	}
	if !req.Priority.Valid() {
		return nil, errors.NewValidationError(errors.INVALID_TASK, fmt.Sprintf("Unknown priority %q.", req.Priority))
	}
	if !model.TaskTypes[req.TaskType] {
		return nil, errors.NewValidationError(errors.INVALID_TASK, fmt.Sprintf("Unknown task type %q.", req.TaskType))
	}

	executor := s.db.Executor()
	c, err := s.contributions.GetContribution(ctx, executor, req.ContributionID, false)
	if err != nil {
		return nil, s.storeError(errors.ADD_LABELING_TASK, "Failed to read the contribution.", err)
	}
	if c == nil {
		return nil, contributionNotFound(req.ContributionID)
	}

	task := &model.LabelingTask{
		ID:             uuid.New().String(),
		ContributionID: req.ContributionID,
		TaskType:       req.TaskType,
		Status:         model.TaskPending,
		Priority:       req.Priority,
	}
	if err := s.store.InsertLabelingTask(ctx, executor, task); err != nil {
		return nil, s.storeError(errors.ADD_LABELING_TASK, "Failed to create the labeling task.", err)
	}
	return task, nil
}

// StartLabelingTask moves a pending task to in_progress.
func (s *LabelingService) StartLabelingTask(ctx context.Context, taskID, assignee string) (*model.LabelingTask, error) {

	var task *model.LabelingTask
	err := s.db.WithTx(ctx, func(tx client.Executor) error {
		var err error
		task, err = s.lockOpenTask(ctx, tx, taskID)
		if err != nil {
			return err
		}
		if task.Status != model.TaskPending {
			return transitionError(fmt.Sprintf("Labeling task %s is %s and cannot be started.", taskID, task.Status))
		}
		var assignedTo *string
		if assignee != "" {
			assignedTo = &assignee
		}
		if err := s.store.StartLabelingTask(ctx, tx, taskID, assignedTo); err != nil {
			return err
		}
		task.Status = model.TaskInProgress
		if assignedTo != nil {
			task.AssignedTo = assignedTo
		}
		return nil
	})
	if err != nil {
		return nil, s.txError(errors.UPDATE_LABELING_TASK, "Failed to start the labeling task.", err)
	}
	return task, nil
}

// RejectLabelingTask closes an open task without an annotation.
func (s *LabelingService) RejectLabelingTask(ctx context.Context, taskID string) (*model.LabelingTask, error) {

	var task *model.LabelingTask
	err := s.db.WithTx(ctx, func(tx client.Executor) error {
		var err error
		if task, err = s.lockOpenTask(ctx, tx, taskID); err != nil {
			return err
		}
		if err := s.store.SetLabelingTaskStatus(ctx, tx, taskID, model.TaskRejected); err != nil {
			return err
		}
		task.Status = model.TaskRejected
		return nil
	})
	if err != nil {
		return nil, s.txError(errors.UPDATE_LABELING_TASK, "Failed to reject the labeling task.", err)
	}
	return task, nil
}

// CompleteLabelingTask writes the annotation, completes the task and opens its review task in
// one transaction. The annotation is mirrored to the contribution's memory record afterwards.
func (s *LabelingService) CompleteLabelingTask(ctx context.Context, taskID string,
	input model.AnnotationInput) (*model.CompletionResult, error) {

	if err := validateAnnotation(input); err != nil {
		return nil, err
	}

	result := &model.CompletionResult{}
	err := s.db.WithTx(ctx, func(tx client.Executor) error {
		task, err := s.lockOpenTask(ctx, tx, taskID)
		if err != nil {
			return err
		}

		annotation := &contribution.Annotation{
			ID:             uuid.New().String(),
			ContributionID: task.ContributionID,
			Type:           input.Type,
			Value:          strings.TrimSpace(input.Value),
			Confidence:     input.Confidence,
			Source:         input.Source,
		}
		if err := s.store.InsertAnnotation(ctx, tx, annotation); err != nil {
			return err
		}
		if err := s.store.CompleteLabelingTask(ctx, tx, taskID, annotation.ID); err != nil {
			return err
		}
		task.Status = model.TaskCompleted
		task.AnnotationID = &annotation.ID

		review := &model.ReviewTask{
			ID:             uuid.New().String(),
			ContributionID: task.ContributionID,
			LabelingTaskID: taskID,
			Status:         model.ReviewPending,
			Priority:       task.Priority,
		}
		if err := s.store.InsertReviewTask(ctx, tx, review); err != nil {
			return err
		}

		result.Task = task
		result.Annotation = annotation
		result.ReviewTask = review
		return nil
	})
	if err != nil {
		return nil, s.txError(errors.UPDATE_LABELING_TASK, "Failed to complete the labeling task.", err)
	}

	if warning := s.mirrorAnnotation(ctx, result.Annotation); warning != nil {
		result.Warnings = append(result.Warnings, warning)
	}
	log.FromContext(ctx).Debug("Labeling task completed", log.TaskID(taskID),
		log.ContributionID(result.Annotation.ContributionID), log.String("reviewTaskId", result.ReviewTask.ID))
	return result, nil
}

func (s *LabelingService) mirrorAnnotation(ctx context.Context, annotation *contribution.Annotation) *errors.Degradation {

	logger := log.FromContext(ctx).With(log.ContributionID(annotation.ContributionID))
	degrade := func(cause error) *errors.Degradation {
		msg := errors.MEMORY_ANNOTATION_FAILED
		msg.Description = "The annotation is stored but not mirrored to the memory record."
		logger.Warn(msg.Message, log.Error(cause))
		return errors.NewDegradation(msg, cause)
	}

	c, err := s.contributions.GetContribution(ctx, s.db.Executor(), annotation.ContributionID, false)
	if err != nil {
		return degrade(err)
	}
	if c == nil || c.MemoryID == nil {
		// Reconciliation creates the record later from the relational row.
		return nil
	}
	entry := map[string]any{
		"annotation_id": annotation.ID,
		"type":          string(annotation.Type),
		"value":         annotation.Value,
		"source":        annotation.Source,
	}
	if annotation.Confidence != nil {
		entry["confidence"] = *annotation.Confidence
	}
	if err := s.memory.Update(ctx, *c.MemoryID, memory_store.Partial{
		AppendMetadata: map[string]any{"annotations": entry},
	}); err != nil {
		return degrade(err)
	}
	return nil
}

// ReviewTask records a review decision. Approval also approves the contribution.
func (s *LabelingService) ReviewTask(ctx context.Context, reviewTaskID, reviewerID string, status model.ReviewStatus,
	feedback string) (*model.ReviewTask, error) {

	if status != model.ReviewApproved && status != model.ReviewRejected {
		return nil, errors.NewValidationError(errors.INVALID_TASK,
			fmt.Sprintf("Review status must be approved or rejected, got %q.", status))
	}
	if reviewerID == "" {
		return nil, errors.NewValidationError(errors.INVALID_TASK, "Reviewer id is required.")
	}

	var task *model.ReviewTask
	err := s.db.WithTx(ctx, func(tx client.Executor) error {
		var err error
		task, err = s.store.GetReviewTask(ctx, tx, reviewTaskID, true)
		if err != nil {
			return err
		}
		if task == nil {
			return errors.NewNotFoundError(errors.REVIEW_TASK_NOT_FOUND,
				fmt.Sprintf("Review task %s does not exist.", reviewTaskID))
		}
		if task.Status != model.ReviewPending {
			return transitionError(fmt.Sprintf("Review task %s is already %s.", reviewTaskID, task.Status))
		}
		if task.ReviewerID != nil && *task.ReviewerID != reviewerID {
			return transitionError(fmt.Sprintf("Review task %s is assigned to another reviewer.", reviewTaskID))
		}

		task.Status = status
		task.ReviewerID = &reviewerID
		if feedback != "" {
			task.Feedback = &feedback
		}
		if err := s.store.UpdateReviewTask(ctx, tx, task); err != nil {
			return err
		}
		if status == model.ReviewApproved {
			return s.contributions.SetStatus(ctx, tx, task.ContributionID, contribution.StatusApproved)
		}
		return nil
	})
	if err != nil {
		return nil, s.txError(errors.UPDATE_REVIEW_TASK, "Failed to review the task.", err)
	}

	log.FromContext(ctx).Audit(log.AuditEvent{
		InitiatorID:   reviewerID,
		InitiatorType: log.InitiatorTypeUser,
		TargetID:      task.ContributionID,
		TargetType:    log.TargetTypeReviewTask,
		ActionID:      log.ActionReviewContribution,
		Data:          map[string]any{"review_task_id": task.ID, "status": string(status)},
	})
	return task, nil
}

func (s *LabelingService) GetPendingLabelingTasks(ctx context.Context, limit int) ([]model.LabelingTask, error) {

	tasks, err := s.store.GetPendingLabelingTasks(ctx, s.db.Executor(), pagination.Clamp(limit))
	if err != nil {
		return nil, s.storeError(errors.GET_TASKS, "Failed to list pending labeling tasks.", err)
	}
	return tasks, nil
}

// GetPendingReviewTasks lists pending review tasks assigned to reviewerID or to nobody. An
// empty reviewerID lists all of them.
func (s *LabelingService) GetPendingReviewTasks(ctx context.Context, reviewerID string,
	limit int) ([]model.ReviewTask, error) {

	tasks, err := s.store.GetPendingReviewTasks(ctx, s.db.Executor(), reviewerID, pagination.Clamp(limit))
	if err != nil {
		return nil, s.storeError(errors.GET_TASKS, "Failed to list pending review tasks.", err)
	}
	return tasks, nil
}

// lockOpenTask reads the task FOR UPDATE and fails unless it is pending or in_progress.
func (s *LabelingService) lockOpenTask(ctx context.Context, tx client.Executor, taskID string) (*model.LabelingTask, error) {

	task, err := s.store.GetLabelingTask(ctx, tx, taskID, true)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, errors.NewNotFoundError(errors.LABELING_TASK_NOT_FOUND,
			fmt.Sprintf("Labeling task %s does not exist.", taskID))
	}
	if !task.Status.Open() {
		return nil, transitionError(fmt.Sprintf("Labeling task %s is already %s.", taskID, task.Status))
	}
	return task, nil
}

func validateAnnotation(input model.AnnotationInput) error {

	switch input.Type {
	case contribution.AnnotationSpecies, contribution.AnnotationHealth, contribution.AnnotationGrowthStage,
		contribution.AnnotationCustom:
	default:
		return errors.NewValidationError(errors.INVALID_ANNOTATION, fmt.Sprintf("Unknown annotation type %q.", input.Type))
	}
	switch input.Source {
	case contribution.AnnotationSourceUser, contribution.AnnotationSourceExpert, contribution.AnnotationSourceSystem,
		contribution.AnnotationSourceAI:
	default:
		return errors.NewValidationError(errors.INVALID_ANNOTATION, fmt.Sprintf("Unknown annotation source %q.", input.Source))
	}
	if strings.TrimSpace(input.Value) == "" {
		return errors.NewValidationError(errors.INVALID_ANNOTATION, "Annotation value is required.")
	}
	if c := input.Confidence; c != nil && (math.IsNaN(*c) || *c < 0 || *c > 1) {
		return errors.NewValidationError(errors.INVALID_ANNOTATION, "Confidence must be between 0 and 1.")
	}
	return nil
}

func transitionError(description string) error {
	return errors.NewValidationError(errors.INVALID_TASK_TRANSITION, description)
}

func contributionNotFound(id string) error {
	return errors.NewNotFoundError(errors.CONTRIBUTION_NOT_FOUND, fmt.Sprintf("Contribution %s does not exist.", id))
}

func (s *LabelingService) storeError(msg errors.ErrorMessage, description string, err error) error {
	log.GetLogger().Debug(description, log.Error(err))
	return errors.NewStoreError(msg, description, err)
}

// txError passes client errors raised inside a transaction through unchanged.
func (s *LabelingService) txError(msg errors.ErrorMessage, description string, err error) error {
	if errors.IsClientError(err) {
		return err
	}
	return s.storeError(msg, description, err)
}
