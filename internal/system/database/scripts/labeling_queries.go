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

package scripts

const labelingTaskColumns = `id, contribution_id, task_type, status, assigned_to, priority, annotation_id, created_at,
       updated_at`

const priorityOrder = `CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END`

var InsertLabelingTask = map[string]string{
	"postgres": `INSERT INTO labeling_tasks (id, contribution_id, task_type, status, assigned_to, priority, created_at,
       updated_at) VALUES ($1, $2, $3, $4, $5, $6, clock_timestamp(), clock_timestamp())
       RETURNING created_at, updated_at`,
}

var GetLabelingTaskById = map[string]string{
	"postgres": `SELECT ` + labelingTaskColumns + ` FROM labeling_tasks WHERE id = $1`,
}

var GetLabelingTaskByIdForUpdate = map[string]string{
	"postgres": `SELECT ` + labelingTaskColumns + ` FROM labeling_tasks WHERE id = $1 FOR UPDATE`,
}

var StartLabelingTask = map[string]string{
	"postgres": `UPDATE labeling_tasks SET status = 'in_progress', assigned_to = COALESCE($2, assigned_to),
       updated_at = now() WHERE id = $1`,
}

var SetLabelingTaskStatus = map[string]string{
	"postgres": `UPDATE labeling_tasks SET status = $2, updated_at = now() WHERE id = $1`,
}

var CompleteLabelingTask = map[string]string{
	"postgres": `UPDATE labeling_tasks SET status = 'completed', annotation_id = $2, updated_at = now() WHERE id = $1`,
}

var GetPendingLabelingTasks = map[string]string{
	"postgres": `SELECT ` + labelingTaskColumns + ` FROM labeling_tasks WHERE status = 'pending'
       ORDER BY ` + priorityOrder + `, created_at ASC, id ASC LIMIT $1`,
}

var InsertAnnotation = map[string]string{
	"postgres": `INSERT INTO plant_annotations (id, contribution_id, label_type, label_value, confidence, source,
       created_at) VALUES ($1, $2, $3, $4, $5, $6, now()) RETURNING created_at`,
}

const reviewTaskColumns = `rt.id, rt.contribution_id, rt.labeling_task_id, rt.reviewer_id, rt.status, rt.feedback,
       lt.priority, rt.created_at, rt.updated_at`

var InsertReviewTask = map[string]string{
	"postgres": `INSERT INTO review_tasks (id, contribution_id, labeling_task_id, reviewer_id, status, created_at,
       updated_at) VALUES ($1, $2, $3, $4, $5, clock_timestamp(), clock_timestamp()) RETURNING created_at, updated_at`,
}

var GetReviewTaskById = map[string]string{
	"postgres": `SELECT ` + reviewTaskColumns + ` FROM review_tasks rt
       JOIN labeling_tasks lt ON lt.id = rt.labeling_task_id WHERE rt.id = $1`,
}

var GetReviewTaskByIdForUpdate = map[string]string{
	"postgres": `SELECT ` + reviewTaskColumns + ` FROM review_tasks rt
       JOIN labeling_tasks lt ON lt.id = rt.labeling_task_id WHERE rt.id = $1 FOR UPDATE OF rt`,
}

var UpdateReviewTask = map[string]string{
	"postgres": `UPDATE review_tasks SET status = $2, reviewer_id = $3, feedback = $4, updated_at = now() WHERE id = $1`,
}

// An empty reviewer ($2) lists every pending review task.
var GetPendingReviewTasks = map[string]string{
	"postgres": `SELECT ` + reviewTaskColumns + ` FROM review_tasks rt
       JOIN labeling_tasks lt ON lt.id = rt.labeling_task_id
       WHERE rt.status = 'pending' AND ($2::text = '' OR rt.reviewer_id IS NULL OR rt.reviewer_id = $2::text)
       ORDER BY CASE lt.priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END, rt.created_at ASC, rt.id ASC
       LIMIT $1`,
}
