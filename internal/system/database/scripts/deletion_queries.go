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

var LockUserContributions = map[string]string{
	"postgres": `SELECT id, image_path, processed_path, memory_id FROM plant_contributions
       WHERE user_id = $1 ORDER BY id FOR UPDATE`,
}

// Dependent rows of a set of contributions, in the order they must be deleted.
var DeleteReviewTasksByContributions = map[string]string{
	"postgres": `DELETE FROM review_tasks WHERE contribution_id = ANY($1::uuid[])`,
}

var DeleteLabelingTasksByContributions = map[string]string{
	"postgres": `DELETE FROM labeling_tasks WHERE contribution_id = ANY($1::uuid[])`,
}

var DeleteDatasetItemsByContributions = map[string]string{
	"postgres": `DELETE FROM dataset_items WHERE contribution_id = ANY($1::uuid[])`,
}

var DeleteAnnotationsByContributions = map[string]string{
	"postgres": `DELETE FROM plant_annotations WHERE contribution_id = ANY($1::uuid[])`,
}

var DeleteFeaturesByContributions = map[string]string{
	"postgres": `DELETE FROM plant_features WHERE contribution_id = ANY($1::uuid[])`,
}

var DeleteImageMetadataByContributions = map[string]string{
	"postgres": `DELETE FROM image_metadata WHERE contribution_id = ANY($1::uuid[])`,
}

var DeleteContributionsByIds = map[string]string{
	"postgres": `DELETE FROM plant_contributions WHERE id = ANY($1::uuid[])`,
}
