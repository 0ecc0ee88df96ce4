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

var CountContributionsByStatus = map[string]string{
	"postgres": `SELECT status, COUNT(*) FROM plant_contributions WHERE user_id = $1 GROUP BY status`,
}

var CountDatasetItemsBySplit = map[string]string{
	"postgres": `SELECT di.split, COUNT(*) FROM dataset_items di
       JOIN plant_contributions c ON c.id = di.contribution_id
       WHERE c.user_id = $1 GROUP BY di.split`,
}

var GetModelVersionsByUser = map[string]string{
	"postgres": `SELECT DISTINCT mv.name, mv.version, mv.status FROM model_versions mv
       WHERE mv.dataset_id IN (
           SELECT di.dataset_id FROM dataset_items di
           JOIN plant_contributions c ON c.id = di.contribution_id
           WHERE c.user_id = $1)
       ORDER BY mv.name, mv.version`,
}
