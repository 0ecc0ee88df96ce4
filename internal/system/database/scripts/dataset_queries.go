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

const datasetColumns = `id, name, description, source, status, created_at`

var GetActiveDataset = map[string]string{
	"postgres": `SELECT ` + datasetColumns + ` FROM datasets
       WHERE status IN ('in_progress', 'ready') AND source = 'user'
       ORDER BY created_at DESC, id DESC LIMIT 1`,
}

var GetDatasetById = map[string]string{
	"postgres": `SELECT ` + datasetColumns + ` FROM datasets WHERE id = $1`,
}

var InsertDataset = map[string]string{
	"postgres": `INSERT INTO datasets (id, name, description, source, status, created_at)
       VALUES ($1, $2, $3, $4, $5, clock_timestamp()) RETURNING created_at`,
}

// LockDefaultDataset serialises concurrent EnsureDefaultDataset calls until commit.
var LockDefaultDataset = map[string]string{
	"postgres": `SELECT pg_advisory_xact_lock(hashtext('default-dataset'))`,
}

var GetDatasetItemByContribution = map[string]string{
	"postgres": `SELECT id, dataset_id, contribution_id, split, created_at FROM dataset_items
       WHERE contribution_id = $1`,
}

var InsertDatasetItem = map[string]string{
	"postgres": `INSERT INTO dataset_items (id, dataset_id, contribution_id, split, created_at)
       VALUES ($1, $2, $3, $4, now()) ON CONFLICT (contribution_id) DO NOTHING`,
}
