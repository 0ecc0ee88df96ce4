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

const contributionColumns = `id, user_id, image_path, processed_path, image_url, scientific_name, common_name,
       health_status, disease_info, notes, exif_data, location_data, environmental_data, sensor_data, memory_id,
       source, status, created_at, updated_at`

var InsertContribution = map[string]string{
	"postgres": `
		INSERT INTO plant_contributions (id, user_id, image_path, processed_path, image_url, scientific_name,
			common_name, health_status, disease_info, notes, exif_data, location_data, environmental_data,
			sensor_data, memory_id, source, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, now(), now())
		RETURNING created_at, updated_at`,
}

var GetContributionById = map[string]string{
	"postgres": `SELECT ` + contributionColumns + ` FROM plant_contributions WHERE id = $1`,
}

var GetContributionByIdForUpdate = map[string]string{
	"postgres": `SELECT ` + contributionColumns + ` FROM plant_contributions WHERE id = $1 FOR UPDATE`,
}

var GetContributionsByMemoryIds = map[string]string{
	"postgres": `SELECT ` + contributionColumns + ` FROM plant_contributions WHERE memory_id = ANY($1)`,
}

var GetContributionQueue = map[string]string{
	"postgres": `SELECT ` + contributionColumns + ` FROM plant_contributions
       WHERE status IN ('pending_review', 'error') ORDER BY updated_at ASC, id ASC LIMIT $1`,
}

var GetContributionsWithoutMemory = map[string]string{
	"postgres": `SELECT ` + contributionColumns + ` FROM plant_contributions
       WHERE memory_id IS NULL ORDER BY created_at ASC LIMIT $1`,
}

var SetContributionMemoryId = map[string]string{
	"postgres": `UPDATE plant_contributions SET memory_id = $2, updated_at = now() WHERE id = $1`,
}

var SetContributionStatus = map[string]string{
	"postgres": `UPDATE plant_contributions SET status = $2, updated_at = now() WHERE id = $1`,
}

var MarkContributionError = map[string]string{
	"postgres": `
		UPDATE plant_contributions
		SET status = 'error',
			notes = CASE WHEN notes = '' THEN $2 ELSE notes || E'\n' || $2 END,
			updated_at = now()
		WHERE id = $1`,
}

var InsertFeatures = map[string]string{
	"postgres": `INSERT INTO plant_features (id, contribution_id, feature_type, feature_data, created_at) VALUES `,
}

var DeleteFeaturesByContribution = map[string]string{
	"postgres": `DELETE FROM plant_features WHERE contribution_id = $1`,
}

var GetFeaturesByContribution = map[string]string{
	"postgres": `SELECT id, contribution_id, feature_type, feature_data, created_at FROM plant_features
       WHERE contribution_id = $1 ORDER BY feature_type`,
}

var InsertImageMetadata = map[string]string{
	"postgres": `INSERT INTO image_metadata (id, contribution_id, exif_data, environmental_data, created_at)
       VALUES ($1, $2, $3, $4, now())`,
}

var GetAnnotationsByContribution = map[string]string{
	"postgres": `SELECT id, contribution_id, label_type, label_value, confidence, source, created_at
       FROM plant_annotations WHERE contribution_id = $1 ORDER BY created_at ASC, id ASC`,
}
