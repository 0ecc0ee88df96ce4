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

var GetConsentByUser = map[string]string{
	"postgres": `SELECT id, user_id, basic_identification, model_training, exif_metadata, location_data,
       advanced_sensors, created_at, updated_at FROM user_consent WHERE user_id = $1`,
}

var GetConsentByUserForUpdate = map[string]string{
	"postgres": GetConsentByUser["postgres"] + ` FOR UPDATE`,
}

// LockConsentOfUser serialises consent writers of one user, including the first one when no
// row exists yet for FOR UPDATE to lock. Released at commit or rollback.
var LockConsentOfUser = map[string]string{
	"postgres": `SELECT pg_advisory_xact_lock(hashtext('user_consent:' || $1))`,
}

var UpsertConsent = map[string]string{
	"postgres": `
		INSERT INTO user_consent (id, user_id, basic_identification, model_training, exif_metadata,
			location_data, advanced_sensors, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		ON CONFLICT (user_id) DO UPDATE SET
			basic_identification = EXCLUDED.basic_identification,
			model_training = EXCLUDED.model_training,
			exif_metadata = EXCLUDED.exif_metadata,
			location_data = EXCLUDED.location_data,
			advanced_sensors = EXCLUDED.advanced_sensors,
			updated_at = now()
		RETURNING id, created_at, updated_at`,
}

var InsertAuditEntries = map[string]string{
	"postgres": `INSERT INTO consent_audit_log (id, user_id, consent_id, action, consent_type, previous_value,
       new_value, ip_address, user_agent, created_at) VALUES `,
}

var GetAuditLogByUser = map[string]string{
	"postgres": `SELECT id, user_id, consent_id, action, consent_type, previous_value, new_value,
       COALESCE(ip_address, ''), COALESCE(user_agent, ''), created_at
       FROM consent_audit_log WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`,
}

var DeleteAuditLogByUser = map[string]string{
	"postgres": `DELETE FROM consent_audit_log WHERE user_id = $1`,
}

var DeleteConsentByUser = map[string]string{
	"postgres": `DELETE FROM user_consent WHERE user_id = $1`,
}
