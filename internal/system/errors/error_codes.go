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

package errors

const errorPrefix = "PDS-"


var (
	// Server error codes

	INTERNAL_SERVER_ERROR = ErrorMessage{
		Code:    errorPrefix + "15000",
		Message: "Internal server error.",
	}

	DB_CLIENT_INIT = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Error while initializing the database client.",
	}

	GET_CONSENT = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "Error while fetching consent settings.",
	}

	UPDATE_CONSENT = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Error while updating consent settings.",
	}

	GET_AUDIT_LOG = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Error while fetching the consent audit log.",
	}

	GET_USAGE_STATS = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Error while fetching usage statistics.",
	}

	STORE_IMAGE = ErrorMessage{
		Code:    errorPrefix + "15006",
		Message: "Error while storing contribution images.",
	}

	ADD_CONTRIBUTION = ErrorMessage{
		Code:    errorPrefix + "15007",
		Message: "Error while persisting the contribution.",
	}

	GET_CONTRIBUTION = ErrorMessage{
		Code:    errorPrefix + "15008",
		Message: "Error while fetching contribution(s).",
	}

	UPDATE_CONTRIBUTION = ErrorMessage{
		Code:    errorPrefix + "15009",
		Message: "Error while updating the contribution.",
	}

	ASSIGN_DATASET = ErrorMessage{
		Code:    errorPrefix + "15010",
		Message: "Error while assigning the contribution to a dataset.",
	}

	ENSURE_DATASET = ErrorMessage{
		Code:    errorPrefix + "15011",
		Message: "Error while ensuring the default dataset.",
	}

	EXTRACT_FEATURES = ErrorMessage{
		Code:    errorPrefix + "15012",
		Message: "Error while extracting image features.",
	}

	ADD_LABELING_TASK = ErrorMessage{
		Code:    errorPrefix + "15013",
		Message: "Error while creating the labeling task.",
	}

	UPDATE_LABELING_TASK = ErrorMessage{
		Code:    errorPrefix + "15014",
		Message: "Error while updating the labeling task.",
	}

	GET_TASKS = ErrorMessage{
		Code:    errorPrefix + "15015",
		Message: "Error while fetching tasks.",
	}

	UPDATE_REVIEW_TASK = ErrorMessage{
		Code:    errorPrefix + "15016",
		Message: "Error while reviewing the task.",
	}

	DELETE_USER_DATA = ErrorMessage{
		Code:    errorPrefix + "15017",
		Message: "Error while deleting user data.",
	}

	GET_BATCH_QUEUE = ErrorMessage{
		Code:    errorPrefix + "15018",
		Message: "Error while reading the pending contribution queue.",
	}

	LOCK_KEY_GEN = ErrorMessage{
		Code:    errorPrefix + "15019",
		Message: "Error while generating the lock key.",
	}

	LOCK_ACQUIRE = ErrorMessage{
		Code:    errorPrefix + "15020",
		Message: "Error while acquiring the lock.",
	}

	LOCK_RELEASE = ErrorMessage{
		Code:    errorPrefix + "15021",
		Message: "Error while releasing the lock.",
	}

	SEARCH_CONTRIBUTIONS = ErrorMessage{
		Code:    errorPrefix + "15022",
		Message: "Error while searching contributions.",
	}

	IMPORT_DATASET = ErrorMessage{
		Code:    errorPrefix + "15023",
		Message: "Error while importing an external dataset.",
	}

	// Degradation codes

	MEMORY_MIRROR_FAILED = ErrorMessage{
		Code:    errorPrefix + "17001",
		Message: "The contribution could not be mirrored to the memory store.",
	}

	FEATURE_EXTRACTION_DEGRADED = ErrorMessage{
		Code:    errorPrefix + "17002",
		Message: "Image features could not be fully extracted.",
	}

	MEMORY_ANNOTATION_FAILED = ErrorMessage{
		Code:    errorPrefix + "17003",
		Message: "The annotation could not be mirrored to the memory store.",
	}

	// Client error codes

	CONSENT_DENIED = ErrorMessage{
		Code:    errorPrefix + "10001",
		Message: "Consent required.",
	}

	INVALID_CONSENT = ErrorMessage{
		Code:    errorPrefix + "10002",
		Message: "Invalid consent settings.",
	}

	CONTRIBUTION_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "10003",
		Message: "Contribution not found.",
	}

	INVALID_CONTRIBUTION = ErrorMessage{
		Code:    errorPrefix + "10004",
		Message: "Invalid contribution.",
	}

	INVALID_IMAGE = ErrorMessage{
		Code:    errorPrefix + "10005",
		Message: "Invalid image.",
	}

	DATASET_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "10006",
		Message: "No active dataset found.",
	}

	LABELING_TASK_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "10007",
		Message: "Labeling task not found.",
	}

	REVIEW_TASK_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "10008",
		Message: "Review task not found.",
	}

	INVALID_TASK_TRANSITION = ErrorMessage{
		Code:    errorPrefix + "10009",
		Message: "Invalid task state transition.",
	}

	INVALID_ANNOTATION = ErrorMessage{
		Code:    errorPrefix + "10010",
		Message: "Invalid annotation.",
	}

	INVALID_TASK = ErrorMessage{
		Code:    errorPrefix + "10011",
		Message: "Invalid task.",
	}

	INVALID_BATCH_SIZE = ErrorMessage{
		Code:    errorPrefix + "10012",
		Message: "Invalid batch size.",
	}

	BATCH_RUNNING = ErrorMessage{
		Code:    errorPrefix + "10013",
		Message: "A batch is already running.",
	}

	BAD_REQUEST = ErrorMessage{
		Code:        errorPrefix + "10014",
		Message:     "Bad request.",
		Description: "The request body could not be parsed.",
	}

	UN_AUTHORIZED = ErrorMessage{
		Code:    errorPrefix + "10015",
		Message: "Unauthorized.",
	}

	FORBIDDEN = ErrorMessage{
		Code:        errorPrefix + "10016",
		Message:     "Forbidden.",
		Description: "The access token does not carry the scopes required for this operation.",
	}

	INVALID_SEARCH = ErrorMessage{
		Code:    errorPrefix + "10017",
		Message: "Invalid search request.",
	}

	RECONCILE_RUNNING = ErrorMessage{
		Code:    errorPrefix + "10018",
		Message: "A memory reconciliation is already running.",
	}

	INVALID_IMPORT = ErrorMessage{
		Code:    errorPrefix + "10019",
		Message: "Invalid import request.",
	}

	PAYLOAD_TOO_LARGE = ErrorMessage{
		Code:    errorPrefix + "10020",
		Message: "Request body too large.",
	}
)
