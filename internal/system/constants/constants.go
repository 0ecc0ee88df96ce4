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

package constants

type contextKey string

const (
	TraceIDContextKey   contextKey = "trace_id"
	PrincipalContextKey contextKey = "principal"
)

const (
	ApiBasePath   = "/api/v1"
	TraceIDHeader = "X-Trace-ID"
	ConfigFile    = "repository/conf/deployment.yaml"
)

// Blob buckets.
const (
	RawImageBucket       = "plant-contributions"
	ProcessedImageBucket = "processed-data"
)

// Owner tag used for memory records of externally imported data.
const ExternalOwnerTag = "external"

// UserOwnerTagPrefix namespaces user owner tags so no user id can collide with ExternalOwnerTag.
const UserOwnerTagPrefix = "user:"

// Lock keys.
const (
	BatchProcessorLockKey   = "batch-processor"
	MemoryReconcilerLockKey = "memory-reconciler"
)

// Operation names used for scope checks.
const (
	OperationManageConsent  = "manage_consent"
	OperationContribute     = "contribute"
	OperationReadContrib    = "read_contributions"
	OperationLabel          = "label"
	OperationReview         = "review"
	OperationProcessBatch   = "process_batch"
	OperationReconcileStore = "reconcile_memory"
)
