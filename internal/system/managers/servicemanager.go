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

package managers

import (
	"net/http"
	"net/url"
	"strings"

	batchhandler "github.com/wso2/plant-data-service/internal/batch_processor/handler"
	"github.com/wso2/plant-data-service/internal/blob_store"
	consenthandler "github.com/wso2/plant-data-service/internal/consent/handler"
	healthhandler "github.com/wso2/plant-data-service/internal/health_check/handler"
	ingestionhandler "github.com/wso2/plant-data-service/internal/ingestion/handler"
	labelinghandler "github.com/wso2/plant-data-service/internal/labeling/handler"
	"github.com/wso2/plant-data-service/internal/system/config"
	"github.com/wso2/plant-data-service/internal/system/services"
)

type ServiceManagerInterface interface {
	RegisterServices(apiBasePath string) error
}

type ServiceManager struct {
	mux        *http.ServeMux
	components *Components
}

// NewServiceManager creates a new instance of ServiceManager.
func NewServiceManager(mux *http.ServeMux, components *Components) ServiceManagerInterface {

	return &ServiceManager{
		mux:        mux,
		components: components,
	}
}

func (sm *ServiceManager) RegisterServices(apiBasePath string) error {

	c := sm.components
	runtimeConfig := config.GetPDSRuntime().Config
	maxUpload := int64(runtimeConfig.Pipeline.MaxUploadSizeMiB) << 20

	services.NewConsentService(sm.mux, apiBasePath, consenthandler.NewConsentHandler(c.Consents, c.Usage, c.Deletion))
	services.NewContributionService(sm.mux, apiBasePath,
		ingestionhandler.NewIngestionHandler(c.Ingestion, c.Consents, maxUpload))
	services.NewLabelingService(sm.mux, apiBasePath, labelinghandler.NewLabelingHandler(c.Labeling))
	services.NewBatchService(sm.mux, apiBasePath, batchhandler.NewBatchHandler(c.Batches, c.Reconciler))

	var metricsHandler http.Handler
	if c.Metrics != nil {
		metricsHandler = c.Metrics.Handler()
	}
	services.NewHealthService(sm.mux, healthhandler.NewHealthHandler(c.Health), metricsHandler)

	if local, ok := c.Blobs.(*blob_store.LocalStore); ok {
		if base, err := url.Parse(runtimeConfig.BlobStore.PublicBaseURL); err == nil && base.Path != "" {
			services.NewBlobFileService(sm.mux, strings.TrimSuffix(base.Path, "/"), local.Root())
		}
	}
	return nil
}
