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

package config

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// PDSRuntime holds the runtime configuration for the plant data service.
type PDSRuntime struct {
	PDSHome string `yaml:"pds_home"`
	Config  Config `yaml:"config"`
}

var (
	runtimeConfig *PDSRuntime
	once          sync.Once
)

// InitializePDSRuntime validates config and installs it as the process wide runtime. Only the
// first successful call takes effect.
func InitializePDSRuntime(pdsHome string, config *Config) error {

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return err
	}
	once.Do(func() {
		runtimeConfig = &PDSRuntime{
			PDSHome: pdsHome,
			Config:  *config,
		}
	})
	return nil
}

// Validate reports every setting that would make the service unusable.
func (c *Config) Validate() error {

	var problems []string
	if c.DataSource.Hostname == "" {
		problems = append(problems, "datasource.hostname is required")
	}
	if c.DataSource.Port <= 0 {
		problems = append(problems, "datasource.port must be positive")
	}
	if c.MemoryStore.URI == "" {
		problems = append(problems, "memory_store.uri is required")
	}
	switch c.BlobStore.Type {
	case "local":
		if c.BlobStore.LocalRoot == "" {
			problems = append(problems, "blob_store.local_root is required for the local store")
		}
	case "cloudinary":
		if c.BlobStore.CloudinaryURL == "" {
			problems = append(problems, "blob_store.cloudinary_url is required for the cloudinary store")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown blob_store.type %q", c.BlobStore.Type))
	}
	if ttl := c.Pipeline.ConsentCacheTTL; ttl != "" {
		if d, err := time.ParseDuration(ttl); err != nil || d < 0 {
			problems = append(problems, fmt.Sprintf("pipeline.consent_cache_ttl %q is not a valid duration", ttl))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// GetPDSRuntime returns the PDSRuntime configuration.
func GetPDSRuntime() *PDSRuntime {

	if runtimeConfig == nil {
		panic("PDSRuntime is not initialized")
	}
	return runtimeConfig
}
