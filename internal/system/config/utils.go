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
	"os"
	"path"

	"gopkg.in/yaml.v2"
)

const (
	defaultMaxEdge     = 1024
	defaultJPEGQuality = 85
	defaultBatchSize   = 10
	defaultUploadMiB   = 20
)

// LoadConfig reads the deployment file, expands environment variables and applies defaults.
func LoadConfig(pdsHome, filePath string) (*Config, error) {
	file, err := os.ReadFile(path.Join(pdsHome, filePath))
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(file))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {

	if c.Pipeline.MaxEdge <= 0 {
		c.Pipeline.MaxEdge = defaultMaxEdge
	}
	if c.Pipeline.JPEGQuality <= 0 || c.Pipeline.JPEGQuality > 100 {
		c.Pipeline.JPEGQuality = defaultJPEGQuality
	}
	if c.Pipeline.BatchSize <= 0 {
		c.Pipeline.BatchSize = defaultBatchSize
	}
	if c.Pipeline.MaxUploadSizeMiB <= 0 {
		c.Pipeline.MaxUploadSizeMiB = defaultUploadMiB
	}
	if c.BlobStore.Type == "" {
		c.BlobStore.Type = "local"
	}
	if c.MemoryStore.Collection == "" {
		c.MemoryStore.Collection = "plant_memories"
	}
	if c.DataSource.SSLMode == "" {
		c.DataSource.SSLMode = "disable"
	}
}

// OverridePDSRuntime replaces the runtime configuration. Used by tests.
func OverridePDSRuntime(conf Config) {
	conf.applyDefaults()
	runtimeConfig = &PDSRuntime{
		Config: conf,
	}
}
