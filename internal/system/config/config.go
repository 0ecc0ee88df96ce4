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

import "time"

type AddrConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type LogConfig struct {
	LogLevel string `yaml:"log_level"`
	// Format is "text" or "json".
	Format string `yaml:"format"`
}

type AuthConfig struct {
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	JWTSecret          string   `yaml:"jwt_secret"`
	Issuer             string   `yaml:"issuer"`
	Audience           string   `yaml:"audience"`
}

type AuthServerConfig struct {
	RequiredScopes map[string][]string `yaml:"required_scopes"`
}

type DataSourceConfig struct {
	Hostname string `yaml:"hostname"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	// Schema is a path relative to the service home that is applied on start when set.
	Schema          string `yaml:"schema"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime"`
}

type MemoryStoreConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type BlobStoreConfig struct {
	Type          string `yaml:"type"`
	LocalRoot     string `yaml:"local_root"`
	PublicBaseURL string `yaml:"public_base_url"`
	CloudinaryURL string `yaml:"cloudinary_url"`
}

type PipelineConfig struct {
	MaxEdge          int    `yaml:"max_edge"`
	JPEGQuality      int    `yaml:"jpeg_quality"`
	BatchSize        int    `yaml:"batch_size"`
	ConsentCacheTTL  string `yaml:"consent_cache_ttl"`
	MaxUploadSizeMiB int    `yaml:"max_upload_size_mib"`
}

type Config struct {
	Addr        AddrConfig        `yaml:"addr"`
	Log         LogConfig         `yaml:"log"`
	Auth        AuthConfig        `yaml:"auth"`
	AuthServer  AuthServerConfig  `yaml:"auth_server"`
	DataSource  DataSourceConfig  `yaml:"datasource"`
	MemoryStore MemoryStoreConfig `yaml:"memory_store"`
	BlobStore   BlobStoreConfig   `yaml:"blob_store"`
	Pipeline    PipelineConfig    `yaml:"pipeline"`
}

// ConsentCacheDuration parses the configured cache ttl, falling back to one minute.
func (p PipelineConfig) ConsentCacheDuration() time.Duration {

	if p.ConsentCacheTTL == "" {
		return time.Minute
	}
	d, err := time.ParseDuration(p.ConsentCacheTTL)
	if err != nil || d < 0 {
		return time.Minute
	}
	return d
}
