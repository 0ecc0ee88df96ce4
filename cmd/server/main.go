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

package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/wso2/plant-data-service/internal/system/config"
	"github.com/wso2/plant-data-service/internal/system/constants"
	"github.com/wso2/plant-data-service/internal/system/log"
	"github.com/wso2/plant-data-service/internal/system/managers"
	"github.com/wso2/plant-data-service/internal/system/services"
)

func main() {
	pdsHome := getPDSHome()

	loadEnvFiles(pdsHome)

	// Load the configuration file
	pdsConfig, err := config.LoadConfig(pdsHome, constants.ConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize runtime configurations.
	if err := config.InitializePDSRuntime(pdsHome, pdsConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize runtime: %v\n", err)
		os.Exit(1)
	}

	if err := log.Configure(log.Options{Level: pdsConfig.Log.LogLevel, Format: pdsConfig.Log.Format}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := log.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := managers.BuildComponents(ctx, pdsHome, pdsConfig)
	if err != nil {
		logger.Fatal("Failed to initialize the service components", log.Error(err))
	}
	defer components.Close()

	mux := http.NewServeMux()
	if err := managers.NewServiceManager(mux, components).RegisterServices(constants.ApiBasePath); err != nil {
		logger.Fatal("Failed to register the services", log.Error(err))
	}
	handler := services.EnableCORS(pdsConfig.Auth.CORSAllowedOrigins, services.WithTraceID(mux))

	serverAddr := fmt.Sprintf("%s:%d", pdsConfig.Addr.Host, pdsConfig.Addr.Port)
	ln, err := net.Listen("tcp", serverAddr)
	if err != nil {
		logger.Fatal("Failed to start listener", log.String("address", serverAddr), log.Error(err))
	}

	server := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Graceful shutdown failed", log.Error(err))
		}
	}()

	logger.Info("WSO2 plant data service started", log.String("address", serverAddr))
	if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
		logger.Error("Failed to serve requests", log.Error(err))
	}
	logger.Info("WSO2 plant data service stopped")
}

// loadEnvFiles loads <pdsHome>/config/*.env so the deployment file can reference the values.
func loadEnvFiles(pdsHome string) {

	envFiles, err := filepath.Glob(filepath.Join(pdsHome, "config", "*.env"))
	if err != nil || len(envFiles) == 0 {
		return
	}
	_ = godotenv.Load(envFiles...)
}

func getPDSHome() string {

	// Parse project directory from command line arguments.
	projectHomeFlag := flag.String("pdsHome", "", "Path to plant data service home directory")
	flag.Parse()

	if *projectHomeFlag != "" {
		return *projectHomeFlag
	}
	// If no command line argument is provided, use the current working directory.
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get current working directory: %v\n", err)
		os.Exit(1)
	}
	return dir
}
