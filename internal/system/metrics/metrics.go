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

// Package metrics holds the Prometheus collectors of the pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the pipeline collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry       *prometheus.Registry
	ingestions     *prometheus.CounterVec
	degradations   *prometheus.CounterVec
	batchItems     *prometheus.CounterVec
	splits         *prometheus.CounterVec
	cleanupFailure prometheus.Counter
	stageDuration  *prometheus.HistogramVec
}

// New registers the collectors on a dedicated registry.
func New() *Metrics {

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ingestions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "plant_data",
			Name:      "ingestions_total",
			Help:      "Contribution ingestions by outcome.",
		}, []string{"outcome"}),
		degradations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "plant_data",
			Name:      "degradations_total",
			Help:      "Non fatal pipeline degradations by kind.",
		}, []string{"kind"}),
		batchItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "plant_data",
			Name:      "batch_items_total",
			Help:      "Reprocessed contributions by outcome.",
		}, []string{"outcome"}),
		splits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "plant_data",
			Name:      "dataset_assignments_total",
			Help:      "New dataset items by split.",
		}, []string{"split"}),
		cleanupFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "plant_data",
			Name:      "deletion_cleanup_failures_total",
			Help:      "Secondary store objects left behind after a committed deletion.",
		}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "plant_data",
			Name:      "ingestion_stage_seconds",
			Help:      "Time spent per ingestion stage.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
	}
	m.registry.MustRegister(m.ingestions, m.degradations, m.batchItems, m.splits, m.cleanupFailure,
		m.stageDuration, collectors.NewGoCollector())
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) IngestionFinished(outcome string) {
	if m != nil {
		m.ingestions.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) Degraded(kind string) {
	if m != nil {
		m.degradations.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) BatchItem(outcome string) {
	if m != nil {
		m.batchItems.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) SplitAssigned(split string) {
	if m != nil {
		m.splits.WithLabelValues(split).Inc()
	}
}

func (m *Metrics) CleanupFailed(n int) {
	if m != nil && n > 0 {
		m.cleanupFailure.Add(float64(n))
	}
}

func (m *Metrics) ObserveStage(stage string, seconds float64) {
	if m != nil {
		m.stageDuration.WithLabelValues(stage).Observe(seconds)
	}
}
