/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package metrics exposes Prometheus counters for encoding, decoding and plugin loading.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "entitycodec"

	tagLabelName    = "tag"
	groupLabelName  = "group"
	unitLabelName   = "unit"
	statusLabelName = "status"

	StatusSuccess = "success"
	StatusFailure = "failure"
)

var (
	EncodedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "encoded_total",
			Help:      "number of groups encoded, by type tag",
		}, []string{tagLabelName})

	DecodedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decoded_total",
			Help:      "number of groups decoded, by type tag",
		}, []string{tagLabelName})

	PluginLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plugin_loads_total",
			Help:      "number of plugin units loaded on demand",
		}, []string{groupLabelName, unitLabelName, statusLabelName})

	RegisteredCodecs = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registered_codecs_total",
			Help:      "number of codec entries registered",
		})

	registerOnce     sync.Once
	metricRegisterer prometheus.Registerer
)

// GetRegisterer returns the registerer passed to Register, or the Prometheus default.
func GetRegisterer() prometheus.Registerer {
	if metricRegisterer == nil {
		return prometheus.DefaultRegisterer
	}
	return metricRegisterer
}

// Register registers all entitycodec collectors with r. Only the first call has an effect.
func Register(r prometheus.Registerer) {
	registerOnce.Do(func() {
		metricRegisterer = r
		r.MustRegister(EncodedTotal)
		r.MustRegister(DecodedTotal)
		r.MustRegister(PluginLoadsTotal)
		r.MustRegister(RegisteredCodecs)
	})
}

// Status maps an error to the status label value.
func Status(err error) string {
	if err != nil {
		return StatusFailure
	}
	return StatusSuccess
}
