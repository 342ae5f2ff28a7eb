/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegister(t *testing.T) {
	r := prometheus.NewRegistry()
	Register(r)
	assert.Equal(t, r, GetRegisterer())

	EncodedTotal.WithLabelValues("builtins.list").Inc()
	assert.Equal(t, float64(1), testutil.ToFloat64(EncodedTotal.WithLabelValues("builtins.list")))

	families, err := r.Gather()
	assert.NoError(t, err)
	assert.NotEmpty(t, families)

	// second call is a no-op
	Register(prometheus.NewRegistry())
	assert.Equal(t, r, GetRegisterer())
}

func TestStatus(t *testing.T) {
	assert.Equal(t, StatusSuccess, Status(nil))
	assert.Equal(t, StatusFailure, Status(errors.New("boom")))
}
