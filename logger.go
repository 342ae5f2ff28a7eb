/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entitycodec

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/suparena/entitycodec/plugin"
	"github.com/suparena/entitycodec/registry"
)

var logger atomic.Pointer[zap.Logger]

// Logger returns the package logger, a no-op logger until SetLogger is called.
// Engines created without WithLogger capture it at construction.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

// SetLogger sets the logger of this package and of the registry and plugin packages.
func SetLogger(l *zap.Logger) {
	registry.SetLogger(l)
	plugin.SetLogger(l)
	if l == nil {
		logger.Store(nil)
		return
	}
	logger.Store(l.Named("engine"))
}
