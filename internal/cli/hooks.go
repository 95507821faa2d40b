package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/swapmapper/pkg/observability"
)

// debugHooks logs pipeline and cache events at debug level.
type debugHooks struct {
	logger *log.Logger
}

// EnableDebugHooks registers hooks that log every pipeline stage and cache
// lookup. main enables them with --verbose.
func (c *CLI) EnableDebugHooks() {
	h := debugHooks{logger: c.Logger}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
}

func (h debugHooks) OnParseStart(_ context.Context, source string) {
	h.logger.Debug("parse", "source", source)
}

func (h debugHooks) OnParseComplete(_ context.Context, source string, qubits, ops int, d time.Duration, err error) {
	h.logger.Debug("parsed", "source", source, "qubits", qubits, "ops", ops, "duration", d, "err", err)
}

func (h debugHooks) OnRouteStart(_ context.Context, strategy string, qubits int) {
	h.logger.Debug("route", "strategy", strategy, "qubits", qubits)
}

func (h debugHooks) OnRouteComplete(_ context.Context, strategy string, swaps int, d time.Duration, err error) {
	h.logger.Debug("routed", "strategy", strategy, "swaps", swaps, "duration", d, "err", err)
}

func (h debugHooks) OnRenderStart(_ context.Context, format string) {
	h.logger.Debug("render", "format", format)
}

func (h debugHooks) OnRenderComplete(_ context.Context, format string, d time.Duration, err error) {
	h.logger.Debug("rendered", "format", format, "duration", d, "err", err)
}

func (h debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}
