// Package observability provides hooks for counting and timing run events.
//
// Libraries emit events through the registered hooks; the defaults do
// nothing. Embedders register their own implementations once at startup,
// before any pipeline runs:
//
//	func main() {
//	    observability.SetPipelineHooks(&counters{})
//	    observability.SetCompileHooks(&timings{})
//	    // ... run incgraph
//	}
//
// Libraries call the hooks directly:
//
//	observability.Pipeline().OnFileParsed(ctx, "flat", path, nodes, edges)
//	observability.Cache().OnCacheHit(ctx, "svg")
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives per-file events from the flat and tree pipelines.
type PipelineHooks interface {
	// OnFileParsed records an input file turned into a graph.
	OnFileParsed(ctx context.Context, pipeline, path string, nodes, edges int)

	// OnFileSkipped records an input file dropped without output.
	OnFileSkipped(ctx context.Context, pipeline, path string, reason error)

	// OnRender records one artifact write attempt.
	OnRender(ctx context.Context, path, format string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from the artifact cache.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, format string)
	OnCacheMiss(ctx context.Context, format string)
	OnCacheSet(ctx context.Context, format string, size int)
}

// =============================================================================
// Compile Hooks
// =============================================================================

// CompileHooks receives events from compiler dispatch.
type CompileHooks interface {
	// OnCompile records a finished compiler invocation. err is nil on success.
	OnCompile(ctx context.Context, source string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnFileParsed(context.Context, string, string, int, int)         {}
func (NoopPipelineHooks) OnFileSkipped(context.Context, string, string, error)           {}
func (NoopPipelineHooks) OnRender(context.Context, string, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopCompileHooks is a no-op implementation of CompileHooks.
type NoopCompileHooks struct{}

func (NoopCompileHooks) OnCompile(context.Context, string, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	compileHooks  CompileHooks  = NoopCompileHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks. nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetCompileHooks registers custom compile hooks. nil is ignored.
func SetCompileHooks(h CompileHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		compileHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Compile returns the registered compile hooks.
func Compile() CompileHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return compileHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	compileHooks = NoopCompileHooks{}
}
