// Package observability provides hooks for metrics, tracing, and logging.
//
// The pipeline reports stage events to the registered hooks without
// depending on any particular backend. Hooks are registered by main (or a
// test) before the pipeline runs:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetWatchHooks(&myWatchHooks{})
//	    // ... run application
//	}
//
// Libraries call the registered hooks:
//
//	observability.Pipeline().OnDiscoverStart(ctx, root, monolithic)
//	// ... discover manifests ...
//	observability.Pipeline().OnDiscoverComplete(ctx, root, manifests, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from the manifest-to-graph pipeline.
type PipelineHooks interface {
	// Discover events
	OnDiscoverStart(ctx context.Context, root string, monolithic bool)
	OnDiscoverComplete(ctx context.Context, root string, manifests int, duration time.Duration)

	// Build events
	OnBuildComplete(ctx context.Context, nodes, edges int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// WatchHooks receives events from watch mode.
type WatchHooks interface {
	// OnChange records a manifest change that triggers regeneration.
	OnChange(ctx context.Context, path string)

	// OnRegenerate records the outcome of a regeneration.
	OnRegenerate(ctx context.Context, duration time.Duration, err error)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnDiscoverStart(context.Context, string, bool)                       {}
func (NoopPipelineHooks) OnDiscoverComplete(context.Context, string, int, time.Duration)      {}
func (NoopPipelineHooks) OnBuildComplete(context.Context, int, int, time.Duration, error)     {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}

// NoopWatchHooks is a no-op implementation of WatchHooks.
type NoopWatchHooks struct{}

func (NoopWatchHooks) OnChange(context.Context, string)                   {}
func (NoopWatchHooks) OnRegenerate(context.Context, time.Duration, error) {}

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	watchHooks    WatchHooks    = NoopWatchHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetWatchHooks registers custom watch hooks. A nil h is ignored.
func SetWatchHooks(h WatchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		watchHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Watch returns the registered watch hooks.
func Watch() WatchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return watchHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	watchHooks = NoopWatchHooks{}
}
