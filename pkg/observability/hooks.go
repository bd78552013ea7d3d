// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries in this module never log directly. They report events through
// the hooks registered here, and the command that owns the process decides
// what to do with them (the CLI forwards them to its logger).
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetDashboardHooks(&myDashboardHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Dashboard().OnLoadStart(ctx, source)
//	// ... fetch stations ...
//	observability.Dashboard().OnLoadComplete(ctx, source, len(stations), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Dashboard Hooks
// =============================================================================

// DashboardHooks receives events from the dashboard widgets.
type DashboardHooks interface {
	// Station data events
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, stations int, duration time.Duration, err error)

	// OnTreeRender records a reconciled tree frame.
	OnTreeRender(ctx context.Context, source int, entering, updating, exiting int)

	// OnFilterChange records a filter button toggle and the resulting
	// number of visible markers.
	OnFilterChange(ctx context.Context, key string, active bool, visible int)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopDashboardHooks is a no-op implementation of DashboardHooks.
type NoopDashboardHooks struct{}

func (NoopDashboardHooks) OnLoadStart(context.Context, string)                             {}
func (NoopDashboardHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {}
func (NoopDashboardHooks) OnTreeRender(context.Context, int, int, int, int)                {}
func (NoopDashboardHooks) OnFilterChange(context.Context, string, bool, int)               {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	dashboardHooks DashboardHooks = NoopDashboardHooks{}
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	httpHooks      HTTPHooks      = NoopHTTPHooks{}
	hooksMu        sync.RWMutex
)

// SetDashboardHooks registers custom dashboard hooks.
// This should be called once at application startup.
func SetDashboardHooks(h DashboardHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		dashboardHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Dashboard returns the registered dashboard hooks.
func Dashboard() DashboardHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return dashboardHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	dashboardHooks = NoopDashboardHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
