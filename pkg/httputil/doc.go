// Package httputil provides the HTTP client used to fetch station data.
//
// # Overview
//
//   - [Client]: JSON GET requests with default headers, retries and caching
//   - [JSONCache]: JSON values on top of any [cache.Cache] backend
//   - [Retry]: automatic retry with exponential backoff
//
// # Caching
//
// [JSONCache] marshals values before handing them to the byte-oriented
// backend and applies one TTL to every entry:
//
//	store, _ := cache.NewFileCache("")
//	jc := httputil.NewJSONCache(store, 24*time.Hour).Namespace("nrel:")
//	ok, err := jc.Get(ctx, url, &doc)
//
// # Retry
//
// [Retry] only retries errors wrapped in [RetryableError]. The client wraps
// network failures and 5xx responses; 404s and other 4xx responses are
// returned immediately.
//
// [cache.Cache]: github.com/matzehuels/evdash/pkg/cache.Cache
package httputil
