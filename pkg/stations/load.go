package stations

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/matzehuels/evdash/pkg/cache"
	"github.com/matzehuels/evdash/pkg/errors"
	"github.com/matzehuels/evdash/pkg/httputil"
	"github.com/matzehuels/evdash/pkg/observability"
)

// Loader reads station documents from files or URLs.
type Loader struct {
	client *httputil.Client
	keys   cache.Keyer
}

// NewLoader returns a Loader that fetches URLs through client. A nil client
// fetches without caching.
func NewLoader(client *httputil.Client) *Loader {
	if client == nil {
		client = httputil.NewClient(nil, nil)
	}
	return &Loader{client: client, keys: cache.NewDefaultKeyer()}
}

// Load reads the document at src, a path or an http(s) URL. With refresh
// set, a cached copy of a remote document is ignored.
func (l *Loader) Load(ctx context.Context, src string, refresh bool) (doc *Document, err error) {
	hooks := observability.Dashboard()
	hooks.OnLoadStart(ctx, src)
	start := time.Now()
	defer func() {
		n := 0
		if doc != nil {
			n = doc.Count()
		}
		hooks.OnLoadComplete(ctx, src, n, time.Since(start), err)
	}()

	if !errors.IsURL(src) {
		if err := errors.ValidatePath(src); err != nil {
			return nil, err
		}
		return LoadFile(src)
	}
	if err := errors.ValidateURL(src); err != nil {
		return nil, err
	}

	var d Document
	fetch := func() error { return l.client.Get(ctx, src, &d) }
	if err := l.client.Cached(ctx, l.keys.StationsKey(src), refresh, &d, fetch); err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		if stderrors.Is(err, httputil.ErrNotFound) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "fetch stations")
		}
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch stations")
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}
