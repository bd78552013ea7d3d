package cli

import (
	"io"
	"testing"

	"github.com/matzehuels/evdash/pkg/observability"
)

// newTestCLI returns a CLI with a silent logger and caching disabled.
func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	c := New(io.Discard, LogInfo)
	c.cfg.Cache.Backend = "none"
	t.Cleanup(observability.Reset)
	return c
}
