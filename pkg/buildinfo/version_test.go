package buildinfo

import (
	"strings"
	"testing"
)

func TestTemplate(t *testing.T) {
	old := Commit
	defer func() { Commit = old }()

	Commit = "0123456789abcdef"
	if got := Template(); !strings.Contains(got, "(0123456,") {
		t.Errorf("Template() = %q, want short commit", got)
	}
	if got := UserAgent(); got != "evdash/"+Version {
		t.Errorf("UserAgent() = %q", got)
	}
}
