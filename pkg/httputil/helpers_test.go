package httputil_test

import "os"

func mustTempDir() string {
	dir, err := os.MkdirTemp("", "evdash-example")
	if err != nil {
		panic(err)
	}
	return dir
}
