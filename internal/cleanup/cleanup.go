// Package cleanup tracks temporary paths that must be removed before the
// process exits, whatever the exit path. It replaces an on-error trap with
// an explicit registry: register a path when it is created, and main runs
// the registry exactly once after the command returns.
package cleanup

import (
	"os"
	"sync"
)

var (
	mu    sync.Mutex
	paths []string
)

// Register adds a path for removal at exit. Registering the same path twice
// is harmless.
func Register(path string) {
	mu.Lock()
	defer mu.Unlock()
	paths = append(paths, path)
}

// Run removes all registered paths and clears the registry. Removal errors
// are ignored; the paths are temporary by contract.
func Run() {
	mu.Lock()
	pending := paths
	paths = nil
	mu.Unlock()

	for _, p := range pending {
		os.RemoveAll(p)
	}
}
