package stream

import (
	"runtime"
	"sync"

	"github.com/kbukum/streamkit/config"
)

// options are the per-pipeline evaluation settings, snapshotted from the
// package defaults when the stream is created.
type options struct {
	parallel     bool
	unordered    bool
	assumeFinite bool
	parallelism  int
	minLeafSize  int64
	splitFactor  int
}

var (
	defaultsMu sync.RWMutex
	defaults   = options{
		parallelism: runtime.GOMAXPROCS(0),
		minLeafSize: 1,
		splitFactor: 4,
	}
)

func defaultOptions() options {
	defaultsMu.RLock()
	defer defaultsMu.RUnlock()
	return defaults
}

// SetDefaults installs engine configuration as the defaults for streams
// created afterwards. Streams already created keep their snapshot.
func SetDefaults(cfg config.Engine) {
	cfg.ApplyDefaults()
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	defaults.parallelism = cfg.Parallelism
	defaults.minLeafSize = cfg.MinLeafSize
	defaults.splitFactor = cfg.SplitFactor
}
