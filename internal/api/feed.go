package api

import (
	"sync"

	"github.com/passbi/meetpoint/internal/gtfs"
	"github.com/passbi/meetpoint/internal/search"
)

// feed and engineCfg are set once at startup by SetFeed and read by every
// handler thereafter. The Feed is immutable after ingest; feedMu guards
// the two package variables, with SetFeed taking the write lock and
// currentFeed the read lock.
var (
	feed      *gtfs.Feed
	engineCfg search.Config
	feedMu    sync.RWMutex
)

// SetFeed installs the ingested feed and search configuration that every
// handler in this package operates against.
func SetFeed(f *gtfs.Feed, cfg search.Config) {
	feedMu.Lock()
	defer feedMu.Unlock()
	feed = f
	engineCfg = cfg
}

func currentFeed() (*gtfs.Feed, search.Config) {
	feedMu.RLock()
	defer feedMu.RUnlock()
	return feed, engineCfg
}
