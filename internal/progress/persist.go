// Package progress tracks which curriculum items a learner has completed or
// bookmarked. State lives in memory and is written through to a kv.Storage
// on every mutation.
package progress

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/abhisek/iqro/internal/kv"
)

// Storage keys.
const (
	ProgressKey  = "iqro.progress"
	BookmarksKey = "iqro.bookmarks"
)

// persister writes a JSON document under one key. Once a storage call fails
// it stops touching storage and the owning store runs memory-only.
type persister struct {
	storage  kv.Storage
	key      string
	log      *zap.SugaredLogger
	degraded bool
}

func newPersister(storage kv.Storage, key string, log *zap.SugaredLogger) persister {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return persister{storage: storage, key: key, log: log, degraded: storage == nil}
}

// load decodes the stored document into v. Missing or corrupt data leaves v
// untouched and is not an error.
func (p *persister) load(v any) {
	if p.storage == nil {
		return
	}
	raw, ok, err := p.storage.Get(p.key)
	if err != nil {
		p.log.Warnw("read failed, continuing in memory", "key", p.key, "error", err)
		p.degraded = true
		return
	}
	if !ok || len(raw) == 0 {
		return
	}
	if err := json.Unmarshal(raw, v); err != nil {
		p.log.Warnw("discarding corrupt record", "key", p.key, "error", err)
	}
}

func (p *persister) save(v any) {
	if p.degraded {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		p.log.Errorw("encode record", "key", p.key, "error", err)
		return
	}
	if err := p.storage.Set(p.key, raw); err != nil {
		p.log.Warnw("write failed, continuing in memory", "key", p.key, "error", err)
		p.degraded = true
	}
}

func (p *persister) clear() {
	if p.degraded {
		return
	}
	if err := p.storage.Delete(p.key); err != nil {
		p.log.Warnw("delete failed, continuing in memory", "key", p.key, "error", err)
		p.degraded = true
	}
}
