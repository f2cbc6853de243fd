package progress

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/iqro/internal/curriculum"
	"github.com/abhisek/iqro/internal/kv"
)

// Bookmark is a saved item. Display fields are copied from the curriculum
// so lists render without a lookup.
type Bookmark struct {
	ItemID          string    `json:"item_id"`
	Level           int       `json:"level"`
	Arabic          string    `json:"arabic"`
	Transliteration string    `json:"transliteration"`
	SectionTitle    string    `json:"section_title"`
	SavedAt         time.Time `json:"saved_at"`
}

// BookmarkFor builds a Bookmark from a curriculum item.
func BookmarkFor(it curriculum.Item, now time.Time) Bookmark {
	return Bookmark{
		ItemID:          it.ID.String(),
		Level:           it.ID.Level,
		Arabic:          it.Arabic,
		Transliteration: it.Transliteration,
		SectionTitle:    it.SectionTitle,
		SavedAt:         now,
	}
}

// Bookmarks is the durable list of saved items, in the order they were saved.
type Bookmarks struct {
	mu      sync.RWMutex
	entries []Bookmark
	p       persister
}

// NewBookmarks creates an empty list bound to BookmarksKey.
func NewBookmarks(storage kv.Storage, log *zap.SugaredLogger) *Bookmarks {
	return &Bookmarks{p: newPersister(storage, BookmarksKey, log)}
}

// Load reads persisted bookmarks, dropping entries without an id and
// duplicate ids.
func (b *Bookmarks) Load() {
	var entries []Bookmark
	b.mu.Lock()
	defer b.mu.Unlock()
	b.p.load(&entries)

	seen := make(map[string]bool, len(entries))
	b.entries = b.entries[:0]
	for _, e := range entries {
		if e.ItemID == "" || seen[e.ItemID] {
			continue
		}
		seen[e.ItemID] = true
		b.entries = append(b.entries, e)
	}
}

// Toggle removes the bookmark with the same id if present, otherwise appends
// bm. Returns whether the item is bookmarked afterwards.
func (b *Bookmarks) Toggle(bm Bookmark) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.indexLocked(bm.ItemID); i >= 0 {
		b.entries = append(b.entries[:i], b.entries[i+1:]...)
		b.p.save(b.entries)
		return false
	}
	b.entries = append(b.entries, bm)
	b.p.save(b.entries)
	return true
}

// Remove deletes the bookmark for id, if any.
func (b *Bookmarks) Remove(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.indexLocked(id); i >= 0 {
		b.entries = append(b.entries[:i], b.entries[i+1:]...)
		b.p.save(b.entries)
	}
}

// IsMarked reports whether id is bookmarked.
func (b *Bookmarks) IsMarked(id string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.indexLocked(id) >= 0
}

// List returns a copy of the bookmarks.
func (b *Bookmarks) List() []Bookmark {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Bookmark, len(b.entries))
	copy(out, b.entries)
	return out
}

// Reset removes every bookmark, in memory and in storage.
func (b *Bookmarks) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = nil
	b.p.clear()
}

// Degraded reports whether storage has failed and the list is memory-only.
func (b *Bookmarks) Degraded() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.p.degraded
}

func (b *Bookmarks) indexLocked(id string) int {
	for i, e := range b.entries {
		if e.ItemID == id {
			return i
		}
	}
	return -1
}
