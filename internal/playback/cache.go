package playback

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/abhisek/iqro/internal/tts"
)

// clipCache keeps the most recently used synthesized clips. A zero size
// disables it.
type clipCache struct {
	clips *lru.Cache[string, *tts.Clip]
}

func newClipCache(size int) *clipCache {
	if size <= 0 {
		return &clipCache{}
	}
	clips, err := lru.New[string, *tts.Clip](size)
	if err != nil {
		return &clipCache{}
	}
	return &clipCache{clips: clips}
}

func clipKey(voice, lang, text string) string {
	return voice + "\x00" + lang + "\x00" + text
}

func (c *clipCache) get(key string) (*tts.Clip, bool) {
	if c.clips == nil {
		return nil, false
	}
	return c.clips.Get(key)
}

func (c *clipCache) put(key string, clip *tts.Clip) {
	if c.clips == nil {
		return
	}
	c.clips.Add(key, clip)
}

func (c *clipCache) len() int {
	if c.clips == nil {
		return 0
	}
	return c.clips.Len()
}
