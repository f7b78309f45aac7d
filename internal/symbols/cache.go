package symbols

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/maypok86/otter"
)

// outlineCapacity bounds how many distinct file contents keep their outline
// resident. Editors re-resolve the same buffer repeatedly between keystrokes.
const outlineCapacity = 1024

// outlineCache memoizes parsed outlines keyed by content hash. Keying by
// content makes staleness structural: an edited buffer hashes to a new key,
// so entries never need invalidation.
type outlineCache struct {
	cache   otter.Cache[string, []Match]
	enabled bool
}

func newOutlineCache() *outlineCache {
	cache, err := otter.MustBuilder[string, []Match](outlineCapacity).
		Cost(func(key string, value []Match) uint32 {
			return uint32(len(value)) + 1
		}).
		Build()
	if err != nil {
		// Builder only fails on invalid capacity; fall back to uncached.
		return &outlineCache{}
	}
	return &outlineCache{cache: cache, enabled: true}
}

func (c *outlineCache) get(key string) ([]Match, bool) {
	if !c.enabled {
		return nil, false
	}
	return c.cache.Get(key)
}

func (c *outlineCache) set(key string, outline []Match) {
	if !c.enabled {
		return
	}
	c.cache.Set(key, outline)
}

func contentKey(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}
