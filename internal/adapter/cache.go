package adapter

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/arlenner/agent-hooks-go/hook"
)

// cacheKey hashes the rendered prompt together with the payload so two
// templates rendering identically over different payloads never collide.
func cacheKey(prompt string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(prompt))
	h.Write([]byte{0})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

type cacheEntry struct {
	verdict hook.Verdict
	expires time.Time
}

// verdictCache is a mutex-guarded TTL map. Independent occurrences may be
// dispatched concurrently, so reads and writes must be safe; expired
// entries are dropped lazily on access.
type verdictCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

func newVerdictCache(ttl time.Duration) *verdictCache {
	return &verdictCache{ttl: ttl, entries: make(map[string]cacheEntry)}
}

func (c *verdictCache) get(key string) (*hook.Verdict, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	v := e.verdict
	return &v, true
}

func (c *verdictCache) put(key string, v *hook.Verdict) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	// Sweep expired entries opportunistically so the map stays bounded.
	if len(c.entries) > 256 {
		for k, e := range c.entries {
			if now.After(e.expires) {
				delete(c.entries, k)
			}
		}
	}
	c.entries[key] = cacheEntry{verdict: *v, expires: now.Add(c.ttl)}
}
