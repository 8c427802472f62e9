package images

import (
	"time"

	"github.com/patrickmn/go-cache"
)

const noticeKey = "batch"

// Notice holds the single user-facing batch message until its TTL runs out.
type Notice struct {
	ttl   time.Duration
	cache *cache.Cache
}

func NewNotice(ttl time.Duration) *Notice {
	return &Notice{ttl: ttl, cache: cache.New(ttl, 2*ttl)}
}

// Set replaces any live message and restarts the timer.
func (n *Notice) Set(msg string) {
	n.cache.Set(noticeKey, msg, n.ttl)
}

func (n *Notice) Get() (string, bool) {
	v, ok := n.cache.Get(noticeKey)
	if !ok {
		return "", false
	}
	return v.(string), true
}

func (n *Notice) Clear() {
	n.cache.Delete(noticeKey)
}
