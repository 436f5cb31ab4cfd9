package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const responseMetaKey = "prodtrack.response_meta"

// responseMeta accumulates per-request metadata that handlers may attach to
// the response envelope.
type responseMeta struct {
	start    time.Time
	cacheHit *bool
}

// ResponseMeta stamps each request with a start time so handlers can report
// processing duration and cache outcome in the response meta block.
func ResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(responseMetaKey, &responseMeta{start: time.Now()})
		c.Next()
	}
}

// MarkCacheHit records whether the response was served from cache.
func MarkCacheHit(c *gin.Context, hit bool) {
	if m := metaFrom(c); m != nil {
		m.cacheHit = &hit
	}
}

// Meta renders the accumulated metadata for inclusion in the response
// envelope. Returns nil when the middleware never ran.
func Meta(c *gin.Context) map[string]interface{} {
	m := metaFrom(c)
	if m == nil {
		return nil
	}
	out := map[string]interface{}{
		"processing_time_ms": time.Since(m.start).Milliseconds(),
	}
	if m.cacheHit != nil {
		out["cache_hit"] = *m.cacheHit
	}
	return out
}

func metaFrom(c *gin.Context) *responseMeta {
	if c == nil {
		return nil
	}
	if v, ok := c.Get(responseMetaKey); ok {
		if m, ok := v.(*responseMeta); ok {
			return m
		}
	}
	return nil
}
