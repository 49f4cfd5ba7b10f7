package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	responseMetaKey = "edulearn.response_meta"
	cacheHitKey     = "cache_hit"
	cacheHeader     = "X-Cache"
)

// responseMeta collects what a handler learns while serving a request and
// renders it into the envelope's meta block.
type responseMeta struct {
	start    time.Time
	cacheHit *bool
}

// WithResponseMeta stamps the request start so handlers can report processing time.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(responseMetaKey, &responseMeta{start: time.Now()})
		c.Next()
	}
}

// SetCacheHit records whether the payload came from the cache and mirrors it in
// the X-Cache header. It must run before the body is written.
func SetCacheHit(c *gin.Context, hit bool) {
	if c == nil {
		return
	}
	meta := lookupMeta(c)
	if meta == nil {
		meta = &responseMeta{}
		c.Set(responseMetaKey, meta)
	}
	meta.cacheHit = &hit
	if hit {
		c.Header(cacheHeader, "HIT")
	} else {
		c.Header(cacheHeader, "MISS")
	}
}

// ExtractMeta renders the meta block. processing_time_ms is measured up to this
// call, so handlers call it immediately before writing the response.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	meta := lookupMeta(c)
	if meta == nil {
		return nil
	}
	out := make(map[string]interface{}, 2)
	if meta.cacheHit != nil {
		out[cacheHitKey] = *meta.cacheHit
	}
	if !meta.start.IsZero() {
		out["processing_time_ms"] = time.Since(meta.start).Milliseconds()
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func lookupMeta(c *gin.Context) *responseMeta {
	if c == nil {
		return nil
	}
	value, exists := c.Get(responseMetaKey)
	if !exists {
		return nil
	}
	meta, _ := value.(*responseMeta)
	return meta
}
