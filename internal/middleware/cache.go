package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// CacheControl marks read-only responses as shareable for maxAge. The body
// varies with the negotiated encoding, so proxies must key on it too.
func CacheControl(maxAge time.Duration) gin.HandlerFunc {
	value := "no-store"
	if secs := int(maxAge / time.Second); secs > 0 {
		value = "public, max-age=" + strconv.Itoa(secs)
	}

	return func(c *gin.Context) {
		if m := c.Request.Method; m == http.MethodGet || m == http.MethodHead {
			c.Header("Cache-Control", value)
			c.Header("Vary", "Accept-Encoding")
		}
		c.Next()
	}
}
