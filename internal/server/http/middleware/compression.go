package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// MaxDecompressedBody caps the size of a request body after gzip decoding.
const MaxDecompressedBody = 1 << 20

// DecompressRequest transparently handles gzip encoded requests. Other
// content encodings are rejected with 415.
func DecompressRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		encoding := strings.ToLower(strings.TrimSpace(c.GetHeader("Content-Encoding")))
		switch encoding {
		case "", "identity":
			c.Next()
			return
		case "gzip", "x-gzip":
		default:
			c.AbortWithStatus(http.StatusUnsupportedMediaType)
			return
		}

		originalBody := c.Request.Body
		reader, err := gzip.NewReader(originalBody)
		if err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		defer reader.Close()
		defer originalBody.Close()

		c.Request.Body = http.MaxBytesReader(c.Writer, io.NopCloser(reader), MaxDecompressedBody)
		c.Request.Header.Del("Content-Encoding")
		c.Request.ContentLength = -1
		c.Next()
	}
}
