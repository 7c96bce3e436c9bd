package middleware

import (
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

// brotliWriter wraps the gin response writer so body writes pass through a
// brotli compressor.
type brotliWriter struct {
	gin.ResponseWriter
	writer *brotli.Writer
}

func (w *brotliWriter) Write(data []byte) (int, error) {
	return w.writer.Write(data)
}

func (w *brotliWriter) WriteString(s string) (int, error) {
	return w.writer.Write([]byte(s))
}

// Brotli compresses responses for clients that advertise br support.
// WebSocket upgrades are passed through untouched.
func Brotli() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(c.GetHeader("Accept-Encoding"), "br") ||
			c.GetHeader("Upgrade") != "" {
			c.Next()
			return
		}

		bw := brotli.NewWriterLevel(c.Writer, brotli.DefaultCompression)
		c.Header("Content-Encoding", "br")
		c.Header("Vary", "Accept-Encoding")
		c.Writer = &brotliWriter{ResponseWriter: c.Writer, writer: bw}

		defer func() {
			bw.Close()
			c.Header("Content-Length", "")
		}()
		c.Next()
	}
}
