// Package middlewares holds the gin middleware used by the control-plane
// router.
package middlewares

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type gzipBody struct {
	gz  *gzip.Reader
	raw io.Closer
}

func (b *gzipBody) Read(p []byte) (int, error) {
	return b.gz.Read(p)
}

func (b *gzipBody) Close() error {
	if err := b.gz.Close(); err != nil {
		return err
	}
	if b.raw != nil {
		return b.raw.Close()
	}
	return nil
}

// GzipRequest transparently decompresses request bodies sent with
// Content-Encoding: gzip. A body that fails to open as gzip is a 400.
func GzipRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		if enc := strings.ToLower(c.GetHeader("Content-Encoding")); strings.Contains(enc, "gzip") {
			gr, err := gzip.NewReader(c.Request.Body)
			if err != nil {
				c.AbortWithStatus(http.StatusBadRequest)
				return
			}
			c.Request.Body = &gzipBody{gz: gr, raw: c.Request.Body}
			c.Request.Header.Del("Content-Length")
		}
		c.Next()
	}
}

// gzipWriter compresses the response lazily: the decision is taken on the
// first Write, once the handler has set its content type and status. Only
// JSON and HTML bodies are compressed, which keeps event streams untouched.
type gzipWriter struct {
	gin.ResponseWriter
	gzw      *gzip.Writer
	compress bool
	decided  bool
}

func (w *gzipWriter) decide() {
	w.decided = true

	ct := w.Header().Get("Content-Type")
	if !strings.HasPrefix(ct, "application/json") && !strings.HasPrefix(ct, "text/html") {
		return
	}
	if status := w.Status(); status == http.StatusNoContent || status < http.StatusOK {
		return
	}

	w.Header().Del("Content-Length")
	w.Header().Set("Content-Encoding", "gzip")
	w.gzw = gzip.NewWriter(w.ResponseWriter)
	w.compress = true
}

func (w *gzipWriter) Write(p []byte) (int, error) {
	if !w.decided {
		w.decide()
	}
	if w.compress {
		return w.gzw.Write(p)
	}
	return w.ResponseWriter.Write(p)
}

func (w *gzipWriter) close() error {
	if w.gzw != nil {
		return w.gzw.Close()
	}
	return nil
}

// GzipResponse compresses JSON and HTML responses for clients that accept it.
func GzipResponse() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(strings.ToLower(c.GetHeader("Accept-Encoding")), "gzip") {
			c.Next()
			return
		}
		gw := &gzipWriter{ResponseWriter: c.Writer}
		c.Writer = gw
		c.Next()
		if err := gw.close(); err != nil {
			_ = c.Error(err)
		}
	}
}
