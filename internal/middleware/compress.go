package middleware

import (
	"bytes"
	"compress/gzip"
	"strings"

	"github.com/gin-gonic/gin"
)

// bufferedWriter holds the body until the handler chain returns, so the
// encoding can be chosen once the content type and size are known.
type bufferedWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bufferedWriter) Write(data []byte) (int, error) {
	return w.buf.Write(data)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	return w.buf.WriteString(s)
}

func (w *bufferedWriter) Written() bool {
	return w.buf.Len() > 0 || w.ResponseWriter.Written()
}

func (w *bufferedWriter) Size() int {
	if w.buf.Len() > 0 {
		return w.buf.Len()
	}
	return w.ResponseWriter.Size()
}

// CompressConfig represents compression configuration
type CompressConfig struct {
	// Level is a compress/gzip level; zero means gzip.DefaultCompression.
	Level     int
	MinLength int
	Types     []string
	SkipPaths []string
}

// DefaultCompressConfig returns default compression configuration
func DefaultCompressConfig() CompressConfig {
	return CompressConfig{
		Level:     gzip.DefaultCompression,
		MinLength: 1024,
		Types:     []string{"application/json"},
		SkipPaths: []string{"/health", "/metrics"},
	}
}

// Compress gzips response bodies of at least MinLength bytes for clients
// that accept it.
func Compress(config CompressConfig) gin.HandlerFunc {
	if config.Level == 0 {
		config.Level = gzip.DefaultCompression
	}
	if len(config.Types) == 0 {
		config.Types = DefaultCompressConfig().Types
	}

	return func(c *gin.Context) {
		for _, path := range config.SkipPaths {
			if strings.HasPrefix(c.Request.URL.Path, path) {
				c.Next()
				return
			}
		}

		if !strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
			c.Next()
			return
		}

		original := c.Writer
		bw := &bufferedWriter{ResponseWriter: original}
		c.Writer = bw
		c.Next()
		c.Writer = original

		if bw.buf.Len() == 0 {
			return
		}
		body := bw.buf.Bytes()

		if len(body) < config.MinLength || !compressible(original.Header().Get("Content-Type"), config.Types) {
			original.Write(body)
			return
		}

		gz, err := gzip.NewWriterLevel(original, config.Level)
		if err != nil {
			original.Write(body)
			return
		}

		header := original.Header()
		header.Set("Content-Encoding", "gzip")
		header.Add("Vary", "Accept-Encoding")
		header.Del("Content-Length")

		gz.Write(body)
		gz.Close()
	}
}

func compressible(contentType string, types []string) bool {
	for _, t := range types {
		if strings.Contains(contentType, t) {
			return true
		}
	}
	return false
}
