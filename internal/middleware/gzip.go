package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
)

// минимальный размер тела, при котором сжатие ответа имеет смысл
const gzipMinSize = 1400

// GzipMiddleware обрабатывает Gzip-сжатие для запросов и ответов
func GzipMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Обработка сжатого запроса
		if strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
			gz, err := gzip.NewReader(r.Body)
			if err != nil {
				http.Error(w, "Invalid gzip data", http.StatusBadRequest)
				return
			}
			defer gz.Close()
			r.Body = io.NopCloser(gz)
		}

		// Проверка, поддерживает ли клиент сжатие ответа
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		gw := &gzipResponseWriter{ResponseWriter: w}
		defer gw.Close()

		next.ServeHTTP(gw, r)
	})
}

// gzipResponseWriter оборачивает http.ResponseWriter для сжатия ответа
type gzipResponseWriter struct {
	http.ResponseWriter
	gz         *gzip.Writer
	compressed bool
}

// Write сжимает JSON-ответы, превышающие gzipMinSize
func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if w.gz == nil {
		contentType := w.Header().Get("Content-Type")
		if !strings.HasPrefix(contentType, "application/json") || len(b) < gzipMinSize {
			return w.ResponseWriter.Write(b)
		}
		w.gz = gzip.NewWriter(w.ResponseWriter)
		w.compressed = true
		w.Header().Set("Content-Encoding", "gzip")
	}
	return w.gz.Write(b)
}

// Close закрывает gzip.Writer
func (w *gzipResponseWriter) Close() error {
	if w.gz != nil && w.compressed {
		return w.gz.Close()
	}
	return nil
}
