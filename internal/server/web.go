// internal/server/web.go
package server

import (
	_ "embed"
	"net/http"
)

//go:embed web/index.html
var indexPage []byte

// handleIndexPage serves the embedded intake form.
func (s *Server) handleIndexPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(indexPage)
}
