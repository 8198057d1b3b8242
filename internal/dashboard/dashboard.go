package dashboard

import (
	_ "embed"
	"net/http"
)

//go:embed dashboard.html
var page []byte

// Handler serves the embedded dashboard page
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)
	}
}
