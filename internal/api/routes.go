package api

import "net/http"

// Routes mounts the API under both / and /api, plus the frontend build when
// staticDir is set.
func (h *Handler) Routes(staticDir string) http.Handler {
	mux := http.NewServeMux()

	for _, prefix := range []string{"", "/api"} {
		mux.HandleFunc(prefix+"/products", h.Products)
		mux.HandleFunc(prefix+"/gold-price", h.GoldPrice)
	}
	mux.HandleFunc("/healthz", h.Health)

	if staticDir != "" {
		mux.Handle("/", noCache(http.FileServer(http.Dir(staticDir))))
	}

	return withRequestLog(h.Logger, withCORS(mux))
}
