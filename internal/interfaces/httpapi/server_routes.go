package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /api/stats", handler.GetStats)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPlayerRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/players", handler.ListPlayers)
	mux.HandleFunc("POST /api/players", handler.AddPlayer)
	mux.HandleFunc("GET /api/players/active", handler.ListMostActivePlayers)
	mux.HandleFunc("GET /api/players/{playerID}", handler.GetPlayer)
	mux.HandleFunc("GET /api/players/{playerID}/history", handler.ListPlayerHistory)
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/matches", handler.ListMatches)
	mux.HandleFunc("POST /api/matches", handler.RecordMatch)
	mux.HandleFunc("GET /api/matches/{matchID}", handler.GetMatch)
}
