package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"quizdom/internal/app"
)

// NewRouter mounts the health probe and the websocket bridge.
func NewRouter(ws *WSHandler, registry app.SessionRegistry) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.HandleFunc("/stats", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]int{"sessions": registry.Len()})
	}).Methods(http.MethodGet)
	r.HandleFunc("/ws", ws.ServeWS)
	return r
}
