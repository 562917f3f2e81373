package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter mounts the handlers on a gorilla/mux router. Event streams are
// registered before the collection routes so their paths are not captured as
// collection codes.
func NewRouter(h *Handlers, verifier TokenVerifier) *mux.Router {
	r := mux.NewRouter()
	api := r.NewRoute().Subrouter()
	api.Use(RequireBearer(verifier))

	if h.Events != nil {
		api.HandleFunc("/_ws", h.Events.ServeWebSocket).Methods(http.MethodGet)
		api.HandleFunc("/_events", h.Events.ServeSSE).Methods(http.MethodGet)
	}
	api.HandleFunc("/{collection}", h.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/{collection}", h.HandleCreate).Methods(http.MethodPost)
	api.HandleFunc("/{collection}/_board", h.HandleBoard).Methods(http.MethodGet)
	api.HandleFunc("/{collection}/_refresh", h.HandleRefresh).Methods(http.MethodPost)
	api.HandleFunc("/{collection}/positions/update", h.HandleUpdatePositions).Methods(http.MethodPut)
	api.HandleFunc("/{collection}/{id}", h.HandleDelete).Methods(http.MethodDelete)
	return r
}
