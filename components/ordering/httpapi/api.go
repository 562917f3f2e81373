package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/goliatone/go-reorder/components/ordering"
)

// BoardRenderer renders the HTML board of a collection.
type BoardRenderer interface {
	RenderTemplate(ctx context.Context, collection string, w io.Writer) error
}

// EventStream streams collection events to browsers.
type EventStream interface {
	ServeWebSocket(w http.ResponseWriter, r *http.Request)
	ServeSSE(w http.ResponseWriter, r *http.Request)
}

// Handlers exposes the ordered collection REST contract on net/http.
type Handlers struct {
	API    Executor
	Board  BoardRenderer
	Events EventStream
}

// HandleList serves GET /{collection}.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	def, err := h.API.Collection(r.Context(), mux.Vars(r)["collection"])
	if err != nil {
		writeError(w, err)
		return
	}
	query := ordering.ListQuery{
		Collection: def.Code,
		Scope:      ScopeFor(def, r.URL.Query().Get),
	}
	items, err := h.API.List(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EncodeItems(def, items))
}

// HandleUpdatePositions serves PUT /{collection}/positions/update.
func (h *Handlers) HandleUpdatePositions(w http.ResponseWriter, r *http.Request) {
	def, err := h.API.Collection(r.Context(), mux.Vars(r)["collection"])
	if err != nil {
		writeError(w, err)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, errors.Join(errMalformedBody, err))
		return
	}
	input, err := DecodePositionsBody(def, ScopeFor(def, r.URL.Query().Get), body)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.API.UpdatePositions(r.Context(), input); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// HandleCreate serves POST /{collection}.
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	def, err := h.API.Collection(r.Context(), mux.Vars(r)["collection"])
	if err != nil {
		writeError(w, err)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, errors.Join(errMalformedBody, err))
		return
	}
	input, err := DecodeCreateItem(def, body)
	if err != nil {
		writeError(w, err)
		return
	}
	item, err := h.API.CreateItem(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item.ExportScope(def.PartitionKey))
}

// HandleDelete serves DELETE /{collection}/{id}.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.API.DeleteItem(r.Context(), vars["collection"], vars["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRefresh serves POST /{collection}/_refresh. It pushes a refresh event
// to every subscriber without touching the stored order.
func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	def, err := h.API.Collection(r.Context(), mux.Vars(r)["collection"])
	if err != nil {
		writeError(w, err)
		return
	}
	event := RefreshEvent(def, ScopeFor(def, r.URL.Query().Get))
	if err := h.API.Refresh(r.Context(), event); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "refreshed"})
}

// HandleBoard serves GET /{collection}/_board.
func (h *Handlers) HandleBoard(w http.ResponseWriter, r *http.Request) {
	if h.Board == nil {
		http.NotFound(w, r)
		return
	}
	var buf bytes.Buffer
	if err := h.Board.RenderTemplate(r.Context(), mux.Vars(r)["collection"], &buf); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, StatusFor(err), map[string]string{"error": err.Error()})
}
