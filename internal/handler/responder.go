package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/askloop/askloop/internal/model"
	"github.com/askloop/askloop/internal/service"
)

type ResponderHandler struct {
	directory *service.DirectoryService
}

func NewResponderHandler(directory *service.DirectoryService) *ResponderHandler {
	return &ResponderHandler{
		directory: directory,
	}
}

// List serves GET /responders with optional ?q= filtering.
func (h *ResponderHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	responders, err := h.directory.Search(query)
	if err != nil {
		slog.Error("failed to list responders", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list responders")
		return
	}

	respondJSON(w, http.StatusOK, responders)
}

type createResponderRequest struct {
	Username   string   `json:"username"`
	ProfilePic string   `json:"profilePic"`
	Keywords   []string `json:"keywords"`
}

// Create serves POST /responders.
func (h *ResponderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createResponderRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Username == "" {
		respondError(w, http.StatusBadRequest, "username is required")
		return
	}

	responder := &model.Responder{
		Username:   req.Username,
		ProfilePic: req.ProfilePic,
		Keywords:   req.Keywords,
	}

	err = h.directory.Create(responder)
	if err != nil {
		slog.Error("failed to create responder", "error", err, "username", req.Username)
		respondError(w, http.StatusInternalServerError, "failed to create responder")
		return
	}

	respondJSON(w, http.StatusCreated, responder)
}

// Watch serves GET /responders/watch as a server-sent event stream:
// the full directory immediately, then a fresh snapshot after every
// mutation, until the client disconnects.
func (h *ResponderHandler) Watch(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")

	snapshots, cancel := h.directory.Subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case snapshot, ok := <-snapshots:
			if !ok {
				return
			}

			payload, err := json.Marshal(snapshot)
			if err != nil {
				slog.Error("failed to encode directory snapshot", "error", err)
				return
			}

			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
