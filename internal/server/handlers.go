package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"hierarchicalmenu/profilefield/internal/admin"
	"hierarchicalmenu/profilefield/internal/domain"
	"hierarchicalmenu/profilefield/internal/repository"
	"hierarchicalmenu/profilefield/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type importRequest struct {
	URL string `json:"url"`
}

type nodeRequest struct {
	Parent string `json:"parent"`
	Name   string `json:"name"`
}

type submitResponse struct {
	Data string `json:"data"`
}

type displayResponse struct {
	Display string `json:"display"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetField(w http.ResponseWriter, r *http.Request) {
	fieldID, ok := pathID(w, r, "fieldID")
	if !ok {
		return
	}

	def, err := s.service.GetField(r.Context(), fieldID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

func (s *Server) handleSaveField(w http.ResponseWriter, r *http.Request) {
	fieldID, ok := pathID(w, r, "fieldID")
	if !ok {
		return
	}

	var def domain.FieldDefinition
	if !decodeBody(w, r, &def) {
		return
	}
	def.ID = fieldID

	saved, err := s.service.SaveField(r.Context(), def)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	fieldID, ok := pathID(w, r, "fieldID")
	if !ok {
		return
	}

	var req importRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.URL == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "url is required"})
		return
	}

	saved, err := s.service.ImportTree(r.Context(), fieldID, req.URL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleGetNode(w http.ResponseWriter, r *http.Request) {
	fieldID, ok := pathID(w, r, "fieldID")
	if !ok {
		return
	}

	info, err := s.service.GetNode(r.Context(), fieldID, chi.URLParam(r, "nodeID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	fieldID, ok := pathID(w, r, "fieldID")
	if !ok {
		return
	}

	var req nodeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	info, err := s.service.AddNode(r.Context(), fieldID, req.Parent, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, info)
}

func (s *Server) handleRenameNode(w http.ResponseWriter, r *http.Request) {
	fieldID, ok := pathID(w, r, "fieldID")
	if !ok {
		return
	}

	var req nodeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	info, err := s.service.RenameNode(r.Context(), fieldID, chi.URLParam(r, "nodeID"), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteNode(w http.ResponseWriter, r *http.Request) {
	fieldID, ok := pathID(w, r, "fieldID")
	if !ok {
		return
	}

	if err := s.service.DeleteNode(r.Context(), fieldID, chi.URLParam(r, "nodeID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	fieldID, userID, ok := pathIDs(w, r)
	if !ok {
		return
	}

	handoff, err := s.service.RenderField(r.Context(), fieldID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, handoff)
}

func (s *Server) handleCascade(w http.ResponseWriter, r *http.Request) {
	fieldID, _, ok := pathIDs(w, r)
	if !ok {
		return
	}

	var req service.CascadeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.service.Cascade(r.Context(), fieldID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	fieldID, userID, ok := pathIDs(w, r)
	if !ok {
		return
	}

	var req service.SubmitRequest
	if !decodeBody(w, r, &req) {
		return
	}

	data, err := s.service.SubmitSelection(r.Context(), fieldID, userID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{Data: data})
}

func (s *Server) handleDisplay(w http.ResponseWriter, r *http.Request) {
	fieldID, userID, ok := pathIDs(w, r)
	if !ok {
		return
	}

	display, err := s.service.DisplayData(r.Context(), fieldID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, displayResponse{Display: display})
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid " + name})
		return 0, false
	}
	return id, true
}

func pathIDs(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	fieldID, ok := pathID(w, r, "fieldID")
	if !ok {
		return 0, 0, false
	}
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return 0, 0, false
	}
	return fieldID, userID, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read request body"})
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	var validation service.ValidationErrors
	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid field definition", Fields: validation})
	case errors.Is(err, repository.ErrFieldNotFound), errors.Is(err, admin.ErrNodeNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, admin.ErrEmptyName):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, admin.ErrMaxLevelReached):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrSelectionRequired):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrImporterUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	default:
		log.Errorf("❌ Request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Errorf("❌ Failed to encode response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
