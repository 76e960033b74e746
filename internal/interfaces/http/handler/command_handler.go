package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/wyg1997/CommandAPI/internal/domain"
	"github.com/wyg1997/CommandAPI/pkg/logger"
)

const maxBodyBytes = 1 << 20

// CommandHandler serves the /api/commands resource
type CommandHandler struct {
	commandUseCase domain.CommandUseCase
	logger         logger.Logger
}

// NewCommandHandler creates handler
func NewCommandHandler(commandUseCase domain.CommandUseCase) *CommandHandler {
	return &CommandHandler{
		commandUseCase: commandUseCase,
		logger:         logger.GetLogger(),
	}
}

// Register mounts the command routes on mux
func (h *CommandHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/commands", h.ListCommands)
	mux.HandleFunc("GET /api/commands/{id}", h.GetCommand)
	mux.HandleFunc("POST /api/commands", h.CreateCommand)
	mux.HandleFunc("PUT /api/commands/{id}", h.UpdateCommand)
	mux.HandleFunc("DELETE /api/commands/{id}", h.DeleteCommand)
}

// ListCommands handles GET /api/commands
func (h *CommandHandler) ListCommands(w http.ResponseWriter, r *http.Request) {
	commands, err := h.commandUseCase.ListCommands(r.Context(), r.URL.Query().Get("platform"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, commands)
}

// GetCommand handles GET /api/commands/{id}
func (h *CommandHandler) GetCommand(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	cmd, err := h.commandUseCase.GetCommand(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cmd)
}

// CreateCommand handles POST /api/commands
func (h *CommandHandler) CreateCommand(w http.ResponseWriter, r *http.Request) {
	var in domain.Command
	if !h.decodeBody(w, r, &in) {
		return
	}
	cmd, err := h.commandUseCase.CreateCommand(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/commands/"+strconv.FormatInt(cmd.ID, 10))
	writeJSON(w, http.StatusCreated, cmd)
}

// UpdateCommand handles PUT /api/commands/{id}
func (h *CommandHandler) UpdateCommand(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var in domain.Command
	if !h.decodeBody(w, r, &in) {
		return
	}
	if err := h.commandUseCase.UpdateCommand(r.Context(), id, in); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteCommand handles DELETE /api/commands/{id}
func (h *CommandHandler) DeleteCommand(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	cmd, err := h.commandUseCase.DeleteCommand(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cmd)
}

func (h *CommandHandler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid command id"})
		return 0, false
	}
	return id, true
}

// decodeBody reads exactly one JSON object; trailing content is rejected.
func (h *CommandHandler) decodeBody(w http.ResponseWriter, r *http.Request, dst *domain.Command) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if err == nil {
		var extra json.RawMessage
		if extraErr := dec.Decode(&extra); !errors.Is(extraErr, io.EOF) {
			err = fmt.Errorf("unexpected content after JSON body: %v", extraErr)
		}
	}
	if err != nil {
		h.logger.Debug("decode body: %v", err)
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return false
	}
	return true
}

// writeError maps domain errors onto status codes
func (h *CommandHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrCommandNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: domain.ErrCommandNotFound.Error()})
	case errors.Is(err, domain.ErrIDMismatch):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: domain.ErrIDMismatch.Error()})
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: vErr.Error()})
	default:
		h.logger.Error("%s %s: %v (request_id=%s)", r.Method, r.URL.Path, err, RequestID(r.Context()))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
