package api

import (
	"encoding/json"
	"net/http"

	"github.com/okian/partidos/pkg/logger"
)

// PartidosHandler serves the CSV file as a JSON array of records.
type PartidosHandler struct {
	loader TableLoader
	log    logger.Logger
}

// NewPartidosHandler creates a new handler.
func NewPartidosHandler(loader TableLoader, log logger.Logger) *PartidosHandler {
	return &PartidosHandler{loader: loader, log: log}
}

// HandleGetPartidos handles GET /partidos. The file is read on every request;
// any failure is reported as 500 with {"error": "..."} and no partial body.
func (h *PartidosHandler) HandleGetPartidos(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_partidos"
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, NewKind(op, ErrMethodNotAllowed))
		return
	}

	table, err := h.loader.Load(r.Context())
	if err != nil {
		err = WrapKind(op, ErrLoad, err)
		if h.log != nil {
			h.log.Error(r.Context(), "serve partidos", logger.Error(err))
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	body, err := json.Marshal(table.Records())
	if err != nil {
		err = Wrap(op, err)
		if h.log != nil {
			h.log.Error(r.Context(), "encode partidos", logger.Error(err))
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(append(body, '\n'))
}
