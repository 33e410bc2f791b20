package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/MikeSquared-Agency/ValueCharts/internal/history"
	"github.com/MikeSquared-Agency/ValueCharts/internal/preference"
	"github.com/MikeSquared-Agency/ValueCharts/internal/session"
	"github.com/MikeSquared-Agency/ValueCharts/internal/weighting"
)

// PreferencesHandler serves one user's editing session on a chart.
type PreferencesHandler struct {
	sessions *session.Manager
	validate *validator.Validate
	logger   *slog.Logger
}

func NewPreferencesHandler(m *session.Manager, v *validator.Validate, logger *slog.Logger) *PreferencesHandler {
	return &PreferencesHandler{sessions: m, validate: v, logger: logger}
}

type SetWeightsRequest struct {
	Weights []preference.WeightPair `json:"weights" validate:"required,min=1"`
}

type RankRequest struct {
	Objectives []string `json:"objectives" validate:"required,min=1,unique"`
}

type PumpRequest struct {
	ObjectiveID string `json:"objective_id" validate:"required"`
}

type PumpResponse struct {
	Changed bool         `json:"changed"`
	View    session.View `json:"view"`
}

type InteractionRequest struct {
	PumpMode weighting.PumpMode `json:"pump_mode,omitempty" validate:"omitempty,oneof=off increase decrease"`
	DragMode weighting.DragMode `json:"drag_mode,omitempty" validate:"omitempty,oneof=off neighbors siblings"`
}

type DragStartRequest struct {
	ParentID string `json:"parent_id" validate:"required"`
	Divider  int    `json:"divider" validate:"min=1"`
}

type DragMoveRequest struct {
	GestureID string  `json:"gesture_id" validate:"required,uuid"`
	Delta     float64 `json:"delta"`
}

type DragEndRequest struct {
	GestureID string `json:"gesture_id" validate:"required,uuid"`
}

type OrderRequest struct {
	Order []string `json:"order" validate:"required,min=1"`
}

type ObjectiveEditRequest struct {
	Name        string `json:"name,omitempty" validate:"omitempty,max=256"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

type HistoryResponse struct {
	Undo []history.Entry `json:"undo"`
	Redo []history.Entry `json:"redo"`
}

type TraversalResponse struct {
	Applied bool         `json:"applied"`
	View    session.View `json:"view"`
}

func (h *PreferencesHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := h.sessions.Get(r.Context(), chi.URLParam(r, "chartID"), chi.URLParam(r, "username"))
	if err != nil {
		writeErr(w, r, h.logger, err)
		return nil, false
	}
	return s, true
}

// respond writes the view returned by a session edit, or its error.
func (h *PreferencesHandler) respond(w http.ResponseWriter, r *http.Request, v session.View, err error) {
	if err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.View())
}

func (h *PreferencesHandler) SetWeights(w http.ResponseWriter, r *http.Request) {
	var req SetWeightsRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	v, err := s.SetWeights(req.Weights)
	h.respond(w, r, v, err)
}

func (h *PreferencesHandler) Rank(w http.ResponseWriter, r *http.Request) {
	var req RankRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	v, err := s.Rank(req.Objectives)
	h.respond(w, r, v, err)
}

func (h *PreferencesHandler) Pump(w http.ResponseWriter, r *http.Request) {
	var req PumpRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	v, changed, err := s.Pump(req.ObjectiveID)
	if err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, PumpResponse{Changed: changed, View: v})
}

func (h *PreferencesHandler) SetInteraction(w http.ResponseWriter, r *http.Request) {
	var req InteractionRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	v, err := s.SetInteraction(req.PumpMode, req.DragMode)
	h.respond(w, r, v, err)
}

func (h *PreferencesHandler) StartDrag(w http.ResponseWriter, r *http.Request) {
	var req DragStartRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	g, err := s.StartDrag(req.ParentID, req.Divider)
	if err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (h *PreferencesHandler) MoveDrag(w http.ResponseWriter, r *http.Request) {
	var req DragMoveRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	v, err := s.MoveDrag(req.GestureID, req.Delta)
	h.respond(w, r, v, err)
}

func (h *PreferencesHandler) EndDrag(w http.ResponseWriter, r *http.Request) {
	var req DragEndRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	v, err := s.EndDrag(req.GestureID)
	h.respond(w, r, v, err)
}

// SetScoreFunction takes a score function in its stored form:
// {"type": "discrete", "elements": [[element, score], ...]}.
func (h *PreferencesHandler) SetScoreFunction(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil || !json.Valid(body) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sf, err := preference.UnmarshalScoreFunction(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(sf.Elements()) == 0 {
		writeError(w, http.StatusBadRequest, "score function has no elements")
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	v, err := s.SetScoreFunction(chi.URLParam(r, "objectiveID"), sf)
	h.respond(w, r, v, err)
}

func (h *PreferencesHandler) SetAlternativeOrder(w http.ResponseWriter, r *http.Request) {
	var req OrderRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	v, err := s.SetAlternativeOrder(req.Order)
	h.respond(w, r, v, err)
}

func (h *PreferencesHandler) EditObjective(w http.ResponseWriter, r *http.Request) {
	var req ObjectiveEditRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	v, err := s.EditObjective(chi.URLParam(r, "objectiveID"), session.ObjectiveEdit{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	h.respond(w, r, v, err)
}

func (h *PreferencesHandler) Undo(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	v, applied := s.Undo()
	writeJSON(w, http.StatusOK, TraversalResponse{Applied: applied, View: v})
}

func (h *PreferencesHandler) Redo(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	v, applied := s.Redo()
	writeJSON(w, http.StatusOK, TraversalResponse{Applied: applied, View: v})
}

func (h *PreferencesHandler) History(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	undo, redo := s.History()
	if undo == nil {
		undo = []history.Entry{}
	}
	if redo == nil {
		redo = []history.Entry{}
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Undo: undo, Redo: redo})
}

func (h *PreferencesHandler) Scores(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Scores())
}

func (h *PreferencesHandler) Commit(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.sessions.Commit(r.Context(), chi.URLParam(r, "chartID"), chi.URLParam(r, "username"))
	if err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}
