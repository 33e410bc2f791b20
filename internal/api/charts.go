package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/ValueCharts/internal/preference"
	"github.com/MikeSquared-Agency/ValueCharts/internal/session"
	"github.com/MikeSquared-Agency/ValueCharts/internal/store"
)

type ChartsHandler struct {
	sessions *session.Manager
	store    store.Store
	validate *validator.Validate
	logger   *slog.Logger
}

func NewChartsHandler(m *session.Manager, s store.Store, v *validator.Validate, logger *slog.Logger) *ChartsHandler {
	return &ChartsHandler{sessions: m, store: s, validate: v, logger: logger}
}

type ChartRequest struct {
	ID           string                   `json:"id,omitempty" validate:"omitempty,max=128"`
	Name         string                   `json:"name" validate:"required,max=256"`
	Description  string                   `json:"description,omitempty"`
	Creator      string                   `json:"creator,omitempty" validate:"omitempty,max=128"`
	Root         *preference.Objective    `json:"root" validate:"required"`
	Alternatives []preference.Alternative `json:"alternatives" validate:"dive"`
}

func (req *ChartRequest) chart() *preference.Chart {
	return &preference.Chart{
		ID:           req.ID,
		Name:         req.Name,
		Description:  req.Description,
		Creator:      req.Creator,
		Root:         req.Root,
		Alternatives: req.Alternatives,
	}
}

func (h *ChartsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ChartRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	chart := req.chart()
	if chart.ID == "" {
		chart.ID = uuid.New().String()
	}
	if err := chart.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	existing, err := h.sessions.Chart(r.Context(), chart.ID)
	if err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "chart already exists")
		return
	}
	if err := h.sessions.CreateChart(r.Context(), chart); err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, chart)
}

func (h *ChartsHandler) Get(w http.ResponseWriter, r *http.Request) {
	chart, err := h.sessions.Chart(r.Context(), chi.URLParam(r, "chartID"))
	if err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	if chart == nil {
		writeError(w, http.StatusNotFound, "chart not found")
		return
	}
	writeJSON(w, http.StatusOK, chart)
}

func (h *ChartsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.ChartFilter{Creator: q.Get("creator")}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		filter.Offset = n
	}

	charts, err := h.store.ListCharts(r.Context(), filter)
	if err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	if charts == nil {
		charts = []*store.ChartSummary{}
	}
	writeJSON(w, http.StatusOK, charts)
}

// Update replaces a chart's structure. Only the creator may update; every
// live session on the chart is dropped.
func (h *ChartsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req ChartRequest
	if !decode(w, r, h.validate, &req) {
		return
	}
	chartID := chi.URLParam(r, "chartID")
	existing, err := h.sessions.Chart(r.Context(), chartID)
	if err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "chart not found")
		return
	}
	if existing.Creator != "" && req.Creator != existing.Creator {
		writeError(w, http.StatusForbidden, session.ErrNotCreator.Error())
		return
	}

	chart := req.chart()
	chart.ID = chartID
	chart.Creator = existing.Creator
	if err := chart.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.sessions.UpdateChart(r.Context(), chart); err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, chart)
}

// Preferences lists every user's committed preferences for a chart.
func (h *ChartsHandler) Preferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.store.ListPreferences(r.Context(), chi.URLParam(r, "chartID"))
	if err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	if prefs == nil {
		prefs = []*store.Preferences{}
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (h *ChartsHandler) Events(w http.ResponseWriter, r *http.Request) {
	events, err := h.store.GetPreferenceEvents(r.Context(), chi.URLParam(r, "chartID"), chi.URLParam(r, "username"))
	if err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	if events == nil {
		events = []*store.PreferenceEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}
