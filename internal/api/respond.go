package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MikeSquared-Agency/ValueCharts/internal/preference"
	"github.com/MikeSquared-Agency/ValueCharts/internal/session"
	"github.com/MikeSquared-Agency/ValueCharts/internal/weighting"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// newValidator reports field names by their json tag.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode reads a JSON body into dst and validates it. On failure it writes
// a 400 and returns false.
func decode(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := v.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	if fe.Param() != "" {
		return fmt.Sprintf("%s failed %s=%s validation", fe.Field(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}

// errorStatus maps engine and session errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, session.ErrChartNotFound),
		errors.Is(err, preference.ErrObjectiveNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrNotCreator):
		return http.StatusForbidden
	case errors.Is(err, weighting.ErrGestureDetached),
		errors.Is(err, weighting.ErrNoPumpMode),
		errors.Is(err, weighting.ErrNoDragMode):
		return http.StatusConflict
	case errors.Is(err, session.ErrInvalidPreferences):
		return http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrInvalidRanking),
		errors.Is(err, session.ErrInvalidOrder),
		errors.Is(err, session.ErrInvalidWeight),
		errors.Is(err, preference.ErrNotPrimitive),
		errors.Is(err, preference.ErrElementNotFound),
		errors.Is(err, preference.ErrDuplicateElement),
		errors.Is(err, preference.ErrDuplicateObjective),
		errors.Is(err, preference.ErrEmptyObjectiveSet),
		errors.Is(err, preference.ErrInvalidObjective),
		errors.Is(err, preference.ErrImmutableScoreFunction),
		errors.Is(err, preference.ErrInvalidInterpolationRange),
		errors.Is(err, weighting.ErrDividerOutOfRange):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// writeErr writes err with its mapped status. Unmapped errors are logged
// and reported without detail.
func writeErr(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}
