package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ariefcatur/barbershop-dashboard/internal/apperr"
	"github.com/ariefcatur/barbershop-dashboard/internal/catalog"
	"github.com/ariefcatur/barbershop-dashboard/internal/obs"
	"github.com/ariefcatur/barbershop-dashboard/internal/sales"
	"github.com/go-chi/chi/v5/middleware"
)

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err onto a status code. Internal failures are logged and
// their details kept out of the response.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve  *apperr.ValidationError
		ise *catalog.InsufficientStockError
		pf  *sales.PartialCheckoutFailure
	)
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "validation failed", Details: ve.Error()})
	case errors.As(err, &ise):
		writeJSON(w, http.StatusConflict, errorBody{Error: "insufficient stock", Details: ise.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found", Details: err.Error()})
	case errors.Is(err, apperr.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
	case errors.Is(err, apperr.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorBody{Error: "forbidden"})
	case errors.As(err, &pf):
		obs.Logger.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "checkout incomplete", Details: "sale " + pf.SaleID + " needs manual review"})
	default:
		obs.Logger.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

const maxBody = 1 << 20

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &apperr.ValidationError{Field: "body", Reason: "invalid json: " + err.Error(), Err: err}
	}
	return nil
}

func queryBool(r *http.Request, key string) (*bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperr.Invalid(key, "must be a boolean")
	}
	return &b, nil
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Invalid(key, "must be an integer")
	}
	return n, nil
}

// queryRange reads from/to as RFC 3339 timestamps or YYYY-MM-DD dates. Dates
// are midnights in loc (nil means UTC); a date-only to is inclusive of that
// day.
func queryRange(r *http.Request, loc *time.Location) (from, to time.Time, err error) {
	if loc == nil {
		loc = time.UTC
	}
	parse := func(key string, endOfDay bool) (time.Time, error) {
		raw := r.URL.Query().Get(key)
		if raw == "" {
			return time.Time{}, nil
		}
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t, nil
		}
		t, err := time.ParseInLocation(time.DateOnly, raw, loc)
		if err != nil {
			return time.Time{}, apperr.Invalid(key, fmt.Sprintf("want RFC 3339 or %s", time.DateOnly))
		}
		if endOfDay {
			t = t.AddDate(0, 0, 1)
		}
		return t, nil
	}
	if from, err = parse("from", false); err != nil {
		return
	}
	to, err = parse("to", true)
	return
}
