// Package server exposes the report documents over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/finview-dev/finview/internal/model"
	"github.com/finview-dev/finview/internal/report"
	"github.com/finview-dev/finview/internal/settings"
	"github.com/finview-dev/finview/internal/timerange"
)

// NewRouter builds the report HTTP API.
func NewRouter(asm *report.Assembler, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(requestLogger(logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api/reports", func(r chi.Router) {
		r.Get("/main", handleMain(asm))
		r.Get("/events", handleEvents(asm))
		r.Get("/cashback", handleCashback(asm))
		r.Get("/search", handleSearch(asm))
		r.Get("/spending", handleSpending(asm))
	})

	return r
}

func handleMain(asm *report.Assembler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, kind, err := rangeParams(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		doc, err := asm.Main(r.Context(), date, kind)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, doc)
	}
}

func handleEvents(asm *report.Assembler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, kind, err := rangeParams(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		doc, err := asm.Events(r.Context(), date, kind)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, doc)
	}
}

func handleCashback(asm *report.Assembler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := strconv.Atoi(r.URL.Query().Get("year"))
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("year must be a number"))
			return
		}
		month, err := strconv.Atoi(r.URL.Query().Get("month"))
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("month must be a number"))
			return
		}
		doc, err := asm.Cashback(year, month)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, doc)
	}
}

func handleSearch(asm *report.Assembler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("query")
		if query == "" {
			writeError(w, http.StatusBadRequest, errors.New("query is required"))
			return
		}
		matches, err := asm.Search(query)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, matches)
	}
}

func handleSpending(asm *report.Assembler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := r.URL.Query().Get("category")
		if category == "" {
			writeError(w, http.StatusBadRequest, errors.New("category is required"))
			return
		}
		date := r.URL.Query().Get("date")
		if date == "" {
			writeError(w, http.StatusBadRequest, errors.New("date is required"))
			return
		}
		doc, err := asm.Spending(category, date)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, doc)
	}
}

// rangeParams reads the date/range query parameters shared by the main
// and events reports. The range kind defaults to a month.
func rangeParams(r *http.Request) (string, model.RangeKind, error) {
	date := r.URL.Query().Get("date")
	if date == "" {
		return "", "", errors.New("date is required")
	}
	rangeStr := r.URL.Query().Get("range")
	if rangeStr == "" {
		rangeStr = string(model.RangeMonth)
	}
	kind, err := model.ParseRangeKind(rangeStr)
	if err != nil {
		return "", "", err
	}
	return date, kind, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, timerange.ErrMalformedTimestamp),
		errors.Is(err, model.ErrInvalidRangeKind),
		errors.Is(err, settings.ErrMissingKey):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, doc any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(doc)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
