package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"svw.info/ordl/internal/scorer"
	"svw.info/ordl/internal/usecase"
	"svw.info/ordl/internal/validator"
)

const maxBodyBytes = 4 << 10

type Handler struct {
	UC     *usecase.Service
	Logger *slog.Logger
}

func New(uc *usecase.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{UC: uc, Logger: logger}
}

type errorResp struct {
	Error string `json:"error"`
}

type orderReq struct {
	Order []string `json:"order" validate:"required"`
}

type shareResp struct {
	Puzzle string `json:"puzzle"`
	Text   string `json:"text"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps service errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidPuzzle), errors.Is(err, validator.ErrMalformedSubmission):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrPuzzleNotAvailable):
		return http.StatusForbidden
	case errors.Is(err, scorer.ErrGameOver), errors.Is(err, scorer.ErrLockedPosition), errors.Is(err, usecase.ErrGameInProgress):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorResp{Error: msg})
}

// decodeOrder reads {"order": [...]} from the request body.
func decodeOrder(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	var req orderReq
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || validator.Struct(req) != nil {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: "invalid request body, expected {\"order\": [ids]}"})
		return nil, false
	}
	return req.Order, true
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}

func (h *Handler) handlePuzzle(w http.ResponseWriter, r *http.Request) {
	v, err := h.UC.Puzzle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	order, ok := decodeOrder(w, r)
	if !ok {
		return
	}
	res, err := h.UC.Check(r.Context(), chi.URLParam(r, "id"), order)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleSolution(w http.ResponseWriter, r *http.Request) {
	v, err := h.UC.Solution(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) handleCountdown(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.UC.Countdown())
}

func (h *Handler) handleArchive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.UC.Archive())
}

func (h *Handler) handleGame(w http.ResponseWriter, r *http.Request) {
	v, err := h.UC.Start(r.Context(), playerFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) handleReorder(w http.ResponseWriter, r *http.Request) {
	order, ok := decodeOrder(w, r)
	if !ok {
		return
	}
	v, err := h.UC.Reorder(r.Context(), playerFrom(r.Context()), chi.URLParam(r, "id"), order)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	order, ok := decodeOrder(w, r)
	if !ok {
		return
	}
	res, err := h.UC.Submit(r.Context(), playerFrom(r.Context()), chi.URLParam(r, "id"), order)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleShare(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	text, err := h.UC.Share(r.Context(), playerFrom(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shareResp{Puzzle: id, Text: text})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.UC.Stats(r.Context(), playerFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
