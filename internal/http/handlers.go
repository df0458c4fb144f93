package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"finassist/internal/core"
	"finassist/internal/ledger"
	"finassist/internal/service"
)

type (
	recordDTO struct {
		Date        string `json:"date"`
		Description string `json:"description"`
		Amount      string `json:"amount"`
		Category    string `json:"category"`
		Month       string `json:"month,omitempty"` // response only, always derived
	}

	addTransactionRequest struct {
		User        string `json:"user"`
		Date        string `json:"date"`
		Description string `json:"description"`
		Amount      string `json:"amount"`
		Category    string `json:"category"`
	}

	replaceLedgerRequest struct {
		User    string      `json:"user"`
		Records []recordDTO `json:"records"`
	}

	resetRequest struct {
		User string `json:"user"`
	}

	ledgerResponse struct {
		User    string      `json:"user"`
		Records []recordDTO `json:"records"`
	}
)

// GET /api/view?user=U&month=2024-01&category=Food
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	user, ok := requireUser(w, r.URL.Query().Get("user"))
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	filter := core.NewFilter(r.URL.Query().Get("month"), r.URL.Query().Get("category"))
	view, err := s.assistant.GetAggregateView(ctx, user, filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// POST /api/transactions
func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req addTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, ok := requireUser(w, req.User)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	l, err := s.assistant.AddTransaction(ctx, user, req.Date, sanitizeInput(req.Description), req.Amount, sanitizeInput(req.Category))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toLedgerResponse(l))
}

// PUT /api/ledger replaces the whole record set; both row edits and
// row deletions arrive here as the full edited set.
func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPut) {
		return
	}
	var req replaceLedgerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, ok := requireUser(w, req.User)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	records := make([]core.Record, len(req.Records))
	for i, dto := range req.Records {
		records[i] = dto.toRecord()
	}
	l, err := s.assistant.ReplaceLedger(ctx, user, records)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toLedgerResponse(l))
}

// POST /api/reset
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, ok := requireUser(w, req.User)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	l, err := s.assistant.ResetLedger(ctx, user)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toLedgerResponse(l))
}

// GET /api/suggest?description=latte
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	description := r.URL.Query().Get("description")
	label, err := s.assistant.SuggestCategory(description)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"category": label})
}

// GET /api/forecast?month=4. When month is absent it defaults to the
// calendar month after the current one.
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	monthIndex := int(time.Now().Month())%12 + 1
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			writeJSONError(w, http.StatusBadRequest, "month must be a number between 1 and 12")
			return
		}
		monthIndex = m
	}
	amount, err := s.assistant.ForecastNextMonth(monthIndex)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"month_index": monthIndex,
		"amount":      amount,
	})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrValidation):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrModelUnavailable):
		writeJSONError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, ledger.ErrStorage):
		s.logger.ErrorContext(r.Context(), "Storage failure", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "storage unavailable")
	default:
		s.logger.ErrorContext(r.Context(), "Unhandled error", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}

func (dto recordDTO) toRecord() core.Record {
	r := core.Record{
		Date:        core.ParseDate(dto.Date),
		Description: dto.Description,
		Amount:      core.CoerceDecimalToCents(dto.Amount),
		Category:    dto.Category,
	}
	r.Month = r.Date.YearMonth()
	return r
}

func toLedgerResponse(l core.Ledger) ledgerResponse {
	resp := ledgerResponse{User: l.User, Records: make([]recordDTO, len(l.Records))}
	for i, r := range l.Records {
		resp.Records[i] = recordDTO{
			Date:        r.Date.String(),
			Description: r.Description,
			Amount:      r.Amount.String(),
			Category:    r.Category,
			Month:       r.Month,
		}
	}
	return resp
}
