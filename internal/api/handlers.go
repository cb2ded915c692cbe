package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ignite/floody/internal/gtm"
	"github.com/ignite/floody/internal/pkg/distlock"
	"github.com/ignite/floody/internal/pkg/logger"
	"github.com/ignite/floody/internal/service/gtmrequest"
	"github.com/ignite/floody/internal/syncer"
)

// userHeader carries the caller identity forwarded by the auth proxy.
const userHeader = "X-User-Email"

// LockFactory builds a distributed lock for one key.
type LockFactory func(key string) distlock.DistLock

// Handlers contains all HTTP handlers.
type Handlers struct {
	syncer   *syncer.Manager
	requests *gtmrequest.Service
	newLock  LockFactory
}

// NewHandlers creates a new Handlers instance. The lock factory may be nil,
// in which case syncs run unguarded (single-instance deployments).
func NewHandlers(manager *syncer.Manager, requests *gtmrequest.Service, newLock LockFactory) *Handlers {
	return &Handlers{syncer: manager, requests: requests, newLock: newLock}
}

// ImportSpreadsheet overwrites the spreadsheet with the platform's current
// floodlight state.
func (h *Handlers) ImportSpreadsheet(w http.ResponseWriter, r *http.Request) {
	h.runSync(w, r, "import", h.syncer.Import)
}

// ExportSpreadsheet pushes the spreadsheet's flagged rows to the platform
// and writes the outcome back to the sheet.
func (h *Handlers) ExportSpreadsheet(w http.ResponseWriter, r *http.Request) {
	h.runSync(w, r, "export", h.syncer.Export)
}

type syncResponse struct {
	RunID string `json:"runId"`
	syncer.Result
}

// runSync guards a sync pass with a per-spreadsheet lock so concurrent
// requests cannot interleave writes to the same sheet.
func (h *Handlers) runSync(w http.ResponseWriter, r *http.Request, direction string, run func(ctx context.Context, spreadsheetID string) (syncer.Result, error)) {
	spreadsheetID := chi.URLParam(r, "spreadsheetID")
	if spreadsheetID == "" {
		respondError(w, http.StatusBadRequest, "missing spreadsheet id")
		return
	}
	runID := uuid.NewString()

	if h.newLock != nil {
		lock := h.newLock("floody:sync:" + spreadsheetID)
		acquired, err := lock.Acquire(r.Context())
		if err != nil {
			respondError(w, http.StatusInternalServerError, "lock acquisition failed")
			return
		}
		if !acquired {
			respondError(w, http.StatusConflict, "a sync for this spreadsheet is already running")
			return
		}
		defer func() {
			if err := lock.Release(r.Context()); err != nil {
				logger.Error("error releasing sync lock", "run_id", runID,
					"spreadsheet_id", spreadsheetID, "error", err)
			}
		}()
	}

	logger.Info("sync started", "run_id", runID, "direction", direction, "spreadsheet_id", spreadsheetID)
	result, err := run(r.Context(), spreadsheetID)
	if err != nil {
		logger.Error("sync failed", "run_id", runID, "direction", direction,
			"spreadsheet_id", spreadsheetID, "error", err)
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, syncResponse{RunID: runID, Result: result})
}

type createRequestBody struct {
	ContainerPublicID string   `json:"gtmContainerId"`
	SpreadsheetID     string   `json:"spreadsheetId"`
	RequesterMessage  string   `json:"requesterMessage"`
	ApproverEmails    []string `json:"approverEmails"`
}

// CreateGtmRequest captures the sheet's flagged activities into a pending
// approval request.
func (h *Handlers) CreateGtmRequest(w http.ResponseWriter, r *http.Request) {
	email, ok := callerEmail(w, r)
	if !ok {
		return
	}

	var body createRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.SpreadsheetID == "" || body.ContainerPublicID == "" {
		respondError(w, http.StatusBadRequest, "spreadsheetId and gtmContainerId are required")
		return
	}

	input := gtmrequest.CreateInput{
		ContainerPublicID: body.ContainerPublicID,
		RequesterMessage:  body.RequesterMessage,
		ApproverEmails:    body.ApproverEmails,
	}
	id, err := h.syncer.CreateGtmRequest(r.Context(), body.SpreadsheetID, input, email)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{"requestId": id})
}

// GetGtmRequest returns a stored request to its requester or approvers.
func (h *Handlers) GetGtmRequest(w http.ResponseWriter, r *http.Request) {
	email, ok := callerEmail(w, r)
	if !ok {
		return
	}
	id, ok := requestID(w, r)
	if !ok {
		return
	}

	export, err := h.requests.Get(r.Context(), id, email)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, export)
}

type actionBody struct {
	Comment string `json:"comment"`
}

// ApproveGtmRequest pushes the request's tags into the container and records
// the approval.
func (h *Handlers) ApproveGtmRequest(w http.ResponseWriter, r *http.Request) {
	email, ok := callerEmail(w, r)
	if !ok {
		return
	}
	id, ok := requestID(w, r)
	if !ok {
		return
	}
	var body actionBody
	json.NewDecoder(r.Body).Decode(&body) // empty body means no comment

	results, err := h.requests.Approve(r.Context(), id, email, body.Comment)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"requestId":  id,
		"tagResults": results,
	})
}

// RejectGtmRequest records a rejection without touching the tag manager.
func (h *Handlers) RejectGtmRequest(w http.ResponseWriter, r *http.Request) {
	email, ok := callerEmail(w, r)
	if !ok {
		return
	}
	id, ok := requestID(w, r)
	if !ok {
		return
	}
	var body actionBody
	json.NewDecoder(r.Body).Decode(&body)

	if err := h.requests.Reject(r.Context(), id, email, body.Comment); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"requestId": id})
}

func callerEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	email := r.Header.Get(userHeader)
	if email == "" {
		respondError(w, http.StatusUnauthorized, "missing "+userHeader+" header")
		return "", false
	}
	return email, true
}

func requestID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "requestID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request id")
		return 0, false
	}
	return id, true
}

// respondServiceError maps workflow errors onto HTTP statuses.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gtmrequest.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, gtmrequest.ErrUnauthorized):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, gtmrequest.ErrAlreadyActioned):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, gtmrequest.ErrNoActivities):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, gtm.ErrContainerNotFound):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
