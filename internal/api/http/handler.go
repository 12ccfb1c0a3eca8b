package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"canna-backoffice-requests/internal/domain"
	"canna-backoffice-requests/internal/logger"
	"canna-backoffice-requests/internal/repository"
	"canna-backoffice-requests/internal/security"
	"canna-backoffice-requests/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// NotificationFeed exposes recently delivered notifications.
type NotificationFeed interface {
	Recent() []domain.Notification
}

// RequestHandler serves the admin request queue
type RequestHandler struct {
	requests  service.ReconciliationService
	actions   service.ActionService
	feed      NotificationFeed
	decisions repository.DecisionRepository
	validate  *validator.Validate
}

func NewRequestHandler(requests service.ReconciliationService, actions service.ActionService, feed NotificationFeed, decisions repository.DecisionRepository) *RequestHandler {
	if decisions == nil {
		decisions = repository.NopDecisionRepository{}
	}
	return &RequestHandler{
		requests:  requests,
		actions:   actions,
		feed:      feed,
		decisions: decisions,
		validate:  validator.New(),
	}
}

// actionInput is the validated form of /admin/requests/{type}/{id}/{verb}
type actionInput struct {
	Type string `validate:"required,oneof=registration plan_change plan-change"`
	ID   int64  `validate:"gt=0,lte=2147483647"`
	Verb string `validate:"required,oneof=approve reject"`
}

// RegisterRoutes mounts the admin API. Everything under /admin requires an admin token.
func RegisterRoutes(router *mux.Router, h *RequestHandler, tokens security.TokenManager) {
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	admin := router.PathPrefix("/admin").Subrouter()
	admin.Use(AdminAuth(tokens))
	admin.HandleFunc("/requests", h.ListRequests).Methods(http.MethodGet)
	admin.HandleFunc("/requests/refresh", h.Refresh).Methods(http.MethodPost)
	admin.HandleFunc("/requests/{type}/{id}/{verb}", h.Act).Methods(http.MethodPost)
	admin.HandleFunc("/notifications", h.Notifications).Methods(http.MethodGet)
	admin.HandleFunc("/decisions", h.Decisions).Methods(http.MethodGet)
}

// ListRequests handles GET /admin/requests?search=
func (h *RequestHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	model, err := h.requests.Model(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to build request list", "error", err)
		writeError(w, http.StatusBadGateway, "failed to load requests", "")
		return
	}
	writeJSON(w, http.StatusOK, model)
}

// Refresh handles POST /admin/requests/refresh
func (h *RequestHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.requests.Refresh(r.Context()); err != nil {
		logger.ErrorContext(r.Context(), "Failed to refresh collections", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to refresh", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Act handles POST /admin/requests/{type}/{id}/{verb}
func (h *RequestHandler) Act(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request id", "")
		return
	}
	in := actionInput{Type: vars["type"], ID: id, Verb: vars["verb"]}
	if err := h.validate.Struct(in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	reqType, _ := domain.ParseRequestType(in.Type)
	reqID := int32(in.ID)
	verb := domain.Verb(in.Verb)

	// A dispatched mutation runs to completion even if the client goes away.
	var res *service.ActionResult
	ctx := context.WithoutCancel(r.Context())
	switch {
	case reqType == domain.RequestTypeRegistration && verb == domain.VerbApprove:
		res, err = h.actions.ApproveRegistration(ctx, reqID)
	case reqType == domain.RequestTypeRegistration && verb == domain.VerbReject:
		res, err = h.actions.RejectRegistration(ctx, reqID)
	case reqType == domain.RequestTypePlanChange && verb == domain.VerbApprove:
		res, err = h.actions.ApprovePlanChange(ctx, reqID)
	case reqType == domain.RequestTypePlanChange && verb == domain.VerbReject:
		res, err = h.actions.RejectPlanChange(ctx, reqID)
	}
	if err != nil {
		status, kind := http.StatusBadGateway, service.Classify(err)
		var actionErr *service.ActionError
		if errors.As(err, &actionErr) {
			kind = actionErr.Kind
		}
		switch kind {
		case service.ErrorKindNotFound:
			status = http.StatusNotFound
		case service.ErrorKindConflict:
			status = http.StatusConflict
		}
		writeError(w, status, err.Error(), kind)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Notifications handles GET /admin/notifications
func (h *RequestHandler) Notifications(w http.ResponseWriter, _ *http.Request) {
	items := []domain.Notification{}
	if h.feed != nil {
		items = append(items, h.feed.Recent()...)
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": items})
}

// Decisions handles GET /admin/decisions?limit=
func (h *RequestHandler) Decisions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := h.decisions.ListRecent(r.Context(), limit)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to list decisions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list decisions", "")
		return
	}
	if items == nil {
		items = []domain.Decision{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"decisions": items})
}

type errorBody struct {
	Error string            `json:"error"`
	Kind  service.ErrorKind `json:"kind,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string, kind service.ErrorKind) {
	writeJSON(w, status, errorBody{Error: msg, Kind: kind})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}
