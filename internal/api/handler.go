package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/careops/ruleviz/internal/domain"
	"github.com/careops/ruleviz/internal/layout"
	"github.com/careops/ruleviz/internal/merge"
	"github.com/careops/ruleviz/internal/repository"
	"github.com/careops/ruleviz/internal/validate"
	"github.com/careops/ruleviz/internal/worker"
)

// Handler holds dependencies for API handlers.
type Handler struct {
	repo       domain.Repository
	cache      domain.Cache
	bus        domain.EventBus
	validator  *validate.Validator
	layoutOpts layout.Options
	version    string
}

// NewHandler creates a new API handler.
func NewHandler(repo domain.Repository, cache domain.Cache, bus domain.EventBus, validator *validate.Validator, layoutOpts layout.Options, version string) *Handler {
	return &Handler{
		repo:       repo,
		cache:      cache,
		bus:        bus,
		validator:  validator,
		layoutOpts: layoutOpts,
		version:    version,
	}
}

// RuleRequest is the request body for POST /rules and PUT /rules/{id}.
type RuleRequest struct {
	ID               string                     `json:"id,omitempty"`
	Name             string                     `json:"name"`
	Type             domain.RuleType            `json:"type"`
	TriggerEvents    []domain.TriggerEvent      `json:"triggerEvents"`
	RequestType      domain.RequestType         `json:"requestType,omitempty"`
	StandardCriteria []domain.StandardCriterion `json:"standardCriteria,omitempty"`
	CustomCriteria   []domain.CustomCriterion   `json:"customCriteria,omitempty"`
	Actions          []domain.Action            `json:"actions"`
	Expression       string                     `json:"expression,omitempty"`
	Enabled          bool                       `json:"enabled"`
}

// RuleResponse wraps a persisted rule.
type RuleResponse struct {
	Rule *domain.Rule `json:"rule"`
}

// ListRulesResponse is the response for GET /rules.
type ListRulesResponse struct {
	Rules []*domain.Rule `json:"rules"`
	Count int            `json:"count"`
}

// CreateRule handles POST /rules.
func (h *Handler) CreateRule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := GetTenantID(ctx)

	var req RuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "name is required",
		})
		return
	}

	rule := ruleFromRequest(&req, tenantID)
	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}

	if err := h.validator.ValidateRule(rule); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
		return
	}

	if err := h.repo.SaveRule(ctx, tenantID, rule); err != nil {
		slog.Error("failed to save rule", "rule_id", rule.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to save rule",
		})
		return
	}

	h.publishRuleChange(r, tenantID, domain.TopicRuleCreated, rule.ID)

	writeJSON(w, http.StatusCreated, RuleResponse{Rule: rule})
}

// GetRule handles GET /rules/{id}.
func (h *Handler) GetRule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := GetTenantID(ctx)
	ruleID := chi.URLParam(r, "id")

	if ruleID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "rule id is required",
		})
		return
	}

	rule, err := h.repo.GetRule(ctx, tenantID, ruleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": "rule not found",
			})
			return
		}
		slog.Error("failed to get rule", "rule_id", ruleID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to get rule",
		})
		return
	}

	writeJSON(w, http.StatusOK, RuleResponse{Rule: rule})
}

// ListRules handles GET /rules.
func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := GetTenantID(ctx)

	rules, err := h.repo.ListRules(ctx, tenantID)
	if err != nil {
		slog.Error("failed to list rules", "tenant_id", tenantID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to list rules",
		})
		return
	}

	writeJSON(w, http.StatusOK, ListRulesResponse{
		Rules: rules,
		Count: len(rules),
	})
}

// UpdateRule handles PUT /rules/{id}.
func (h *Handler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := GetTenantID(ctx)
	ruleID := chi.URLParam(r, "id")

	if ruleID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "rule id is required",
		})
		return
	}

	var req RuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}

	existing, err := h.repo.GetRule(ctx, tenantID, ruleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": "rule not found",
			})
			return
		}
		slog.Error("failed to get rule", "rule_id", ruleID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to get rule",
		})
		return
	}

	rule := ruleFromRequest(&req, tenantID)
	rule.ID = ruleID
	rule.CreatedAt = existing.CreatedAt

	if err := h.validator.ValidateRule(rule); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
		return
	}

	if err := h.repo.SaveRule(ctx, tenantID, rule); err != nil {
		slog.Error("failed to update rule", "rule_id", ruleID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to update rule",
		})
		return
	}

	h.publishRuleChange(r, tenantID, domain.TopicRuleUpdated, ruleID)

	writeJSON(w, http.StatusOK, RuleResponse{Rule: rule})
}

// DeleteRule handles DELETE /rules/{id}.
func (h *Handler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := GetTenantID(ctx)
	ruleID := chi.URLParam(r, "id")

	if ruleID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "rule id is required",
		})
		return
	}

	if err := h.repo.DeleteRule(ctx, tenantID, ruleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": "rule not found",
			})
			return
		}
		slog.Error("failed to delete rule", "rule_id", ruleID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to delete rule",
		})
		return
	}

	h.publishRuleChange(r, tenantID, domain.TopicRuleDeleted, ruleID)

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "deleted",
		"id":     ruleID,
	})
}

// GetGraph handles GET /graph. The merged graph is served from the cached
// snapshot when the request uses default layout options; custom layout
// parameters force a recompute for this request only.
func (h *Handler) GetGraph(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := GetTenantID(ctx)

	opts, custom, err := h.layoutOptions(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
		return
	}

	if !custom && h.cache != nil {
		if snapshot, err := h.cache.GetSnapshot(ctx, tenantID, domain.SnapshotKey); err == nil && snapshot != nil {
			writeJSON(w, http.StatusOK, snapshot)
			return
		}
	}

	rules, err := h.repo.ListRules(ctx, tenantID)
	if err != nil {
		slog.Error("failed to list rules for graph", "tenant_id", tenantID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to load rules",
		})
		return
	}

	snapshot := worker.Compute(rules, opts)

	if !custom && h.cache != nil {
		if err := h.cache.SetSnapshot(ctx, tenantID, domain.SnapshotKey, snapshot, worker.SnapshotTTL); err != nil {
			slog.Error("failed to cache graph snapshot", "tenant_id", tenantID, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, snapshot)
}

// GetSummary handles GET /summary.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := GetTenantID(ctx)

	rules, err := h.repo.ListRules(ctx, tenantID)
	if err != nil {
		slog.Error("failed to list rules for summary", "tenant_id", tenantID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to load rules",
		})
		return
	}

	writeJSON(w, http.StatusOK, merge.Summarize(rules))
}

// Health returns service health status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"

	if h.repo != nil {
		if err := h.repo.Ping(r.Context()); err != nil {
			status = "degraded"
		}
	}

	if h.cache != nil {
		if err := h.cache.Ping(r.Context()); err != nil {
			status = "degraded"
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  status,
		"version": h.version,
	})
}

// Ready returns whether the server is ready to accept traffic.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"ready": "true",
	})
}

// layoutOptions reads layout overrides from query parameters. The second
// return value reports whether any override was present.
func (h *Handler) layoutOptions(r *http.Request) (layout.Options, bool, error) {
	opts := h.layoutOpts
	custom := false
	q := r.URL.Query()

	if v := q.Get("direction"); v != "" {
		switch layout.Direction(v) {
		case layout.DirectionLR, layout.DirectionRL, layout.DirectionTB, layout.DirectionBT:
			opts.Direction = layout.Direction(v)
			custom = true
		default:
			return opts, false, errors.New("direction must be one of LR, RL, TB, BT")
		}
	}

	if v := q.Get("rankSep"); v != "" {
		sep, err := strconv.ParseFloat(v, 64)
		if err != nil || sep <= 0 {
			return opts, false, errors.New("rankSep must be a positive number")
		}
		opts.RankSep = sep
		custom = true
	}

	if v := q.Get("nodeSep"); v != "" {
		sep, err := strconv.ParseFloat(v, 64)
		if err != nil || sep <= 0 {
			return opts, false, errors.New("nodeSep must be a positive number")
		}
		opts.NodeSep = sep
		custom = true
	}

	return opts, custom, nil
}

// publishRuleChange drops the cached snapshot and emits a rule-change event;
// the recompute worker rebuilds the snapshot for tenants it watches, and the
// next /graph read recomputes for everyone else. Failures are logged, not
// surfaced to the client.
func (h *Handler) publishRuleChange(r *http.Request, tenantID, topic, ruleID string) {
	if h.cache != nil {
		if err := h.cache.DeleteSnapshot(r.Context(), tenantID, domain.SnapshotKey); err != nil {
			slog.Error("failed to invalidate graph snapshot", "tenant_id", tenantID, "error", err)
		}
	}

	if h.bus == nil {
		return
	}

	payload, _ := json.Marshal(domain.RuleChangeEvent{
		RuleID:   ruleID,
		TenantID: tenantID,
	})

	if err := h.bus.Publish(r.Context(), tenantID, topic, payload); err != nil {
		slog.Error("failed to publish rule change",
			"topic", topic,
			"rule_id", ruleID,
			"error", err,
		)
	}
}

func ruleFromRequest(req *RuleRequest, tenantID string) *domain.Rule {
	now := time.Now().UTC()
	return &domain.Rule{
		ID:               req.ID,
		TenantID:         tenantID,
		Name:             req.Name,
		Type:             req.Type,
		TriggerEvents:    req.TriggerEvents,
		RequestType:      req.RequestType,
		StandardCriteria: req.StandardCriteria,
		CustomCriteria:   req.CustomCriteria,
		Actions:          req.Actions,
		Expression:       req.Expression,
		Enabled:          req.Enabled,
		UpdatedAt:        now,
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
