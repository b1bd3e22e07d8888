// Package worker recomputes the merged workflow graph when rules change.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/careops/ruleviz/internal/domain"
	"github.com/careops/ruleviz/internal/layout"
	"github.com/careops/ruleviz/internal/merge"
)

// SnapshotTTL bounds how long a cached graph snapshot is served before a
// recompute is forced on read.
const SnapshotTTL = 10 * time.Minute

// Compute runs the full pipeline on a rule collection: group, build, layout,
// summarize. Pure; every invocation recomputes from scratch.
func Compute(rules []*domain.Rule, opts layout.Options) *domain.GraphSnapshot {
	grouped := merge.Group(rules)
	nodes, edges := merge.Build(grouped)
	nodes = layout.Run(nodes, edges, opts)

	return &domain.GraphSnapshot{
		Nodes:      nodes,
		Edges:      edges,
		Summary:    merge.Summarize(rules),
		ComputedAt: time.Now().UTC(),
	}
}

// Worker subscribes to rule-change topics and keeps the cached graph
// snapshot fresh. A change triggers a full recompute; a snapshot superseded
// mid-flight is simply overwritten by the next one.
type Worker struct {
	bus        domain.EventBus
	repo       domain.Repository
	cache      domain.Cache
	layoutOpts layout.Options

	subscriptions []domain.Subscription
	ctx           context.Context
	cancel        context.CancelFunc
}

// Config holds worker configuration.
type Config struct {
	// TenantIDs is the list of tenants to watch.
	TenantIDs []string
}

// NewWorker creates a new recompute worker.
func NewWorker(bus domain.EventBus, repo domain.Repository, cache domain.Cache, layoutOpts layout.Options) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		bus:        bus,
		repo:       repo,
		cache:      cache,
		layoutOpts: layoutOpts,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start subscribes to rule-change topics for the given tenants.
func (w *Worker) Start(cfg Config) error {
	for _, tenantID := range cfg.TenantIDs {
		if err := w.watchTenant(tenantID); err != nil {
			slog.Error("failed to start worker for tenant",
				"tenant_id", tenantID,
				"error", err,
			)
			continue
		}
	}

	slog.Info("workers started",
		"tenant_count", len(cfg.TenantIDs),
	)

	return nil
}

// watchTenant subscribes one tenant to every rule-change topic.
func (w *Worker) watchTenant(tenantID string) error {
	topics := []string{
		domain.TopicRuleCreated,
		domain.TopicRuleUpdated,
		domain.TopicRuleDeleted,
	}

	for _, topic := range topics {
		sub, err := w.bus.Subscribe(w.ctx, tenantID, topic, func(ctx context.Context, msg *domain.Message) error {
			return w.handleRuleChange(ctx, tenantID, msg)
		})
		if err != nil {
			return err
		}
		w.subscriptions = append(w.subscriptions, sub)
	}

	slog.Info("tenant watcher started", "tenant_id", tenantID)
	return nil
}

// handleRuleChange recomputes the tenant's merged graph from the current
// rule collection and refreshes the cached snapshot.
func (w *Worker) handleRuleChange(ctx context.Context, tenantID string, msg *domain.Message) error {
	start := time.Now()

	snapshot, err := w.Recompute(ctx, tenantID)
	if err != nil {
		slog.Error("graph recompute failed",
			"tenant_id", tenantID,
			"topic", msg.Topic,
			"error", err,
		)
		return err
	}

	slog.Info("graph recomputed",
		"tenant_id", tenantID,
		"topic", msg.Topic,
		"node_count", len(snapshot.Nodes),
		"edge_count", len(snapshot.Edges),
		"rule_count", snapshot.Summary.TotalRules,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return nil
}

// Recompute runs the pipeline for a tenant and caches the result.
func (w *Worker) Recompute(ctx context.Context, tenantID string) (*domain.GraphSnapshot, error) {
	rules, err := w.repo.ListRules(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	snapshot := Compute(rules, w.layoutOpts)

	if w.cache != nil {
		if err := w.cache.SetSnapshot(ctx, tenantID, domain.SnapshotKey, snapshot, SnapshotTTL); err != nil {
			slog.Error("failed to cache graph snapshot",
				"tenant_id", tenantID,
				"error", err,
			)
		}
	}

	if err := w.bus.Publish(ctx, tenantID, domain.TopicGraphRecomputed, nil); err != nil {
		slog.Error("failed to publish recompute event",
			"tenant_id", tenantID,
			"error", err,
		)
	}

	return snapshot, nil
}

// Stop gracefully stops all watchers.
func (w *Worker) Stop() error {
	w.cancel()

	// Unsubscribe all
	for _, sub := range w.subscriptions {
		if err := sub.Unsubscribe(); err != nil {
			slog.Error("failed to unsubscribe",
				"topic", sub.Topic(),
				"error", err,
			)
		}
	}
	w.subscriptions = nil

	slog.Info("workers stopped")
	return nil
}

// Stats returns worker statistics.
type Stats struct {
	SubscriptionCount int      `json:"subscriptionCount"`
	Topics            []string `json:"topics"`
}

// GetStats returns current worker statistics.
func (w *Worker) GetStats() Stats {
	topics := make([]string, len(w.subscriptions))
	for i, sub := range w.subscriptions {
		topics[i] = sub.Topic()
	}
	return Stats{
		SubscriptionCount: len(w.subscriptions),
		Topics:            topics,
	}
}
