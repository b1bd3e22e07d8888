package merge

import (
	"sort"
	"strings"

	"github.com/careops/ruleviz/internal/domain"
)

// Sentinel key components for rules without triggers or request-type filter.
const (
	noTriggerKey = "no-trigger"
	noFilterKey  = "none"
)

// RuleEntry pairs a rule with its assigned color and input ordinal.
type RuleEntry struct {
	Rule    *domain.Rule
	Color   Color
	Ordinal int
}

// LeafGroup is the finest partition: rules sharing trigger set, request-type
// filter and leading-condition signature. Leading is the shared first
// condition of the member rules, nil when the representative rule has no
// conditions (such groups are always singletons).
type LeafGroup struct {
	Key     string
	Leading *ConditionItem
	Rules   []RuleEntry
}

// RequestTypeGroup partitions a trigger group by request-type filter.
type RequestTypeGroup struct {
	Key         string
	RequestType domain.RequestType
	Leaves      []*LeafGroup
}

// TriggerGroup partitions the rule set by trigger-event set.
type TriggerGroup struct {
	Key          string
	Events       []domain.TriggerEvent
	RequestTypes []*RequestTypeGroup
}

// GroupedRules is the full three-level partition of a rule collection.
// Iteration order at every level is first-seen-in-input order; it drives the
// vertical stacking of the final layout and must stay reproducible.
type GroupedRules struct {
	Triggers []*TriggerGroup
}

// Group partitions the rule collection for merging. Only workflow-type rules
// participate; colors are assigned from each rule's ordinal in the overall
// input list before filtering, so grouping never shifts a rule's color.
//
// Level 1 keys on the sorted trigger-event set, level 2 on the request-type
// filter, level 3 on the leading-condition signature — or a per-rule
// sentinel when the rule has no conditions, so ruleless rules never merge
// with each other.
func Group(rules []*domain.Rule) *GroupedRules {
	grouped := &GroupedRules{}

	triggerIdx := make(map[string]*TriggerGroup)
	filterIdx := make(map[string]*RequestTypeGroup)
	leafIdx := make(map[string]*LeafGroup)

	for ordinal, rule := range rules {
		if rule == nil || rule.Type != domain.RuleTypeWorkflow {
			continue
		}

		tKey := triggerKey(rule.TriggerEvents)
		tg, ok := triggerIdx[tKey]
		if !ok {
			tg = &TriggerGroup{Key: tKey, Events: sortedEvents(rule.TriggerEvents)}
			triggerIdx[tKey] = tg
			grouped.Triggers = append(grouped.Triggers, tg)
		}

		fKey := tKey + "/" + filterKey(rule.RequestType)
		rg, ok := filterIdx[fKey]
		if !ok {
			rg = &RequestTypeGroup{Key: fKey, RequestType: rule.RequestType}
			filterIdx[fKey] = rg
			tg.RequestTypes = append(tg.RequestTypes, rg)
		}

		items := ConditionItems(rule)
		var leading *ConditionItem
		var sig string
		if len(items) > 0 {
			leading = &items[0]
			sig = Signature(items[0])
		} else {
			// Unique per rule: two condition-less rules never share a leaf.
			// Cannot collide with Signature output, which always starts with "[".
			sig = "rule:" + rule.ID
		}

		lKey := fKey + "/" + sig
		leaf, ok := leafIdx[lKey]
		if !ok {
			leaf = &LeafGroup{Key: lKey, Leading: leading}
			leafIdx[lKey] = leaf
			rg.Leaves = append(rg.Leaves, leaf)
		}

		leaf.Rules = append(leaf.Rules, RuleEntry{
			Rule:    rule,
			Color:   ColorFor(ordinal),
			Ordinal: ordinal,
		})
	}

	return grouped
}

func triggerKey(events []domain.TriggerEvent) string {
	if len(events) == 0 {
		return noTriggerKey
	}
	sorted := sortedEvents(events)
	parts := make([]string, len(sorted))
	for i, e := range sorted {
		parts[i] = string(e)
	}
	return strings.Join(parts, ",")
}

func filterKey(rt domain.RequestType) string {
	if rt == domain.RequestTypeAny {
		return noFilterKey
	}
	return string(rt)
}

func sortedEvents(events []domain.TriggerEvent) []domain.TriggerEvent {
	sorted := make([]domain.TriggerEvent, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted
}
