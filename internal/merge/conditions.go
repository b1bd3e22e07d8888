// Package merge implements the rule-merge engine: it consolidates a
// collection of independently authored workflow rules into a single directed
// graph, deduplicating shared trigger/filter/leading-condition prefixes.
package merge

import "github.com/careops/ruleviz/internal/domain"

// ConditionItem is one condition of a rule tagged with its origin kind and a
// stable index within the rule's concatenated condition order.
type ConditionItem struct {
	Kind  domain.ConditionKind
	Index int

	// Exactly one of these is set, matching Kind.
	Standard *domain.StandardCriterion
	Custom   *domain.CustomCriterion
}

// ConditionItems returns a rule's conditions in their significant order:
// standard criteria first, in authoring order, then custom criteria, in
// authoring order. The first entry is the rule's leading condition.
// A nil rule or missing criteria collections yield an empty list.
func ConditionItems(rule *domain.Rule) []ConditionItem {
	if rule == nil {
		return nil
	}

	items := make([]ConditionItem, 0, len(rule.StandardCriteria)+len(rule.CustomCriteria))
	for i := range rule.StandardCriteria {
		items = append(items, ConditionItem{
			Kind:     domain.ConditionStandard,
			Index:    len(items),
			Standard: &rule.StandardCriteria[i],
		})
	}
	for i := range rule.CustomCriteria {
		items = append(items, ConditionItem{
			Kind:   domain.ConditionCustom,
			Index:  len(items),
			Custom: &rule.CustomCriteria[i],
		})
	}
	return items
}
