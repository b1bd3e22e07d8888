package merge

import "github.com/careops/ruleviz/internal/domain"

// Summarize computes the display tally for a rule collection: total workflow
// rules, the number of distinct (trigger set, request-type filter) pairs and
// the request-type breakdown. Independent of the graph output.
func Summarize(rules []*domain.Rule) domain.Summary {
	summary := domain.Summary{}
	seen := make(map[string]struct{})

	for _, rule := range rules {
		if rule == nil || rule.Type != domain.RuleTypeWorkflow {
			continue
		}
		summary.TotalRules++

		key := triggerKey(rule.TriggerEvents) + "/" + filterKey(rule.RequestType)
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			summary.TriggerGroupCount++
		}

		switch rule.RequestType {
		case domain.RequestTypeInpatient:
			summary.RequestTypeBreakdown.Inpatient++
		case domain.RequestTypeOutpatient:
			summary.RequestTypeBreakdown.Outpatient++
		default:
			summary.RequestTypeBreakdown.Any++
		}
	}

	return summary
}
