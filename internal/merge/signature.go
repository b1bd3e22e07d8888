package merge

import (
	"encoding/json"
	"sort"

	"github.com/careops/ruleviz/internal/domain"
)

// Signature derives a canonical string key for a condition so that
// semantically identical conditions across rules compare equal regardless of
// the original ordering of their value lists.
//
// Two conditions are mergeable iff their signatures are equal. The signature
// never collides conditions that differ in kind, field, association,
// template id or operator, and an empty value list is a valid, distinct
// component. Pure and total: malformed items degrade to empty components
// rather than failing.
func Signature(item ConditionItem) string {
	switch item.Kind {
	case domain.ConditionCustom:
		var assoc, tmpl, op string
		var values []string
		if item.Custom != nil {
			assoc = item.Custom.Association
			tmpl = item.Custom.TemplateID
			op = item.Custom.Operator
			values = item.Custom.Values
		}
		return encode(string(domain.ConditionCustom), assoc, tmpl, op, values)

	default:
		// Standard is also the fallback for an unset kind, with every
		// component empty.
		var field, op string
		var values []string
		if item.Kind == domain.ConditionStandard && item.Standard != nil {
			field = item.Standard.Field
			op = item.Standard.Operator
			values = item.Standard.Values
		}
		return encode(string(domain.ConditionStandard), field, op, values)
	}
}

// encode JSON-encodes the component tuple with a sorted copy of the value
// list. JSON framing keeps components unambiguous (a delimiter occurring
// inside a field name cannot collide with component boundaries) and sorting
// makes the signature order-independent over the value set.
func encode(components ...any) string {
	parts := make([]any, 0, len(components))
	for _, c := range components {
		if values, ok := c.([]string); ok {
			sorted := make([]string, len(values))
			copy(sorted, values)
			sort.Strings(sorted)
			parts = append(parts, sorted)
			continue
		}
		parts = append(parts, c)
	}

	// Marshalling strings and string slices cannot fail.
	b, _ := json.Marshal(parts)
	return string(b)
}
