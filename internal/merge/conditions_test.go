package merge

import (
	"testing"

	"github.com/careops/ruleviz/internal/domain"
)

func TestConditionItems(t *testing.T) {
	t.Run("StandardBeforeCustom", func(t *testing.T) {
		r := &domain.Rule{
			ID:   "r1",
			Type: domain.RuleTypeWorkflow,
			StandardCriteria: []domain.StandardCriterion{
				{Field: "department", Operator: "in", Values: []string{"cardiology"}},
				{Field: "provider_role", Operator: "equals", Values: []string{"attending"}},
			},
			CustomCriteria: []domain.CustomCriterion{
				{Association: "request", TemplateID: "tmpl-1", Operator: "equals", Values: []string{"yes"}},
			},
		}

		items := ConditionItems(r)
		if len(items) != 3 {
			t.Fatalf("expected 3 items, got %d", len(items))
		}

		wantKinds := []domain.ConditionKind{domain.ConditionStandard, domain.ConditionStandard, domain.ConditionCustom}
		for i, item := range items {
			if item.Kind != wantKinds[i] {
				t.Errorf("item %d: expected kind %s, got %s", i, wantKinds[i], item.Kind)
			}
			if item.Index != i {
				t.Errorf("item %d: expected index %d, got %d", i, i, item.Index)
			}
		}

		if items[0].Standard.Field != "department" {
			t.Errorf("expected leading condition 'department', got %s", items[0].Standard.Field)
		}
		if items[2].Custom == nil || items[2].Custom.TemplateID != "tmpl-1" {
			t.Error("custom criterion not carried through")
		}
	})

	t.Run("NilRule", func(t *testing.T) {
		if items := ConditionItems(nil); len(items) != 0 {
			t.Errorf("expected no items for nil rule, got %d", len(items))
		}
	})

	t.Run("NoConditions", func(t *testing.T) {
		r := &domain.Rule{ID: "r1", Type: domain.RuleTypeWorkflow}
		if items := ConditionItems(r); len(items) != 0 {
			t.Errorf("expected no items, got %d", len(items))
		}
	})
}
