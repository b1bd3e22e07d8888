package merge

import (
	"testing"

	"github.com/careops/ruleviz/internal/domain"
)

func rule(id string, events []domain.TriggerEvent, rt domain.RequestType, standard []domain.StandardCriterion, actions ...domain.Action) *domain.Rule {
	if len(actions) == 0 {
		actions = []domain.Action{
			{Kind: domain.ActionCloseRequest, CloseRequest: &domain.CloseRequestAction{Disposition: "approved"}},
		}
	}
	return &domain.Rule{
		ID:               id,
		Type:             domain.RuleTypeWorkflow,
		Name:             "Rule " + id,
		TriggerEvents:    events,
		RequestType:      rt,
		StandardCriteria: standard,
		Actions:          actions,
		Enabled:          true,
	}
}

func deptCriterion(values ...string) domain.StandardCriterion {
	return domain.StandardCriterion{Field: "department", Operator: "in", Values: values}
}

func TestGroup(t *testing.T) {
	t.Run("SharedPrefixMerges", func(t *testing.T) {
		r1 := rule("r1", []domain.TriggerEvent{domain.TriggerCreateRequest}, domain.RequestTypeAny,
			[]domain.StandardCriterion{deptCriterion("cardiology", "radiology")})
		r2 := rule("r2", []domain.TriggerEvent{domain.TriggerCreateRequest}, domain.RequestTypeAny,
			[]domain.StandardCriterion{deptCriterion("radiology", "cardiology")})

		grouped := Group([]*domain.Rule{r1, r2})

		if len(grouped.Triggers) != 1 {
			t.Fatalf("expected 1 trigger group, got %d", len(grouped.Triggers))
		}
		tg := grouped.Triggers[0]
		if len(tg.RequestTypes) != 1 {
			t.Fatalf("expected 1 request-type group, got %d", len(tg.RequestTypes))
		}
		leaves := tg.RequestTypes[0].Leaves
		if len(leaves) != 1 {
			t.Fatalf("expected 1 leaf group, got %d", len(leaves))
		}
		if len(leaves[0].Rules) != 2 {
			t.Errorf("expected 2 rules in leaf, got %d", len(leaves[0].Rules))
		}
		if leaves[0].Leading == nil {
			t.Error("expected leading condition on merged leaf")
		}
	})

	t.Run("TriggerOrderIrrelevant", func(t *testing.T) {
		r1 := rule("r1", []domain.TriggerEvent{domain.TriggerCreateRequest, domain.TriggerEditRequest}, domain.RequestTypeAny, nil)
		r2 := rule("r2", []domain.TriggerEvent{domain.TriggerEditRequest, domain.TriggerCreateRequest}, domain.RequestTypeAny, nil)

		grouped := Group([]*domain.Rule{r1, r2})
		if len(grouped.Triggers) != 1 {
			t.Errorf("expected 1 trigger group for reordered event sets, got %d", len(grouped.Triggers))
		}
	})

	t.Run("DifferentTriggerSetsSplit", func(t *testing.T) {
		r1 := rule("r1", []domain.TriggerEvent{domain.TriggerCreateRequest}, domain.RequestTypeAny, nil)
		r2 := rule("r2", []domain.TriggerEvent{domain.TriggerCreateRequest, domain.TriggerEditRequest}, domain.RequestTypeAny, nil)

		grouped := Group([]*domain.Rule{r1, r2})
		if len(grouped.Triggers) != 2 {
			t.Errorf("expected 2 trigger groups, got %d", len(grouped.Triggers))
		}
	})

	t.Run("RequestTypePartitions", func(t *testing.T) {
		events := []domain.TriggerEvent{domain.TriggerCreateRequest}
		r1 := rule("r1", events, domain.RequestTypeInpatient, nil)
		r2 := rule("r2", events, domain.RequestTypeOutpatient, nil)
		r3 := rule("r3", events, domain.RequestTypeAny, nil)

		grouped := Group([]*domain.Rule{r1, r2, r3})
		if len(grouped.Triggers) != 1 {
			t.Fatalf("expected 1 trigger group, got %d", len(grouped.Triggers))
		}
		rts := grouped.Triggers[0].RequestTypes
		if len(rts) != 3 {
			t.Fatalf("expected 3 request-type groups, got %d", len(rts))
		}
		// First-seen-in-input order
		want := []domain.RequestType{domain.RequestTypeInpatient, domain.RequestTypeOutpatient, domain.RequestTypeAny}
		for i, rg := range rts {
			if rg.RequestType != want[i] {
				t.Errorf("request-type group %d: expected %q, got %q", i, want[i], rg.RequestType)
			}
		}
	})

	t.Run("ConditionlessRulesNeverMerge", func(t *testing.T) {
		events := []domain.TriggerEvent{domain.TriggerCreateRequest}
		r1 := rule("r1", events, domain.RequestTypeAny, nil)
		r2 := rule("r2", events, domain.RequestTypeAny, nil)

		grouped := Group([]*domain.Rule{r1, r2})
		leaves := grouped.Triggers[0].RequestTypes[0].Leaves
		if len(leaves) != 2 {
			t.Fatalf("expected 2 singleton leaves for condition-less rules, got %d", len(leaves))
		}
		for _, leaf := range leaves {
			if leaf.Leading != nil {
				t.Error("expected nil leading condition for condition-less leaf")
			}
			if len(leaf.Rules) != 1 {
				t.Errorf("expected singleton leaf, got %d rules", len(leaf.Rules))
			}
		}
	})

	t.Run("DifferentLeadingConditionsSplit", func(t *testing.T) {
		events := []domain.TriggerEvent{domain.TriggerCreateRequest}
		r1 := rule("r1", events, domain.RequestTypeAny,
			[]domain.StandardCriterion{deptCriterion("cardiology")})
		r2 := rule("r2", events, domain.RequestTypeAny,
			[]domain.StandardCriterion{deptCriterion("oncology")})

		grouped := Group([]*domain.Rule{r1, r2})
		leaves := grouped.Triggers[0].RequestTypes[0].Leaves
		if len(leaves) != 2 {
			t.Errorf("expected 2 leaves for distinct leading conditions, got %d", len(leaves))
		}
	})

	t.Run("SkipsNonWorkflowAndNil", func(t *testing.T) {
		tat := rule("tat-1", []domain.TriggerEvent{domain.TriggerCreateRequest}, domain.RequestTypeAny, nil)
		tat.Type = domain.RuleTypeTAT
		wf := rule("wf-1", []domain.TriggerEvent{domain.TriggerCreateRequest}, domain.RequestTypeAny, nil)

		grouped := Group([]*domain.Rule{nil, tat, wf})
		if len(grouped.Triggers) != 1 {
			t.Fatalf("expected 1 trigger group, got %d", len(grouped.Triggers))
		}
		leaves := grouped.Triggers[0].RequestTypes[0].Leaves
		if len(leaves) != 1 || leaves[0].Rules[0].Rule.ID != "wf-1" {
			t.Errorf("expected only workflow rule to be grouped")
		}
	})

	t.Run("ColorsFollowInputOrdinal", func(t *testing.T) {
		tat := rule("tat-1", nil, domain.RequestTypeAny, nil)
		tat.Type = domain.RuleTypeTAT
		wf := rule("wf-1", []domain.TriggerEvent{domain.TriggerCreateRequest}, domain.RequestTypeAny, nil)

		// The TAT rule occupies ordinal 0; the workflow rule keeps ordinal 1
		// even though the TAT rule is filtered out.
		grouped := Group([]*domain.Rule{tat, wf})
		entry := grouped.Triggers[0].RequestTypes[0].Leaves[0].Rules[0]
		if entry.Ordinal != 1 {
			t.Errorf("expected ordinal 1, got %d", entry.Ordinal)
		}
		if entry.Color != ColorFor(1) {
			t.Errorf("expected color of ordinal 1, got %+v", entry.Color)
		}
	})

	t.Run("NoTriggerSentinel", func(t *testing.T) {
		r1 := rule("r1", nil, domain.RequestTypeAny, nil)
		r2 := rule("r2", []domain.TriggerEvent{domain.TriggerCreateRequest}, domain.RequestTypeAny, nil)

		grouped := Group([]*domain.Rule{r1, r2})
		if len(grouped.Triggers) != 2 {
			t.Fatalf("expected separate groups for triggerless rule, got %d", len(grouped.Triggers))
		}
		if len(grouped.Triggers[0].Events) != 0 {
			t.Errorf("expected empty event list on sentinel group, got %v", grouped.Triggers[0].Events)
		}
	})

	t.Run("EmptyInput", func(t *testing.T) {
		grouped := Group(nil)
		if len(grouped.Triggers) != 0 {
			t.Errorf("expected no trigger groups, got %d", len(grouped.Triggers))
		}
	})
}

func TestColorFor(t *testing.T) {
	if ColorFor(0) == ColorFor(1) {
		t.Error("adjacent ordinals should differ in color")
	}
	if ColorFor(3) != ColorFor(13) {
		t.Error("expected palette to wrap every 10 ordinals")
	}
	if ColorFor(-5) != ColorFor(0) {
		t.Error("expected negative ordinals to clamp to the first color")
	}
	for i := 0; i < 10; i++ {
		c := ColorFor(i)
		if c.Background == "" || c.Border == "" {
			t.Errorf("palette entry %d has empty component: %+v", i, c)
		}
	}
}
