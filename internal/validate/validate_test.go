package validate

import (
	"testing"

	"github.com/careops/ruleviz/internal/domain"
)

func validRule() *domain.Rule {
	return &domain.Rule{
		ID:            "r1",
		Type:          domain.RuleTypeWorkflow,
		TriggerEvents: []domain.TriggerEvent{domain.TriggerCreateRequest},
		Actions: []domain.Action{
			{Kind: domain.ActionRouteDepartment, RouteDepartment: &domain.RouteDepartmentAction{DepartmentID: "d1"}},
		},
		Enabled: true,
	}
}

func TestValidateRule(t *testing.T) {
	v, err := NewValidator()
	if err != nil {
		t.Fatalf("NewValidator failed: %v", err)
	}

	t.Run("ValidRule", func(t *testing.T) {
		if err := v.ValidateRule(validRule()); err != nil {
			t.Errorf("expected valid rule, got: %v", err)
		}
	})

	t.Run("NilRule", func(t *testing.T) {
		if err := v.ValidateRule(nil); err == nil {
			t.Error("expected error for nil rule")
		}
	})

	t.Run("UnknownType", func(t *testing.T) {
		r := validRule()
		r.Type = "escalation"
		if err := v.ValidateRule(r); err == nil {
			t.Error("expected error for unknown rule type")
		}
	})

	t.Run("UnknownActionKind", func(t *testing.T) {
		r := validRule()
		r.Actions = []domain.Action{{Kind: "send_fax"}}
		if err := v.ValidateRule(r); err == nil {
			t.Error("expected error for unknown action kind")
		}
	})

	t.Run("MissingActionPayload", func(t *testing.T) {
		r := validRule()
		r.Actions = []domain.Action{{Kind: domain.ActionGenerateLetter}}
		if err := v.ValidateRule(r); err == nil {
			t.Error("expected error for action without payload")
		}
	})

	t.Run("MismatchedActionPayload", func(t *testing.T) {
		r := validRule()
		r.Actions = []domain.Action{
			{Kind: domain.ActionCloseRequest, RouteDepartment: &domain.RouteDepartmentAction{DepartmentID: "d1"}},
		}
		if err := v.ValidateRule(r); err == nil {
			t.Error("expected error for payload not matching kind")
		}
	})

	t.Run("AllActionKinds", func(t *testing.T) {
		actions := []domain.Action{
			{Kind: domain.ActionRouteDepartment, RouteDepartment: &domain.RouteDepartmentAction{DepartmentID: "d1"}},
			{Kind: domain.ActionCloseRequest, CloseRequest: &domain.CloseRequestAction{Disposition: "approved"}},
			{Kind: domain.ActionDischarge, Discharge: &domain.DischargeAction{DischargeTo: "home"}},
			{Kind: domain.ActionGenerateLetter, GenerateLetter: &domain.GenerateLetterAction{TemplateID: "t1", Recipient: "member"}},
			{Kind: domain.ActionCreateTask, CreateTask: &domain.CreateTaskAction{TaskType: "review", AssigneeRole: "nurse"}},
			{Kind: domain.ActionTransferOwnership, TransferOwnership: &domain.TransferOwnershipAction{OwnerRole: "physician"}},
			{Kind: domain.ActionCreateReferral, CreateReferral: &domain.CreateReferralAction{ReferralType: "specialist"}},
		}
		r := validRule()
		r.Actions = actions
		if err := v.ValidateRule(r); err != nil {
			t.Errorf("expected all action kinds to validate, got: %v", err)
		}
	})
}

func TestValidateExpression(t *testing.T) {
	v, err := NewValidator()
	if err != nil {
		t.Fatalf("NewValidator failed: %v", err)
	}

	tests := []struct {
		name       string
		expression string
		wantErr    bool
	}{
		{"simple comparison", `request_type == "inpatient"`, false},
		{"numeric comparison", `service_count > 3`, false},
		{"boolean combination", `department_id == "d1" && provider_role != "resident"`, false},
		{"map access", `request["priority"] == "urgent"`, false},
		{"syntax error", `service_count >`, true},
		{"unknown variable", `unknown_var == 1`, true},
		{"non-boolean result", `service_count + 1`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateExpression(tt.expression)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateExpression(%q) error = %v, wantErr %v", tt.expression, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRuleWithExpression(t *testing.T) {
	v, err := NewValidator()
	if err != nil {
		t.Fatalf("NewValidator failed: %v", err)
	}

	r := validRule()
	r.Expression = `request_type == "outpatient" && service_count <= 5`
	if err := v.ValidateRule(r); err != nil {
		t.Errorf("expected valid expression, got: %v", err)
	}

	r.Expression = `request_type ==`
	if err := v.ValidateRule(r); err == nil {
		t.Error("expected error for broken expression")
	}
}
