// Package validate provides authoring-time validation for rule documents.
// The optional gating expression a rule may carry is compile-checked with
// CEL here; the merge engine itself never evaluates it.
package validate

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/careops/ruleviz/internal/domain"
)

// Validator compile-checks rule gating expressions.
type Validator struct {
	env *cel.Env
}

// NewValidator creates a validator with the request variables rules may
// reference in their gating expression.
func NewValidator() (*Validator, error) {
	env, err := cel.NewEnv(
		cel.Variable("request", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("request_type", cel.StringType),
		cel.Variable("department_id", cel.StringType),
		cel.Variable("provider_role", cel.StringType),
		cel.Variable("member_plan", cel.StringType),
		cel.Variable("service_count", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	return &Validator{env: env}, nil
}

// ValidateRule checks the structural pieces of a rule the API accepts
// verbatim: a known type and, if present, a compilable boolean expression.
func (v *Validator) ValidateRule(rule *domain.Rule) error {
	if rule == nil {
		return fmt.Errorf("rule is required")
	}

	switch rule.Type {
	case domain.RuleTypeWorkflow, domain.RuleTypeTAT, domain.RuleTypeQueue:
	default:
		return fmt.Errorf("unknown rule type: %q", rule.Type)
	}

	for i, action := range rule.Actions {
		if err := validateAction(action); err != nil {
			return fmt.Errorf("action %d: %w", i, err)
		}
	}

	if rule.Expression != "" {
		return v.ValidateExpression(rule.Expression)
	}
	return nil
}

// ValidateExpression compiles an expression and verifies it yields a bool.
func (v *Validator) ValidateExpression(expression string) error {
	ast, issues := v.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return fmt.Errorf("failed to compile expression: %w", issues.Err())
	}

	if ast.OutputType() != cel.BoolType {
		return fmt.Errorf("expression must return bool, got %s", ast.OutputType())
	}
	return nil
}

// validateAction checks that an action's kind is known and its matching
// payload is populated.
func validateAction(action domain.Action) error {
	var populated bool
	switch action.Kind {
	case domain.ActionRouteDepartment:
		populated = action.RouteDepartment != nil
	case domain.ActionCloseRequest:
		populated = action.CloseRequest != nil
	case domain.ActionDischarge:
		populated = action.Discharge != nil
	case domain.ActionGenerateLetter:
		populated = action.GenerateLetter != nil
	case domain.ActionCreateTask:
		populated = action.CreateTask != nil
	case domain.ActionTransferOwnership:
		populated = action.TransferOwnership != nil
	case domain.ActionCreateReferral:
		populated = action.CreateReferral != nil
	default:
		return fmt.Errorf("unknown action kind: %q", action.Kind)
	}

	if !populated {
		return fmt.Errorf("action kind %s has no payload", action.Kind)
	}
	return nil
}
