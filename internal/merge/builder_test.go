package merge

import (
	"testing"

	"github.com/careops/ruleviz/internal/domain"
)

func nodeByID(nodes []domain.Node, id string) *domain.Node {
	for i := range nodes {
		if nodes[i].ID == id {
			return &nodes[i]
		}
	}
	return nil
}

func hasEdge(edges []domain.Edge, source, target string) bool {
	for _, e := range edges {
		if e.Source == source && e.Target == target {
			return true
		}
	}
	return false
}

func countType(nodes []domain.Node, nt domain.NodeType) int {
	n := 0
	for _, node := range nodes {
		if node.Type == nt {
			n++
		}
	}
	return n
}

func TestBuildEmpty(t *testing.T) {
	nodes, edges := Build(Group(nil))
	if nodes == nil || edges == nil {
		t.Fatal("expected non-nil slices for empty input")
	}
	if len(nodes) != 0 || len(edges) != 0 {
		t.Errorf("expected empty graph, got %d nodes, %d edges", len(nodes), len(edges))
	}

	nodes, edges = Build(nil)
	if nodes == nil || edges == nil {
		t.Fatal("expected non-nil slices for nil grouping")
	}
}

func TestBuildSharedPrefix(t *testing.T) {
	// Two rules sharing trigger set and leading condition but with different
	// actions: the prefix is emitted once, the suffixes diverge in color.
	events := []domain.TriggerEvent{domain.TriggerCreateRequest}
	shared := []domain.StandardCriterion{deptCriterion("cardiology")}

	r1 := rule("r1", events, domain.RequestTypeAny, shared,
		domain.Action{Kind: domain.ActionRouteDepartment, RouteDepartment: &domain.RouteDepartmentAction{DepartmentID: "d1"}})
	r2 := rule("r2", events, domain.RequestTypeAny, shared,
		domain.Action{Kind: domain.ActionCloseRequest, CloseRequest: &domain.CloseRequestAction{Disposition: "approved"}})

	nodes, edges := Build(Group([]*domain.Rule{r1, r2}))

	if got := countType(nodes, domain.NodeTrigger); got != 1 {
		t.Errorf("expected 1 shared trigger node, got %d", got)
	}

	trigger := nodeByID(nodes, "trigger-0")
	if trigger == nil {
		t.Fatal("missing trigger node")
	}
	if trigger.Style != nil {
		t.Error("shared trigger node must carry neutral styling")
	}

	sharedCond := nodeByID(nodes, "cond-0-0-0")
	if sharedCond == nil {
		t.Fatal("missing shared leading-condition node")
	}
	if sharedCond.Style != nil {
		t.Error("shared condition node must carry neutral styling")
	}
	if sharedCond.Data.RuleID != "" {
		t.Errorf("shared condition must not belong to a rule, got %q", sharedCond.Data.RuleID)
	}

	if !hasEdge(edges, "trigger-0", "cond-0-0-0") {
		t.Error("missing trigger to shared condition edge")
	}

	// Each rule has one action hanging off the shared condition via its own
	// synthetic AND node.
	for _, id := range []string{"r1", "r2"} {
		andID := id + "-logic-actions"
		actionID := id + "-action-0"

		and := nodeByID(nodes, andID)
		if and == nil {
			t.Fatalf("missing %s", andID)
		}
		if and.Style == nil {
			t.Errorf("%s must carry the rule color", andID)
		}
		if !hasEdge(edges, "cond-0-0-0", andID) {
			t.Errorf("missing shared condition to %s edge", andID)
		}
		if !hasEdge(edges, andID, actionID) {
			t.Errorf("missing %s to %s edge", andID, actionID)
		}
	}

	// Suffix colors differ between the two rules.
	s1 := nodeByID(nodes, "r1-action-0").Style
	s2 := nodeByID(nodes, "r2-action-0").Style
	if s1 == nil || s2 == nil {
		t.Fatal("expected styled action nodes")
	}
	if s1.Background == s2.Background {
		t.Error("expected distinct colors for adjacent rules")
	}
}

func TestBuildDistinctTriggersDoNotMerge(t *testing.T) {
	shared := []domain.StandardCriterion{deptCriterion("cardiology")}
	r1 := rule("r1", []domain.TriggerEvent{domain.TriggerCreateRequest}, domain.RequestTypeAny, shared)
	r2 := rule("r2", []domain.TriggerEvent{domain.TriggerEditRequest}, domain.RequestTypeAny, shared)

	nodes, edges := Build(Group([]*domain.Rule{r1, r2}))

	if got := countType(nodes, domain.NodeTrigger); got != 2 {
		t.Errorf("expected 2 trigger nodes, got %d", got)
	}
	// Identical leading conditions under different triggers stay separate.
	if got := countType(nodes, domain.NodeCondition); got != 2 {
		t.Errorf("expected 2 condition nodes, got %d", got)
	}
	if hasEdge(edges, "trigger-0", "cond-1-0-0") || hasEdge(edges, "trigger-1", "cond-0-0-0") {
		t.Error("condition nodes must not be shared across trigger groups")
	}
}

func TestBuildRequestTypeBranch(t *testing.T) {
	r1 := rule("r1", []domain.TriggerEvent{domain.TriggerCreateRequest}, domain.RequestTypeInpatient,
		[]domain.StandardCriterion{deptCriterion("cardiology")})

	nodes, edges := Build(Group([]*domain.Rule{r1}))

	branch := nodeByID(nodes, "branch-0-0")
	if branch == nil {
		t.Fatal("missing branch node for inpatient filter")
	}
	if branch.Data.RequestType != domain.RequestTypeInpatient {
		t.Errorf("expected inpatient branch, got %q", branch.Data.RequestType)
	}
	if !hasEdge(edges, "trigger-0", "branch-0-0") {
		t.Error("missing trigger to branch edge")
	}
	if !hasEdge(edges, "branch-0-0", "cond-0-0-0") {
		t.Error("missing branch to condition edge")
	}
}

func TestBuildFullChain(t *testing.T) {
	// Two conditions and two actions: shared cond, AND, second cond, AND,
	// action, action.
	r1 := rule("r1", []domain.TriggerEvent{domain.TriggerCreateRequest}, domain.RequestTypeAny,
		[]domain.StandardCriterion{
			deptCriterion("cardiology"),
			{Field: "provider_role", Operator: "equals", Values: []string{"attending"}},
		},
		domain.Action{Kind: domain.ActionGenerateLetter, GenerateLetter: &domain.GenerateLetterAction{TemplateID: "t1", Recipient: "member"}},
		domain.Action{Kind: domain.ActionCloseRequest, CloseRequest: &domain.CloseRequestAction{Disposition: "approved"}},
	)

	nodes, edges := Build(Group([]*domain.Rule{r1}))

	chain := []struct{ source, target string }{
		{"trigger-0", "cond-0-0-0"},
		{"cond-0-0-0", "r1-logic-1"},
		{"r1-logic-1", "r1-cond-1"},
		{"r1-cond-1", "r1-logic-actions"},
		{"r1-logic-actions", "r1-action-0"},
		{"r1-action-0", "r1-action-1"},
	}
	for _, hop := range chain {
		if !hasEdge(edges, hop.source, hop.target) {
			t.Errorf("missing edge %s -> %s", hop.source, hop.target)
		}
	}
	if len(edges) != len(chain) {
		t.Errorf("expected %d edges, got %d", len(chain), len(edges))
	}

	// Later actions chain directly; there is exactly one synthetic AND before
	// the first action.
	if got := countType(nodes, domain.NodeLogic); got != 2 {
		t.Errorf("expected 2 logic nodes, got %d", got)
	}
}

func TestBuildConditionlessRule(t *testing.T) {
	r1 := rule("r1", []domain.TriggerEvent{domain.TriggerCreateRequest}, domain.RequestTypeAny, nil,
		domain.Action{Kind: domain.ActionDischarge, Discharge: &domain.DischargeAction{DischargeTo: "home"}})

	nodes, edges := Build(Group([]*domain.Rule{r1}))

	// No conditions means no logic nodes at all; the action hangs directly
	// off the trigger.
	if got := countType(nodes, domain.NodeLogic); got != 0 {
		t.Errorf("expected no logic nodes, got %d", got)
	}
	if !hasEdge(edges, "trigger-0", "r1-action-0") {
		t.Error("missing trigger to action edge")
	}
}

func TestBuildTriggerlessRule(t *testing.T) {
	// An empty rule body still yields its downstream nodes, just dangling.
	r1 := rule("r1", nil, domain.RequestTypeAny,
		[]domain.StandardCriterion{deptCriterion("cardiology")})

	nodes, edges := Build(Group([]*domain.Rule{r1}))

	if got := countType(nodes, domain.NodeTrigger); got != 0 {
		t.Errorf("expected no trigger node, got %d", got)
	}
	cond := nodeByID(nodes, "cond-0-0-0")
	if cond == nil {
		t.Fatal("expected dangling condition node")
	}
	for _, e := range edges {
		if e.Target == cond.ID {
			t.Error("dangling condition must have no incoming edge")
		}
	}
}

func TestBuildGraphWellFormed(t *testing.T) {
	events := []domain.TriggerEvent{domain.TriggerCreateRequest}
	shared := []domain.StandardCriterion{deptCriterion("cardiology")}

	rules := []*domain.Rule{
		rule("r1", events, domain.RequestTypeAny, shared),
		rule("r2", events, domain.RequestTypeAny, shared),
		rule("r3", events, domain.RequestTypeInpatient, nil),
		rule("r4", []domain.TriggerEvent{domain.TriggerCloseRequest}, domain.RequestTypeAny,
			[]domain.StandardCriterion{
				deptCriterion("oncology"),
				{Field: "member_plan", Operator: "in", Values: []string{"hmo", "ppo"}},
			}),
		rule("r5", nil, domain.RequestTypeAny, nil),
	}

	nodes, edges := Build(Group(rules))

	// Unique, non-empty node IDs with valid types.
	seen := make(map[string]struct{})
	for _, n := range nodes {
		if n.ID == "" {
			t.Error("node with empty ID")
		}
		if _, dup := seen[n.ID]; dup {
			t.Errorf("duplicate node ID %s", n.ID)
		}
		seen[n.ID] = struct{}{}

		switch n.Type {
		case domain.NodeTrigger, domain.NodeBranch, domain.NodeCondition, domain.NodeLogic, domain.NodeAction:
		default:
			t.Errorf("node %s has invalid type %q", n.ID, n.Type)
		}
	}

	// Edges reference existing nodes.
	adjacency := make(map[string][]string)
	for _, e := range edges {
		if _, ok := seen[e.Source]; !ok {
			t.Errorf("edge %s references unknown source %s", e.ID, e.Source)
		}
		if _, ok := seen[e.Target]; !ok {
			t.Errorf("edge %s references unknown target %s", e.ID, e.Target)
		}
		adjacency[e.Source] = append(adjacency[e.Source], e.Target)
	}

	// Acyclic: DFS with three-color marking.
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int)
	var visit func(id string) bool
	visit = func(id string) bool {
		color[id] = gray
		for _, next := range adjacency[id] {
			switch color[next] {
			case gray:
				return false
			case white:
				if !visit(next) {
					return false
				}
			}
		}
		color[id] = black
		return true
	}
	for id := range seen {
		if color[id] == white {
			if !visit(id) {
				t.Fatal("graph contains a cycle")
			}
		}
	}
}
