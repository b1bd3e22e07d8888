package merge

import (
	"fmt"
	"strings"

	"github.com/careops/ruleviz/internal/domain"
)

// Provisional grid spacing. The builder's coordinates are advisory; callers
// normally replace them via the layout engine. The group gap is deliberately
// large so one trigger group's content can never vertically collide with the
// next group's.
const (
	colStep  = 280.0
	rowStep  = 140.0
	groupGap = 600.0
)

// Build walks the grouped rules and emits the consolidated node/edge lists.
// Shared prefix nodes (trigger, branch, leading condition) are emitted once
// per group with neutral styling; each rule then fans out into its own
// colored suffix chain. The output graph is acyclic by construction and
// every node has a valid type and non-empty id.
func Build(grouped *GroupedRules) ([]domain.Node, []domain.Edge) {
	nodes := []domain.Node{}
	edges := []domain.Edge{}
	if grouped == nil {
		return nodes, edges
	}

	y := 0.0
	for ti, tg := range grouped.Triggers {
		tNodes, tEdges, nextY := buildTriggerGroup(tg, ti, y)
		nodes = append(nodes, tNodes...)
		edges = append(edges, tEdges...)
		y = nextY + groupGap
	}
	return nodes, edges
}

// buildTriggerGroup emits one trigger group starting at startY and returns
// the next free vertical offset. Groups with an empty trigger list emit no
// trigger node; their downstream nodes are left dangling on the left edge.
func buildTriggerGroup(tg *TriggerGroup, ti int, startY float64) ([]domain.Node, []domain.Edge, float64) {
	nodes := []domain.Node{}
	edges := []domain.Edge{}

	triggerID := ""
	x := 0.0
	if len(tg.Events) > 0 {
		triggerID = fmt.Sprintf("trigger-%d", ti)
		nodes = append(nodes, domain.Node{
			ID:   triggerID,
			Type: domain.NodeTrigger,
			Data: domain.NodeData{
				Label:         triggerLabel(tg.Events),
				TriggerEvents: tg.Events,
			},
			Position: domain.Position{X: 0, Y: startY},
		})
		x = colStep
	}

	y := startY
	for ri, rg := range tg.RequestTypes {
		rNodes, rEdges, nextY := buildRequestTypeGroup(rg, ti, ri, triggerID, x, y)
		nodes = append(nodes, rNodes...)
		edges = append(edges, rEdges...)
		y = nextY
	}

	// A trigger with no downstream content still occupies a row.
	if y == startY {
		y = startY + rowStep
	}
	return nodes, edges, y
}

func buildRequestTypeGroup(rg *RequestTypeGroup, ti, ri int, parentID string, x, startY float64) ([]domain.Node, []domain.Edge, float64) {
	nodes := []domain.Node{}
	edges := []domain.Edge{}

	if rg.RequestType != domain.RequestTypeAny {
		branchID := fmt.Sprintf("branch-%d-%d", ti, ri)
		nodes = append(nodes, domain.Node{
			ID:   branchID,
			Type: domain.NodeBranch,
			Data: domain.NodeData{
				Label:       string(rg.RequestType),
				RequestType: rg.RequestType,
			},
			Position: domain.Position{X: x, Y: startY},
		})
		if parentID != "" {
			edges = append(edges, edge(parentID, branchID, nil))
		}
		parentID = branchID
		x += colStep
	}

	y := startY
	for li, leaf := range rg.Leaves {
		lNodes, lEdges, nextY := buildLeafGroup(leaf, ti, ri, li, parentID, x, y)
		nodes = append(nodes, lNodes...)
		edges = append(edges, lEdges...)
		y = nextY
	}
	if y == startY {
		y = startY + rowStep
	}
	return nodes, edges, y
}

func buildLeafGroup(leaf *LeafGroup, ti, ri, li int, parentID string, x, startY float64) ([]domain.Node, []domain.Edge, float64) {
	nodes := []domain.Node{}
	edges := []domain.Edge{}

	// Shared leading-condition node, neutral styling.
	if leaf.Leading != nil {
		condID := fmt.Sprintf("cond-%d-%d-%d", ti, ri, li)
		nodes = append(nodes, domain.Node{
			ID:       condID,
			Type:     domain.NodeCondition,
			Data:     conditionData(*leaf.Leading, ""),
			Position: domain.Position{X: x, Y: startY},
		})
		if parentID != "" {
			edges = append(edges, edge(parentID, condID, nil))
		}
		parentID = condID
		x += colStep
	}

	y := startY
	for _, entry := range leaf.Rules {
		sNodes, sEdges, nextY := buildSuffix(entry, parentID, x, y)
		nodes = append(nodes, sNodes...)
		edges = append(edges, sEdges...)
		y = nextY
	}
	if y == startY {
		y = startY + rowStep
	}
	return nodes, edges, y
}

// buildSuffix emits one rule's divergent remainder: its conditions after the
// shared first one as AND/condition pairs, then its actions in authoring
// order, all carrying the rule's color. A synthetic AND sits between the
// last condition and the first action whenever a condition chain exists;
// later actions chain directly off the previous action.
func buildSuffix(entry RuleEntry, parentID string, x, rowY float64) ([]domain.Node, []domain.Edge, float64) {
	nodes := []domain.Node{}
	edges := []domain.Edge{}

	rule := entry.Rule
	style := &domain.NodeStyle{Background: entry.Color.Background, Border: entry.Color.Border}
	stroke := &domain.EdgeStyle{Stroke: entry.Color.Border}

	items := ConditionItems(rule)
	hasConditions := len(items) > 0

	prev := parentID
	remaining := items
	if hasConditions {
		remaining = items[1:]
	}

	for _, item := range remaining {
		logicID := fmt.Sprintf("%s-logic-%d", rule.ID, item.Index)
		nodes = append(nodes, domain.Node{
			ID:       logicID,
			Type:     domain.NodeLogic,
			Data:     domain.NodeData{Label: "AND", Operator: "AND", RuleID: rule.ID},
			Position: domain.Position{X: x, Y: rowY},
			Style:    style,
		})
		if prev != "" {
			edges = append(edges, edge(prev, logicID, stroke))
		}
		x += colStep

		condID := fmt.Sprintf("%s-cond-%d", rule.ID, item.Index)
		nodes = append(nodes, domain.Node{
			ID:       condID,
			Type:     domain.NodeCondition,
			Data:     conditionData(item, rule.ID),
			Position: domain.Position{X: x, Y: rowY},
			Style:    style,
		})
		edges = append(edges, edge(logicID, condID, stroke))
		prev = condID
		x += colStep
	}

	for ai := range rule.Actions {
		action := rule.Actions[ai]

		if ai == 0 && hasConditions {
			andID := fmt.Sprintf("%s-logic-actions", rule.ID)
			nodes = append(nodes, domain.Node{
				ID:       andID,
				Type:     domain.NodeLogic,
				Data:     domain.NodeData{Label: "AND", Operator: "AND", RuleID: rule.ID},
				Position: domain.Position{X: x, Y: rowY},
				Style:    style,
			})
			if prev != "" {
				edges = append(edges, edge(prev, andID, stroke))
			}
			prev = andID
			x += colStep
		}

		actionID := fmt.Sprintf("%s-action-%d", rule.ID, ai)
		nodes = append(nodes, domain.Node{
			ID:       actionID,
			Type:     domain.NodeAction,
			Data: domain.NodeData{
				Label:  actionLabel(action.Kind),
				Action: &action,
				RuleID: rule.ID,
			},
			Position: domain.Position{X: x, Y: rowY},
			Style:    style,
		})
		if prev != "" {
			edges = append(edges, edge(prev, actionID, stroke))
		}
		prev = actionID
		x += colStep
	}

	return nodes, edges, rowY + rowStep
}

func edge(source, target string, style *domain.EdgeStyle) domain.Edge {
	return domain.Edge{
		ID:     fmt.Sprintf("e-%s-%s", source, target),
		Source: source,
		Target: target,
		Style:  style,
	}
}

func conditionData(item ConditionItem, ruleID string) domain.NodeData {
	data := domain.NodeData{
		Label:         conditionLabel(item),
		ConditionKind: item.Kind,
		Standard:      item.Standard,
		Custom:        item.Custom,
		RuleID:        ruleID,
	}
	return data
}

func conditionLabel(item ConditionItem) string {
	switch {
	case item.Kind == domain.ConditionStandard && item.Standard != nil:
		return fmt.Sprintf("%s %s %s", item.Standard.Field, item.Standard.Operator, strings.Join(item.Standard.Values, ", "))
	case item.Kind == domain.ConditionCustom && item.Custom != nil:
		return fmt.Sprintf("%s %s %s", item.Custom.TemplateID, item.Custom.Operator, strings.Join(item.Custom.Values, ", "))
	default:
		return "condition"
	}
}

func triggerLabel(events []domain.TriggerEvent) string {
	parts := make([]string, len(events))
	for i, e := range events {
		parts[i] = string(e)
	}
	return strings.Join(parts, ", ")
}

func actionLabel(kind domain.ActionKind) string {
	switch kind {
	case domain.ActionRouteDepartment:
		return "Route to department"
	case domain.ActionCloseRequest:
		return "Close request"
	case domain.ActionDischarge:
		return "Discharge"
	case domain.ActionGenerateLetter:
		return "Generate letter"
	case domain.ActionCreateTask:
		return "Create task"
	case domain.ActionTransferOwnership:
		return "Transfer ownership"
	case domain.ActionCreateReferral:
		return "Create referral"
	default:
		return string(kind)
	}
}
