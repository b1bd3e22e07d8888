package domain

import "time"

// NodeType is the canvas node kind. The rendering surface supports exactly
// these five tags.
type NodeType string

const (
	NodeTrigger   NodeType = "trigger"
	NodeBranch    NodeType = "branch"
	NodeCondition NodeType = "condition"
	NodeLogic     NodeType = "logic"
	NodeAction    NodeType = "action"
)

// Position is a top-left-anchored canvas coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeStyle is an optional inline style override. Shared prefix nodes carry
// no style (neutral); per-rule suffix nodes carry their rule's color.
type NodeStyle struct {
	Background string `json:"background,omitempty"`
	Border     string `json:"border,omitempty"`
}

// EdgeStyle colors an edge after the owning rule when it is part of a
// per-rule suffix.
type EdgeStyle struct {
	Stroke string `json:"stroke,omitempty"`
}

// NodeData is the per-type payload rendered inside a node. Only the fields
// relevant to the node's type are populated.
type NodeData struct {
	Label string `json:"label,omitempty"`

	// trigger nodes
	TriggerEvents []TriggerEvent `json:"triggerEvents,omitempty"`

	// branch nodes
	RequestType RequestType `json:"requestType,omitempty"`

	// condition nodes
	ConditionKind ConditionKind      `json:"conditionKind,omitempty"`
	Standard      *StandardCriterion `json:"standard,omitempty"`
	Custom        *CustomCriterion   `json:"custom,omitempty"`

	// logic nodes
	Operator string `json:"operator,omitempty"`

	// action nodes
	Action *Action `json:"action,omitempty"`

	// RuleID identifies the owning rule for per-rule suffix nodes; empty on
	// shared prefix nodes.
	RuleID string `json:"ruleId,omitempty"`
}

// Node is one element of the merged workflow graph.
type Node struct {
	ID       string     `json:"id"`
	Type     NodeType   `json:"type"`
	Data     NodeData   `json:"data"`
	Position Position   `json:"position"`
	Style    *NodeStyle `json:"style,omitempty"`
}

// Edge is a directed connection between two node IDs.
type Edge struct {
	ID     string     `json:"id"`
	Source string     `json:"source"`
	Target string     `json:"target"`
	Style  *EdgeStyle `json:"style,omitempty"`
}

// RequestTypeBreakdown tallies workflow rules by request-type filter.
type RequestTypeBreakdown struct {
	Inpatient  int `json:"inpatient"`
	Outpatient int `json:"outpatient"`
	Any        int `json:"any"`
}

// Summary is the display tally computed alongside the graph.
type Summary struct {
	TotalRules           int                  `json:"totalRules"`
	TriggerGroupCount    int                  `json:"triggerGroupCount"`
	RequestTypeBreakdown RequestTypeBreakdown `json:"requestTypeBreakdown"`
}

// GraphSnapshot is a fully computed merge+layout result, cached per tenant
// and served to the canvas.
type GraphSnapshot struct {
	Nodes      []Node    `json:"nodes"`
	Edges      []Edge    `json:"edges"`
	Summary    Summary   `json:"summary"`
	ComputedAt time.Time `json:"computedAt"`
}
