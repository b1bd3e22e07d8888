// Package layout computes non-overlapping 2-D coordinates for the merged
// workflow graph using a layered (Sugiyama-style) algorithm: rank
// assignment, in-rank ordering for crossing reduction, then coordinate
// assignment with per-node-type dimensions.
package layout

import "github.com/careops/ruleviz/internal/domain"

// Direction is the flow direction of the layered layout.
type Direction string

// Directions supported by the layout engine.
const (
	DirectionLR Direction = "LR"
	DirectionRL Direction = "RL"
	DirectionTB Direction = "TB"
	DirectionBT Direction = "BT"
)

// Size is a node footprint in canvas units.
type Size struct {
	Width  float64
	Height float64
}

// Options parameterizes a layout run.
type Options struct {
	// Direction is the flow direction: LR, RL, TB or BT. Defaults to LR.
	Direction Direction

	// RankSep is the gap between adjacent ranks, NodeSep the gap between
	// adjacent nodes within a rank.
	RankSep float64
	NodeSep float64

	// NodeDimensions maps node types to their footprint. Types missing from
	// the map fall back to a generic size.
	NodeDimensions map[domain.NodeType]Size
}

// DefaultOptions mirrors the canvas's node footprints.
func DefaultOptions() Options {
	return Options{
		Direction: DirectionLR,
		RankSep:   220,
		NodeSep:   60,
		NodeDimensions: map[domain.NodeType]Size{
			domain.NodeTrigger:   {Width: 180, Height: 80},
			domain.NodeBranch:    {Width: 160, Height: 70},
			domain.NodeCondition: {Width: 240, Height: 120},
			domain.NodeLogic:     {Width: 60, Height: 60},
			domain.NodeAction:    {Width: 220, Height: 100},
		},
	}
}

const (
	fallbackWidth  = 150.0
	fallbackHeight = 60.0
)

func (o Options) size(t domain.NodeType) Size {
	if s, ok := o.NodeDimensions[t]; ok && s.Width > 0 && s.Height > 0 {
		return s
	}
	return Size{Width: fallbackWidth, Height: fallbackHeight}
}

func (o Options) normalized() Options {
	switch o.Direction {
	case DirectionLR, DirectionRL, DirectionTB, DirectionBT:
	default:
		o.Direction = DirectionLR
	}
	if o.RankSep <= 0 {
		o.RankSep = 220
	}
	if o.NodeSep <= 0 {
		o.NodeSep = 60
	}
	if o.NodeDimensions == nil {
		o.NodeDimensions = DefaultOptions().NodeDimensions
	}
	return o
}

// Run returns a copy of nodes with final top-left-anchored positions. Every
// node, including ones with no incident edges, receives finite coordinates.
// The result is deterministic for a fixed (nodes, edges, options) triple.
// Edges referencing unknown node ids are ignored; cycles degrade to a
// partial layering rather than an error.
func Run(nodes []domain.Node, edges []domain.Edge, opts Options) []domain.Node {
	opts = opts.normalized()

	placed := make([]domain.Node, len(nodes))
	copy(placed, nodes)
	if len(placed) == 0 {
		return placed
	}

	index := make(map[string]int, len(placed))
	for i, n := range placed {
		index[n.ID] = i
	}

	out := make([][]int, len(placed))
	in := make([][]int, len(placed))
	for _, e := range edges {
		src, okSrc := index[e.Source]
		dst, okDst := index[e.Target]
		if !okSrc || !okDst || src == dst {
			continue
		}
		out[src] = append(out[src], dst)
		in[dst] = append(in[dst], src)
	}

	ranks := assignRanks(len(placed), out, in)
	rows := orderRanks(ranks, out, in)
	assignCoords(placed, rows, opts)

	return placed
}
