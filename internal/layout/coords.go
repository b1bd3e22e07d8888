package layout

import "github.com/careops/ruleviz/internal/domain"

// assignCoords computes center-anchored coordinates rank by rank, then
// translates them to the rendering surface's top-left-anchored convention.
//
// The rank axis runs horizontally for LR/RL and vertically for TB/BT; the
// cross axis stacks the nodes of a rank using each node's own footprint plus
// NodeSep, so differently sized node kinds never overlap. RL and BT mirror
// the rank axis after placement.
func assignCoords(nodes []domain.Node, rows [][]int, opts Options) {
	horizontal := opts.Direction == DirectionLR || opts.Direction == DirectionRL

	// Extent of a node along the rank axis and the cross axis.
	rankExtent := func(i int) float64 {
		s := opts.size(nodes[i].Type)
		if horizontal {
			return s.Width
		}
		return s.Height
	}
	crossExtent := func(i int) float64 {
		s := opts.size(nodes[i].Type)
		if horizontal {
			return s.Height
		}
		return s.Width
	}

	// Per-rank thickness along the rank axis.
	thickness := make([]float64, len(rows))
	total := 0.0
	for r, row := range rows {
		for _, idx := range row {
			if e := rankExtent(idx); e > thickness[r] {
				thickness[r] = e
			}
		}
		total += thickness[r]
		if r > 0 {
			total += opts.RankSep
		}
	}

	mirror := opts.Direction == DirectionRL || opts.Direction == DirectionBT

	offset := 0.0
	for r, row := range rows {
		rankCenter := offset + thickness[r]/2
		if mirror {
			rankCenter = total - rankCenter
		}

		cross := 0.0
		for _, idx := range row {
			e := crossExtent(idx)
			crossCenter := cross + e/2
			cross += e + opts.NodeSep

			s := opts.size(nodes[idx].Type)
			var cx, cy float64
			if horizontal {
				cx, cy = rankCenter, crossCenter
			} else {
				cx, cy = crossCenter, rankCenter
			}

			// Center-anchored to top-left-anchored.
			nodes[idx].Position = domain.Position{
				X: cx - s.Width/2,
				Y: cy - s.Height/2,
			}
		}

		offset += thickness[r] + opts.RankSep
	}
}
