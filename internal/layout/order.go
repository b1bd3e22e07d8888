package layout

import "sort"

// orderSweeps bounds the barycenter refinement. A handful of alternating
// down/up passes settles small and medium graphs; more passes trade time for
// marginal crossing reduction.
const orderSweeps = 4

// orderRanks arranges the nodes of each rank to reduce edge crossings using
// median/barycenter sweeps. The initial order within a rank is input order,
// which keeps the result deterministic and preserves the builder's vertical
// stacking as the tie-break.
func orderRanks(ranks []int, out [][]int, in [][]int) [][]int {
	maxRank := 0
	for _, r := range ranks {
		if r > maxRank {
			maxRank = r
		}
	}

	rows := make([][]int, maxRank+1)
	for i, r := range ranks {
		rows[r] = append(rows[r], i)
	}

	pos := make([]int, len(ranks))
	refresh := func() {
		for _, row := range rows {
			for p, idx := range row {
				pos[idx] = p
			}
		}
	}
	refresh()

	for sweep := 0; sweep < orderSweeps; sweep++ {
		// Downward: order each rank by the mean position of its parents.
		for r := 1; r <= maxRank; r++ {
			sortByBarycenter(rows[r], pos, in)
			refresh()
		}
		// Upward: order each rank by the mean position of its children.
		for r := maxRank - 1; r >= 0; r-- {
			sortByBarycenter(rows[r], pos, out)
			refresh()
		}
	}

	return rows
}

// sortByBarycenter stable-sorts a row by the mean position of each node's
// neighbors on the fixed adjacent rank. Nodes without neighbors keep their
// current position as barycenter so they do not drift.
func sortByBarycenter(row []int, pos []int, neighbors [][]int) {
	if len(row) < 2 {
		return
	}

	bary := make(map[int]float64, len(row))
	for _, idx := range row {
		if len(neighbors[idx]) == 0 {
			bary[idx] = float64(pos[idx])
			continue
		}
		sum := 0.0
		for _, n := range neighbors[idx] {
			sum += float64(pos[n])
		}
		bary[idx] = sum / float64(len(neighbors[idx]))
	}

	sort.SliceStable(row, func(i, j int) bool {
		return bary[row[i]] < bary[row[j]]
	})
}
