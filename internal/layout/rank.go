package layout

// assignRanks places every node on a discrete rank consistent with edge
// direction, using longest-path layering over a topological traversal
// (Kahn's algorithm): each node lands one past the deepest of its parents,
// sources at rank 0.
//
// The builder's output is acyclic; if a cycle slips in anyway, its nodes
// never reach zero in-degree and stay at their default rank 0 instead of
// looping.
func assignRanks(count int, out [][]int, in [][]int) []int {
	ranks := make([]int, count)
	indegree := make([]int, count)
	queue := make([]int, 0, count)

	for i := 0; i < count; i++ {
		indegree[i] = len(in[i])
		if indegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range out[curr] {
			if r := ranks[curr] + 1; r > ranks[child] {
				ranks[child] = r
			}
			indegree[child]--
			if indegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	return ranks
}
