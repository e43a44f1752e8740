// Package graph implements the read-side algorithms over the edge store:
// depth-limited Peoples traversal, shared-circle intersection and circle
// statistics.
package graph

import (
	"context"
	"fmt"
	"sort"
)

// MaxDepthCeiling bounds every traversal regardless of configuration.
const MaxDepthCeiling = 4

// NeighborSource is the part of the edge store traversal reads from.
type NeighborSource interface {
	PeoplesNeighbors(ctx context.Context, ownerIDs []string) (map[string][]string, error)
}

// Expansion is the result of a breadth-first expansion from one owner.
type Expansion struct {
	OwnerID string
	// Layers[k-1] holds the ids first reached after exactly k Peoples hops,
	// sorted. Layers are pairwise disjoint and never contain the owner.
	Layers [][]string
	// Adjacency maps every expanded node (the owner and each node whose
	// neighbors were fetched) to its sorted Peoples out-neighbors.
	Adjacency map[string][]string
}

// Layer returns the nodes at depth k, or nil when k is out of range.
func (e *Expansion) Layer(k int) []string {
	if k < 1 || k > len(e.Layers) {
		return nil
	}
	return e.Layers[k-1]
}

// Reachable counts every node across all layers.
func (e *Expansion) Reachable() int {
	n := 0
	for _, l := range e.Layers {
		n += len(l)
	}
	return n
}

// Traverser runs Peoples-only breadth-first expansion.
type Traverser struct {
	src NeighborSource
}

// NewTraverser returns a traverser reading from src.
func NewTraverser(src NeighborSource) *Traverser {
	return &Traverser{src: src}
}

// ExpandDepth expands from ownerID up to maxDepth layers. Neighbors of
// depth-1 nodes are always fetched, even for maxDepth 1, because mutual
// counts, reciprocity and clustering all depend on them.
func (t *Traverser) ExpandDepth(ctx context.Context, ownerID string, maxDepth int) (*Expansion, error) {
	if maxDepth < 1 || maxDepth > MaxDepthCeiling {
		return nil, fmt.Errorf("depth %d outside 1..%d", maxDepth, MaxDepthCeiling)
	}
	walk := max(maxDepth, 2)

	exp := &Expansion{
		OwnerID:   ownerID,
		Layers:    make([][]string, 0, walk),
		Adjacency: make(map[string][]string),
	}
	visited := map[string]struct{}{ownerID: {}}
	frontier := []string{ownerID}

	for depth := 1; depth <= walk; depth++ {
		if len(frontier) == 0 {
			exp.Layers = append(exp.Layers, []string{})
			continue
		}
		neighbors, err := t.src.PeoplesNeighbors(ctx, frontier)
		if err != nil {
			return nil, fmt.Errorf("expand depth %d: %w", depth, err)
		}

		next := make(map[string]struct{})
		for _, node := range frontier {
			// Database collation may differ from byte order; re-sort locally.
			adj := append([]string(nil), neighbors[node]...)
			sort.Strings(adj)
			exp.Adjacency[node] = adj
			for _, n := range adj {
				if _, seen := visited[n]; !seen {
					next[n] = struct{}{}
				}
			}
		}

		layer := make([]string, 0, len(next))
		for n := range next {
			visited[n] = struct{}{}
			layer = append(layer, n)
		}
		sort.Strings(layer)
		exp.Layers = append(exp.Layers, layer)
		frontier = layer
	}

	exp.Layers = exp.Layers[:maxDepth]
	return exp, nil
}

// Candidate is a depth-2 node annotated with how many of the owner's
// Peoples hold a Peoples edge to it.
type Candidate struct {
	UserID      string `json:"user_id"`
	MutualCount int    `json:"mutual_count"`
}

// PeoplesOfPeoples returns the depth-2 layer of exp with exact mutual
// counts, ordered by mutual count descending and then by id. It requires an
// expansion that fetched depth-1 adjacency, which ExpandDepth guarantees.
func PeoplesOfPeoples(exp *Expansion) []Candidate {
	second := exp.Layer(2)
	if len(second) == 0 {
		// ExpandDepth(…, 1) still walked depth 2; derive it from adjacency.
		second = secondLayerFromAdjacency(exp)
	}
	if len(second) == 0 {
		return []Candidate{}
	}

	counts := make(map[string]int, len(second))
	for _, c := range second {
		counts[c] = 0
	}
	for _, n := range exp.Layer(1) {
		for _, target := range exp.Adjacency[n] {
			if _, ok := counts[target]; ok {
				counts[target]++
			}
		}
	}

	out := make([]Candidate, 0, len(counts))
	for id, c := range counts {
		out = append(out, Candidate{UserID: id, MutualCount: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MutualCount != out[j].MutualCount {
			return out[i].MutualCount > out[j].MutualCount
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}

func secondLayerFromAdjacency(exp *Expansion) []string {
	first := exp.Layer(1)
	seen := make(map[string]struct{}, len(first)+1)
	seen[exp.OwnerID] = struct{}{}
	for _, n := range first {
		seen[n] = struct{}{}
	}
	next := make(map[string]struct{})
	for _, n := range first {
		for _, t := range exp.Adjacency[n] {
			if _, ok := seen[t]; !ok {
				next[t] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(next))
	for n := range next {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Reciprocated counts the owner's Peoples neighbors that hold a Peoples
// edge back to the owner.
func Reciprocated(exp *Expansion) int {
	n := 0
	for _, node := range exp.Layer(1) {
		if containsSorted(exp.Adjacency[node], exp.OwnerID) {
			n++
		}
	}
	return n
}

// ClusteringCoefficient is the fraction of unordered pairs of the owner's
// Peoples neighbors joined by a Peoples edge in either direction. It is 0
// when the owner has fewer than two Peoples neighbors.
func ClusteringCoefficient(exp *Expansion) float64 {
	first := exp.Layer(1)
	n := len(first)
	if n < 2 {
		return 0
	}
	connected := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := first[i], first[j]
			if containsSorted(exp.Adjacency[a], b) || containsSorted(exp.Adjacency[b], a) {
				connected++
			}
		}
	}
	pairs := n * (n - 1) / 2
	return float64(connected) / float64(pairs)
}

func containsSorted(ids []string, id string) bool {
	i := sort.SearchStrings(ids, id)
	return i < len(ids) && ids[i] == id
}
