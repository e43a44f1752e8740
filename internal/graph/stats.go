package graph

import "circletrust/backend/internal/models"

// Stats summarizes one owner's circle.
type Stats struct {
	TierCounts            map[models.Tier]int `json:"tier_counts"`
	TotalEdges            int                 `json:"total_edges"`
	TotalNodes            int                 `json:"total_nodes"`
	ReachableNodes        int                 `json:"reachable_nodes"`
	LayerSizes            []int               `json:"layer_sizes"`
	AverageDepth          float64             `json:"average_depth"`
	ClusteringCoefficient float64             `json:"clustering_coefficient"`
	ReciprocatedPeoples   int                 `json:"reciprocated_peoples"`
}

// ComputeStats derives circle statistics from the owner's out-edges and a
// Peoples expansion. TotalNodes counts distinct ids the owner can see: every
// direct target plus every node reachable through Peoples hops.
func ComputeStats(edges []models.Edge, exp *Expansion) Stats {
	st := Stats{
		TierCounts: make(map[models.Tier]int, len(models.Tiers)),
		TotalEdges: len(edges),
		LayerSizes: make([]int, len(exp.Layers)),
	}
	for _, t := range models.Tiers {
		st.TierCounts[t] = 0
	}

	visible := make(map[string]struct{}, len(edges))
	for _, e := range edges {
		st.TierCounts[e.Tier]++
		visible[e.TargetID] = struct{}{}
	}

	weighted := 0
	for i, layer := range exp.Layers {
		st.LayerSizes[i] = len(layer)
		st.ReachableNodes += len(layer)
		weighted += (i + 1) * len(layer)
		for _, n := range layer {
			visible[n] = struct{}{}
		}
	}
	st.TotalNodes = len(visible)
	if st.ReachableNodes > 0 {
		st.AverageDepth = Round(float64(weighted) / float64(st.ReachableNodes))
	}
	st.ClusteringCoefficient = Round(ClusteringCoefficient(exp))
	st.ReciprocatedPeoples = Reciprocated(exp)
	return st
}
