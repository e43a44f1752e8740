// Package scoring computes the composite trust score of an owner's circle.
//
// The score is a pure function of the owner's edges, their Peoples
// expansion, recent churn events and an explicit reference time, so the
// same store state and reference time always produce the same score.
package scoring

import (
	"context"
	"fmt"
	"math"
	"time"

	"circletrust/backend/internal/graph"
	"circletrust/backend/internal/models"
)

// TrustScore is recomputed as one unit; every field is in [0,100].
type TrustScore struct {
	OverallScore float64 `json:"overall_score"`
	Direct       float64 `json:"direct"`
	Structural   float64 `json:"structural"`
	Stability    float64 `json:"stability"`
}

// Weights combine the sub-scores into the overall score.
type Weights struct {
	Direct     float64
	Structural float64
	Stability  float64
}

// DefaultWeights is the fixed weighting used in production.
var DefaultWeights = Weights{Direct: 0.40, Structural: 0.35, Stability: 0.25}

// Config holds the scoring model constants.
type Config struct {
	Weights Weights

	// direct
	ReciprocatedWeight float64
	OneWayWeight       float64
	DirectSaturation   float64

	// structural
	SecondLayerWeight float64
	BreadthSaturation float64

	// stability
	MaturityAge    time.Duration
	ModifiedWeight float64
	ChurnWindow    time.Duration
}

// DefaultConfig returns the production model.
func DefaultConfig() Config {
	return Config{
		Weights:            DefaultWeights,
		ReciprocatedWeight: 1.0,
		OneWayWeight:       0.4,
		DirectSaturation:   10,
		SecondLayerWeight:  0.5,
		BreadthSaturation:  15,
		MaturityAge:        180 * 24 * time.Hour,
		ModifiedWeight:     0.8,
		ChurnWindow:        30 * 24 * time.Hour,
	}
}

// Input is everything one score computation reads.
type Input struct {
	// Edges are all of the owner's out-edges.
	Edges []models.Edge
	// Expansion must include depth-1 adjacency and at least two layers
	// worth of breadth; graph.Traverser.ExpandDepth provides both.
	Expansion *graph.Expansion
	// Churn holds the owner's downgrade and removal events.
	Churn []models.EdgeEvent
	// AsOf is the reference time for edge ages and the churn window.
	AsOf time.Time
}

// Scorer evaluates Input against a fixed Config.
type Scorer struct {
	cfg Config
}

// NewScorer returns a scorer for cfg.
func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// ChurnWindow is the trailing window counted by the stability sub-score.
func (s *Scorer) ChurnWindow() time.Duration { return s.cfg.ChurnWindow }

// Score computes the trust score for in.
func (s *Scorer) Score(in Input) TrustScore {
	direct := s.direct(in.Expansion)
	structural := s.structural(in.Expansion)
	stability := s.stability(in)

	w := s.cfg.Weights
	overall := w.Direct*direct + w.Structural*structural + w.Stability*stability
	return TrustScore{
		OverallScore: clamp(overall),
		Direct:       clamp(direct),
		Structural:   clamp(structural),
		Stability:    clamp(stability),
	}
}

// direct rewards Peoples edges, reciprocated ones more than one-way ones.
func (s *Scorer) direct(exp *graph.Expansion) float64 {
	peoples := len(exp.Layer(1))
	reciprocated := graph.Reciprocated(exp)
	raw := float64(reciprocated)*s.cfg.ReciprocatedWeight + float64(peoples-reciprocated)*s.cfg.OneWayWeight
	return saturate(raw, s.cfg.DirectSaturation)
}

// structural blends ego-network breadth with inner-circle clustering.
func (s *Scorer) structural(exp *graph.Expansion) float64 {
	breadth := float64(len(exp.Layer(1))) + s.cfg.SecondLayerWeight*float64(len(exp.Layer(2)))
	if breadth == 0 {
		return 0
	}
	return 0.5*saturate(breadth, s.cfg.BreadthSaturation) + 0.5*100*graph.ClusteringCoefficient(exp)
}

// stability rewards mature, unmodified Peoples edges and penalizes churn.
func (s *Scorer) stability(in Input) float64 {
	var sum float64
	var peoples int
	for _, e := range in.Edges {
		if e.Tier != models.TierPeoples {
			continue
		}
		peoples++
		age := in.AsOf.Sub(e.UpdatedAt)
		if age < 0 {
			age = 0
		}
		factor := 1.0
		if s.cfg.MaturityAge > 0 {
			factor = math.Min(float64(age)/float64(s.cfg.MaturityAge), 1)
		}
		weight := 1.0
		if e.Modified() {
			weight = s.cfg.ModifiedWeight
		}
		sum += weight * factor
	}
	if peoples == 0 {
		return 0
	}
	ageScore := 100 * sum / float64(peoples)

	windowStart := in.AsOf.Add(-s.cfg.ChurnWindow)
	churn := 0
	for _, ev := range in.Churn {
		if ev.IsChurn() && ev.OccurredAt.After(windowStart) {
			churn++
		}
	}
	rate := 0.0
	if total := churn + len(in.Edges); total > 0 {
		rate = float64(churn) / float64(total)
	}
	return ageScore * (1 - rate)
}

// Source is the part of the edge store ComputeTrustScore reads.
type Source interface {
	graph.NeighborSource
	GetEdges(ctx context.Context, ownerID string, tier models.Tier) ([]models.Edge, error)
	ChurnEvents(ctx context.Context, ownerID string, since, until time.Time) ([]models.EdgeEvent, error)
}

// ComputeTrustScore reads the owner's circle from src and scores it.
// Churn is read from the trailing window ending at until; asOf anchors
// edge ages.
func (s *Scorer) ComputeTrustScore(ctx context.Context, src Source, ownerID string, asOf, until time.Time) (TrustScore, error) {
	edges, err := src.GetEdges(ctx, ownerID, "")
	if err != nil {
		return TrustScore{}, fmt.Errorf("load edges: %w", err)
	}
	exp, err := graph.NewTraverser(src).ExpandDepth(ctx, ownerID, 2)
	if err != nil {
		return TrustScore{}, err
	}
	churn, err := src.ChurnEvents(ctx, ownerID, asOf.Add(-s.cfg.ChurnWindow), until)
	if err != nil {
		return TrustScore{}, fmt.Errorf("load churn: %w", err)
	}
	return s.Score(Input{Edges: edges, Expansion: exp, Churn: churn, AsOf: asOf}), nil
}

func saturate(v, scale float64) float64 {
	if scale <= 0 {
		return 0
	}
	return 100 * (1 - math.Exp(-v/scale))
}

func clamp(v float64) float64 {
	return graph.Round(math.Max(0, math.Min(100, v)))
}
