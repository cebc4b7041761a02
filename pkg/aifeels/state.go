// Package aifeels is the reference implementation of the Aifeels
// emotional-state model. It is the default implementation a
// conformance binary runs against, and doubles as the executable
// definition of the behavior the shipped test vectors expect.
package aifeels

import (
	"fmt"
	"math"
)

// Field deltas applied per event type, before intensity scaling.
const (
	positiveTrustDelta   = 0.10
	positiveValenceDelta = 0.10
	positiveArousalDelta = 0.05
	positiveEnergyDelta  = -0.02

	negativeTrustDelta   = -0.10
	negativeValenceDelta = -0.15
	negativeArousalDelta = 0.15
	negativeEnergyDelta  = -0.05

	soothingValenceDelta = 0.05
	soothingArousalDelta = -0.20
	soothingEnergyDelta  = 0.05
)

// Decay constants. Each decay step pulls valence and arousal
// toward the 0.5 resting point and restores a little energy.
const (
	decayFactor    = 0.9
	energyRecovery = 0.05
)

// EmotionalState models one relationship's emotional state. All
// four core fields are clamped to [0, 1]. An instance belongs to
// a single test and is not safe for concurrent use.
type EmotionalState struct {
	trust   float64
	valence float64
	arousal float64
	energy  float64

	metadata map[string]any
}

// New creates a state at the resting defaults: neutral trust,
// valence and arousal, full energy.
func New() *EmotionalState {
	return &EmotionalState{
		trust:   0.5,
		valence: 0.5,
		arousal: 0.5,
		energy:  1.0,
		metadata: map[string]any{
			"last_event":       "",
			"trend":            "stable",
			"events_processed": 0,
		},
	}
}

// GetField exposes the state to dot-path resolution.
func (s *EmotionalState) GetField(name string) (any, bool) {
	switch name {
	case "trust":
		return s.trust, true
	case "valence":
		return s.valence, true
	case "arousal":
		return s.arousal, true
	case "energy":
		return s.energy, true
	case "metadata":
		return s.metadata, true
	default:
		return nil, false
	}
}

// SetField writes one named field. Core fields accept any numeric
// value and are clamped to [0, 1]; metadata accepts a string-keyed
// map. Unknown names are an error.
func (s *EmotionalState) SetField(name string, value any) error {
	if name == "metadata" {
		m, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf(
				"metadata must be a map, got %T", value,
			)
		}
		s.metadata = m
		return nil
	}

	n, ok := toFloat64(value)
	if !ok {
		return fmt.Errorf(
			"field %s requires a numeric value, got %T",
			name, value,
		)
	}

	switch name {
	case "trust":
		s.trust = clamp(n)
	case "valence":
		s.valence = clamp(n)
	case "arousal":
		s.arousal = clamp(n)
	case "energy":
		s.energy = clamp(n)
	default:
		return fmt.Errorf("unknown field: %s", name)
	}
	return nil
}

// ProcessEvent applies one event to the state. The payload must
// carry a known "type"; an optional numeric "intensity" scales
// the field deltas (default 1). Unknown event types are an error.
func (s *EmotionalState) ProcessEvent(event map[string]any) error {
	if event == nil {
		return fmt.Errorf("nil event")
	}

	eventType, _ := event["type"].(string)
	intensity := 1.0
	if raw, exists := event["intensity"]; exists {
		n, ok := toFloat64(raw)
		if !ok {
			return fmt.Errorf(
				"event intensity must be numeric, got %T", raw,
			)
		}
		intensity = n
	}

	before := s.valence

	switch eventType {
	case "positive":
		s.trust = clamp(s.trust + positiveTrustDelta*intensity)
		s.valence = clamp(s.valence + positiveValenceDelta*intensity)
		s.arousal = clamp(s.arousal + positiveArousalDelta*intensity)
		s.energy = clamp(s.energy + positiveEnergyDelta*intensity)
	case "negative":
		s.trust = clamp(s.trust + negativeTrustDelta*intensity)
		s.valence = clamp(s.valence + negativeValenceDelta*intensity)
		s.arousal = clamp(s.arousal + negativeArousalDelta*intensity)
		s.energy = clamp(s.energy + negativeEnergyDelta*intensity)
	case "soothing":
		s.valence = clamp(s.valence + soothingValenceDelta*intensity)
		s.arousal = clamp(s.arousal + soothingArousalDelta*intensity)
		s.energy = clamp(s.energy + soothingEnergyDelta*intensity)
	case "neutral":
		// Bookkeeping only.
	default:
		return fmt.Errorf("unknown event type: %q", eventType)
	}

	s.metadata["last_event"] = eventType
	s.metadata["trend"] = trend(before, s.valence)
	s.metadata["events_processed"] = s.eventsProcessed() + 1

	return nil
}

// ApplyDecay performs one decay step: valence and arousal move
// toward 0.5 and energy recovers slightly. Trust does not decay.
func (s *EmotionalState) ApplyDecay() error {
	s.valence = 0.5 + (s.valence-0.5)*decayFactor
	s.arousal = 0.5 + (s.arousal-0.5)*decayFactor
	s.energy = clamp(s.energy + energyRecovery)
	return nil
}

// RecommendedAction derives the action a companion should take
// from the current state. High arousal always wins; low valence
// asks for support before celebration is considered.
func (s *EmotionalState) RecommendedAction() (any, error) {
	switch {
	case s.arousal > 0.7:
		return "soothe", nil
	case s.valence < 0.3:
		return "support", nil
	case s.valence > 0.7 && s.trust > 0.6:
		return "celebrate", nil
	default:
		return "maintain", nil
	}
}

func (s *EmotionalState) eventsProcessed() int {
	if n, ok := s.metadata["events_processed"].(int); ok {
		return n
	}
	return 0
}

// --- helpers ---

func clamp(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

func trend(before, after float64) string {
	switch {
	case after > before+1e-9:
		return "rising"
	case after < before-1e-9:
		return "falling"
	default:
		return "stable"
	}
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
