package aifeels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aifeels-org/aifeels-conformance-suite/pkg/path"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/subject"
)

const delta = 1e-9

func TestNew_RestingDefaults(t *testing.T) {
	s := New()

	assert.InDelta(t, 0.5, s.trust, delta)
	assert.InDelta(t, 0.5, s.valence, delta)
	assert.InDelta(t, 0.5, s.arousal, delta)
	assert.InDelta(t, 1.0, s.energy, delta)

	assert.Equal(t, "", s.metadata["last_event"])
	assert.Equal(t, "stable", s.metadata["trend"])
	assert.Equal(t, 0, s.metadata["events_processed"])
}

// === events ===

func TestProcessEvent_Positive(t *testing.T) {
	s := New()

	err := s.ProcessEvent(map[string]any{"type": "positive"})

	require.NoError(t, err)
	assert.InDelta(t, 0.6, s.trust, delta)
	assert.InDelta(t, 0.6, s.valence, delta)
	assert.InDelta(t, 0.55, s.arousal, delta)
	assert.InDelta(t, 0.98, s.energy, delta)
	assert.Equal(t, "positive", s.metadata["last_event"])
	assert.Equal(t, "rising", s.metadata["trend"])
	assert.Equal(t, 1, s.metadata["events_processed"])
}

func TestProcessEvent_Negative(t *testing.T) {
	s := New()

	err := s.ProcessEvent(map[string]any{"type": "negative"})

	require.NoError(t, err)
	assert.InDelta(t, 0.4, s.trust, delta)
	assert.InDelta(t, 0.35, s.valence, delta)
	assert.InDelta(t, 0.65, s.arousal, delta)
	assert.InDelta(t, 0.95, s.energy, delta)
	assert.Equal(t, "falling", s.metadata["trend"])
}

func TestProcessEvent_Soothing(t *testing.T) {
	s := New()

	err := s.ProcessEvent(map[string]any{"type": "soothing"})

	require.NoError(t, err)
	assert.InDelta(t, 0.5, s.trust, delta)
	assert.InDelta(t, 0.55, s.valence, delta)
	assert.InDelta(t, 0.3, s.arousal, delta)
	assert.InDelta(t, 1.0, s.energy, delta,
		"energy recovery clamps at 1")
}

func TestProcessEvent_Neutral(t *testing.T) {
	s := New()

	err := s.ProcessEvent(map[string]any{"type": "neutral"})

	require.NoError(t, err)
	assert.InDelta(t, 0.5, s.valence, delta)
	assert.Equal(t, "neutral", s.metadata["last_event"])
	assert.Equal(t, "stable", s.metadata["trend"])
	assert.Equal(t, 1, s.metadata["events_processed"])
}

func TestProcessEvent_UnknownType(t *testing.T) {
	s := New()

	err := s.ProcessEvent(map[string]any{"type": "confetti"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown event type: "confetti"`)
}

func TestProcessEvent_NilEvent(t *testing.T) {
	s := New()

	require.Error(t, s.ProcessEvent(nil))
}

func TestProcessEvent_IntensityScalesDeltas(t *testing.T) {
	s := New()

	err := s.ProcessEvent(map[string]any{
		"type": "positive", "intensity": 2,
	})

	require.NoError(t, err)
	assert.InDelta(t, 0.7, s.trust, delta)
	assert.InDelta(t, 0.7, s.valence, delta)
	assert.InDelta(t, 0.6, s.arousal, delta)
	assert.InDelta(t, 0.96, s.energy, delta)
}

func TestProcessEvent_NonNumericIntensity(t *testing.T) {
	s := New()

	err := s.ProcessEvent(map[string]any{
		"type": "positive", "intensity": "max",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "intensity must be numeric")
}

func TestProcessEvent_ClampsAtBounds(t *testing.T) {
	s := New()
	require.NoError(t, s.SetField("trust", 0.95))
	require.NoError(t, s.SetField("valence", 0.02))

	require.NoError(t,
		s.ProcessEvent(map[string]any{"type": "negative"}))

	assert.InDelta(t, 0.85, s.trust, delta)
	assert.InDelta(t, 0.0, s.valence, delta,
		"valence bottoms out at 0")
}

func TestProcessEvent_CountsAcrossEvents(t *testing.T) {
	s := New()

	for i := 0; i < 3; i++ {
		require.NoError(t,
			s.ProcessEvent(map[string]any{"type": "neutral"}))
	}

	assert.Equal(t, 3, s.metadata["events_processed"])
}

// === decay ===

func TestApplyDecay_PullsTowardRest(t *testing.T) {
	s := New()
	require.NoError(t, s.SetField("valence", 0.9))
	require.NoError(t, s.SetField("arousal", 0.1))
	require.NoError(t, s.SetField("energy", 0.5))

	require.NoError(t, s.ApplyDecay())

	assert.InDelta(t, 0.86, s.valence, delta)
	assert.InDelta(t, 0.14, s.arousal, delta)
	assert.InDelta(t, 0.55, s.energy, delta)
}

func TestApplyDecay_TrustDoesNotDecay(t *testing.T) {
	s := New()
	require.NoError(t, s.SetField("trust", 0.9))

	require.NoError(t, s.ApplyDecay())

	assert.InDelta(t, 0.9, s.trust, delta)
}

// === recommended action ===

func TestRecommendedAction(t *testing.T) {
	tests := []struct {
		name    string
		trust   float64
		valence float64
		arousal float64
		want    string
	}{
		{"high arousal wins", 0.9, 0.9, 0.8, "soothe"},
		{"low valence asks for support", 0.5, 0.2, 0.5, "support"},
		{"happy and trusted celebrates", 0.7, 0.8, 0.5, "celebrate"},
		{"celebration needs trust", 0.5, 0.8, 0.5, "maintain"},
		{"resting state maintains", 0.5, 0.5, 0.5, "maintain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			require.NoError(t, s.SetField("trust", tt.trust))
			require.NoError(t, s.SetField("valence", tt.valence))
			require.NoError(t, s.SetField("arousal", tt.arousal))

			action, err := s.RecommendedAction()

			require.NoError(t, err)
			assert.Equal(t, tt.want, action)
		})
	}
}

// === fields ===

func TestSetField_ClampsCoreFields(t *testing.T) {
	s := New()

	require.NoError(t, s.SetField("trust", 1.5))
	assert.InDelta(t, 1.0, s.trust, delta)

	require.NoError(t, s.SetField("energy", -0.2))
	assert.InDelta(t, 0.0, s.energy, delta)
}

func TestSetField_AcceptsIntegers(t *testing.T) {
	s := New()

	require.NoError(t, s.SetField("valence", 1))

	assert.InDelta(t, 1.0, s.valence, delta)
}

func TestSetField_Metadata(t *testing.T) {
	s := New()

	err := s.SetField("metadata", map[string]any{"note": "x"})

	require.NoError(t, err)
	assert.Equal(t, "x", s.metadata["note"])

	require.Error(t, s.SetField("metadata", "not a map"))
}

func TestSetField_Unknown(t *testing.T) {
	s := New()

	err := s.SetField("mood", 0.5)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown field: mood")
}

func TestSetField_NonNumeric(t *testing.T) {
	s := New()

	err := s.SetField("trust", "high")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a numeric value")
}

func TestGetField(t *testing.T) {
	s := New()

	v, ok := s.GetField("trust")
	require.True(t, ok)
	assert.InDelta(t, 0.5, v.(float64), delta)

	_, ok = s.GetField("mood")
	assert.False(t, ok)
}

func TestEmotionalState_PathResolution(t *testing.T) {
	s := New()
	require.NoError(t,
		s.ProcessEvent(map[string]any{"type": "positive"}))

	trend, err := path.Resolve(s, "metadata.trend")
	require.NoError(t, err)
	assert.Equal(t, "rising", trend)

	_, err = path.Resolve(s, "metadata.missing")
	require.Error(t, err)
}

// === contract ===

func TestEmotionalState_ImplementsSubjectContract(t *testing.T) {
	var s subject.Subject = New()

	_, isStepper := s.(subject.DecayStepper)
	assert.True(t, isStepper,
		"the reference implementation decays step-wise")

	_, isAdvancer := s.(subject.TimeAdvancer)
	assert.False(t, isAdvancer,
		"time advancement goes through the decay fallback")
}

func TestRegister(t *testing.T) {
	r := subject.NewRegistry()

	require.NoError(t, Register(r))

	reg, err := r.Lookup("aifeels-go")
	require.NoError(t, err)
	assert.Equal(t, "Go", reg.Info.Language)

	s, err := reg.Factory()
	require.NoError(t, err)
	assert.NotNil(t, s)
}
