package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aifeels-org/aifeels-conformance-suite/pkg/subject"
)

// stubService emulates a remote subject implementation and records
// everything the adapter asks of it.
type stubService struct {
	mu         sync.Mutex
	descriptor Descriptor
	created    int
	state      map[string]any
	events     []map[string]any
	advances   []float64
	decays     int
	deleted    []string
	action     any
}

func newStubService(capabilities ...string) *stubService {
	return &stubService{
		descriptor: Descriptor{
			Name:         "aifeels-rs",
			Version:      "0.3.0",
			Language:     "Rust",
			License:      "MIT",
			Capabilities: capabilities,
		},
		state: map[string]any{
			"trust":   0.5,
			"valence": 0.5,
			"metadata": map[string]any{
				"trend": "stable",
			},
		},
		action: "maintain",
	}
}

func (s *stubService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.URL.Path == "/" {
		json.NewEncoder(w).Encode(s.descriptor)
		return
	}
	if r.URL.Path == "/subjects" && r.Method == http.MethodPost {
		s.created++
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"id": "s%d"}`, s.created)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/subjects/")
	parts := strings.SplitN(rest, "/", 2)
	id := parts[0]
	op := ""
	if len(parts) == 2 {
		op = parts[1]
	}

	switch {
	case op == "" && r.Method == http.MethodDelete:
		s.deleted = append(s.deleted, id)
		w.WriteHeader(http.StatusNoContent)
	case op == "event":
		var event map[string]any
		json.NewDecoder(r.Body).Decode(&event)
		s.events = append(s.events, event)
		w.Write([]byte(`{}`))
	case op == "advance":
		var body struct {
			Seconds float64 `json:"seconds"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		s.advances = append(s.advances, body.Seconds)
		w.Write([]byte(`{}`))
	case op == "decay":
		s.decays++
		w.Write([]byte(`{}`))
	case op == "action":
		json.NewEncoder(w).Encode(map[string]any{"action": s.action})
	case op == "state":
		json.NewEncoder(w).Encode(s.state)
	case op == "fields":
		var body struct {
			Name  string `json:"name"`
			Value any    `json:"value"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		s.state[body.Name] = body.Value
		w.Write([]byte(`{}`))
	default:
		http.NotFound(w, r)
	}
}

func connectStub(t *testing.T, svc *stubService) *Adapter {
	t.Helper()

	srv := httptest.NewServer(svc)
	t.Cleanup(srv.Close)

	adapter, err := Connect(context.Background(), srv.URL)
	require.NoError(t, err)
	return adapter
}

func TestSession_Lifecycle(t *testing.T) {
	svc := newStubService()
	adapter := connectStub(t, svc)

	subj, err := adapter.Factory()()
	require.NoError(t, err)

	require.NoError(t, subj.ProcessEvent(map[string]any{
		"type": "positive",
	}))

	action, err := subj.RecommendedAction()
	require.NoError(t, err)
	assert.Equal(t, "maintain", action)

	require.NoError(t, subj.SetField("trust", 0.9))

	trust, ok := subj.GetField("trust")
	require.True(t, ok)
	assert.Equal(t, 0.9, trust)

	closer, ok := subj.(io.Closer)
	require.True(t, ok, "remote sessions are closeable")
	require.NoError(t, closer.Close())

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Len(t, svc.events, 1)
	assert.Equal(t, "positive", svc.events[0]["type"])
	assert.Equal(t, []string{"s1"}, svc.deleted)
}

func TestSession_FieldLookup(t *testing.T) {
	svc := newStubService()
	adapter := connectStub(t, svc)

	subj, err := adapter.Factory()()
	require.NoError(t, err)

	meta, ok := subj.GetField("metadata")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"trend": "stable"}, meta)

	_, ok = subj.GetField("charisma")
	assert.False(t, ok)
}

func TestSession_CapabilityWrapping(t *testing.T) {
	tests := []struct {
		name         string
		capabilities []string
		wantAdvance  bool
		wantDecay    bool
	}{
		{
			name:         "no time handling",
			capabilities: nil,
			wantAdvance:  false,
			wantDecay:    false,
		},
		{
			name:         "advance only",
			capabilities: []string{CapAdvanceTime},
			wantAdvance:  true,
			wantDecay:    false,
		},
		{
			name:         "decay only",
			capabilities: []string{CapApplyDecay},
			wantAdvance:  false,
			wantDecay:    true,
		},
		{
			name:         "both",
			capabilities: []string{CapAdvanceTime, CapApplyDecay},
			wantAdvance:  true,
			wantDecay:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newStubService(tt.capabilities...)
			adapter := connectStub(t, svc)

			subj, err := adapter.Factory()()
			require.NoError(t, err)

			_, advances := subj.(subject.TimeAdvancer)
			_, decays := subj.(subject.DecayStepper)
			assert.Equal(t, tt.wantAdvance, advances)
			assert.Equal(t, tt.wantDecay, decays)

			_, closeable := subj.(io.Closer)
			assert.True(t, closeable)
		})
	}
}

func TestSession_AdvanceTime(t *testing.T) {
	svc := newStubService(CapAdvanceTime)
	adapter := connectStub(t, svc)

	subj, err := adapter.Factory()()
	require.NoError(t, err)

	advancer := subj.(subject.TimeAdvancer)
	require.NoError(t, advancer.AdvanceTime(600))

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Equal(t, []float64{600}, svc.advances)
}

func TestSession_ApplyDecay(t *testing.T) {
	svc := newStubService(CapApplyDecay)
	adapter := connectStub(t, svc)

	subj, err := adapter.Factory()()
	require.NoError(t, err)

	stepper := subj.(subject.DecayStepper)
	require.NoError(t, stepper.ApplyDecay())
	require.NoError(t, stepper.ApplyDecay())

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Equal(t, 2, svc.decays)
}

func TestSession_FreshInstancePerFactoryCall(t *testing.T) {
	svc := newStubService()
	adapter := connectStub(t, svc)

	first, err := adapter.Factory()()
	require.NoError(t, err)
	second, err := adapter.Factory()()
	require.NoError(t, err)

	assert.NotEqual(t,
		first.(*session).id, second.(*session).id,
		"each test gets its own remote instance")

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Equal(t, 2, svc.created)
}

func TestOpen_NoSubjectID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/" {
				w.Write([]byte(`{"name": "aifeels-rs"}`))
				return
			}
			w.Write([]byte(`{}`))
		}))
	defer srv.Close()

	adapter, err := Connect(context.Background(), srv.URL)
	require.NoError(t, err)

	_, err = adapter.Factory()()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no subject id")
}

func TestSession_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/":
				w.Write([]byte(`{"name": "aifeels-rs"}`))
			case "/subjects":
				w.Write([]byte(`{"id": "s1"}`))
			default:
				http.Error(w, "kaput", http.StatusBadGateway)
			}
		}))
	defer srv.Close()

	adapter, err := Connect(context.Background(), srv.URL)
	require.NoError(t, err)

	subj, err := adapter.Factory()()
	require.NoError(t, err)

	err = subj.ProcessEvent(map[string]any{"type": "positive"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 502")

	_, err = subj.RecommendedAction()
	require.Error(t, err)

	_, ok := subj.GetField("trust")
	assert.False(t, ok, "state fetch failure reads as missing field")
}
