package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aifeels-org/aifeels-conformance-suite/pkg/httpclient"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/subject"
)

// session is one live subject instance on a remote service. It
// satisfies subject.Subject by forwarding every operation over HTTP
// and io.Closer by deleting the instance when the test is done.
type session struct {
	client *httpclient.APIClient
	id     string
}

// open creates a subject instance on the service and wraps the
// resulting session according to the advertised capabilities.
func (a *Adapter) open(ctx context.Context) (subject.Subject, error) {
	status, data, err := a.client.PostJSON(ctx, "/subjects", nil)
	if err != nil {
		return nil, fmt.Errorf("create remote subject: %w", err)
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return nil, fmt.Errorf(
			"create remote subject: unexpected status %d", status,
		)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &created); err != nil {
		return nil, fmt.Errorf("parse create response: %w", err)
	}
	if created.ID == "" {
		return nil, errors.New("remote service returned no subject id")
	}

	s := &session{client: a.client, id: created.ID}

	advances := a.HasCapability(CapAdvanceTime)
	decays := a.HasCapability(CapApplyDecay)
	switch {
	case advances && decays:
		return &fullSession{s}, nil
	case advances:
		return &advanceSession{s}, nil
	case decays:
		return &decaySession{s}, nil
	default:
		return s, nil
	}
}

// GetField fetches the full remote state and looks the field up in
// it. Transport failures read as a missing field, which surfaces as
// an address failure on whichever assertion needed the value.
func (s *session) GetField(name string) (any, bool) {
	status, state, err := s.client.Get(
		context.Background(), s.path("/state"),
	)
	if err != nil || status != http.StatusOK {
		return nil, false
	}
	value, ok := state[name]
	return value, ok
}

// SetField overrides a single field on the remote instance.
func (s *session) SetField(name string, value any) error {
	status, _, err := s.client.PostJSON(
		context.Background(), s.path("/fields"),
		map[string]any{"name": name, "value": value},
	)
	if err != nil {
		return fmt.Errorf("set field %s: %w", name, err)
	}
	return checkStatus("set field "+name, status)
}

// ProcessEvent forwards one event to the remote instance.
func (s *session) ProcessEvent(event map[string]any) error {
	status, _, err := s.client.PostJSON(
		context.Background(), s.path("/event"), event,
	)
	if err != nil {
		return fmt.Errorf("process event: %w", err)
	}
	return checkStatus("process event", status)
}

// RecommendedAction asks the remote instance for its current
// recommendation.
func (s *session) RecommendedAction() (any, error) {
	var out struct {
		Action any `json:"action"`
	}
	status, err := s.client.GetJSON(
		context.Background(), s.path("/action"), &out,
	)
	if err != nil {
		return nil, fmt.Errorf("get recommended action: %w", err)
	}
	if err := checkStatus("get recommended action", status); err != nil {
		return nil, err
	}
	return out.Action, nil
}

// Close deletes the remote instance.
func (s *session) Close() error {
	status, err := s.client.Delete(context.Background(), s.path(""))
	if err != nil {
		return fmt.Errorf("delete remote subject: %w", err)
	}
	return checkStatus("delete remote subject", status)
}

func (s *session) advance(seconds float64) error {
	status, _, err := s.client.PostJSON(
		context.Background(), s.path("/advance"),
		map[string]any{"seconds": seconds},
	)
	if err != nil {
		return fmt.Errorf("advance time: %w", err)
	}
	return checkStatus("advance time", status)
}

func (s *session) decay() error {
	status, _, err := s.client.PostJSON(
		context.Background(), s.path("/decay"), nil,
	)
	if err != nil {
		return fmt.Errorf("apply decay: %w", err)
	}
	return checkStatus("apply decay", status)
}

func (s *session) path(suffix string) string {
	return "/subjects/" + s.id + suffix
}

// advanceSession exposes native time advancement on top of the
// base session.
type advanceSession struct {
	*session
}

// AdvanceTime moves the remote simulated clock forward.
func (s *advanceSession) AdvanceTime(seconds float64) error {
	return s.advance(seconds)
}

// decaySession exposes on-demand decay on top of the base session.
type decaySession struct {
	*session
}

// ApplyDecay applies one decay interval on the remote instance.
func (s *decaySession) ApplyDecay() error {
	return s.decay()
}

// fullSession exposes both time-handling capabilities.
type fullSession struct {
	*session
}

// AdvanceTime moves the remote simulated clock forward.
func (s *fullSession) AdvanceTime(seconds float64) error {
	return s.advance(seconds)
}

// ApplyDecay applies one decay interval on the remote instance.
func (s *fullSession) ApplyDecay() error {
	return s.decay()
}

func checkStatus(op string, status int) error {
	if status < 200 || status >= 300 {
		return fmt.Errorf("%s: unexpected status %d", op, status)
	}
	return nil
}
