// Package remote drives subject implementations that live behind an
// HTTP service instead of inside this process. It connects to a
// service, reads its descriptor, and exposes a subject.Factory whose
// sessions translate every Subject operation into an API call.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aifeels-org/aifeels-conformance-suite/pkg/httpclient"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/logging"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/subject"
)

// Adapter represents one connected remote subject service. Its
// Factory opens a fresh remote session per test, so remote
// implementations get the same isolation as in-process ones.
type Adapter struct {
	client     *httpclient.APIClient
	descriptor Descriptor
}

// Option configures a Connect call.
type Option func(*config)

type config struct {
	token   string
	timeout time.Duration
	logger  logging.Logger
}

// WithToken sets a bearer token for all requests to the service.
func WithToken(token string) Option {
	return func(c *config) {
		c.token = token
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithLogger sets the logger used for request/response logging.
func WithLogger(logger logging.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// Connect dials the service at baseURL, fetches its descriptor and
// returns an Adapter for it.
func Connect(
	ctx context.Context,
	baseURL string,
	opts ...Option,
) (*Adapter, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	var clientOpts []httpclient.ClientOption
	if cfg.token != "" {
		clientOpts = append(clientOpts,
			httpclient.WithToken(cfg.token))
	}
	if cfg.timeout > 0 {
		clientOpts = append(clientOpts,
			httpclient.WithTimeout(cfg.timeout))
	}
	if cfg.logger != nil {
		clientOpts = append(clientOpts,
			httpclient.WithLogger(cfg.logger))
	}

	client := httpclient.NewAPIClient(baseURL, clientOpts...)

	var d Descriptor
	status, err := client.GetJSON(ctx, "/", &d)
	if err != nil {
		return nil, fmt.Errorf("fetch service descriptor: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf(
			"fetch service descriptor: unexpected status %d", status,
		)
	}
	if d.Name == "" {
		return nil, errors.New("service descriptor has no name")
	}

	return &Adapter{client: client, descriptor: d}, nil
}

// Descriptor returns the descriptor fetched at connect time.
func (a *Adapter) Descriptor() Descriptor {
	return a.descriptor
}

// Info maps the service descriptor onto subject metadata.
func (a *Adapter) Info() subject.Info {
	return subject.Info{
		Name:     a.descriptor.Name,
		Version:  a.descriptor.Version,
		Language: a.descriptor.Language,
		License:  a.descriptor.License,
	}
}

// HasCapability reports whether the connected service advertises
// the named capability.
func (a *Adapter) HasCapability(capability string) bool {
	return a.descriptor.Has(capability)
}

// Factory returns a subject.Factory that opens a new remote
// session on every call.
func (a *Adapter) Factory() subject.Factory {
	return func() (subject.Subject, error) {
		return a.open(context.Background())
	}
}

// Register adds the remote implementation to the given registry
// under its descriptor name.
func (a *Adapter) Register(r subject.Registry) error {
	return r.Register(a.Info(), a.Factory())
}
