package commandinit

import (
	"context"
	"errors"

	"github.com/artuross/nifi2go/internal/defaults"
	"github.com/artuross/nifi2go/internal/oauth/nifi"
	"github.com/artuross/nifi2go/internal/repository/nifiapi"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
)

// ErrCommandFailed is returned by commands after they logged the cause.
var ErrCommandFailed = errors.New("command failed")

type NiFiConfig struct {
	APIURL   string
	Username string
	Password string
	Insecure bool
}

// NewNiFiClient returns a REST client that logs in with the configured
// credentials. Without a username requests are sent unauthenticated.
func NewNiFiClient(ctx context.Context, cfg NiFiConfig, tracerProvider trace.TracerProvider) *nifiapi.Repository {
	httpClient := defaults.HTTPClient
	if cfg.Insecure {
		httpClient = defaults.NewHTTPClient(true)
	}

	if cfg.Username != "" {
		tokenSource := nifi.NewTokenSource(
			cfg.APIURL,
			cfg.Username,
			cfg.Password,
			nifi.WithHTTPClient(httpClient),
		)

		// oauth2 wraps the transport of the client found in ctx
		httpClient = oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, httpClient), tokenSource)
	}

	return nifiapi.New(
		cfg.APIURL,
		nifiapi.WithHTTPClient(httpClient),
		nifiapi.WithTracerProvider(tracerProvider),
	)
}
