package nifi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Access tokens without an exp claim are reused for this long.
const defaultLifetime = 10 * time.Minute

// TokenSource exchanges a username and password for a NiFi access token.
type TokenSource struct {
	httpClient *http.Client
	tokenURL   string
	username   string
	password   string
	now        func() time.Time
}

type Option func(s *TokenSource)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(s *TokenSource) {
		s.httpClient = httpClient
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *TokenSource) {
		s.now = now
	}
}

// NewTokenSource returns a token source that logs in again only once the
// current token expired. baseURL points at the nifi-api root.
func NewTokenSource(baseURL, username, password string, options ...Option) oauth2.TokenSource {
	source := TokenSource{
		httpClient: http.DefaultClient,
		tokenURL:   strings.TrimSuffix(baseURL, "/") + "/access/token",
		username:   username,
		password:   password,
		now:        time.Now,
	}

	for _, apply := range options {
		apply(&source)
	}

	return oauth2.ReuseTokenSource(nil, &source)
}

func (s *TokenSource) Token() (*oauth2.Token, error) {
	accessToken, err := s.fetchToken()
	if err != nil {
		return nil, fmt.Errorf("fetch token: %w", err)
	}

	token := oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		Expiry:      s.expiry(accessToken),
	}

	return &token, nil
}

func (s *TokenSource) fetchToken() (string, error) {
	data := url.Values{}
	data.Set("username", s.username)
	data.Set("password", s.password)

	request, err := http.NewRequestWithContext(context.Background(), "POST", s.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	request.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")
	request.Header.Set("Accept", "text/plain")

	response, err := s.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	switch response.StatusCode {
	case http.StatusOK, http.StatusCreated:

	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return "", ErrInvalidCredentials

	default:
		return "", fmt.Errorf("unexpected status code: %d", response.StatusCode)
	}

	return strings.TrimSpace(string(body)), nil
}

// expiry reads the exp claim of the token without verifying its signature.
func (s *TokenSource) expiry(accessToken string) time.Time {
	fallback := s.now().Add(defaultLifetime)

	token, _, err := jwt.NewParser().ParseUnverified(accessToken, jwt.MapClaims{})
	if err != nil {
		return fallback
	}

	expiresAt, err := token.Claims.GetExpirationTime()
	if err != nil || expiresAt == nil {
		return fallback
	}

	return expiresAt.Time
}
