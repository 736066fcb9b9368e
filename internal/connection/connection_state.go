package connection

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/repository"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/pkg/errs"
)

type Status string

const (
	StatusUnknown      Status = "unknown"
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"

	DefaultSettingsKey = "inventory_api_url"
)

// Prober is the part of *httpclient.Client a ConnectionState manages.
type Prober interface {
	SetBaseURL(baseURL string)
	BaseURL() string
	TestConnection(ctx context.Context) bool
}

type Info struct {
	BaseURL      string     `json:"baseUrl"`
	Status       Status     `json:"status"`
	LastTestedAt *time.Time `json:"lastTestedAt,omitempty"`
}

// ConnectionState owns the live API base URL and the result of the last connection test.
type ConnectionState struct {
	prober Prober
	repo   repository.SettingsRepository
	key    string

	mu           sync.Mutex
	status       Status
	lastTestedAt time.Time
	version      uint64
}

// New restores the persisted base URL, if any, into prober. An invalid stored value is
// logged and ignored.
func New(ctx context.Context, prober Prober, repo repository.SettingsRepository, key string) (*ConnectionState, error) {
	if key == "" {
		key = DefaultSettingsKey
	}

	s := &ConnectionState{
		prober: prober,
		repo:   repo,
		key:    key,
		status: StatusUnknown,
	}

	stored, ok, err := repo.GetSetting(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load base URL setting: %w", err)
	}

	if ok {
		baseURL, err := NormalizeBaseURL(stored)
		if err != nil {
			log.Warn().Err(err).Str("component", "connection.New").Str("stored", stored).Msg("ignoring stored base URL")
			return s, nil
		}
		prober.SetBaseURL(baseURL)
	}

	return s, nil
}

// NormalizeBaseURL accepts an absolute http(s) URL and strips trailing slashes.
func NormalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", errs.ErrInvalidBaseURL, raw)
	}

	return strings.TrimRight(raw, "/"), nil
}

// UpdateBaseURL persists baseURL and makes it live. The status goes back to unknown; no
// request is sent.
func (s *ConnectionState) UpdateBaseURL(ctx context.Context, baseURL string) error {
	normalized, err := NormalizeBaseURL(baseURL)
	if err != nil {
		return &errs.ValidationError{FieldErrors: map[string]string{"baseUrl": err.Error()}}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.SaveSetting(ctx, s.key, normalized); err != nil {
		return fmt.Errorf("failed to save base URL setting: %w", err)
	}

	s.prober.SetBaseURL(normalized)
	s.status = StatusUnknown
	s.lastTestedAt = time.Time{}
	s.version++

	log.Info().Str("component", "UpdateBaseURL").Str("base_url", normalized).Msg("base URL updated")

	return nil
}

// TestConnection probes the live base URL and records the outcome. A result is dropped if
// the base URL changed while the probe ran.
func (s *ConnectionState) TestConnection(ctx context.Context) bool {
	s.mu.Lock()
	version := s.version
	s.mu.Unlock()

	ok := s.prober.TestConnection(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if version == s.version {
		s.status = StatusDisconnected
		if ok {
			s.status = StatusConnected
		}
		s.lastTestedAt = time.Now()
	}

	return ok
}

func (s *ConnectionState) BaseURL() string {
	return s.prober.BaseURL()
}

func (s *ConnectionState) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status
}

func (s *ConnectionState) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()

	info := Info{
		BaseURL: s.prober.BaseURL(),
		Status:  s.status,
	}
	if !s.lastTestedAt.IsZero() {
		testedAt := s.lastTestedAt
		info.LastTestedAt = &testedAt
	}

	return info
}
