package receipts

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pricejoshua/wehavefoodathome-backend/config"
	"github.com/pricejoshua/wehavefoodathome-backend/logger"
	"github.com/pricejoshua/wehavefoodathome-backend/metrics"
	"go.uber.org/zap"
)

// Parser extracts a Receipt from an image reachable at imageURL.
type Parser interface {
	ParseReceipt(ctx context.Context, imageURL, mimeType string) (*Receipt, error)
	Name() string
}

const (
	ProviderClaude = "claude"
	ProviderGroq   = "groq"
	ProviderVeryfi = "veryfi"
)

// providerOrder is the fallback order when no provider is configured.
var providerOrder = []string{ProviderClaude, ProviderGroq, ProviderVeryfi}

var (
	ErrNoProvider          = errors.New("no receipt parser API keys configured")
	ErrUnsupportedProvider = errors.New("unsupported receipt parser provider")
	ErrMissingCredentials  = errors.New("receipt parser credentials are not configured")
)

// Service picks a provider per request and records the outcome.
type Service struct {
	cfg    config.ReceiptConfig
	client *http.Client
}

func NewService(cfg config.ReceiptConfig) *Service {
	return &Service{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

func normalizeProvider(p string) string {
	return strings.ToLower(strings.TrimSpace(p))
}

func (s *Service) veryfiCreds() VeryfiCredentials {
	return VeryfiCredentials{
		ClientID:     s.cfg.VeryfiClientID,
		ClientSecret: s.cfg.VeryfiClientSecret,
		Username:     s.cfg.VeryfiUsername,
		APIKey:       s.cfg.VeryfiAPIKey,
	}
}

func (s *Service) hasCredentials(provider string) bool {
	switch provider {
	case ProviderClaude:
		return s.cfg.AnthropicAPIKey != ""
	case ProviderGroq:
		return s.cfg.GroqAPIKey != ""
	case ProviderVeryfi:
		return s.veryfiCreds().complete()
	}
	return false
}

// Available lists the providers with credentials, in fallback order.
func (s *Service) Available() []string {
	out := []string{}
	for _, p := range providerOrder {
		if s.hasCredentials(p) {
			out = append(out, p)
		}
	}
	return out
}

// Default resolves the configured provider, or the first one with credentials.
// An unknown configured provider is ignored.
func (s *Service) Default() (string, error) {
	switch p := normalizeProvider(s.cfg.Provider); p {
	case ProviderClaude, ProviderGroq, ProviderVeryfi:
		return p, nil
	case "":
	default:
		logger.GetLogger().Warn("ignoring unknown receipt provider", zap.String("provider", p))
	}
	for _, p := range providerOrder {
		if s.hasCredentials(p) {
			return p, nil
		}
	}
	return "", ErrNoProvider
}

// ParserFor builds the parser for provider, or for the default when provider is empty.
func (s *Service) ParserFor(provider string) (Parser, error) {
	provider = normalizeProvider(provider)
	if provider == "" {
		p, err := s.Default()
		if err != nil {
			return nil, err
		}
		provider = p
	}

	switch provider {
	case ProviderClaude, ProviderGroq, ProviderVeryfi:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
	}
	if !s.hasCredentials(provider) {
		return nil, fmt.Errorf("%w: %s", ErrMissingCredentials, provider)
	}

	switch provider {
	case ProviderClaude:
		return NewClaudeParser(s.cfg.AnthropicAPIKey, s.cfg.ClaudeModel, s.cfg.AnthropicBaseURL, s.client), nil
	case ProviderGroq:
		return NewGroqParser(s.cfg.GroqAPIKey, s.cfg.GroqModel, s.cfg.GroqBaseURL, s.client), nil
	default:
		return NewVeryfiParser(s.veryfiCreds(), s.cfg.VeryfiBaseURL, s.client), nil
	}
}

// Parse runs the chosen provider against imageURL. It returns the provider used.
func (s *Service) Parse(ctx context.Context, provider, imageURL, mimeType string) (*Receipt, string, error) {
	provider = normalizeProvider(provider)
	if provider == "" {
		p, err := s.Default()
		if err != nil {
			return nil, "", err
		}
		provider = p
	}
	parser, err := s.ParserFor(provider)
	if err != nil {
		return nil, "", err
	}

	log := logger.GetLogger().With(zap.String("provider", parser.Name()))
	log.Info("parsing receipt")

	started := time.Now()
	r, err := parser.ParseReceipt(ctx, imageURL, mimeType)
	metrics.ObserveReceiptParse(provider, started, err)
	if err != nil {
		log.Error("receipt parse failed", zap.Error(err))
		return nil, provider, err
	}
	log.Info("receipt parsed", zap.Int("line_items", len(r.LineItems)), zap.Duration("took", time.Since(started)))
	return r, provider, nil
}
