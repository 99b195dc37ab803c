package config

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/backoffice/backend/internal/domain/billing"
)

// PlatformSettings exposes the static billing defaults from the loaded
// configuration through the domain's ConfigStore port.
type PlatformSettings struct {
	values map[string]string
}

// NewPlatformSettings builds a PlatformSettings from the billing section
func NewPlatformSettings(cfg BillingConfig) *PlatformSettings {
	return &PlatformSettings{
		values: map[string]string{
			billing.ConfigKeyInitialWalletBalance: cfg.InitialWalletBalance,
			billing.ConfigKeyDefaultCurrency:      cfg.DefaultCurrency,
		},
	}
}

// GetString returns the configured value for key, or defaultValue when unset
func (s *PlatformSettings) GetString(_ context.Context, key, defaultValue string) string {
	if value, ok := s.values[key]; ok && value != "" {
		return value
	}
	return defaultValue
}

// GetDecimal returns the configured value for key parsed as a decimal.
// Unset or unparseable values fall back to defaultValue.
func (s *PlatformSettings) GetDecimal(_ context.Context, key string, defaultValue decimal.Decimal) decimal.Decimal {
	value, ok := s.values[key]
	if !ok || value == "" {
		return defaultValue
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

var _ billing.ConfigStore = (*PlatformSettings)(nil)
