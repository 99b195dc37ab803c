package billing

import (
	"context"

	"github.com/shopspring/decimal"
)

// Platform configuration keys consumed by the billing core
const (
	// ConfigKeyInitialWalletBalance is the opening credit granted to every new wallet
	ConfigKeyInitialWalletBalance = "INITIAL_WALLET_BALANCE"
	// ConfigKeyDefaultCurrency is the currency assigned to new wallets
	ConfigKeyDefaultCurrency = "DEFAULT_CURRENCY"
)

// ConfigStore looks up platform-wide billing defaults. It is an external
// collaborator of the billing core; implementations live in infrastructure.
type ConfigStore interface {
	GetString(ctx context.Context, key, defaultValue string) string
	GetDecimal(ctx context.Context, key string, defaultValue decimal.Decimal) decimal.Decimal
}
