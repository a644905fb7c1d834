package model

// AppConfig holds the operator's default financial inputs.
type AppConfig struct {
	DefaultCurrency           Currency  `json:"default_currency" yaml:"default_currency" env:"CURRENCY"`
	DefaultExchangeRate       float64   `json:"default_exchange_rate" yaml:"default_exchange_rate" env:"EXCHANGE_RATE"` // DOP per USD
	DefaultProfitMargins      []float64 `json:"default_profit_margins" yaml:"default_profit_margins" env:"PROFIT_MARGINS" envSeparator:","`
	DefaultMonthlyMaintenance float64   `json:"default_monthly_maintenance" yaml:"default_monthly_maintenance" env:"MONTHLY_MAINTENANCE"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultCurrency:           CurrencyUSD,
		DefaultExchangeRate:       58.5,
		DefaultProfitMargins:      []float64{15, 20, 25, 30},
		DefaultMonthlyMaintenance: 0,
	}
}

// Margins returns a copy of the default profit margins.
func (c AppConfig) Margins() []float64 {
	out := make([]float64, len(c.DefaultProfitMargins))
	copy(out, c.DefaultProfitMargins)
	return out
}
