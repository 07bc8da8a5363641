package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Fi44er/usdt_topup/utils"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	TelegramBotToken string `mapstructure:"TELEGRAM_BOT_TOKEN"`
	DB_URL           string `mapstructure:"DB_URL"`
	HTTPAddr         string `mapstructure:"HTTP_ADDR"`
	DepositAddress   string `mapstructure:"DEPOSIT_ADDRESS"`
	AdminLogin       string `mapstructure:"ADMIN_LOGIN"`
	AdminPassword    string `mapstructure:"ADMIN_PASSWORD"`
	RateURL          string `mapstructure:"RATE_URL"`
	FallbackRate     string `mapstructure:"FALLBACK_RATE"`
	UrgentFeePercent string `mapstructure:"URGENT_FEE_PERCENT"`
	LogLevel         string `mapstructure:"LOG_LEVEL"`
	AutoMigrate      bool   `mapstructure:"AUTO_MIGRATE"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("RATE_URL", utils.DefaultRateURL)
	v.SetDefault("FALLBACK_RATE", "95.00")
	v.SetDefault("URGENT_FEE_PERCENT", "2")
	v.SetDefault("LOG_LEVEL", "debug")
	v.SetDefault("AUTO_MIGRATE", true)
	// keys must be known for AutomaticEnv to reach Unmarshal
	for _, key := range []string{"TELEGRAM_BOT_TOKEN", "DB_URL", "DEPOSIT_ADDRESS", "ADMIN_LOGIN", "ADMIN_PASSWORD"} {
		v.SetDefault(key, "")
	}
}

// LoadConfig reads the env file at path, if it exists, and overlays the
// process environment.
func LoadConfig(path string) (config Config, err error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return config, fmt.Errorf("failed to resolve config path: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AddConfigPath(filepath.Dir(absPath))
	v.SetConfigName(filepath.Base(absPath))
	v.SetConfigType("env")
	v.AutomaticEnv()

	if _, statErr := os.Stat(absPath); statErr == nil {
		if err := v.ReadInConfig(); err != nil {
			return config, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("failed to decode config: %w", err)
	}

	return config, config.Validate()
}

func (c Config) Validate() error {
	if c.DB_URL == "" {
		return errors.New("DB_URL is required")
	}
	if c.DepositAddress != "" {
		if err := utils.ValidateTronAddress(c.DepositAddress); err != nil {
			return fmt.Errorf("DEPOSIT_ADDRESS: %w", err)
		}
	}
	if _, err := c.Fallback(); err != nil {
		return err
	}
	if _, err := c.UrgentFee(); err != nil {
		return err
	}
	return nil
}

// Fallback is the RUB per USDT rate used when the rate source is down.
func (c Config) Fallback() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.FallbackRate)
	if err != nil || !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("FALLBACK_RATE must be a positive number, got %q", c.FallbackRate)
	}
	return rate, nil
}

// UrgentFee is the surcharge for urgent requests as a fraction (2% -> 0.02).
func (c Config) UrgentFee() (decimal.Decimal, error) {
	pct, err := decimal.NewFromString(c.UrgentFeePercent)
	if err != nil || pct.IsNegative() {
		return decimal.Zero, fmt.Errorf("URGENT_FEE_PERCENT must be a non-negative number, got %q", c.UrgentFeePercent)
	}
	return pct.Div(decimal.NewFromInt(100)), nil
}
