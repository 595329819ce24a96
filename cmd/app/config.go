package main

import (
	"fmt"
	"strings"

	"clickwin_backend/internal/ledger"
	"clickwin_backend/internal/repository"

	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
)

type Config struct {
	Database repository.Config `yaml:"database"`
	Server   ServerConfig      `yaml:"server"`
	Ledger   LedgerConfig      `yaml:"ledger"`

	LogLevel string `yaml:"logLevel"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type LedgerConfig struct {
	LinkReward       int    `yaml:"linkReward"`
	ReferralPolicy   string `yaml:"referralPolicy"`
	VisitThreshold   int    `yaml:"visitThreshold"`
	VisitBonus       int    `yaml:"visitBonus"`
	BalanceThreshold int    `yaml:"balanceThreshold"`
	BalanceBonus     int    `yaml:"balanceBonus"`
	MinWithdrawal    int    `yaml:"minWithdrawal"`
}

func (c LedgerConfig) ToEngineConfig() (ledger.Config, error) {
	policy := ledger.PolicyVisitThreshold
	if c.ReferralPolicy != "" {
		parsed, err := ledger.ParseReferralPolicy(c.ReferralPolicy)
		if err != nil {
			return ledger.Config{}, err
		}
		policy = parsed
	}

	return ledger.Config{
		LinkReward:       c.LinkReward,
		Policy:           policy,
		VisitThreshold:   c.VisitThreshold,
		VisitBonus:       c.VisitBonus,
		BalanceThreshold: c.BalanceThreshold,
		BalanceBonus:     c.BalanceBonus,
		MinWithdrawal:    c.MinWithdrawal,
	}, nil
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(configName)
	viper.AddConfigPath(configPath)
	viper.SetConfigType(configFormat)

	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
