package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

// Config 環境變數設定，CLI 旗標會覆寫這裡的值
type Config struct {
	Environment string `env:"ENV" envDefault:"production"`
	Log         struct {
		Level string `env:"LEVEL" envDefault:"info"`
	} `envPrefix:"LOG_"`
	Extract struct {
		Encoding       string `env:"ENCODING" envDefault:"utf-8"`
		TableMode      string `env:"TABLE_MODE" envDefault:"single"`
		LookaheadLines int    `env:"LOOKAHEAD_LINES" envDefault:"200"`
	}
	Dates struct {
		DefaultYear  int    `env:"DEFAULT_YEAR" envDefault:"2025"` // M.D 格式使用的年份
		OperateStart string `env:"OPERATE_START" envDefault:"2025-04-01"`
		OperateEnd   string `env:"OPERATE_END" envDefault:"2025-08-31"`
		GroupSize    int    `env:"GROUP_SIZE" envDefault:"10"`
	}
	Trim struct {
		DropFirst int `env:"DROP_FIRST" envDefault:"50"`
	}
}

// Prefix 所有環境變數的前綴
const Prefix = "SURGERY_"

// LoadConfig 讀取環境變數
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: Prefix}); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只回傳第一個錯誤
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}
	return cfg, nil
}

// IsDevelopment 是否為開發環境
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
