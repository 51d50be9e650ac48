package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// BingX API 설정
	// API 키가 없어도 프로세스는 기동합니다. 키 부재는 거래 시점에
	// NotConfigured 에러로 처리됩니다.
	BingX struct {
		APIKey    string `envconfig:"BINGX_API_KEY"`
		SecretKey string `envconfig:"BINGX_SECRET_KEY"`
	}

	// 웹훅 서버 설정
	Server struct {
		Port  int  `envconfig:"SERVER_PORT" default:"5000"`
		Debug bool `envconfig:"SERVER_DEBUG" default:"false"`
	}

	// 거래 설정
	Trading struct {
		BalanceDivisor    float64 `envconfig:"TRADE_BALANCE_DIVISOR" default:"7"`
		QuantityPrecision int     `envconfig:"TRADE_QUANTITY_PRECISION" default:"6"`
		FundingAsset      string  `envconfig:"TRADE_FUNDING_ASSET" default:"USDT"`
	}

	// 디스코드 웹훅 설정 (선택)
	Discord struct {
		TradeWebhook string `envconfig:"DISCORD_TRADE_WEBHOOK"`
		ErrorWebhook string `envconfig:"DISCORD_ERROR_WEBHOOK"`
	}
}

// HasCredentials는 API 키와 시크릿 키가 모두 설정되었는지 확인합니다
func (c *Config) HasCredentials() bool {
	return c.BingX.APIKey != "" && c.BingX.SecretKey != ""
}

// ValidateConfig는 설정이 유효한지 확인합니다.
func ValidateConfig(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT는 1 이상 65535 이하이어야 합니다")
	}

	if cfg.Trading.BalanceDivisor <= 0 {
		return fmt.Errorf("TRADE_BALANCE_DIVISOR는 0보다 커야 합니다")
	}

	if cfg.Trading.QuantityPrecision < 0 || cfg.Trading.QuantityPrecision > 8 {
		return fmt.Errorf("TRADE_QUANTITY_PRECISION은 0 이상 8 이하이어야 합니다")
	}

	if cfg.Trading.FundingAsset == "" {
		return fmt.Errorf("TRADE_FUNDING_ASSET은 비어있을 수 없습니다")
	}

	return nil
}

// LoadConfig는 환경변수에서 설정을 로드합니다.
func LoadConfig() (*Config, error) {
	// .env 파일 로드 (없으면 환경변수만 사용)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf(".env 파일 로드 실패: %w", err)
	}

	var cfg Config
	// 환경변수를 구조체로 파싱
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("환경변수 처리 실패: %w", err)
	}

	// 설정값 검증
	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("설정값 검증 실패: %w", err)
	}

	return &cfg, nil
}
