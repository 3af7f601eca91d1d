package config

import "os"

type AppConfig struct {
	DebugMode        bool
	LogLevel         string
	HTTPConfig       *HTTPConfig
	BackendConfig    *GradingBackendCfg
	DefaultsConfig   *GradingDefaultsCfg
	OrchestratorCfg  *OrchestratorCfg
	ReportConfig     *ReportCfg
	RedisConfig      *RedisConfig
	JwtConfig        *JwtConfig
	CredentialConfig *CredentialConfig
}

func NewSystemConfig() *AppConfig {
	return &AppConfig{
		DebugMode:        os.Getenv("DEBUG_MODE") == "true",
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		HTTPConfig:       NewHTTPConfig(),
		BackendConfig:    NewGradingBackendCfg(),
		DefaultsConfig:   NewGradingDefaultsCfg(),
		OrchestratorCfg:  NewOrchestratorCfg(),
		ReportConfig:     NewReportCfg(),
		RedisConfig:      NewRedisConfig(),
		JwtConfig:        NewJwtConfig(),
		CredentialConfig: NewCredentialConfig(),
	}
}
