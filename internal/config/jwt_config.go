package config

import "time"

type JwtConfig struct {
	Secret   string
	TokenTTL time.Duration
}

func NewJwtConfig() *JwtConfig {
	return &JwtConfig{
		Secret:   getEnv("JWT_SECRET", "change-me"),
		TokenTTL: time.Duration(getEnvAsInt("JWT_TTL_MIN", 480)) * time.Minute,
	}
}

// CredentialConfig is the single operator account accepted by the login stub
type CredentialConfig struct {
	Username string
	Password string
}

func NewCredentialConfig() *CredentialConfig {
	return &CredentialConfig{
		Username: getEnv("AUTH_USERNAME", "teacher"),
		Password: getEnv("AUTH_PASSWORD", "admin123"),
	}
}
