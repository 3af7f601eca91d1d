package config

type HTTPConfig struct {
	Port        int
	ServiceName string
	MaxUploadMB int
}

func NewHTTPConfig() *HTTPConfig {
	return &HTTPConfig{
		Port:        getEnvAsInt("HTTP_PORT", 8082),
		ServiceName: getEnv("SERVICE_NAME", "gradepro"),
		MaxUploadMB: getEnvAsInt("MAX_UPLOAD_MB", 20),
	}
}
