package config

type RedisConfig struct {
	DB       int
	Url      string
	Password string
	Channel  string
}

// Enabled reports whether store changes should be published to Redis
func (c *RedisConfig) Enabled() bool {
	return c.Url != ""
}

func NewRedisConfig() *RedisConfig {
	return &RedisConfig{
		DB:       getEnvAsInt("REDIS_DB", 0),
		Url:      getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		Channel:  getEnv("REDIS_CHANNEL", "gradepro:submissions"),
	}
}
