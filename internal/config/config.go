package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel          string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort          string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort        string `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Redis             Redis  `yaml:"redis"`
	SQLiteStoragePath string `yaml:"sqlite-storage-path" env:"SQLITE_STORAGE_PATH" env-default:"results.db"`
	Engine            Engine `yaml:"engine"`
}

type Redis struct {
	Host    string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	GameTTL time.Duration `yaml:"game-ttl" env:"REDIS_GAME_TTL" env-default:"24h"`
}

type Engine struct {
	Cache    bool `yaml:"cache" env:"ENGINE_CACHE" env-default:"true"`
	Parallel bool `yaml:"parallel" env:"ENGINE_PARALLEL" env-default:"false"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
