package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/rocketscienceinc/tris-server/internal/entity"
)

const FirstPlayerRandom = "random"

type Config struct {
	LogLevel string  `yaml:"log-level" env:"TRIS_LOG_LEVEL" env-default:"info"`
	HTTPPort string  `yaml:"http-port" env:"TRIS_HTTP_PORT" env-default:"9090"`
	Players  Players `yaml:"players"`
	Redis    Redis   `yaml:"redis"`
}

type Players struct {
	Host  string `yaml:"host" env:"TRIS_PLAYERS_HOST" env-default:""`
	PortA string `yaml:"port-a" env:"TRIS_PORT_A" env-default:"10000"`
	PortB string `yaml:"port-b" env:"TRIS_PORT_B" env-default:"10001"`
	First string `yaml:"first" env:"TRIS_FIRST_PLAYER" env-default:"random"`
}

type Redis struct {
	Host     string        `yaml:"host" env:"TRIS_REDIS_HOST" env-default:"localhost"`
	Port     string        `yaml:"port" env:"TRIS_REDIS_PORT" env-default:"6379"`
	MatchTTL time.Duration `yaml:"match-ttl" env:"TRIS_REDIS_MATCH_TTL" env-default:"0s"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// Load - reads the file when it exists, the environment otherwise.
func Load(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to read env: %w", err)
		}
		return config, nil
	}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return net.JoinHostPort(that.Host, that.Port)
}

func (that *Players) AddrA() string {
	return net.JoinHostPort(that.Host, that.PortA)
}

func (that *Players) AddrB() string {
	return net.JoinHostPort(that.Host, that.PortB)
}

// FirstPlayer - resolves "random", "0" or "1" to the seat that moves first.
func (that *Players) FirstPlayer() (entity.Player, error) {
	if that.First == FirstPlayerRandom || that.First == "" {
		return entity.RandomPlayer(), nil
	}

	player, err := entity.ParsePlayer(that.First)
	if err != nil {
		return entity.PlayerA, fmt.Errorf("invalid first player: %w", err)
	}

	return player, nil
}
