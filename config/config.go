package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"
)

type Config struct {
	OrderAPI OrderAPIConfig `yaml:"order_api"`
	Console  ConsoleConfig  `yaml:"console"`
	Database DatabaseConfig `yaml:"database"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Redis    RedisConfig    `yaml:"redis"`
	Emulator EmulatorConfig `yaml:"emulator"`
}

type OrderAPIConfig struct {
	BaseURL  string `yaml:"base_url"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type ConsoleConfig struct {
	HTTPAddr          string `yaml:"http_addr"`
	TimeZone          string `yaml:"time_zone"` // IANA, пусто = UTC
	SessionTTLSeconds int    `yaml:"session_ttl_seconds"`

	ListDefaultPage    int    `yaml:"list_default_page"`
	ListDefaultSize    int    `yaml:"list_default_size"`
	ListDefaultSortBy  string `yaml:"list_default_sort_by"`
	ListDefaultSortDir string `yaml:"list_default_sort_dir"`
}

// DatabaseConfig включает архив журнала действий, если задан Host.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

type KafkaConfig struct {
	Host             string `yaml:"host"`
	Port             int    `yaml:"port"`
	ActionsTopicName string `yaml:"actions_topic_name"`
}

type RedisConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type EmulatorConfig struct {
	HTTPAddr string `yaml:"http_addr"`
}

const (
	envBaseURL  = "ORDER_API_BASE_URL"
	envUser     = "ORDER_API_USER"
	envPassword = "ORDER_API_PASSWORD"
)

func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	config.applyEnv()
	return &config, nil
}

// FromEnv builds a config without a file: only the order API credentials
// from the environment, everything else at defaults.
func FromEnv() *Config {
	var config Config
	config.applyEnv()
	return &config
}

// Переменные окружения перекрывают файл.
func (c *Config) applyEnv() {
	if v := os.Getenv(envBaseURL); v != "" {
		c.OrderAPI.BaseURL = v
	}
	if v := os.Getenv(envUser); v != "" {
		c.OrderAPI.User = v
	}
	if v := os.Getenv(envPassword); v != "" {
		c.OrderAPI.Password = v
	}
}
