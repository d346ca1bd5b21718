// Package config loads the runtime configuration: environment variables,
// the properties file, and the YAML data catalogues. Any missing or
// unparseable required piece fails startup.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/warzonemc/mars-api/internal/models"
)

const tokenEnvVariable = "MARS_API_TOKEN"

type Config struct {
	// Auth
	Token string

	// Server
	HTTPPort int
	WSPort   int
	Debug    bool

	Options Options
	Data    Data
}

// Options come from the properties file.
type Options struct {
	Port            int
	Host            string
	MongoURL        string
	RedisHost       string
	EnableIPHashing bool

	PunishmentsWebhookURL string
	ReportsWebhookURL     string
	NotesWebhookURL       string
	DebugLogWebhookURL    string
}

// Data are the YAML catalogues served read-only by the admin surface.
type Data struct {
	LevelColors     []models.LevelColor
	JoinSounds      []models.JoinSound
	Broadcasts      []models.Broadcast
	PunishmentTypes []models.PunishmentType
}

// Load reads every configuration source. It returns an error if critical
// configuration is missing.
func Load() (*Config, error) {
	token := os.Getenv(tokenEnvVariable)
	if token == "" {
		return nil, fmt.Errorf("missing required environment variable: %s", tokenEnvVariable)
	}

	options, err := loadOptions(getEnv("MARS_CONFIG_PATH", "./config.properties"))
	if err != nil {
		return nil, err
	}

	data, err := loadData()
	if err != nil {
		return nil, err
	}

	return &Config{
		Token:    token,
		HTTPPort: getEnvInt("MARS_HTTP_PORT", 8000),
		WSPort:   getEnvInt("MARS_WS_PORT", 7000),
		Debug:    getEnvBool("MARS_DEBUG", false),
		Options:  *options,
		Data:     *data,
	}, nil
}

func loadOptions(path string) (*Options, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("properties")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	options := &Options{
		Port:            3000,
		Host:            v.GetString("listen-host"),
		MongoURL:        v.GetString("mongo-url"),
		RedisHost:       v.GetString("redis-host"),
		EnableIPHashing: v.GetBool("enable-ip-hashing"),

		PunishmentsWebhookURL: v.GetString("webhooks.punishments"),
		ReportsWebhookURL:     v.GetString("webhooks.reports"),
		NotesWebhookURL:       v.GetString("webhooks.notes"),
		DebugLogWebhookURL:    v.GetString("webhooks.debug"),
	}
	if v.IsSet("listen-port") {
		options.Port = v.GetInt("listen-port")
	}
	if options.RedisHost == "" {
		return nil, fmt.Errorf("missing required field 'redis-host' in %s", path)
	}
	if options.MongoURL == "" {
		return nil, fmt.Errorf("missing required field 'mongo-url' in %s", path)
	}
	return options, nil
}

func loadData() (*Data, error) {
	data := &Data{}
	if err := loadYAML(getEnv("MARS_LEVEL_COLORS_PATH", "./level_colors.yml"), &data.LevelColors); err != nil {
		return nil, err
	}
	if err := loadYAML(getEnv("MARS_JOIN_SOUNDS_PATH", "./join_sounds.yml"), &data.JoinSounds); err != nil {
		return nil, err
	}
	if err := loadYAML(getEnv("MARS_BROADCASTS_PATH", "./broadcasts.yml"), &data.Broadcasts); err != nil {
		return nil, err
	}
	if err := loadYAML(getEnv("MARS_PUNTYPES_PATH", "./punishment_types.yml"), &data.PunishmentTypes); err != nil {
		return nil, err
	}
	return data, nil
}

func loadYAML(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("file %s could not be parsed: %w", path, err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
