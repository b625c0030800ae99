package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// global configuration structure
type Config struct {
	Bot      BotConfig      `mapstructure:"bot"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Reminder ReminderConfig `mapstructure:"reminder"`
}

// Discord bot configuration
type BotConfig struct {
	Token             string   `mapstructure:"token"`
	GuildID           string   `mapstructure:"guild_id"`
	CommandChannelID  string   `mapstructure:"command_channel_id"`
	ReminderChannelID string   `mapstructure:"reminder_channel_id"`
	StaffRoleIDs      []string `mapstructure:"staff_role_ids"`
	HealthListenPort  string   `mapstructure:"health_listen_port"`
}

// logging configuration
type LoggerConfig struct {
	Directory string            `mapstructure:"directory"`
	Rotation  LogRotationConfig `mapstructure:"rotation"`
	Level     string            `mapstructure:"level"`
}

// log rotation settings
type LogRotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

// StorageConfig selects and configures the persistence backend.
// Backend is either "mysql" or "file".
type StorageConfig struct {
	Backend string      `mapstructure:"backend"`
	MySQL   MySQLConfig `mapstructure:"mysql"`
	File    FileConfig  `mapstructure:"file"`
}

type MySQLConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Charset  string `mapstructure:"charset"`
}

type FileConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// probation reminder settings
type ReminderConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	IntervalMins  int  `mapstructure:"interval_mins"`
	ProbationDays int  `mapstructure:"probation_days"`
}

var cfg *Config

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("config file path is required")
	}

	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	log.Printf("Using config file: %s", v.ConfigFileUsed())

	// Unmarshal configuration
	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return cfg, nil
}

func Get() *Config {
	if cfg == nil {
		log.Fatal("Configuration not initialized, call Load() first")
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.health_listen_port", "3000")

	v.SetDefault("logger.directory", "logs")
	v.SetDefault("logger.rotation.max_size", 10)
	v.SetDefault("logger.rotation.max_backups", 30)
	v.SetDefault("logger.rotation.max_age", 90)
	v.SetDefault("logger.rotation.compress", true)
	v.SetDefault("logger.level", "INFO")

	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.file.data_dir", "data")
	v.SetDefault("storage.mysql.port", 3306)
	v.SetDefault("storage.mysql.charset", "utf8mb4")

	v.SetDefault("reminder.enabled", true)
	v.SetDefault("reminder.interval_mins", 60)
	v.SetDefault("reminder.probation_days", 30)
}
