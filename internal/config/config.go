// Package config загрузка конфигурации сервиса из TOML-файла
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Logs    LogsConfig    `toml:"logs"`
	Metrics MetricsConfig `toml:"metrics"`
	Store   StoreConfig   `toml:"store"`
	Sync    SyncConfig    `toml:"sync"`
}

// ServerConfig параметры HTTP-сервера; тайм-ауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// LogsConfig параметры логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig параметры Prometheus-метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// StoreConfig подключение к хранилищу расписаний; timeout в секундах
type StoreConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// SyncConfig параметры движка синхронизации и сетки времени
type SyncConfig struct {
	DebounceMs          int    `toml:"debounce_ms"`
	SlotDurationMinutes int    `toml:"slot_duration_minutes"`
	GridStepMinutes     int    `toml:"grid_step_minutes"`
	DayStart            string `toml:"day_start"`
	DayEnd              string `toml:"day_end"`
}

// Debounce окно отложенного сохранения
func (c SyncConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// Load читает конфигурацию из файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	return &cfg, nil
}
