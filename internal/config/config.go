package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config — конфигурация taas-node. Все значения по умолчанию соответствуют
// референсному развёртыванию (BCM2837, порт 1588, ядро 3).
type Config struct {
	// Device — путь к устройству аппаратного таймера (mmap, read-only).
	Device string `yaml:"device"`
	// Port — UDP порт сервера.
	Port int `yaml:"port"`
	// SigningKey — путь к файлу ключа ed25519; пусто или файл отсутствует —
	// узел работает в unsigned режиме до перезапуска.
	SigningKey string `yaml:"signing_key"`
	// CPUCore — ядро для sched_setaffinity (isolcpus). Отрицательное — не привязывать.
	CPUCore int `yaml:"cpu_core"`
	// RTPriority — приоритет SCHED_FIFO (1..99).
	RTPriority int `yaml:"rt_priority"`
	// TickNs — длительность одного тика счётчика в наносекундах (1 MHz = 1000 нс).
	TickNs uint64 `yaml:"tick_ns"`
	// DriftInterval — интервал рекалибровки якоря, например "60s".
	DriftInterval string `yaml:"drift_interval"`
	// RecvTimeout — таймаут recv цикла (гранулярность проверки дрейфа), например "1s".
	RecvTimeout string `yaml:"recv_timeout"`

	// ReferenceClock — доверенный источник wall-clock для рекалибровки.
	ReferenceClock RefClockConfig `yaml:"reference_clock"`
}

// RefClockConfig — источник опорного времени (protocol: system, ntp, nmea).
type RefClockConfig struct {
	Protocol string `yaml:"protocol"`
	// NTP
	IP           string `yaml:"ip"`
	PollInterval string `yaml:"pollinterval"`
	// NMEA (RMC) по последовательному порту
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
	// Статическое смещение источника в наносекундах
	Offset int64 `yaml:"offset"`
}

// Default возвращает конфиг по умолчанию.
func Default() *Config {
	return &Config{
		Device:        "/dev/taas_timer",
		Port:          1588,
		CPUCore:       3,
		RTPriority:    99,
		TickNs:        1000,
		DriftInterval: "60s",
		RecvTimeout:   "1s",
		ReferenceClock: RefClockConfig{
			Protocol: "system",
		},
	}
}

// Load читает конфиг из YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&c)
	return &c, nil
}

// DriftIntervalDuration парсит drift_interval; пусто или ошибка — 60s.
func (c *Config) DriftIntervalDuration() time.Duration {
	return parseDuration(c.DriftInterval, 60*time.Second)
}

// RecvTimeoutDuration парсит recv_timeout; пусто или ошибка — 1s.
func (c *Config) RecvTimeoutDuration() time.Duration {
	return parseDuration(c.RecvTimeout, time.Second)
}

func applyDefaults(c *Config) {
	d := Default()
	if c.Device == "" {
		c.Device = d.Device
	}
	if c.Port == 0 {
		c.Port = d.Port
	}
	if c.RTPriority == 0 {
		c.RTPriority = d.RTPriority
	}
	if c.TickNs == 0 {
		c.TickNs = d.TickNs
	}
	if c.DriftInterval == "" {
		c.DriftInterval = d.DriftInterval
	}
	if c.RecvTimeout == "" {
		c.RecvTimeout = d.RecvTimeout
	}
	if c.ReferenceClock.Protocol == "" {
		c.ReferenceClock.Protocol = d.ReferenceClock.Protocol
	}
}

func parseDuration(s string, defaultVal time.Duration) time.Duration {
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultVal
	}
	return d
}
