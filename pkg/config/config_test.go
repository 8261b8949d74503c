package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	c := &Config{}
	c.Environment = "test"
	c.Backend.Type = "clickhouse"
	c.Provider.BaseURL = "https://api.example.com/v1"
	c.Provider.Symbols = []string{"AGL"}
	c.Provider.PriceScale = 100
	c.ClickHouse.Host = "localhost"
	return c
}

func TestValidateAccepts(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidateBackendDeps(t *testing.T) {
	c := validConfig()
	c.Backend.Type = "kafka"
	err := c.Validate()
	if err == nil || !strings.Contains(err.Error(), "kafka.brokers") {
		t.Fatalf("expected kafka.brokers error, got %v", err)
	}

	c = validConfig()
	c.ClickHouse.Host = ""
	err = c.Validate()
	if err == nil || !strings.Contains(err.Error(), "clickhouse.host") {
		t.Fatalf("expected clickhouse.host error, got %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty environment", func(c *Config) { c.Environment = "" }},
		{"bad backend", func(c *Config) { c.Backend.Type = "postgres" }},
		{"no base url", func(c *Config) { c.Provider.BaseURL = "" }},
		{"no symbols", func(c *Config) { c.Provider.Symbols = nil }},
		{"zero price scale", func(c *Config) { c.Provider.PriceScale = 0 }},
		{"confidence out of range", func(c *Config) { c.Forecast.Confidence = 1.5 }},
		{"unknown model", func(c *Config) { c.Forecast.Model = "arima" }},
	}
	for _, tc := range cases {
		c := validConfig()
		tc.mutate(c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}
