package models

import "time"

// MediaDefault configures per-document-type media behavior.
type MediaDefault struct {
	DocType         string `json:"doctype"`
	PhoneField      string `json:"phone_field"`
	PrintFormat     string `json:"print_format,omitempty"`
	CaptionTemplate string `json:"caption_template,omitempty"`
}

// Settings is the runtime gateway configuration. It lives in the database
// and is read through the settings cache; viper only covers process-level
// config (ports, DSNs).
type Settings struct {
	Enabled            bool           `json:"enabled"`
	APIBaseURL         string         `json:"api_base_url"`
	APIKey             string         `json:"api_key"`
	InstanceName       string         `json:"instance_name"`
	DefaultCountryCode string         `json:"default_country_code"`
	LocalNumberLength  int            `json:"local_number_length"`
	LocalPrefixes      []string       `json:"local_number_prefixes"`
	OwnerNumbers       []string       `json:"owner_numbers"`
	TimeoutSeconds     int            `json:"timeout_seconds"`
	MaxRetries         int            `json:"max_retries"`
	RetryDelayMinutes  int            `json:"retry_delay_minutes"`
	LogRetentionDays   int            `json:"log_retention_days"`
	DebugLogging       bool           `json:"debug_logging"`
	RateLimiting       bool           `json:"rate_limiting"`
	MessagesPerMinute  int            `json:"messages_per_minute"`
	QueueEnabled       bool           `json:"queue_enabled"`
	MediaDefaults      []MediaDefault `json:"media_defaults,omitempty"`
	UpdatedAt          time.Time      `json:"updated_at,omitempty"`
}

// DefaultSettings mirrors the defaults applied when no settings row exists.
func DefaultSettings() *Settings {
	return &Settings{
		Enabled:            false,
		DefaultCountryCode: "258",
		LocalNumberLength:  9,
		LocalPrefixes:      []string{"82", "83", "84", "85", "86", "87"},
		TimeoutSeconds:     30,
		MaxRetries:         3,
		RetryDelayMinutes:  5,
		LogRetentionDays:   30,
		MessagesPerMinute:  20,
		QueueEnabled:       true,
	}
}

// Configured reports whether the gateway connection details are present.
func (s *Settings) Configured() bool {
	return s.APIBaseURL != "" && s.APIKey != "" && s.InstanceName != ""
}
