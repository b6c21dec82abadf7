package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Omeka    OmekaConfig    `mapstructure:"omeka"`
	Download DownloadConfig `mapstructure:"download"`
	Safety   SafetyConfig   `mapstructure:"safety"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// OmekaConfig holds Omeka S API connection details
type OmekaConfig struct {
	APIURL        string         `mapstructure:"api_url" validate:"required,url"`
	KeyIdentity   string         `mapstructure:"key_identity"`
	KeyCredential string         `mapstructure:"key_credential"`
	ItemSetID     string         `mapstructure:"item_set_id" validate:"required,numeric"`
	PerPage       int            `mapstructure:"per_page" validate:"min=1,max=1000"`
	Timeout       time.Duration  `mapstructure:"timeout" validate:"min=0"`
	RateLimit     float64        `mapstructure:"rate_limit" validate:"min=0"`
	DSPPropertyID int            `mapstructure:"dsp_property_id" validate:"min=1"`
	Properties    string         `mapstructure:"properties"`
}

// PropertyTerms parses Properties ("28=dcterms:hasVersion,500=bibo:uri")
// into a property id to field name table.
func (c OmekaConfig) PropertyTerms() (map[int]string, error) {
	return parsePropertyTerms(c.Properties)
}

// HasCredentials reports whether both halves of the API key pair are set
func (c OmekaConfig) HasCredentials() bool {
	return c.KeyIdentity != "" && c.KeyCredential != ""
}

// DownloadConfig controls where media files are stored
type DownloadConfig struct {
	Dir string `mapstructure:"dir" validate:"required"`
}

// SafetyConfig contains safety-related settings
type SafetyConfig struct {
	DryRun bool `mapstructure:"dry_run"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
	Color  bool   `mapstructure:"color"`
}
