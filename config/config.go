package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultEnvFile is read when no env file is given explicitly
const DefaultEnvFile = ".env"

// envBindings maps configuration keys to the environment variables they
// are read from.
var envBindings = map[string]string{
	"omeka.api_url":         "OMEKA_API_URL",
	"omeka.key_identity":    "KEY_IDENTITY",
	"omeka.key_credential":  "KEY_CREDENTIAL",
	"omeka.item_set_id":     "ITEM_SET_ID",
	"omeka.per_page":        "OMEKA_PER_PAGE",
	"omeka.timeout":         "OMEKA_TIMEOUT",
	"omeka.rate_limit":      "OMEKA_RATE_LIMIT",
	"omeka.dsp_property_id": "DSP_PROPERTY_ID",
	"omeka.properties":      "OMEKA_PROPERTIES",
	"download.dir":          "DOWNLOAD_DIR",
	"safety.dry_run":        "DRY_RUN",
	"logging.level":         "LOG_LEVEL",
	"logging.format":        "LOG_FORMAT",
	"logging.color":         "LOG_COLOR",
}

// Load loads the configuration from the environment.
//
// envFile names a dotenv file whose variables are added to the process
// environment first; variables already set win. An empty envFile means
// DefaultEnvFile, which may be absent.
func Load(envFile string) (*Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	v := viper.New()

	// Set default values
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile adds the variables of a dotenv file to the environment
func loadEnvFile(envFile string) error {
	explicit := envFile != ""
	if !explicit {
		envFile = DefaultEnvFile
	}

	if err := godotenv.Load(envFile); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error reading env file %s: %w", envFile, err)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Omeka defaults
	v.SetDefault("omeka.api_url", "https://omeka.unibe.ch/api/")
	v.SetDefault("omeka.key_identity", "")
	v.SetDefault("omeka.key_credential", "")
	v.SetDefault("omeka.item_set_id", "10780")
	v.SetDefault("omeka.per_page", 100)
	v.SetDefault("omeka.timeout", "0s")
	v.SetDefault("omeka.rate_limit", 0)
	v.SetDefault("omeka.dsp_property_id", 28) // dcterms:hasVersion
	v.SetDefault("omeka.properties", "")

	// Download defaults
	v.SetDefault("download.dir", "data/raw/media")

	// Safety defaults
	v.SetDefault("safety.dry_run", false)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	cfg.Omeka.APIURL = strings.TrimSpace(cfg.Omeka.APIURL)
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)
	cfg.Logging.Format = strings.ToLower(cfg.Logging.Format)

	if err := validator.New().Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return describeFieldError(fieldErrs[0])
		}
		return err
	}

	if (cfg.Omeka.KeyIdentity == "") != (cfg.Omeka.KeyCredential == "") {
		return fmt.Errorf("KEY_IDENTITY and KEY_CREDENTIAL must be set together")
	}

	if _, err := cfg.Omeka.PropertyTerms(); err != nil {
		return err
	}

	return nil
}

// describeFieldError renders a validation failure in terms of the
// environment variable a user has to fix.
func describeFieldError(fe validator.FieldError) error {
	key := fieldKey(fe.StructNamespace())
	name := key
	if env, ok := envBindings[key]; ok {
		name = env
	}

	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", name)
	case "url":
		return fmt.Errorf("%s must be an absolute URL: %v", name, fe.Value())
	case "numeric":
		return fmt.Errorf("%s must be numeric: %v", name, fe.Value())
	case "oneof":
		return fmt.Errorf("invalid %s: %v (must be one of: %s)", name, fe.Value(), fe.Param())
	case "min", "max":
		return fmt.Errorf("%s out of range: %v (%s %s)", name, fe.Value(), fe.Tag(), fe.Param())
	}
	return fmt.Errorf("invalid %s: %v", name, fe.Value())
}

// fieldKey maps "Config.Omeka.APIURL" to "omeka.api_url"
func fieldKey(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) < 3 {
		return namespace
	}
	section := strings.ToLower(parts[1])
	field := parts[2]
	for key := range envBindings {
		sec, name, _ := strings.Cut(key, ".")
		if sec == section && strings.EqualFold(strings.ReplaceAll(name, "_", ""), field) {
			return key
		}
	}
	return section + "." + strings.ToLower(field)
}

// parsePropertyTerms parses "id=term" pairs separated by commas
func parsePropertyTerms(s string) (map[int]string, error) {
	terms := make(map[int]string)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		idStr, term, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid OMEKA_PROPERTIES entry %q (want id=term)", pair)
		}
		id, err := strconv.Atoi(strings.TrimSpace(idStr))
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid property id in OMEKA_PROPERTIES entry %q", pair)
		}
		term = strings.TrimSpace(term)
		if !strings.Contains(term, ":") {
			return nil, fmt.Errorf("invalid term in OMEKA_PROPERTIES entry %q (want prefix:name)", pair)
		}
		terms[id] = term
	}
	return terms, nil
}
