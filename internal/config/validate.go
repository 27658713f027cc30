package config

import (
	"net/url"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/spf13/viper"
)

const (
	textCodeConfigInvalid = "CONFIG_INVALID"
	textCodeConfigMissing = "CONFIG_MISSING"
)

var (
	logLevels   = []string{"trace", "debug", "info", "warn", "warning", "error", "fatal"}
	logFormats  = []string{"json", "console", "pretty"}
	cacheDrives = []string{"sqlite", "mem"}
	keySources  = []string{"config", "keyring"}
)

// CheckConfigValidity reports every problem in v at once. Missing Airtable
// credentials are not a problem here; see RequireAirtable.
func CheckConfigValidity(v *viper.Viper) error {
	var problems goerrors.ValidationErrors
	add := func(field, msg string) {
		problems = append(problems, goerrors.FieldError{Field: field, Message: msg})
	}

	if strings.TrimSpace(v.GetString("http_addr")) == "" {
		add("http_addr", "is required")
	}
	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		add("data_dir", "is required")
	}
	if !isHTTPURL(v.GetString("site.base_url")) {
		add("site.base_url", "must be an absolute http(s) url")
	}
	if !isHTTPURL(v.GetString("airtable.api_url")) {
		add("airtable.api_url", "must be an absolute http(s) url")
	}
	if !oneOf(v.GetString("airtable.key_provider"), keySources) {
		add("airtable.key_provider", "must be config or keyring")
	}
	if v.GetDuration("airtable.timeout") <= 0 {
		add("airtable.timeout", "must be greater than 0")
	}
	for _, t := range []string{"company", "news", "vehicles", "recruit", "contact"} {
		if strings.TrimSpace(v.GetString("airtable.tables."+t)) == "" {
			add("airtable.tables."+t, "is required")
		}
	}
	if !oneOf(v.GetString("cache.driver"), cacheDrives) {
		add("cache.driver", "must be sqlite or mem")
	}
	if v.GetDuration("cache.ttl") < 0 {
		add("cache.ttl", "must not be negative")
	}
	if !oneOf(v.GetString("log.level"), logLevels) {
		add("log.level", "must be one of "+strings.Join(logLevels, ", "))
	}
	if !oneOf(v.GetString("log.format"), logFormats) {
		add("log.format", "must be one of "+strings.Join(logFormats, ", "))
	}
	if v.GetBool("tls.http3") && strings.TrimSpace(v.GetString("tls.domain")) == "" {
		add("tls.http3", "requires tls.domain")
	}
	if strings.TrimSpace(v.GetString("contact.default_category")) == "" {
		add("contact.default_category", "is required")
	}

	if len(problems) == 0 {
		return nil
	}
	return goerrors.NewValidation("invalid configuration", problems...).
		WithTextCode(textCodeConfigInvalid)
}

// RequireAirtable checks that the settings needed to reach Airtable are
// present. Commands that only render local files never call it.
func RequireAirtable(c Config) error {
	var problems goerrors.ValidationErrors
	if c.Airtable.BaseID == "" {
		problems = append(problems, goerrors.FieldError{Field: "airtable.base_id", Message: "is required (AIRTABLE_BASE_ID)"})
	}
	if c.Airtable.KeyProvider == "config" && c.Airtable.APIKey == "" {
		problems = append(problems, goerrors.FieldError{Field: "airtable.api_key", Message: "is required (AIRTABLE_API_KEY)"})
	}
	if len(problems) == 0 {
		return nil
	}
	return goerrors.NewValidation("airtable settings are missing", problems...).
		WithTextCode(textCodeConfigMissing)
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func oneOf(s string, allowed []string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}
