package config

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the default configuration options and their meanings.
// This is the single source of truth for default values and generator output.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		// Core paths and listeners
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state; cache DB is data_dir/site-cache.db"},
		{Key: "http_addr", Default: ":8080", Comment: "HTTP listen address for the content API"},

		{Key: "site.base_url", Default: "https://sinwaunyu.jp", Comment: "Public site URL used in sitemap.xml and robots.txt (env NEXT_PUBLIC_SITE_URL)"},
		{Key: "site.name", Default: "有限会社 神和運輸", Comment: "Site name shown in CLI output"},

		{Key: "airtable.api_url", Default: "https://api.airtable.com/v0", Comment: "Airtable REST endpoint"},
		{Key: "airtable.api_key", Default: "", Comment: "Airtable personal access token (env AIRTABLE_API_KEY); used when key_provider = config"},
		{Key: "airtable.key_provider", Default: "config", Comment: "Where the API key comes from: config or keyring"},
		{Key: "airtable.base_id", Default: "", Comment: "Airtable base id (env AIRTABLE_BASE_ID)"},
		{Key: "airtable.timeout", Default: "20s", Comment: "Per-request timeout for Airtable calls"},
		{Key: "airtable.tables.company", Default: "company", Comment: "Company profile table (env AIRTABLE_TABLE_COMPANY)"},
		{Key: "airtable.tables.news", Default: "news", Comment: "News table (env AIRTABLE_TABLE_NEWS)"},
		{Key: "airtable.tables.vehicles", Default: "vehicles", Comment: "Vehicles table (env AIRTABLE_TABLE_VEHICLES)"},
		{Key: "airtable.tables.recruit", Default: "recruit", Comment: "Recruit table (env AIRTABLE_TABLE_RECRUIT)"},
		{Key: "airtable.tables.contact", Default: "contact", Comment: "Contact inbox table (env AIRTABLE_TABLE_CONTACT)"},

		{Key: "cache.enabled", Default: true, Comment: "Cache Airtable list responses locally"},
		{Key: "cache.driver", Default: "sqlite", Comment: "Cache backend: sqlite or mem"},
		{Key: "cache.ttl", Default: "5m", Comment: "How long a cached list stays fresh"},

		{Key: "log.level", Default: "info", Comment: "Log level: trace, debug, info, warn, error"},
		{Key: "log.format", Default: "console", Comment: "Log format: json, console or pretty"},

		{Key: "tls.domain", Default: "", Comment: "Serve HTTPS for this domain with automatic certificates (empty = plain HTTP)"},
		{Key: "tls.email", Default: "", Comment: "ACME account email"},
		{Key: "tls.storage_dir", Default: "", Comment: "Certificate storage; defaults to data_dir/certs"},
		{Key: "tls.http3", Default: false, Comment: "Also serve HTTP/3 over QUIC (requires tls.domain)"},

		{Key: "contact.default_category", Default: "other", Comment: "Category stored when a contact message has none"},
	}
}

// envAliases binds the environment names the site has always used.
var envAliases = map[string]string{
	"airtable.api_key":         "AIRTABLE_API_KEY",
	"airtable.base_id":         "AIRTABLE_BASE_ID",
	"airtable.tables.company":  "AIRTABLE_TABLE_COMPANY",
	"airtable.tables.news":     "AIRTABLE_TABLE_NEWS",
	"airtable.tables.vehicles": "AIRTABLE_TABLE_VEHICLES",
	"airtable.tables.recruit":  "AIRTABLE_TABLE_RECRUIT",
	"airtable.tables.contact":  "AIRTABLE_TABLE_CONTACT",
	"site.base_url":            "NEXT_PUBLIC_SITE_URL",
}
