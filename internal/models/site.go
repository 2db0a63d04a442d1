package models

// TrackedSite identifies a focused site that counts toward usage.
type TrackedSite struct {
	Host     string `json:"host"`
	SiteName string `json:"siteName"`
}

// SiteRule maps a hostname to a display name. When PathPrefix is set only URLs
// whose path starts with it are tracked.
type SiteRule struct {
	Host       string `toml:"host"`
	Name       string `toml:"name"`
	PathPrefix string `toml:"path_prefix,omitempty"`
}
