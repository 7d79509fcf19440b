package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	Assumptions Assumptions      `toml:"assumptions"`
	Estimate    EstimateSettings `toml:"estimate"`

	// Name of the labor template used when none is given
	LaborTemplate string `toml:"labor_template"`

	// Store locations; empty means the default under the config dir
	CatalogPath   string `toml:"catalog_path"`
	TemplatesPath string `toml:"templates_path"`
	HistoryDir    string `toml:"history_dir"`

	// Base URL printed as a QR code on proposals, e.g. https://example.com/review
	ReviewBaseURL string `toml:"review_base_url"`

	// HTTP listen address for the serve command
	ListenAddr string `toml:"listen_addr"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Assumptions:   DefaultAssumptions(),
		Estimate:      DefaultEstimateSettings(),
		LaborTemplate: "",
		ListenAddr:    ":8080",
	}
}
