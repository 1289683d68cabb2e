package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default stock settings applied to new workspaces
	DefaultKerf              float64 `json:"default_kerf"`
	DefaultMinLength         float64 `json:"default_min_length"`
	DefaultMaxLength         float64 `json:"default_max_length"`
	DefaultStepSize          float64 `json:"default_step_size"`
	DefaultMaxWasteThreshold float64 `json:"default_max_waste_threshold"`

	// Purchasing
	PricePerMetre float64 `json:"price_per_metre"` // 0 = no cost estimate
	Currency      string  `json:"currency"`

	// Application preferences
	HistoryLimit   int      `json:"history_limit"`   // Past results kept in the workspace
	TimeoutSeconds int      `json:"timeout_seconds"` // 0 = no limit
	RecentFiles    []string `json:"recent_files"`
}

// DefaultHistoryLimit is the number of past results kept when the config
// does not say otherwise.
const DefaultHistoryLimit = 10

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultStockConfig().
func DefaultAppConfig() AppConfig {
	defaults := DefaultStockConfig()
	return AppConfig{
		DefaultKerf:              defaults.Kerf,
		DefaultMinLength:         defaults.MinLength,
		DefaultMaxLength:         defaults.MaxLength,
		DefaultStepSize:          defaults.StepSize,
		DefaultMaxWasteThreshold: defaults.MaxWasteThreshold,
		PricePerMetre:            0,
		Currency:                 "EUR",
		HistoryLimit:             DefaultHistoryLimit,
		TimeoutSeconds:           30,
		RecentFiles:              []string{},
	}
}

// StockConfig builds the stock settings a new workspace inherits.
func (c AppConfig) StockConfig() StockConfig {
	var s StockConfig
	c.ApplyToConfig(&s)
	return s
}

// ApplyToConfig copies the default values from AppConfig into a StockConfig.
func (c AppConfig) ApplyToConfig(s *StockConfig) {
	s.Kerf = c.DefaultKerf
	s.MinLength = c.DefaultMinLength
	s.MaxLength = c.DefaultMaxLength
	s.StepSize = c.DefaultStepSize
	s.MaxWasteThreshold = c.DefaultMaxWasteThreshold
}

// AddRecentFile moves path to the front of the recent list, keeping at most max entries.
func (c *AppConfig) AddRecentFile(path string, max int) {
	recent := []string{path}
	for _, p := range c.RecentFiles {
		if p != path {
			recent = append(recent, p)
		}
	}
	if max > 0 && len(recent) > max {
		recent = recent[:max]
	}
	c.RecentFiles = recent
}
