package model

// SettingsVersion is the schema version of the persisted settings record.
const SettingsVersion = 1

// Settings holds small cross-screen UI state, currently only which
// portfolio the user last selected.
type Settings struct {
	Version             int    `json:"version"`
	SelectedPortfolioID string `json:"selectedPortfolioId,omitempty"`
}

// NewSettings returns the empty default settings record.
func NewSettings() *Settings {
	return &Settings{Version: SettingsVersion}
}
