package config

// NewAppConfig builds an AppConfig pointing at the given file path
func NewAppConfig(path string) *AppConfig {
	return &AppConfig{path: path}
}
