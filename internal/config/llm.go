package config

// LLMConfig configures the LLM used for free-text certification-name
// extraction. The LLM never drives the pipeline; it only returns a string.
type LLMConfig struct {
	Provider string `yaml:"provider"` // gemini
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`
}
