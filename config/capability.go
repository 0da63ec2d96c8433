package config

import "sync"

var (
	capabilityOnce   sync.Once
	capabilityConfig *CapabilityConfig
)

// CapabilityConfig points at the external extraction capability (an
// OpenAI-compatible completion service).
type CapabilityConfig struct {
	BaseURL     string
	APIKey      string
	TextModel   string
	VisionModel string
}

func GetCapabilityConfig() *CapabilityConfig {
	capabilityOnce.Do(func() {
		loadEnv()
		capabilityConfig = &CapabilityConfig{
			BaseURL:     getEnv("CAPABILITY_BASE_URL", "https://api.openai.com/v1"),
			APIKey:      getEnv("CAPABILITY_API_KEY", ""),
			TextModel:   getEnv("CAPABILITY_TEXT_MODEL", "gpt-4o-mini"),
			VisionModel: getEnv("CAPABILITY_VISION_MODEL", "gpt-4o"),
		}
	})
	return capabilityConfig
}
