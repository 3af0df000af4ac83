package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ModelSettings struct {
		Model       string  `yaml:"model"`
		Temperature float64 `yaml:"temperature"`
		TopP        float64 `yaml:"top_p"`
	} `yaml:"model_settings"`
	Character struct {
		SheetPath string `yaml:"sheet_path"`
		Language  string `yaml:"language"`
		Timezone  string `yaml:"timezone"`
	} `yaml:"character"`
	EmotionSettings struct {
		DecayUnitSeconds     int `yaml:"decay_unit_seconds"`
		DecayIntervalSeconds int `yaml:"decay_interval_seconds"`
	} `yaml:"emotion"`
	MemorySettings struct {
		MaxHistoryLength int `yaml:"max_history_length"`
	} `yaml:"memory"`
	RAGSettings struct {
		EmbeddingModel string `yaml:"embedding_model"`
		ChunkSize      int    `yaml:"chunk_size"`
		ChunkOverlap   int    `yaml:"chunk_overlap"`
		TopK           int    `yaml:"top_k"`
	} `yaml:"rag"`
}

func defaults() *Config {
	config := &Config{}
	config.ModelSettings.Model = "gpt-4o"
	config.ModelSettings.Temperature = 0.7
	config.ModelSettings.TopP = 1
	config.Character.SheetPath = "character_sheet.yaml"
	config.Character.Language = "en"
	config.Character.Timezone = "Asia/Tokyo"
	config.EmotionSettings.DecayUnitSeconds = 60
	config.EmotionSettings.DecayIntervalSeconds = 60
	config.MemorySettings.MaxHistoryLength = 10
	config.RAGSettings.EmbeddingModel = "text-embedding-3-small"
	config.RAGSettings.ChunkSize = 500
	config.RAGSettings.ChunkOverlap = 50
	config.RAGSettings.TopK = 3
	return config
}

// LoadConfig reads config.yml, falling back to defaults when the file
// is absent. Fields missing from the file keep their defaults, and
// environment variables override the file for deploy-time tweaks.
func LoadConfig(path string) (*Config, error) {
	config := defaults()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		applyEnvOverrides(config)
		return config, nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(file, config); err != nil {
		return nil, err
	}

	applyEnvOverrides(config)
	return config, nil
}

func applyEnvOverrides(config *Config) {
	if v := os.Getenv("MODEL_NAME"); v != "" {
		config.ModelSettings.Model = v
	}
	if v := os.Getenv("TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.ModelSettings.Temperature = f
		}
	}
	if v := os.Getenv("CHARACTER_SHEET_PATH"); v != "" {
		config.Character.SheetPath = v
	}
	if v := os.Getenv("TIMEZONE"); v != "" {
		config.Character.Timezone = v
	}
	if v := os.Getenv("OUTPUT_LANGUAGE"); v != "" {
		config.Character.Language = v
	}
}
