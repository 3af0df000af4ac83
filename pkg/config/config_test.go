package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	// Provide a path that definitely doesn't exist
	config, err := LoadConfig("non_existent_config.yml")
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", config.ModelSettings.Model)
	assert.Equal(t, 0.7, config.ModelSettings.Temperature)
	assert.Equal(t, 1.0, config.ModelSettings.TopP)
	assert.Equal(t, "character_sheet.yaml", config.Character.SheetPath)
	assert.Equal(t, "en", config.Character.Language)
	assert.Equal(t, "Asia/Tokyo", config.Character.Timezone)
	assert.Equal(t, 60, config.EmotionSettings.DecayUnitSeconds)
	assert.Equal(t, 60, config.EmotionSettings.DecayIntervalSeconds)
	assert.Equal(t, 10, config.MemorySettings.MaxHistoryLength)
	assert.Equal(t, "text-embedding-3-small", config.RAGSettings.EmbeddingModel)
	assert.Equal(t, 500, config.RAGSettings.ChunkSize)
	assert.Equal(t, 50, config.RAGSettings.ChunkOverlap)
	assert.Equal(t, 3, config.RAGSettings.TopK)
}

func TestLoadConfig_ValidFile(t *testing.T) {
	content := []byte(`
model_settings:
  model: gpt-4o-mini
  temperature: 0.3
  top_p: 0.9
character:
  sheet_path: ./sheets/kaede.yaml
  language: ja
  timezone: Europe/Berlin
emotion:
  decay_unit_seconds: 30
  decay_interval_seconds: 120
memory:
  max_history_length: 20
rag:
  chunk_size: 800
  chunk_overlap: 100
  top_k: 5
`)
	tmpfile, err := os.CreateTemp("", "config_test_*.yml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name()) // clean up

	if _, err := tmpfile.Write(content); err != nil {
		tmpfile.Close()
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(tmpfile.Name())
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", config.ModelSettings.Model)
	assert.Equal(t, 0.3, config.ModelSettings.Temperature)
	assert.Equal(t, 0.9, config.ModelSettings.TopP)
	assert.Equal(t, "./sheets/kaede.yaml", config.Character.SheetPath)
	assert.Equal(t, "ja", config.Character.Language)
	assert.Equal(t, "Europe/Berlin", config.Character.Timezone)
	assert.Equal(t, 30, config.EmotionSettings.DecayUnitSeconds)
	assert.Equal(t, 120, config.EmotionSettings.DecayIntervalSeconds)
	assert.Equal(t, 20, config.MemorySettings.MaxHistoryLength)
	assert.Equal(t, 800, config.RAGSettings.ChunkSize)
	assert.Equal(t, 100, config.RAGSettings.ChunkOverlap)
	assert.Equal(t, 5, config.RAGSettings.TopK)
	// Fields absent from the file keep their defaults
	assert.Equal(t, "text-embedding-3-small", config.RAGSettings.EmbeddingModel)
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	content := []byte(`
model_settings:
  temperature: 0.1
`)
	tmpfile, err := os.CreateTemp("", "config_partial_*.yml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	_, err = tmpfile.Write(content)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	config, err := LoadConfig(tmpfile.Name())
	require.NoError(t, err)

	assert.Equal(t, 0.1, config.ModelSettings.Temperature)
	assert.Equal(t, "gpt-4o", config.ModelSettings.Model)
	assert.Equal(t, 10, config.MemorySettings.MaxHistoryLength)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("MODEL_NAME", "gpt-5")
	t.Setenv("TEMPERATURE", "0.9")
	t.Setenv("OUTPUT_LANGUAGE", "ja")

	config, err := LoadConfig("non_existent_config.yml")
	require.NoError(t, err)

	assert.Equal(t, "gpt-5", config.ModelSettings.Model)
	assert.Equal(t, 0.9, config.ModelSettings.Temperature)
	assert.Equal(t, "ja", config.Character.Language)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	content := []byte(`
model_settings:
  temperature: "not a number"
  broken_yaml: [ unclosed bracket
`)
	tmpfile, err := os.CreateTemp("", "config_invalid_*.yml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write(content); err != nil {
		tmpfile.Close()
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(tmpfile.Name())
	assert.Error(t, err)
	assert.Nil(t, config)
}
