package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ResubmitReset, cfg.ResubmitPolicy)
	assert.True(t, cfg.Events.Enabled)
	assert.Equal(t, "reading-progress", cfg.Events.ProgressTopic)
}

func TestLoadConfigResubmitPolicy(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  ResubmitPolicy
	}{
		{"reject", "reject", ResubmitReject},
		{"reset", "reset", ResubmitReset},
		{"unknown falls back to reset", "overwrite", ResubmitReset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOTS_RESUBMIT_POLICY", tt.value)

			cfg, err := LoadConfig()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.ResubmitPolicy)
		})
	}
}

func TestGetKafkaBrokers(t *testing.T) {
	cfg := EventConfig{KafkaBrokers: "broker1:9092,broker2:9092"}
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.GetKafkaBrokers())

	cfg = EventConfig{KafkaBrokers: "localhost:9092"}
	assert.Equal(t, []string{"localhost:9092"}, cfg.GetKafkaBrokers())
}
