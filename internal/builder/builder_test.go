package builder

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git-commit-agent-go/internal/adapters"
	"git-commit-agent-go/internal/config"
)

func TestBuildAI(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		env      map[string]string
		wantErr  error
	}{
		{name: "anthropic with key", provider: config.ProviderAnthropic, env: map[string]string{adapters.AnthropicAPIKeyEnv: "k"}},
		{name: "anthropic without key", provider: config.ProviderAnthropic, wantErr: adapters.ErrMissingCredential},
		{name: "gemini with key", provider: config.ProviderGemini, env: map[string]string{adapters.GeminiAPIKeyEnv: "k"}},
		{name: "gemini without key", provider: config.ProviderGemini, wantErr: adapters.ErrMissingCredential},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{adapters.AnthropicAPIKeyEnv, adapters.GeminiAPIKeyEnv, adapters.GoogleAPIKeyEnv} {
				t.Setenv(key, tt.env[key])
			}
			cfg := config.Default()
			cfg.Provider = tt.provider

			ai, err := BuildAI(context.Background(), cfg)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, ai)
		})
	}
}

func TestBuildAI_UnknownProvider(t *testing.T) {
	cfg := config.Default()
	cfg.Provider = "openai"

	_, err := BuildAI(context.Background(), cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai")
}

func TestBuildCommitRunner(t *testing.T) {
	t.Setenv(adapters.AnthropicAPIKeyEnv, "")
	var out bytes.Buffer

	r, err := BuildCommitRunner(t.TempDir(), config.Default(), IO{Stdin: strings.NewReader(""), Stdout: &out})

	require.NoError(t, err)
	assert.NotNil(t, r)
}
