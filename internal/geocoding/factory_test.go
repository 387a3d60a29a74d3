package geocoding_test

import (
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/minaret/internal/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	logger := slog.Default()

	tests := []struct {
		name    string
		config  geocoding.ProviderConfig
		wantErr string
		check   func(t *testing.T, p geocoding.Provider)
	}{
		{
			name:   "google with API key",
			config: geocoding.ProviderConfig{Type: geocoding.ProviderTypeGoogle, APIKey: "test-api-key", RateLimit: 10},
			check: func(t *testing.T, p geocoding.Provider) {
				_, ok := p.(*geocoding.GoogleProvider)
				assert.True(t, ok, "expected provider to be *GoogleProvider")
			},
		},
		{
			name:   "google without rate limit",
			config: geocoding.ProviderConfig{Type: geocoding.ProviderTypeGoogle, APIKey: "test-api-key"},
		},
		{
			name:    "google without API key",
			config:  geocoding.ProviderConfig{Type: geocoding.ProviderTypeGoogle},
			wantErr: "API key is required for Google provider",
		},
		{
			name:   "nominatim without API key",
			config: geocoding.ProviderConfig{Type: geocoding.ProviderTypeNominatim},
			check: func(t *testing.T, p geocoding.Provider) {
				_, ok := p.(*geocoding.NominatimProvider)
				assert.True(t, ok, "expected provider to be *NominatimProvider")
			},
		},
		{
			name:    "unsupported type",
			config:  geocoding.ProviderConfig{Type: geocoding.ProviderType("visicom")},
			wantErr: "unsupported provider type: visicom",
		},
		{
			name:    "empty type",
			config:  geocoding.ProviderConfig{},
			wantErr: "unsupported provider type",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.config.Logger = logger

			provider, err := geocoding.NewProvider(tc.config)

			if tc.wantErr != "" {
				require.Error(t, err)
				require.Nil(t, provider)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, provider)
			if tc.check != nil {
				tc.check(t, provider)
			}
		})
	}
}
