package awscfg

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_DEFAULT_REGION", "")

	tests := []struct {
		name       string
		opts       Options
		wantRegion string
	}{
		{name: "ExplicitRegion", opts: Options{Region: "ap-southeast-3"}, wantRegion: "ap-southeast-3"},
		{name: "EndpointWithoutRegion", opts: Options{Endpoint: "http://localhost:4566"}, wantRegion: "us-east-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(context.Background(), tt.opts)

			require.NoError(t, err)
			assert.Equal(t, tt.wantRegion, cfg.Region)
		})
	}
}

func TestLoad_StaticCredentials(t *testing.T) {
	cfg, err := Load(context.Background(), Options{Region: "us-east-1", AccessKey: "AK", SecretKey: "SK"})
	require.NoError(t, err)

	creds, err := cfg.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AK", creds.AccessKeyID)
	assert.Equal(t, "SK", creds.SecretAccessKey)
}

func TestOptions_BaseEndpoint(t *testing.T) {
	assert.Nil(t, Options{}.BaseEndpoint())
	assert.Equal(t, "http://localhost:4566", *Options{Endpoint: "http://localhost:4566"}.BaseEndpoint())
}
