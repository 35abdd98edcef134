package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/gocle/pkg/goerror"
)

func TestEnv(t *testing.T) {
	env := MapEnvironment{"REGION": "ap-southeast-3", "EMPTY": ""}

	tests := []struct {
		name    string
		key     string
		opts    []EnvOption
		want    string
		wantErr bool
	}{
		{name: "Found", key: "REGION", want: "ap-southeast-3"},
		{name: "FoundWinsOverDefault", key: "REGION", opts: []EnvOption{WithDefault("us-east-1")}, want: "ap-southeast-3"},
		{name: "EmptyWinsOverDefault", key: "EMPTY", opts: []EnvOption{WithDefault("x")}, want: ""},
		{name: "Default", key: "MISSING", opts: []EnvOption{WithDefault("fallback")}, want: "fallback"},
		{name: "EmptyDefault", key: "MISSING", opts: []EnvOption{WithDefault("")}, want: ""},
		{name: "Missing", key: "MISSING", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Env(tt.key, append([]EnvOption{WithEnvironment(env)}, tt.opts...)...)

			if tt.wantErr {
				require.ErrorIs(t, err, ErrMissingVariable)
				serr, ok := goerror.AsService(err)
				require.True(t, ok)
				assert.Equal(t, "An environment variable with the name: MISSING could not be found.", serr.Msg())
				assert.Equal(t, 500, serr.StatusCode())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnv_OSEnvironment(t *testing.T) {
	t.Setenv("GOCLE_TEST_VAR", "from-os")

	got, err := Env("GOCLE_TEST_VAR")

	require.NoError(t, err)
	assert.Equal(t, "from-os", got)
}

// reverse is a stand-in cipher.
var reverse = DecrypterFunc(func(_ context.Context, ciphertext string) (string, error) {
	r := []rune(ciphertext)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r), nil
})

func TestEncryptedEnv(t *testing.T) {
	env := MapEnvironment{"SECRET": "terces"}

	t.Run("Found", func(t *testing.T) {
		got, err := EncryptedEnv(context.Background(), "SECRET", WithEnvironment(env), WithDecrypter(reverse))

		require.NoError(t, err)
		assert.Equal(t, "secret", got)
	})

	t.Run("DefaultIsDecrypted", func(t *testing.T) {
		got, err := EncryptedEnv(context.Background(), "MISSING",
			WithEnvironment(env), WithDecrypter(reverse), WithDefault("tluafed"))

		require.NoError(t, err)
		assert.Equal(t, "default", got)
	})

	t.Run("Missing", func(t *testing.T) {
		called := false
		d := DecrypterFunc(func(context.Context, string) (string, error) {
			called = true
			return "", nil
		})

		_, err := EncryptedEnv(context.Background(), "MISSING", WithEnvironment(env), WithDecrypter(d))

		require.ErrorIs(t, err, ErrMissingVariable)
		assert.False(t, called)
	})

	t.Run("DecryptError", func(t *testing.T) {
		boom := errors.New("kms down")
		d := DecrypterFunc(func(context.Context, string) (string, error) { return "", boom })

		_, err := EncryptedEnv(context.Background(), "SECRET", WithEnvironment(env), WithDecrypter(d))

		assert.ErrorIs(t, err, boom)
	})
}

func TestConnectionString(t *testing.T) {
	env := MapEnvironment{ConnectionStringVar: "bd//:sergtsop"}

	got, err := ConnectionString(context.Background(), WithEnvironment(env), WithDecrypter(reverse))

	require.NoError(t, err)
	assert.Equal(t, "postgres://db", got)
}

func TestDefaultDecrypter_IsShared(t *testing.T) {
	assert.Same(t, DefaultDecrypter(), DefaultDecrypter())
}

const yamlConfig = `
app:
  name: contact
  http:
    port: 8080
    timeout_seconds: 15
  ratio: 0.5
  debug: true
instrument:
  log_mask_fields: "password, token,,"
  labels:
    team: web
cors:
  origins:
    - http://localhost:3000
    - https://example.com
  headers: "x-a:1,x-b:2"
`

func TestViper_FromBytes(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte(yamlConfig))
	require.NoError(t, err)
	defer cfg.Close()

	assert.Equal(t, "contact", cfg.GetString("app.name"))
	assert.Equal(t, 8080, cfg.GetInt("app.http.port"))
	assert.Equal(t, int64(8080), cfg.GetInt64("app.http.port"))
	assert.Equal(t, 15*time.Second, cfg.GetSecond("app.http.timeout_seconds"))
	assert.InDelta(t, 0.5, cfg.GetFloat64("app.ratio"), 0.0001)
	assert.True(t, cfg.GetBool("app.debug"))
	assert.Equal(t, []string{"password", "token"}, cfg.GetArray("instrument.log_mask_fields"))
	assert.Equal(t, []string{"http://localhost:3000", "https://example.com"}, cfg.GetArray("cors.origins"))
	assert.Equal(t, map[string]string{"team": "web"}, cfg.GetMap("instrument.labels"))
	assert.Equal(t, map[string]string{"x-a": "1", "x-b": "2"}, cfg.GetMap("cors.headers"))
	assert.Empty(t, cfg.GetArray("missing"))

	v, ok := cfg.Lookup("app.name")
	assert.True(t, ok)
	assert.Equal(t, "contact", v)
	_, ok = cfg.Lookup("app.missing")
	assert.False(t, ok)
}

func TestViper_FromBytes_NoType(t *testing.T) {
	_, err := NewViperFromBytes(" ", nil)

	assert.ErrorIs(t, err, ErrConfigTypeRequired)
}

func TestViper_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlConfig), 0o600))

	cfg, err := NewViper(path)
	require.NoError(t, err)

	assert.Equal(t, "contact", cfg.GetString("app.name"))
}

func TestViper_FromEnv(t *testing.T) {
	t.Setenv("GOCLE_APP_HTTP_PORT", "9090")
	t.Setenv("GOCLE_CONNECTION_STRING", "cipher")

	cfg := NewViperFromEnv("GOCLE", map[string]any{"app.name": "contact", "app.http.port": 8080})

	assert.Equal(t, 9090, cfg.GetInt("app.http.port"))
	assert.Equal(t, "contact", cfg.GetString("app.name"))

	got, err := Env(ConnectionStringVar, WithEnvironment(cfg))
	require.NoError(t, err)
	assert.Equal(t, "cipher", got)
}
