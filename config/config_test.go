package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/nbupload"
	"github.com/sagarc03/nbupload/cloud"
	"github.com/sagarc03/nbupload/config"
)

// isolate keeps the developer's own config and environment out of the test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, env := range []string{
		config.EnvToken,
		config.EnvNamespace,
		config.EnvStoragePath,
		config.EnvStorageCredentialName,
		config.EnvAPIURL,
		config.EnvLogLevel,
		config.EnvLogFormat,
	} {
		t.Setenv(env, "")
		require.NoError(t, os.Unsetenv(env))
	}
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(flags)
	require.NoError(t, flags.Parse(args))
	return flags
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)

	assert.Empty(t, cfg.Token)
	assert.Empty(t, cfg.Namespace)
	assert.Empty(t, cfg.StoragePath)
	assert.Empty(t, cfg.StorageCredentialName)
	assert.Equal(t, cloud.DefaultEndpoint, cfg.APIURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_Env(t *testing.T) {
	isolate(t)
	t.Setenv("CLOUD_TOKEN", "env-tok")
	t.Setenv("CLOUD_NAMESPACE", "env-ns")
	t.Setenv("CLOUD_STORAGE_PATH", "s3://env/path")
	t.Setenv("CLOUD_STORAGE_CREDENTIAL_NAME", "env-creds")
	t.Setenv("CLOUD_API_URL", "http://localhost:9000")
	t.Setenv("CLOUD_LOG_LEVEL", "debug")

	cfg, err := config.Load(nil, newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, "env-tok", cfg.Token)
	assert.Equal(t, "env-ns", cfg.Namespace)
	assert.Equal(t, "s3://env/path", cfg.StoragePath)
	assert.Equal(t, "env-creds", cfg.StorageCredentialName)
	assert.Equal(t, "http://localhost:9000", cfg.APIURL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	isolate(t)
	t.Setenv("CLOUD_TOKEN", "env-tok")
	t.Setenv("CLOUD_NAMESPACE", "env-ns")

	flags := newFlags(t, "--cloud-token", "flag-tok")
	cfg, err := config.Load(nil, flags)
	require.NoError(t, err)

	assert.Equal(t, "flag-tok", cfg.Token)
	// unset flags never override env
	assert.Equal(t, "env-ns", cfg.Namespace)
}

func TestLoad_ConfigFile(t *testing.T) {
	isolate(t)
	path := writeFile(t, "nbupload.yaml", `
token: file-tok
namespace: file-ns
storage_path: s3://file/path
api_url: https://file.example.com
log:
  level: warn
  format: json
`)

	cfg, err := config.Load([]string{path}, nil)
	require.NoError(t, err)

	assert.Equal(t, "file-tok", cfg.Token)
	assert.Equal(t, "file-ns", cfg.Namespace)
	assert.Equal(t, "s3://file/path", cfg.StoragePath)
	assert.Equal(t, "https://file.example.com", cfg.APIURL)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_Precedence(t *testing.T) {
	isolate(t)
	path := writeFile(t, "nbupload.yaml", `
token: file-tok
namespace: file-ns
storage_path: file-path
`)
	t.Setenv("CLOUD_TOKEN", "env-tok")
	t.Setenv("CLOUD_NAMESPACE", "env-ns")

	cfg, err := config.Load([]string{path}, newFlags(t, "--cloud-token=flag-tok"))
	require.NoError(t, err)

	assert.Equal(t, "flag-tok", cfg.Token)
	assert.Equal(t, "env-ns", cfg.Namespace)
	assert.Equal(t, "file-path", cfg.StoragePath)
}

func TestLoad_ConfigFileMerge(t *testing.T) {
	isolate(t)
	base := writeFile(t, "base.yaml", `
namespace: base-ns
log:
  level: info
`)
	override := writeFile(t, "override.yaml", `
log:
  level: error
`)

	cfg, err := config.Load([]string{base, override}, nil)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "base-ns", cfg.Namespace)
}

func TestLoad_MissingExplicitConfigFile(t *testing.T) {
	isolate(t)

	_, err := config.Load([]string{filepath.Join(t.TempDir(), "missing.yaml")}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestLoad_DefaultConfigFileInHome(t *testing.T) {
	isolate(t)
	home := os.Getenv("HOME")
	dir := filepath.Join(home, ".config", "nbupload")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nbupload.yaml"), []byte("namespace: home-ns\n"), 0o644))

	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "home-ns", cfg.Namespace)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"invalid api url", map[string]string{"CLOUD_API_URL": "not a url"},
			`invalid api_url "not a url" (--cloud-api-url, CLOUD_API_URL): must be an http:// or https:// URL`},
		{"non http api url", map[string]string{"CLOUD_API_URL": "ftp://example.com"},
			`invalid api_url "ftp://example.com" (--cloud-api-url, CLOUD_API_URL)`},
		{"invalid log level", map[string]string{"CLOUD_LOG_LEVEL": "verbose"},
			`invalid log.level "verbose" (--log-level, CLOUD_LOG_LEVEL): must be one of debug, info, warn, error`},
		{"invalid log format", map[string]string{"CLOUD_LOG_FORMAT": "xml"},
			`invalid log.format "xml" (--log-format, CLOUD_LOG_FORMAT): must be one of text, json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.Load(nil, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, config.ErrInvalidValue)
			assert.Contains(t, err.Error(), tt.want)
			assert.NotContains(t, err.Error(), "Field validation")
		})
	}
}

func TestConfig_RequireCredentials(t *testing.T) {
	t.Run("complete", func(t *testing.T) {
		cfg := &config.Config{Token: "tok", Namespace: "ns"}
		assert.NoError(t, cfg.RequireCredentials())
	})

	t.Run("missing token names env and flag", func(t *testing.T) {
		cfg := &config.Config{Namespace: "ns"}
		err := cfg.RequireCredentials()
		require.ErrorIs(t, err, nbupload.ErrTokenRequired)
		assert.Contains(t, err.Error(), "CLOUD_TOKEN")
		assert.Contains(t, err.Error(), "--cloud-token")
	})

	t.Run("missing namespace names env and flag", func(t *testing.T) {
		cfg := &config.Config{Token: "tok"}
		err := cfg.RequireCredentials()
		require.ErrorIs(t, err, nbupload.ErrNamespaceRequired)
		assert.Contains(t, err.Error(), "CLOUD_NAMESPACE")
		assert.Contains(t, err.Error(), "--cloud-namespace")
	})

	t.Run("token is checked first", func(t *testing.T) {
		cfg := &config.Config{}
		assert.ErrorIs(t, cfg.RequireCredentials(), nbupload.ErrTokenRequired)
	})
}

func TestConfig_Target(t *testing.T) {
	cfg := &config.Config{
		Token:                 "tok",
		Namespace:             "ns",
		StoragePath:           "s3://bucket",
		StorageCredentialName: "creds",
		APIURL:                "http://localhost:9000",
	}

	assert.Equal(t, nbupload.Target{
		Namespace:             "ns",
		StoragePath:           "s3://bucket",
		StorageCredentialName: "creds",
	}, cfg.Target())
	assert.Equal(t, &cloud.Config{Endpoint: "http://localhost:9000", Token: "tok"}, cfg.Cloud())
}

func TestConfigFileFromFlags(t *testing.T) {
	assert.Nil(t, config.ConfigFileFromFlags(nil))
	assert.Nil(t, config.ConfigFileFromFlags(newFlags(t)))
	assert.Equal(t, []string{"my.yaml"}, config.ConfigFileFromFlags(newFlags(t, "--config", "my.yaml")))
}

func TestContext(t *testing.T) {
	_, err := config.FromContext(context.Background())
	assert.Error(t, err)

	cfg := &config.Config{Namespace: "ns"}
	got, err := config.FromContext(config.WithContext(context.Background(), cfg))
	require.NoError(t, err)
	assert.Same(t, cfg, got)
}
