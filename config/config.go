package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sagarc03/nbupload"
	"github.com/sagarc03/nbupload/cloud"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "CLOUD"

// Flag names registered by RegisterFlags.
const (
	FlagConfig                = "config"
	FlagToken                 = "cloud-token"
	FlagNamespace             = "cloud-namespace"
	FlagStoragePath           = "cloud-storage-path"
	FlagStorageCredentialName = "cloud-storage-credential-name"
	FlagAPIURL                = "cloud-api-url"
	FlagLogLevel              = "log-level"
	FlagLogFormat             = "log-format"
)

// Environment variables read by Load.
const (
	EnvToken                 = EnvPrefix + "_TOKEN"
	EnvNamespace             = EnvPrefix + "_NAMESPACE"
	EnvStoragePath           = EnvPrefix + "_STORAGE_PATH"
	EnvStorageCredentialName = EnvPrefix + "_STORAGE_CREDENTIAL_NAME"
	EnvAPIURL                = EnvPrefix + "_API_URL"
	EnvLogLevel              = EnvPrefix + "_LOG_LEVEL"
	EnvLogFormat             = EnvPrefix + "_LOG_FORMAT"
)

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the resolved configuration for one upload.
type Config struct {
	Token                 string    `mapstructure:"token"`
	Namespace             string    `mapstructure:"namespace"`
	StoragePath           string    `mapstructure:"storage_path"`
	StorageCredentialName string    `mapstructure:"storage_credential_name"`
	APIURL                string    `mapstructure:"api_url" validate:"required,http_url"`
	Log                   LogConfig `mapstructure:"log"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=text json"`
}

// RequireCredentials checks that a token and a namespace are set, in that order.
// The errors name the environment variable and the flag that provide each value.
func (c *Config) RequireCredentials() error {
	if c.Token == "" {
		return fmt.Errorf("%w: set the %s environment variable or pass --%s", nbupload.ErrTokenRequired, EnvToken, FlagToken)
	}
	if c.Namespace == "" {
		return fmt.Errorf("%w: set the %s environment variable or pass --%s", nbupload.ErrNamespaceRequired, EnvNamespace, FlagNamespace)
	}
	return nil
}

// Target returns the upload destination described by the config.
func (c *Config) Target() nbupload.Target {
	return nbupload.Target{
		Namespace:             c.Namespace,
		StoragePath:           c.StoragePath,
		StorageCredentialName: c.StorageCredentialName,
	}
}

// Cloud returns the client configuration.
func (c *Config) Cloud() *cloud.Config {
	return &cloud.Config{
		Endpoint: c.APIURL,
		Token:    c.Token,
	}
}

// RegisterFlags defines the configuration flags on flags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String(FlagConfig, "", "config file (default: ./nbupload.yaml or ~/.config/nbupload/nbupload.yaml)")
	flags.String(FlagToken, "", "API token for the cloud account (env: "+EnvToken+")")
	flags.String(FlagNamespace, "", "namespace to upload the notebook to (env: "+EnvNamespace+")")
	flags.String(FlagStoragePath, "", "storage path for the notebook (env: "+EnvStoragePath+")")
	flags.String(FlagStorageCredentialName, "", "storage credential name to use (env: "+EnvStorageCredentialName+")")
	flags.String(FlagAPIURL, "", "API URL (default: "+cloud.DefaultEndpoint+", env: "+EnvAPIURL+")")
	flags.String(FlagLogLevel, "", "log level: debug, info, warn, error (default: info, env: "+EnvLogLevel+")")
	flags.String(FlagLogFormat, "", "log format: text, json (default: text, env: "+EnvLogFormat+")")
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	FlagToken:                 "token",
	FlagNamespace:             "namespace",
	FlagStoragePath:           "storage_path",
	FlagStorageCredentialName: "storage_credential_name",
	FlagAPIURL:                "api_url",
	FlagLogLevel:              "log.level",
	FlagLogFormat:             "log.format",
}

// bindFlags binds the explicitly set configuration flags to viper keys.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		viperKey, ok := flagToViperKey[f.Name]
		if !ok {
			return
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
// Every key needs a default so that Unmarshal sees environment overrides.
func setDefaults(v *viper.Viper) {
	v.SetDefault("token", "")
	v.SetDefault("namespace", "")
	v.SetDefault("storage_path", "")
	v.SetDefault("storage_credential_name", "")
	v.SetDefault("api_url", cloud.DefaultEndpoint)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones).
//     When empty, nbupload.yaml is looked up in the working directory and
//     $HOME/.config/nbupload; a missing default file is not an error.
//   - flags: cobra flag set for flag binding (can be nil)
//
// Token and namespace are not required here; see RequireCredentials.
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFiles[0], err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("merge config file %s: %w", cf, err)
			}
		}
	} else {
		v.SetConfigName("nbupload")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/nbupload")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		} else {
			slog.Debug("using config file", "file", v.ConfigFileUsed())
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, validationError(err)
	}

	return &cfg, nil
}

// ErrInvalidValue is returned by Load when a configured value has the wrong format.
var ErrInvalidValue = errors.New("invalid")

// fieldSources maps validated struct fields to the key, flag and env var that set them.
var fieldSources = map[string]struct{ key, flag, env string }{
	"Config.APIURL":     {"api_url", FlagAPIURL, EnvAPIURL},
	"Config.Log.Level":  {"log.level", FlagLogLevel, EnvLogLevel},
	"Config.Log.Format": {"log.format", FlagLogFormat, EnvLogFormat},
}

// validationError turns the first validator failure into a one-line message
// naming the flag and environment variable for the field.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate config: %w", err)
	}

	fe := verrs[0]
	src, ok := fieldSources[fe.Namespace()]
	if !ok {
		return fmt.Errorf("%w %s %q: %s", ErrInvalidValue, fe.Namespace(), fmt.Sprint(fe.Value()), reason(fe))
	}
	return fmt.Errorf("%w %s %q (--%s, %s): %s", ErrInvalidValue, src.key, fmt.Sprint(fe.Value()), src.flag, src.env, reason(fe))
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must be set"
	case "oneof":
		return "must be one of " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "http_url":
		return "must be an http:// or https:// URL"
	default:
		return "failed the " + fe.Tag() + " check"
	}
}

// ConfigFileFromFlags returns the --config value as a file list for Load.
func ConfigFileFromFlags(flags *pflag.FlagSet) []string {
	if flags == nil {
		return nil
	}
	path, err := flags.GetString(FlagConfig)
	if err != nil || path == "" {
		return nil
	}
	return []string{path}
}
