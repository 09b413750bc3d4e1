// Package config provides configuration loading and validation for nbupload.
//
// The package handles an optional YAML configuration file, environment
// variables, and CLI flags with automatic merging and validation using
// go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (CLOUD_ prefix)
//  4. CLI flags, only when explicitly set
//
// # Usage
//
//	cfg, err := config.Load(config.ConfigFileFromFlags(cmd.Flags()), cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Checked separately so the notebook file can be validated first
//	if err := cfg.RequireCredentials(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Environment Variables
//
// Config keys map to environment variables with the CLOUD_ prefix:
//   - token → CLOUD_TOKEN (flag --cloud-token)
//   - namespace → CLOUD_NAMESPACE (flag --cloud-namespace)
//   - storage_path → CLOUD_STORAGE_PATH (flag --cloud-storage-path)
//   - storage_credential_name → CLOUD_STORAGE_CREDENTIAL_NAME (flag --cloud-storage-credential-name)
//   - api_url → CLOUD_API_URL (flag --cloud-api-url)
//   - log.level → CLOUD_LOG_LEVEL (flag --log-level)
//   - log.format → CLOUD_LOG_FORMAT (flag --log-format)
//
// # Validation
//
// Configuration is validated using struct tags:
//   - api_url must be an http or https URL
//   - Log level must be debug, info, warn, or error
//   - Log format must be text or json
package config
