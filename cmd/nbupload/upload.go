package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sagarc03/nbupload"
	"github.com/sagarc03/nbupload/cloud"
	"github.com/sagarc03/nbupload/config"
)

// runUpload checks credentials, logs in and uploads the notebook opened by
// the pre-run hook.
func (a *app) runUpload(ctx context.Context) error {
	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}
	nb := a.notebook

	if err := cfg.RequireCredentials(); err != nil {
		return err
	}

	logger := slog.Default()
	logger.Info("notebook to upload", "path", nb.Path, "name", nb.Name, "size", nb.Size())
	logger.Info("target namespace", "namespace", cfg.Namespace)
	if cfg.StoragePath != "" {
		logger.Info("storage path", "storage_path", cfg.StoragePath)
	}
	if cfg.StorageCredentialName != "" {
		logger.Info("storage credential", "storage_credential_name", cfg.StorageCredentialName)
	}

	opts := []cloud.Option{cloud.WithLogger(logger)}
	if a.showProgress() {
		opts = append(opts, cloud.WithProgress(newProgressBar(a.stderr)))
	}

	client, err := cloud.Login(ctx, cfg.Cloud(), opts...)
	if err != nil {
		return err
	}
	logger.Info("logged in", "username", client.User().Username, "endpoint", client.Endpoint())

	uploader, err := nbupload.NewUploader(client, nbupload.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("create uploader: %w", err)
	}

	outcome, err := uploader.Upload(ctx, nb, cfg.Target())
	if err != nil {
		return err
	}

	if a.jsonOutput {
		return a.formatter().FormatUpload(a.stdout, outcome)
	}
	return a.formatter().FormatUpload(a.stderr, outcome)
}

func (a *app) showProgress() bool {
	return !a.quiet && !a.jsonOutput && isTerminal(a.stderr)
}
