// Package cloud provides a client for the cloud notebook service.
//
// A Client is an explicit session: it carries the endpoint and token and is
// passed to whatever needs to talk to the service. Transient failures
// (connection errors, 429 and 5xx responses) are retried with backoff by
// go-retryablehttp; client errors are returned immediately as *APIError.
//
// # Basic Usage
//
// Log in and upload a notebook:
//
//	client, err := cloud.Login(ctx, &cloud.Config{
//		Endpoint: "https://api.cloud.example.com",
//		Token:    os.Getenv("CLOUD_TOKEN"),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	artifact, err := client.UploadNotebook(ctx, nbupload.UploadRequest{
//		Namespace: "my-org",
//		Name:      "analysis",
//		Content:   content,
//		OnExists:  nbupload.OnExistsOverwrite,
//	})
//
// # Errors
//
// Service errors are *APIError values. Use errors.Is with the sentinels
// (ErrNotFound, ErrUnauthorized, ErrForbidden, ErrConflict) or with
// nbupload.ErrArtifactNotFound and nbupload.ErrArtifactExists:
//
//	if errors.Is(err, nbupload.ErrArtifactNotFound) {
//		// overwrite requested for a notebook that was never uploaded
//	}
//
// # Output Formatting
//
// Use formatters for human-readable or JSON output:
//
//	formatter := cloud.NewFormatter(jsonOutput, quiet)
//	formatter.FormatUpload(os.Stdout, outcome)
package cloud
