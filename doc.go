// Package nbupload uploads Jupyter notebooks to a cloud notebook service.
//
// The package holds the domain model and the upload sequence. The HTTP
// client for the service lives in the cloud package; configuration loading
// lives in config.
//
// # Key Components
//
//   - OpenNotebook: validates a local .ipynb file and reads it through an afero.Fs
//   - NotebookName: derives the remote display name from a file path
//   - Remote: interface for the notebook service (see cloud.Client)
//   - Uploader: overwrite-then-create upload sequence
//
// # Upload Sequence
//
// A notebook is first uploaded with OnExistsOverwrite. The service rejects
// that with ErrArtifactNotFound when the notebook was never uploaded before,
// in which case the upload is repeated once with no directive:
//
//	nb, err := nbupload.OpenNotebook(afero.NewOsFs(), "analysis.ipynb")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	uploader, err := nbupload.NewUploader(client)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	outcome, err := uploader.Upload(ctx, nb, nbupload.Target{Namespace: "my-org"})
package nbupload
