package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sagarc03/nbupload"
	"github.com/sagarc03/nbupload/cloud"
	"github.com/sagarc03/nbupload/config"
)

var version = "dev"

// app holds the process streams and the output flags shared by the command.
type app struct {
	fs     afero.Fs
	stdout io.Writer
	stderr io.Writer

	jsonOutput bool
	quiet      bool

	notebook nbupload.Notebook
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "nbupload <notebook.ipynb>",
		Version: version,
		Short:   "Upload a notebook to the cloud notebook service",
		Long: `nbupload - Upload a Jupyter notebook to the cloud notebook service

The notebook is stored under its file name without the .ipynb extension
in the given namespace. An existing notebook with that name is overwritten.

Options may also be set as environment variables (CLOUD_TOKEN,
CLOUD_NAMESPACE, CLOUD_STORAGE_PATH, CLOUD_STORAGE_CREDENTIAL_NAME), but
values set with command line flags take priority.`,
		Example: `  nbupload analysis.ipynb --cloud-namespace my-org
  CLOUD_TOKEN=... CLOUD_NAMESPACE=my-org nbupload notebooks/report.ipynb
  nbupload report.ipynb --cloud-storage-path s3://bucket/notebooks --json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// The notebook is checked before any configuration value so a
			// bad path is reported whatever else is wrong.
			nb, err := nbupload.OpenNotebook(a.fs, args[0])
			if err != nil {
				return err
			}
			a.notebook = nb

			cfg, err := config.Load(config.ConfigFileFromFlags(cmd.Flags()), cmd.Flags())
			if err != nil {
				return err
			}
			setupLogging(a.stderr, cfg.Log, a.quiet || a.jsonOutput)
			cmd.SetContext(config.WithContext(cmd.Context(), cfg))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runUpload(cmd.Context())
		},
	}

	config.RegisterFlags(cmd.Flags())
	cmd.Flags().BoolVar(&a.jsonOutput, "json", false, "print the result as JSON on stdout")
	cmd.Flags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-essential output")

	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	return cmd
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{
		fs:     afero.NewOsFs(),
		stdout: stdout,
		stderr: stderr,
	}

	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		// Errors are plain text on stderr, with or without --json.
		_ = (&cloud.HumanFormatter{}).FormatError(stderr, err)
		return 1
	}
	return 0
}

func (a *app) formatter() cloud.Formatter {
	return cloud.NewFormatter(a.jsonOutput, a.quiet)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
