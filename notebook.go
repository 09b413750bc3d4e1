package nbupload

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// OpenNotebook validates and reads the notebook at path.
//
// Checks run in order and the first failure is returned:
//   - the path exists (ErrNotebookNotFound)
//   - the path is not a directory (ErrNotebookIsDir)
//   - the extension is exactly ".ipynb" (ErrInvalidExtension)
//
// The content is not parsed; any file with the right extension is accepted.
func OpenNotebook(fsys afero.Fs, path string) (Notebook, error) {
	exists, err := afero.Exists(fsys, path)
	if err != nil {
		return Notebook{}, fmt.Errorf("open notebook: stat %q: %w", path, err)
	}
	if !exists {
		return Notebook{}, fmt.Errorf("%w: %q", ErrNotebookNotFound, path)
	}

	isDir, err := afero.IsDir(fsys, path)
	if err != nil {
		return Notebook{}, fmt.Errorf("open notebook: stat %q: %w", path, err)
	}
	if isDir {
		return Notebook{}, fmt.Errorf("%w: %q", ErrNotebookIsDir, path)
	}

	stem, ext := splitExt(filepath.Base(path))
	if ext != NotebookExt {
		return Notebook{}, fmt.Errorf("%w: extension must be %q, not %q", ErrInvalidExtension, NotebookExt, ext)
	}

	content, err := afero.ReadFile(fsys, path)
	if err != nil {
		return Notebook{}, fmt.Errorf("open notebook: read %q: %w", path, err)
	}

	return Notebook{
		Path:    path,
		Name:    stem,
		Ext:     ext,
		Content: content,
	}, nil
}
