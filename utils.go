package nbupload

import (
	"path/filepath"
	"strings"
)

// NotebookName derives the remote display name of a notebook from its path.
// The directory and the final extension are stripped; the base name is kept as is.
//
//	NotebookName("a/b/My Notebook.ipynb") == "My Notebook"
func NotebookName(path string) string {
	stem, _ := splitExt(filepath.Base(path))
	return stem
}

// splitExt splits base into stem and final extension. Leading dots belong to
// the stem, so ".ipynb" has no extension.
func splitExt(base string) (stem, ext string) {
	trimmed := strings.TrimLeft(base, ".")
	i := strings.LastIndexByte(trimmed, '.')
	if i < 0 {
		return base, ""
	}
	i += len(base) - len(trimmed)
	return base[:i], base[i:]
}

// ArtifactURI returns the canonical URI of a notebook artifact.
func ArtifactURI(namespace, name string) string {
	return "cloud://" + namespace + "/" + name
}
