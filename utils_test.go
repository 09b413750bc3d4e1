package nbupload_test

import (
	"testing"

	"github.com/sagarc03/nbupload"
	"github.com/stretchr/testify/assert"
)

func TestNotebookName(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"nested path with spaces", "a/b/My Notebook.ipynb", "My Notebook"},
		{"bare file", "analysis.ipynb", "analysis"},
		{"only final extension stripped", "data.tar.ipynb", "data.tar"},
		{"no extension", "notes", "notes"},
		{"other extension", "dir/readme.txt", "readme"},
		{"hidden file has no extension", "dir/.ipynb", ".ipynb"},
		{"hidden file with extension", ".hidden.ipynb", ".hidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nbupload.NotebookName(tt.path))
		})
	}
}

func TestArtifactURI(t *testing.T) {
	assert.Equal(t, "cloud://my-org/My Notebook", nbupload.ArtifactURI("my-org", "My Notebook"))
}
