package l10n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, root, relPath, content string) {
	t.Helper()
	full := filepath.Join(root, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestFileLoaderReadsTemplatedPath(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, filepath.Join("en-US", "messages", "main.ftl"), "hello = Hi\n")

	loader, err := NewFileLoader(root, filepath.Join("{locale}", "messages"))
	require.NoError(t, err)

	src, err := loader.Load("en-US", "main")
	require.NoError(t, err)
	assert.Equal(t, "hello = Hi\n", src)
}

func TestFileLoaderReportsNotFound(t *testing.T) {
	root := t.TempDir()
	loader, err := NewFileLoader(root, filepath.Join("{locale}", "messages"))
	require.NoError(t, err)

	_, err = loader.Load("en-US", "missing")
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestFileLoaderRejectsTraversalInLocale(t *testing.T) {
	root := t.TempDir()
	loader, err := NewFileLoader(root, filepath.Join("{locale}", "messages"))
	require.NoError(t, err)

	_, err = loader.Load("../../etc", "passwd")
	assert.Error(t, err)
}

func TestFileLoaderRejectsTraversalInResourceID(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, filepath.Join("en", "messages", "main.ftl"), "x = y\n")
	loader, err := NewFileLoader(root, filepath.Join("{locale}", "messages"))
	require.NoError(t, err)

	_, err = loader.Load("en", "../../../etc/passwd")
	assert.Error(t, err)
}

func TestFileLoaderRejectsAbsoluteResourceID(t *testing.T) {
	root := t.TempDir()
	loader, err := NewFileLoader(root, filepath.Join("{locale}", "messages"))
	require.NoError(t, err)

	_, err = loader.Load("en", string(filepath.Separator)+"etc/passwd")
	assert.Error(t, err)
}

func TestFileLoaderRejectsEmptyComponents(t *testing.T) {
	root := t.TempDir()
	loader, err := NewFileLoader(root, filepath.Join("{locale}", "messages"))
	require.NoError(t, err)

	_, err = loader.Load("", "main")
	assert.Error(t, err)
}

func TestFileLoaderDescribePathDoesNotTouchDisk(t *testing.T) {
	root := t.TempDir()
	loader, err := NewFileLoader(root, filepath.Join("{locale}", "messages"))
	require.NoError(t, err)

	desc := loader.DescribePath("en-US", "main")
	assert.Contains(t, desc, "en-US")
	assert.Contains(t, desc, "main.ftl")
}

func TestNewFileLoaderRequiresLocalePlaceholder(t *testing.T) {
	_, err := NewFileLoader(t.TempDir(), "messages")
	assert.Error(t, err)
}
