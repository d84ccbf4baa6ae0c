package system

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSystem_Open_Success(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "App.tsx")
	testContent := []byte("export const App = () => <div>{count.value}</div>\n")
	require.NoError(t, os.WriteFile(testFile, testContent, 0o644), "should create test file")

	fsys := &FileSystem{}
	file, err := fsys.Open(testFile)
	require.NoError(t, err, "should open file successfully")
	require.NotNil(t, file, "should return non-nil file")
	defer file.Close()

	content, err := io.ReadAll(file)
	require.NoError(t, err, "should read file content")
	assert.Equal(t, testContent, content, "should read correct content")
}

func TestFileSystem_Open_Error(t *testing.T) {
	t.Parallel()

	fsys := &FileSystem{}
	file, err := fsys.Open("nonexistent-file.tsx")

	require.Error(t, err, "should return error for nonexistent file")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Nil(t, file, "should return nil file on error")
}

func TestFileSystem_ReadFile_Success(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "rule.ts")
	require.NoError(t, os.WriteFile(testFile, []byte("registerRule({})"), 0o644))

	fsys := &FileSystem{}
	content, err := fs.ReadFile(fsys, testFile)
	require.NoError(t, err)
	assert.Equal(t, "registerRule({})", string(content))
}

func TestFileSystem_Glob_Success(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	for _, name := range []string{"a.ts", "b.ts", "c.js"} {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, name), nil, 0o644))
	}

	fsys := &FileSystem{}
	matches, err := fs.Glob(fsys, filepath.Join(tmpDir, "*.ts"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(tmpDir, "a.ts"), filepath.Join(tmpDir, "b.ts")}, matches)
}

func TestFileSystem_WriteFile_CreatesDirectories(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "metrics", "node_exporter", "lintperf.prom")
	testContent := []byte("lintperf_rule_nodes_total{rule=\"r\"} 4\n")

	fsys := &FileSystem{}
	require.NoError(t, fsys.WriteFile(testFile, testContent, 0o644), "should write file and create directories")

	dirInfo, err := os.Stat(filepath.Dir(testFile))
	require.NoError(t, err, "should stat created directory")
	assert.True(t, dirInfo.IsDir(), "should be a directory")

	content, err := os.ReadFile(testFile)
	require.NoError(t, err, "should read written file")
	assert.Equal(t, testContent, content, "should have correct content")

	info, err := os.Stat(testFile)
	require.NoError(t, err, "should stat file")
	assert.Equal(t, fs.FileMode(0o644), info.Mode().Perm(), "should have correct permissions")
}

func TestFileSystem_WriteFile_OverwritesExisting(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "report.json")
	require.NoError(t, os.WriteFile(testFile, []byte("initial content"), 0o644), "should create initial file")

	fsys := &FileSystem{}
	require.NoError(t, fsys.WriteFile(testFile, []byte("new content"), 0o644), "should overwrite file successfully")

	content, err := os.ReadFile(testFile)
	require.NoError(t, err, "should read file")
	assert.Equal(t, "new content", string(content), "should have new content")
}

func TestFileSystem_MkdirAll_ExistingDirectory(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	testPath := filepath.Join(tmpDir, "existing")
	require.NoError(t, os.MkdirAll(testPath, 0o755), "should create initial directory")

	fsys := &FileSystem{}
	require.NoError(t, fsys.MkdirAll(testPath, 0o755), "should succeed for existing directory")

	info, err := os.Stat(testPath)
	require.NoError(t, err, "should stat directory")
	assert.True(t, info.IsDir(), "should be a directory")
}
