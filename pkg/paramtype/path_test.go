package paramtype

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/require"
)

func TestPathTypeNames(t *testing.T) {
	require.Equal(t, "PATH", NewPathType().Name())
	require.Equal(t, "FILE", PathType{FileOkay: true}.Name())
	require.Equal(t, "DIRECTORY", PathType{DirOkay: true}.Name())
	require.True(t, PathType{DirOkay: true}.DirectoriesOnly())
}

func TestPathTypeExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("hi"), 0o644))

	pt := NewPathType()
	pt.Exists = true

	v, err := pt.Convert(file)
	require.NoError(t, err)
	require.Equal(t, file, v)

	missing := filepath.Join(dir, "missing")
	_, err = pt.Convert(missing)
	require.EqualError(t, err, "Path '"+missing+"' does not exist.")

	pt.Exists = false
	v, err = pt.Convert(missing)
	require.NoError(t, err)
	require.Equal(t, missing, v)
}

func TestPathTypeFileOrDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("hi"), 0o644))

	_, err := PathType{FileOkay: true, Exists: true}.Convert(dir)
	require.EqualError(t, err, "File '"+dir+"' is a directory.")

	_, err = PathType{DirOkay: true, Exists: true}.Convert(file)
	require.EqualError(t, err, "Directory '"+file+"' is a file.")
}

func TestPathTypeDashAndExpandUser(t *testing.T) {
	v, err := PathType{FileOkay: true, AllowDash: true, Exists: true}.Convert("-")
	require.NoError(t, err)
	require.Equal(t, "-", v)

	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.DisableCache = true
	v, err = PathType{FileOkay: true, ExpandUser: true}.Convert("~/x")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, "x"), v)
}

func TestPathTypeResolve(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	v, err := PathType{FileOkay: true, ResolvePath: true}.Convert("rel")
	require.NoError(t, err)
	require.True(t, filepath.IsAbs(v.(string)))
	require.Equal(t, "rel", filepath.Base(v.(string)))
}
