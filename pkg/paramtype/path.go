package paramtype

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/replicate/sigcli/pkg/util/files"
)

// Path is a filesystem path parameter value.
type Path string

func (p Path) String() string { return string(p) }

// PathType validates filesystem paths. Use NewPathType for the usual
// defaults (files and directories allowed, must be readable).
type PathType struct {
	Exists      bool
	FileOkay    bool
	DirOkay     bool
	Readable    bool
	Writable    bool
	ResolvePath bool
	AllowDash   bool
	ExpandUser  bool
}

func NewPathType() PathType {
	return PathType{FileOkay: true, DirOkay: true, Readable: true}
}

func (t PathType) kind() string {
	switch {
	case t.FileOkay && !t.DirOkay:
		return "file"
	case t.DirOkay && !t.FileOkay:
		return "directory"
	}
	return "path"
}

func (t PathType) Name() string {
	return strings.ToUpper(t.kind())
}

// DirectoriesOnly tells shell completion to only offer directories.
func (t PathType) DirectoriesOnly() bool {
	return t.DirOkay && !t.FileOkay
}

func (t PathType) Convert(value string) (any, error) {
	if t.FileOkay && t.AllowDash && value == "-" {
		return value, nil
	}
	rv := value
	if t.ExpandUser {
		expanded, err := files.ExpandUser(rv)
		if err != nil {
			return nil, fail(value, "%s", err)
		}
		rv = expanded
	}
	if t.ResolvePath {
		abs, err := filepath.Abs(rv)
		if err != nil {
			return nil, fail(value, "%s", err)
		}
		if resolved, err := filepath.EvalSymlinks(abs); err == nil {
			abs = resolved
		}
		rv = abs
	}

	kind := t.kind()
	title := strings.ToUpper(kind[:1]) + kind[1:]
	st, err := os.Stat(rv)
	if err != nil {
		if !t.Exists {
			return rv, nil
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil, fail(value, "%s '%s' does not exist.", title, value)
		}
		return nil, fail(value, "%s '%s': %s", title, value, err)
	}
	if !t.FileOkay && st.Mode().IsRegular() {
		return nil, fail(value, "%s '%s' is a file.", title, value)
	}
	if !t.DirOkay && st.IsDir() {
		return nil, fail(value, "%s '%s' is a directory.", title, value)
	}
	if t.Readable && !files.IsReadable(rv) {
		return nil, fail(value, "%s '%s' is not readable.", title, value)
	}
	if t.Writable && !files.IsWritable(rv) {
		return nil, fail(value, "%s '%s' is not writable.", title, value)
	}
	return rv, nil
}
