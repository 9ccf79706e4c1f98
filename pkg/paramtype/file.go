package paramtype

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// File is an open (or lazily opened) file handed to a command. "-" stands for
// stdin when reading and stdout when writing.
type File struct {
	Path     string
	Mode     string
	Encoding string
	Errors   string
	Atomic   bool

	f      *os.File
	r      io.Reader
	w      io.Writer
	tmp    string
	opened bool
	closed bool
}

// FileTextRead is a file opened for reading text.
type FileTextRead struct{ *File }

// FileTextWrite is a file opened for writing text.
type FileTextWrite struct{ *File }

// FileBinaryRead is a file opened for reading bytes.
type FileBinaryRead struct{ *File }

// FileBinaryWrite is a file opened for writing bytes.
type FileBinaryWrite struct{ *File }

func (f *File) String() string { return f.Path }

func (f *File) writing() bool {
	return strings.ContainsAny(f.Mode, "wax+")
}

func (f *File) binary() bool {
	return strings.Contains(f.Mode, "b")
}

func (f *File) open() error {
	if f.opened {
		return nil
	}
	if f.closed {
		return fmt.Errorf("I/O operation on closed file %s", f.Path)
	}
	if f.Path == "-" {
		if f.writing() {
			f.f = os.Stdout
		} else {
			f.f = os.Stdin
		}
		return f.setup()
	}

	flag := os.O_RDONLY
	switch {
	case strings.Contains(f.Mode, "+"):
		flag = os.O_RDWR | os.O_CREATE
	case strings.Contains(f.Mode, "w"):
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case strings.Contains(f.Mode, "a"):
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	case strings.Contains(f.Mode, "x"):
		flag = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}

	var (
		fh  *os.File
		err error
	)
	if f.Atomic && f.writing() {
		fh, err = os.CreateTemp(filepath.Dir(f.Path), "."+filepath.Base(f.Path)+"-*")
		if err == nil {
			f.tmp = fh.Name()
		}
	} else {
		fh, err = os.OpenFile(f.Path, flag, 0o666)
	}
	if err != nil {
		return err
	}
	f.f = fh
	return f.setup()
}

func (f *File) setup() error {
	f.opened = true
	f.r = f.f
	f.w = f.f
	if f.binary() || f.Encoding == "" {
		return nil
	}
	enc, err := lookupEncoding(f.Encoding)
	if err != nil {
		return err
	}
	f.r = transform.NewReader(f.f, enc.NewDecoder())
	encoder := enc.NewEncoder()
	if f.Errors == "replace" {
		encoder = encoding.ReplaceUnsupported(encoder)
	}
	f.w = encoder.Writer(f.f)
	return nil
}

func (f *File) Read(p []byte) (int, error) {
	if err := f.open(); err != nil {
		return 0, err
	}
	return f.r.Read(p)
}

func (f *File) Write(p []byte) (int, error) {
	if err := f.open(); err != nil {
		return 0, err
	}
	return f.w.Write(p)
}

func (f *File) WriteString(s string) (int, error) {
	return f.Write([]byte(s))
}

// ReadAll reads the remainder of the file.
func (f *File) ReadAll() ([]byte, error) {
	return io.ReadAll(f)
}

// Close closes the file. Atomic writes are moved into place here. Closing a
// standard stream or a lazy file that was never used is a no-op.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if !f.opened || f.f == os.Stdin || f.f == os.Stdout {
		return nil
	}
	if err := f.f.Close(); err != nil {
		return err
	}
	if f.tmp != "" {
		return os.Rename(f.tmp, f.Path)
	}
	return nil
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding: %s", name)
	}
	return enc, nil
}

// FileType opens files. Lazy nil means: lazy for writes, eager for reads.
// Wrap, when set, turns the *File into the value handed to the command.
type FileType struct {
	Mode     string
	Encoding string
	Errors   string
	Lazy     *bool
	Atomic   bool
	Wrap     func(*File) any
}

func (FileType) Name() string { return "FILENAME" }

func (t FileType) mode() string {
	if t.Mode == "" {
		return "r"
	}
	return t.Mode
}

func (t FileType) lazy(value string) bool {
	if t.Lazy != nil {
		return *t.Lazy
	}
	if value == "-" {
		return false
	}
	return strings.Contains(t.mode(), "w")
}

func (t FileType) Convert(value string) (any, error) {
	if t.Encoding != "" {
		if _, err := lookupEncoding(t.Encoding); err != nil {
			return nil, fail(value, "'%s': %s", value, err)
		}
	}
	switch t.Errors {
	case "", "strict", "replace":
	default:
		return nil, fail(value, "'%s': unknown error handler %s", value, t.Errors)
	}
	f := &File{
		Path:     value,
		Mode:     t.mode(),
		Encoding: t.Encoding,
		Errors:   t.Errors,
		Atomic:   t.Atomic,
	}
	if t.lazy(value) {
		if !f.writing() {
			// readability is still checked up front
			fh, err := os.Open(value)
			if err != nil {
				return nil, fail(value, "'%s': %s", value, describeOSError(err))
			}
			fh.Close()
		}
	} else if err := f.open(); err != nil {
		return nil, fail(value, "'%s': %s", value, describeOSError(err))
	}
	if t.Wrap != nil {
		return t.Wrap(f), nil
	}
	return f, nil
}

func describeOSError(err error) string {
	switch {
	case os.IsNotExist(err):
		return "No such file or directory"
	case os.IsPermission(err):
		return "Permission denied"
	case os.IsExist(err):
		return "File exists"
	}
	return err.Error()
}
