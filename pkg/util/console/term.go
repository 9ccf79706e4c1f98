package console

import (
	"github.com/moby/term"
)

// IsTerminal reports whether f (usually an *os.File) is attached to a terminal.
func IsTerminal(f any) bool {
	_, ok := term.GetFdInfo(f)
	return ok
}

// Width returns the number of columns of the terminal behind f.
//
// Returns 0 if f is not a terminal
func Width(f any) int {
	fd, ok := term.GetFdInfo(f)
	if !ok {
		return 0
	}
	ws, err := term.GetWinsize(fd)
	if err != nil {
		Debugf("Failed to read terminal size: %s", err)
		return 0
	}
	return int(ws.Width)
}
