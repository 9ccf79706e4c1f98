package console

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"golang.org/x/term"
)

// ErrNoInput is returned when the prompt's input is closed before a value was read.
var ErrNoInput = errors.New("input closed")

type Interactive struct {
	Prompt   string
	Default  string
	Options  []string
	Required bool
	// HideInput suppresses terminal echo (for secrets).
	HideInput bool
	// ConfirmPrompt, when set, asks for the value a second time and requires both entries to match.
	ConfirmPrompt string
	// Validate is run on every entered value; an error is shown and the question repeated.
	Validate func(string) error
	In       io.Reader
	Out      io.Writer
}

func (i Interactive) Read() (string, error) {
	if i.Default != "" && i.Options != nil && !slices.Contains(i.Options, i.Default) {
		panic("Default is not an option")
	}

	parens := ""
	if i.Required {
		parens += "required"
	}
	if i.Default != "" && !i.HideInput {
		if parens != "" {
			parens += ", "
		}
		parens += "default: " + i.Default
	}
	if i.Options != nil {
		if parens != "" {
			parens += ", "
		}
		parens += "options: " + strings.Join(i.Options, ", ")
	}
	if parens != "" {
		parens = " (" + parens + ")"
	}

	for {
		text, err := i.ask(i.Prompt + parens)
		if err != nil {
			return "", err
		}
		if text == "" && i.Default != "" {
			text = i.Default
		}

		if i.Required && text == "" {
			i.warn("Please enter a value")
			continue
		}

		if !i.Required && text == "" {
			return "", nil
		}

		if i.Options != nil {
			if !slices.Contains(i.Options, text) {
				i.warn(fmt.Sprintf("%s is not a valid option", text))
				continue
			}
		}

		if i.Validate != nil {
			if err := i.Validate(text); err != nil {
				i.warn("Error: " + err.Error())
				continue
			}
		}

		if i.ConfirmPrompt != "" {
			again, err := i.ask(i.ConfirmPrompt)
			if err != nil {
				return "", err
			}
			if again != text {
				i.warn("Error: The two entered values do not match.")
				continue
			}
		}

		return text, nil
	}
}

func (i Interactive) ask(question string) (string, error) {
	out := i.output()
	fmt.Fprintf(out, "%s: ", question)
	if i.HideInput {
		if f, ok := i.input().(*os.File); ok && IsTerminal(f) {
			b, err := term.ReadPassword(int(f.Fd()))
			fmt.Fprintln(out)
			if err != nil {
				return "", err
			}
			return strings.TrimSpace(string(b)), nil
		}
	}
	text, err := readLine(i.input())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (i Interactive) input() io.Reader {
	if i.In != nil {
		return i.In
	}
	return os.Stdin
}

func (i Interactive) output() io.Writer {
	if i.Out != nil {
		return i.Out
	}
	return os.Stdout
}

func (i Interactive) warn(msg string) {
	fmt.Fprintln(i.output(), msg)
}

type InteractiveBool struct {
	Prompt  string
	Default bool
	// NonDefaultFlag is the flag to suggest passing to do the thing which isn't default when running inside a script
	NonDefaultFlag string
	In             io.Reader
	Out            io.Writer
}

func (i InteractiveBool) Read() (bool, error) {
	defaults := "y/N"
	if i.Default {
		defaults = "Y/n"
	}
	in, out := i.In, i.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	for {
		fmt.Fprintf(out, "%s (%s) ", i.Prompt, defaults)
		text, err := readLine(in)
		if err != nil {
			if errors.Is(err, ErrNoInput) && i.NonDefaultFlag != "" {
				return false, fmt.Errorf("stdin is closed. If you're running in a script, you need to pass the '%s' option", i.NonDefaultFlag)
			}
			return false, err
		}
		text = strings.ToLower(strings.TrimSpace(text))
		if text == "yes" || text == "y" {
			return true, nil
		}
		if text == "no" || text == "n" {
			return false, nil
		}
		if text == "" {
			return i.Default, nil
		}
		fmt.Fprintln(out, "Please enter 'y' or 'n'")
	}
}

// readLine reads up to and excluding the next newline one byte at a time, so
// consecutive prompts can share a reader without losing buffered input.
func readLine(r io.Reader) (string, error) {
	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				return strings.TrimSuffix(sb.String(), "\r"), nil
			}
			sb.WriteByte(buf[0])
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				if sb.Len() > 0 {
					return sb.String(), nil
				}
				return "", ErrNoInput
			}
			return "", err
		}
	}
}
