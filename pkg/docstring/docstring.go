// Package docstring reads parameter help out of a command's documentation.
//
// Two layouts are understood. Google style:
//
//	Greet someone.
//
//	Args:
//	    name: Who to greet.
//	    count (int): How many times,
//	        on separate lines.
//
// and Sphinx style:
//
//	Greet someone.
//
//	:param name: Who to greet.
package docstring

import (
	"strings"
)

// Doc is a parsed documentation string.
type Doc struct {
	// Summary is the first paragraph.
	Summary string
	// Description is everything before the parameter section.
	Description string
	// Params maps parameter names to their help text.
	Params map[string]string
}

var sectionHeaders = map[string]bool{
	"args:":       true,
	"arguments:":  true,
	"parameters:": true,
	"params:":     true,
}

var otherSections = map[string]bool{
	"returns:":  true,
	"raises:":   true,
	"example:":  true,
	"examples:": true,
	"note:":     true,
	"notes:":    true,
}

func Parse(text string) Doc {
	doc := Doc{Params: map[string]string{}}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var desc []string
	inArgs, inSections := false, false
	argIndent := -1
	current := ""
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)
		indent := len(line) - len(strings.TrimLeft(line, " \t"))

		switch {
		case sectionHeaders[lower]:
			inArgs, inSections, argIndent, current = true, true, -1, ""
			continue
		case otherSections[lower]:
			inArgs, inSections, current = false, true, ""
			continue
		case strings.HasPrefix(trimmed, ":param "):
			name, help, ok := strings.Cut(strings.TrimPrefix(trimmed, ":param "), ":")
			if ok {
				fields := strings.Fields(name)
				if len(fields) > 0 {
					current = fields[len(fields)-1]
					doc.Params[current] = strings.TrimSpace(help)
				}
			}
			inArgs = false
			continue
		case strings.HasPrefix(trimmed, ":"):
			current = ""
			continue
		}

		if inArgs {
			if trimmed == "" {
				continue
			}
			if argIndent < 0 {
				argIndent = indent
			}
			if indent <= argIndent {
				name, help, ok := strings.Cut(trimmed, ":")
				if !ok {
					inArgs, current = false, ""
					continue
				}
				if i := strings.Index(name, "("); i >= 0 {
					name = name[:i]
				}
				current = strings.TrimSpace(name)
				doc.Params[current] = strings.TrimSpace(help)
				continue
			}
			if current != "" {
				doc.Params[current] = strings.TrimSpace(doc.Params[current] + " " + trimmed)
			}
			continue
		}
		if current != "" && trimmed != "" && indent > 0 {
			doc.Params[current] = strings.TrimSpace(doc.Params[current] + " " + trimmed)
			continue
		}
		current = ""
		if !inSections {
			desc = append(desc, line)
		}
	}

	doc.Description = strings.TrimSpace(dedent(desc))
	summary, _, _ := strings.Cut(doc.Description, "\n\n")
	doc.Summary = strings.Join(strings.Fields(summary), " ")
	return doc
}

func dedent(lines []string) string {
	min := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		indent := len(l) - len(strings.TrimLeft(l, " \t"))
		if min < 0 || indent < min {
			min = indent
		}
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		if len(l) >= min && min > 0 {
			out[i] = l[min:]
		} else {
			out[i] = strings.TrimSpace(l)
		}
	}
	return strings.Join(out, "\n")
}

// Help returns the help for the named parameter, or "".
func (d Doc) Help(name string) string {
	return d.Params[name]
}
