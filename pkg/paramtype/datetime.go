package paramtype

import (
	"fmt"
	"strings"
	"time"
)

// DefaultDateTimeFormats are tried in order when no formats are configured.
var DefaultDateTimeFormats = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// DateTime parses a time.Time using the first layout that matches.
type DateTime struct {
	Formats []string
}

func (t DateTime) formats() []string {
	if len(t.Formats) == 0 {
		return DefaultDateTimeFormats
	}
	return t.Formats
}

func (t DateTime) Name() string {
	return "[" + strings.Join(t.formats(), "|") + "]"
}

func (t DateTime) Convert(value string) (any, error) {
	formats := t.formats()
	for _, layout := range formats {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	quoted := make([]string, len(formats))
	for i, f := range formats {
		quoted[i] = fmt.Sprintf("'%s'", f)
	}
	if len(formats) == 1 {
		return nil, fail(value, "'%s' does not match the format %s.", value, quoted[0])
	}
	return nil, fail(value, "'%s' does not match the formats %s.", value, strings.Join(quoted, ", "))
}
