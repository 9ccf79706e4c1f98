package core

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/replicate/sigcli/pkg/paramtype"
)

// HelpRecord is one row of a help listing.
type HelpRecord struct {
	Name string
	Help string
}

// HelpRecord returns the row for p. ok is false for hidden parameters.
func (p *Parameter) HelpRecord(ctx *Context) (rec HelpRecord, ok bool) {
	if p.Hidden {
		return HelpRecord{}, false
	}
	if p.IsOption() {
		rec.Name = strings.Join(p.Opts, ", ")
		if len(p.SecondaryOpts) > 0 {
			rec.Name += " / " + strings.Join(p.SecondaryOpts, ", ")
		}
		if !p.IsFlag && !p.Count {
			rec.Name += " " + p.MakeMetavar()
		}
	} else {
		rec.Name = p.Metavar
		if rec.Name == "" {
			rec.Name = strings.ToUpper(p.Name)
		}
	}

	var extra []string
	if envvar := p.EnvvarText(ctx); envvar != "" {
		extra = append(extra, "env var: "+envvar)
	}
	if def, ok := p.DefaultText(); ok {
		extra = append(extra, "default: "+def)
	}
	if r, ok := p.Type.(paramtype.RangeDescriber); ok && !p.Count {
		if desc := r.DescribeRange(); desc != "" {
			extra = append(extra, desc)
		}
	}
	if p.Required {
		extra = append(extra, "required")
	}

	rec.Help = p.Help
	if len(extra) > 0 {
		if rec.Help != "" {
			rec.Help += "  "
		}
		rec.Help += "[" + strings.Join(extra, "; ") + "]"
	}
	return rec, true
}

// TypeName is shown in the type column of the help listing; empty for flags.
func (p *Parameter) TypeName() string {
	if p.IsFlag || p.Count {
		return ""
	}
	return p.Type.Name()
}

// EnvvarText lists the environment variables read for p, if they are shown.
func (p *Parameter) EnvvarText(ctx *Context) string {
	if !p.ShowEnvvar {
		return ""
	}
	if len(p.Envvar) > 0 {
		return strings.Join(p.Envvar, ", ")
	}
	if ctx != nil {
		return p.AutoEnvvar(ctx.AutoEnvvarPrefix)
	}
	return ""
}

// DefaultText is the default as shown in help. Factories are shown as
// "(dynamic)" and never called.
func (p *Parameter) DefaultText() (string, bool) {
	if !p.ShowDefault {
		return "", false
	}
	if p.ShowDefaultText != "" {
		return p.ShowDefaultText, true
	}
	if p.DefaultFactory != nil {
		return "(dynamic)", true
	}
	if !p.HasDefault || p.Default == nil {
		return "", false
	}
	if b, ok := p.Default.(bool); ok && p.IsFlag && len(p.SecondaryOpts) > 0 {
		opt := p.SecondaryOpts[0]
		if b {
			opt = p.Opts[0]
		}
		return strings.TrimLeft(opt, "-"), true
	}
	if p.Count {
		return "", false
	}
	text := formatValue(p.Default)
	return text, text != ""
}

func formatValue(v any) string {
	if tv, ok := v.(paramtype.TupleValue); ok {
		return joinValues(tv.Values())
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return joinValues(items)
	case reflect.Pointer:
		if rv.IsNil() {
			return ""
		}
		return formatValue(rv.Elem().Interface())
	}
	return fmt.Sprint(v)
}

func joinValues(items []any) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = formatValue(item)
	}
	return strings.Join(parts, ", ")
}
