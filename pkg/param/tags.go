package param

import (
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/structtag"
)

const (
	tagOption   = "option"
	tagArgument = "argument"
	tagName     = "name"
	tagType     = "type"
	tagChoices  = "choices"
	tagSkip     = "sigcli"
)

// refKeys name registry entries rather than literal values.
var refKeys = map[string]bool{
	"callback":        true,
	"autocompletion":  true,
	"parser":          true,
	"param_type":      true,
	"default_factory": true,
}

var boolKeys = map[string]bool{
	"show_envvar":         true,
	"hidden":              true,
	"is_eager":            true,
	"clamp":               true,
	"lazy":                true,
	"atomic":              true,
	"exists":              true,
	"file_okay":           true,
	"dir_okay":            true,
	"writable":            true,
	"readable":            true,
	"resolve_path":        true,
	"allow_dash":          true,
	"expand_user":         true,
	"case_sensitive":      true,
	"enum_by_name":        true,
	"confirmation_prompt": true,
	"hide_input":          true,
	"prompt_required":     true,
	"count":               true,
	"show_choices":        true,
}

var stringKeys = map[string]bool{
	"help":         true,
	"default":      true,
	"envvar":       true,
	"show_default": true,
	"panel":        true,
	"metavar":      true,
	"min":          true,
	"max":          true,
	"formats":      true,
	"mode":         true,
	"encoding":     true,
	"errors":       true,
	"prompt":       true,
}

var optionOnlyKeys = map[string]bool{
	"prompt":              true,
	"confirmation_prompt": true,
	"hide_input":          true,
	"prompt_required":     true,
	"count":               true,
	"show_choices":        true,
}

func isConfigKey(key string) bool {
	return refKeys[key] || boolKeys[key] || stringKeys[key]
}

type fieldTags struct {
	skip     bool
	name     string
	typeExpr string
	choices  []string
	markers  []ParameterInfo
	refs     map[string]string
}

func parseFieldTags(field reflect.StructField) (*fieldTags, error) {
	ft := &fieldTags{refs: map[string]string{}}
	tags, err := structtag.Parse(string(field.Tag))
	if err != nil {
		return nil, &TagError{Field: field.Name, Tag: "struct", Msg: err.Error()}
	}

	var config []*structtag.Tag
	for _, t := range tags.Tags() {
		value := t.Value()
		switch t.Key {
		case tagSkip:
			ft.skip = value == "-"
		case tagName:
			ft.name = value
		case tagType:
			ft.typeExpr = value
		case tagChoices:
			ft.choices = splitList(value, ",")
		case tagOption:
			o := newOptionInfo(Required)
			o.ParamDecls = splitList(value, ",")
			ft.markers = append(ft.markers, o)
		case tagArgument:
			if value != "" {
				return nil, &TagError{Field: field.Name, Tag: tagArgument, Msg: "arguments take their name from the field, use the name tag"}
			}
			ft.markers = append(ft.markers, newArgumentInfo(Required))
		default:
			if isConfigKey(t.Key) {
				config = append(config, t)
			}
		}
	}
	if ft.skip || len(config) == 0 {
		return ft, nil
	}
	if len(ft.markers) == 0 {
		keys := make([]string, len(config))
		for i, t := range config {
			keys[i] = t.Key
		}
		sort.Strings(keys)
		return nil, &OrphanTagError{Field: field.Name, Tags: keys}
	}
	for _, t := range config {
		if refKeys[t.Key] {
			ft.refs[t.Key] = t.Value()
			continue
		}
		for _, m := range ft.markers {
			if err := applyTag(m, t.Key, t.Value()); err != nil {
				return nil, &TagError{Field: field.Name, Tag: t.Key, Msg: err.Error()}
			}
		}
	}
	return ft, nil
}

func splitList(value, sep string) []string {
	var out []string
	for _, part := range strings.Split(value, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

type tagValueError string

func (e tagValueError) Error() string { return string(e) }

func parseTagBool(value string) (bool, error) {
	if value == "" {
		return true, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, tagValueError("expected a boolean, got " + strconv.Quote(value))
	}
	return b, nil
}

func applyTag(p ParameterInfo, key, value string) error {
	opt, isOption := p.(*OptionInfo)
	if optionOnlyKeys[key] && !isOption {
		return tagValueError("only valid on options")
	}
	i := p.Base()

	if boolKeys[key] {
		b, err := parseTagBool(value)
		if err != nil {
			return err
		}
		switch key {
		case "show_envvar":
			i.ShowEnvvar = b
		case "hidden":
			i.Hidden = b
		case "is_eager":
			i.IsEager = b
		case "clamp":
			i.Clamp = b
		case "lazy":
			i.Lazy = &b
		case "atomic":
			i.Atomic = b
		case "exists":
			i.Exists, i.pathSet = b, true
		case "file_okay":
			i.FileOkay, i.pathSet = b, true
		case "dir_okay":
			i.DirOkay, i.pathSet = b, true
		case "writable":
			i.Writable, i.pathSet = b, true
		case "readable":
			i.Readable, i.pathSet = b, true
		case "resolve_path":
			i.ResolvePath, i.pathSet = b, true
		case "allow_dash":
			i.AllowDash, i.pathSet = b, true
		case "expand_user":
			i.ExpandUser, i.pathSet = b, true
		case "case_sensitive":
			i.CaseSensitive = b
		case "enum_by_name":
			i.EnumByName = b
		case "confirmation_prompt":
			opt.ConfirmationPrompt = b
		case "hide_input":
			opt.HideInput = b
		case "prompt_required":
			opt.PromptRequired = b
		case "count":
			opt.Count = b
		case "show_choices":
			opt.ShowChoices = b
		}
		return nil
	}

	switch key {
	case "help":
		i.Help = value
	case "default":
		i.Default = value
	case "envvar":
		i.Envvar = splitList(value, ",")
	case "show_default":
		if b, err := strconv.ParseBool(value); err == nil {
			i.ShowDefault = b
		} else {
			i.ShowDefault, i.ShowDefaultText = true, value
		}
	case "panel":
		i.Panel = value
	case "metavar":
		i.Metavar = value
	case "min":
		i.Min = value
	case "max":
		i.Max = value
	case "formats":
		i.Formats = splitList(value, "|")
	case "mode":
		i.Mode = value
	case "encoding":
		i.Encoding = value
	case "errors":
		i.Errors = value
	case "prompt":
		if b, err := strconv.ParseBool(value); err == nil || value == "" {
			opt.Prompt = b || value == ""
		} else {
			opt.Prompt, opt.PromptText = true, value
		}
	}
	return nil
}
