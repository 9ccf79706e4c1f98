package cli

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"
	k8syaml "sigs.k8s.io/yaml"

	"github.com/replicate/sigcli/pkg/util/console"
	"github.com/replicate/sigcli/pkg/util/files"
)

// loadDefaultMap merges the config file over the app's default map.
func (a *App) loadDefaultMap() (map[string]any, error) {
	merged := maps.Clone(a.defaultMap)
	if a.configFile == "" {
		return merged, nil
	}
	path, err := files.ExpandUser(a.configFile)
	if err != nil {
		return nil, err
	}
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		console.Debugf("No config file at %s", path)
		return merged, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Failed to read %s: %w", path, err)
	}
	loaded, err := ParseConfig(path, contents)
	if err != nil {
		return nil, err
	}
	console.Debugf("Loaded defaults from %s", path)
	return mergeDefaults(merged, loaded), nil
}

// ParseConfig reads a default map from YAML, or JSON if path ends in .json.
// Keys are parameter names; nested maps hold the defaults of subcommands.
// Scalars are kept as strings so that they are converted like command-line
// values.
func ParseConfig(path string, contents []byte) (map[string]any, error) {
	var raw any
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := k8syaml.Unmarshal(contents, &raw); err != nil {
			return nil, fmt.Errorf("Failed to parse %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(contents, &raw); err != nil {
		return nil, fmt.Errorf("Failed to parse %s: %w", path, err)
	}
	if raw == nil {
		return map[string]any{}, nil
	}
	m, ok := normalizeConfig(raw).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("Failed to parse %s: top level must be a mapping", path)
	}
	return m, nil
}

func normalizeConfig(v any) any {
	switch tv := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(tv))
		for k, item := range tv {
			out[fmt.Sprint(k)] = normalizeConfig(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, item := range tv {
			out[k] = normalizeConfig(item)
		}
		return out
	case []any:
		out := make([]any, len(tv))
		for i, item := range tv {
			out[i] = normalizeConfig(item)
		}
		return out
	case nil, string:
		return tv
	}
	return fmt.Sprint(v)
}

func mergeDefaults(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = map[string]any{}
	}
	for k, v := range src {
		sub, isMap := v.(map[string]any)
		existing, hasMap := dst[k].(map[string]any)
		if isMap && hasMap {
			dst[k] = mergeDefaults(maps.Clone(existing), sub)
			continue
		}
		dst[k] = v
	}
	return dst
}
