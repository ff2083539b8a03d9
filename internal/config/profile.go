package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profile is a merged configuration document. Keys are free-form; the
// assistant wiring only relies on a handful of well-known paths.
type Profile = map[string]any

var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

// LoadProfile resolves a profile document by name: single- or multi-parent
// `inherits` chains are deep-merged (child keys win, nested mappings merge
// recursively) and ${VAR:default} placeholders in string leaves are replaced
// from the supplied environment snapshot. A cyclic inheritance chain is a
// fatal configuration error.
func LoadProfile(name, configDir string, environ map[string]string) (Profile, error) {
	merged, err := loadProfileRecursive(name, configDir, map[string]bool{})
	if err != nil {
		return nil, err
	}
	return substituteEnv(merged, environ).(Profile), nil
}

// EnvironSnapshot captures the current process environment as a map, so
// substitution stays pure and testable.
func EnvironSnapshot() map[string]string {
	snapshot := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			snapshot[k] = v
		}
	}
	return snapshot
}

// MergeConfigs recursively merges overrides into base, returning a new map.
func MergeConfigs(base, overrides map[string]any) map[string]any {
	result := make(map[string]any, len(base)+len(overrides))
	for k, v := range base {
		result[k] = v
	}
	for k, v := range overrides {
		baseChild, baseOK := result[k].(map[string]any)
		overrideChild, overrideOK := v.(map[string]any)
		if baseOK && overrideOK {
			result[k] = MergeConfigs(baseChild, overrideChild)
			continue
		}
		result[k] = v
	}
	return result
}

func loadProfileRecursive(name, configDir string, seen map[string]bool) (map[string]any, error) {
	if seen[name] {
		return nil, fmt.Errorf("circular profile inheritance detected for %q", name)
	}

	path, err := resolveProfilePath(name, configDir)
	if err != nil {
		return nil, err
	}
	data, err := loadStructuredFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile %q: %w", name, err)
	}

	parents, err := normalizeInherits(data["inherits"])
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", name, err)
	}
	delete(data, "inherits")

	nextSeen := make(map[string]bool, len(seen)+1)
	for k := range seen {
		nextSeen[k] = true
	}
	nextSeen[name] = true

	base := map[string]any{}
	for _, parent := range parents {
		parentCfg, err := loadProfileRecursive(parent, configDir, nextSeen)
		if err != nil {
			return nil, err
		}
		base = MergeConfigs(base, parentCfg)
	}

	return MergeConfigs(base, data), nil
}

func resolveProfilePath(name, configDir string) (string, error) {
	for _, suffix := range []string{".yaml", ".yml", ".json"} {
		candidate := filepath.Join(configDir, name+suffix)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("configuration profile %q not found in %s", name, configDir)
}

func loadStructuredFile(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	data := map[string]any{}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("invalid json: %w", err)
		}
		return data, nil
	}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	return normalizeKeys(data).(map[string]any), nil
}

// normalizeKeys rewrites yaml's map[any]any nodes into map[string]any so the
// merge logic sees one map shape regardless of the source format.
func normalizeKeys(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = normalizeKeys(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[fmt.Sprintf("%v", k)] = normalizeKeys(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeKeys(item)
		}
		return out
	default:
		return v
	}
}

func normalizeInherits(value any) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []any:
		parents := make([]string, 0, len(v))
		for _, item := range v {
			parents = append(parents, fmt.Sprintf("%v", item))
		}
		return parents, nil
	case []string:
		return v, nil
	default:
		return nil, fmt.Errorf("'inherits' must be a string or a list of strings, got %T", value)
	}
}

func substituteEnv(value any, environ map[string]string) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = substituteEnv(item, environ)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = substituteEnv(item, environ)
		}
		return out
	case string:
		return envPattern.ReplaceAllStringFunc(v, func(match string) string {
			groups := envPattern.FindStringSubmatch(match)
			if val, ok := environ[groups[1]]; ok {
				return val
			}
			return groups[2]
		})
	default:
		return v
	}
}

// StringPath walks nested maps by dotted path and returns the string leaf,
// or fallback when any step is missing or not a string.
func StringPath(p Profile, path string, fallback string) string {
	current := any(p)
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return fallback
		}
		current, ok = m[part]
		if !ok {
			return fallback
		}
	}
	if s, ok := current.(string); ok {
		return s
	}
	return fallback
}
