package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadSecrets reads every *.json, *.yaml and *.yml file in dir and flattens
// them into environment-style keys: {"database": {"url": "x"}} becomes
// DATABASE_URL=x. Files are applied in name order, later files win.
// A missing directory yields an empty map.
func LoadSecrets(dir string) (map[string]string, error) {
	values := make(map[string]string)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return values, nil
		}
		return values, fmt.Errorf("read secrets dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".yaml", ".yml":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return values, fmt.Errorf("read secret %s: %w", name, err)
		}

		// JSON documents are valid YAML, one decoder covers both.
		var doc map[string]interface{}
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return values, fmt.Errorf("parse secret %s: %w", name, err)
		}
		flatten("", doc, values)
	}

	return values, nil
}

func flatten(prefix string, in map[string]interface{}, out map[string]string) {
	for k, v := range in {
		key := strings.ToUpper(strings.ReplaceAll(k, "-", "_"))
		if prefix != "" {
			key = prefix + "_" + key
		}
		switch val := v.(type) {
		case map[string]interface{}:
			flatten(key, val, out)
		case nil:
			out[key] = ""
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}
