package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/analyst-cli/internal/model"
)

// stringKeys are always stored as YAML strings, even when the value looks
// like a number or boolean.
var stringKeys = map[string]bool{
	"api_key":            true,
	"reports_dir":        true,
	"runtime.host":       true,
	"runtime.api_key":    true,
	"runtime.provider":   true,
	"anthropic.key":      true,
	"jina.key":           true,
	"firecrawl.base_url": true,
	"jina.base_url":      true,
	"log.level":          true,
	"log.format":         true,
}

// Set writes key=value into the YAML file at path, creating the file when it
// does not exist. Nested keys use dots ("runtime.host"). Other keys in the
// file are preserved.
func Set(path, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return eris.New("config: key is required")
	}
	if path == "" {
		path = DefaultFile
	}

	typed, err := parseValue(key, value)
	if err != nil {
		return err
	}

	doc, err := readDoc(path)
	if err != nil {
		return err
	}
	setPath(doc, strings.Split(key, "."), typed)

	return writeDoc(path, doc)
}

// Reset removes the config file at path. A missing file is not an error.
func Reset(path string) error {
	if path == "" {
		path = DefaultFile
	}
	if err := os.Remove(path); err != nil && !isNotExist(err) {
		return eris.Wrap(err, "config: remove file")
	}
	return nil
}

// ReadRaw returns the config file contents at path. ok is false when the file
// does not exist.
func ReadRaw(path string) (content string, ok bool, err error) {
	if path == "" {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if isNotExist(err) {
			return "", false, nil
		}
		return "", false, eris.Wrap(err, "config: read file")
	}
	return string(data), true, nil
}

func parseValue(key, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch {
	case key == "default_save_format":
		f, err := model.ParseFormat(value)
		if err != nil {
			return nil, eris.Wrap(err, "config: default_save_format")
		}
		return string(f), nil
	case stringKeys[key]:
		return value, nil
	}

	var v any
	if err := yaml.Unmarshal([]byte(value), &v); err != nil || v == nil {
		return value, nil
	}
	return v, nil
}

func readDoc(path string) (map[string]any, error) {
	doc := map[string]any{}
	data, err := os.ReadFile(path)
	if err != nil {
		if isNotExist(err) {
			return doc, nil
		}
		return nil, eris.Wrap(err, "config: read file")
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "config: parse file")
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

func setPath(doc map[string]any, parts []string, value any) {
	if len(parts) == 1 {
		doc[parts[0]] = value
		return
	}
	child, ok := doc[parts[0]].(map[string]any)
	if !ok {
		child = map[string]any{}
		doc[parts[0]] = child
	}
	setPath(child, parts[1:], value)
}

func writeDoc(path string, doc map[string]any) error {
	var buf bytes.Buffer
	buf.WriteString("# analyst-cli configuration\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return eris.Wrap(err, "config: encode file")
	}
	if err := enc.Close(); err != nil {
		return eris.Wrap(err, "config: encode file")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrap(err, "config: create dir")
		}
	}
	// The file holds an API key.
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return eris.Wrap(err, "config: write file")
	}
	return nil
}
