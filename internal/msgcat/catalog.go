package msgcat

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/template"

	yaml "gopkg.in/yaml.v3"
)

//go:embed messages.en.yaml messages.ko.yaml
var defaultFiles embed.FS

// Catalog loads per-locale string templates from embedded defaults and an
// optional override directory. Values are rendered with text/template
// (missing keys cause errors).
type Catalog struct {
	mu   sync.RWMutex
	data map[string]map[string]string // locale → flattened dot-keys → template text
}

// New loads the embedded default messages and then applies overrides from dir
// if provided. Override files are named messages.<locale>.yaml.
func New(overrideDir string) (*Catalog, error) {
	c := &Catalog{data: make(map[string]map[string]string)}

	for _, name := range []string{"messages.en.yaml", "messages.ko.yaml"} {
		raw, err := fs.ReadFile(defaultFiles, name)
		if err != nil {
			return nil, fmt.Errorf("read embedded messages: %w", err)
		}
		if err := c.applyYAML(localeFromName(name), raw); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(overrideDir) != "" {
		if err := c.applyDir(overrideDir); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func localeFromName(name string) string {
	parts := strings.Split(filepath.Base(name), ".")
	if len(parts) != 3 {
		return "en"
	}
	return parts[1]
}

func (c *Catalog) applyDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read template dir: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		n := e.Name()
		ext := strings.ToLower(filepath.Ext(n))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, n)
		}
	}
	sort.Strings(files)
	for _, name := range files {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if err := c.applyYAML(localeFromName(name), b); err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
	}
	return nil
}

func (c *Catalog) applyYAML(locale string, b []byte) error {
	var m map[string]any
	if err := yaml.Unmarshal(b, &m); err != nil {
		return err
	}
	flat := make(map[string]string)
	if err := flattenStrings(m, "", flat); err != nil {
		return err
	}
	c.mu.Lock()
	if c.data[locale] == nil {
		c.data[locale] = make(map[string]string)
	}
	for k, v := range flat {
		c.data[locale][k] = v // override
	}
	c.mu.Unlock()
	return nil
}

func flattenStrings(src any, prefix string, out map[string]string) error {
	switch v := src.(type) {
	case map[string]any:
		for k, vv := range v {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			if err := flattenStrings(vv, key, out); err != nil {
				return err
			}
		}
		return nil
	case string:
		if prefix == "" {
			return errors.New("string value without key prefix")
		}
		out[prefix] = v
		return nil
	case nil:
		return nil
	default:
		// Only string leaves are allowed to avoid type confusion
		return fmt.Errorf("unsupported value at %s: %T", prefix, v)
	}
}

// Has reports whether the key exists for the locale (without the en fallback).
func (c *Catalog) Has(locale, key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.data[strings.TrimSpace(locale)]
	if !ok {
		return false
	}
	_, ok = m[strings.TrimSpace(key)]
	return ok
}

// Render executes a template by locale and key with the provided data map.
// Unknown locales fall back to "en"; missing keys cause errors.
func (c *Catalog) Render(locale, key string, data any) (string, error) {
	c.mu.RLock()
	m, ok := c.data[strings.TrimSpace(locale)]
	if !ok {
		m = c.data["en"]
	}
	tpl, ok := m[strings.TrimSpace(key)]
	if !ok || strings.TrimSpace(tpl) == "" {
		tpl, ok = c.data["en"][strings.TrimSpace(key)]
	}
	c.mu.RUnlock()
	if !ok || strings.TrimSpace(tpl) == "" {
		return "", fmt.Errorf("template not found: %s", key)
	}
	t, err := template.New(key).Option("missingkey=error").Parse(tpl)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
