// Package templates holds the starter documents offered when creating a
// config, plus the random name and key generators used by the console.
package templates

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var rawTemplates []byte

type Template struct {
	Type        string          `json:"type"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	JSON        json.RawMessage `json:"json"`
}

type yamlTemplate struct {
	Type        string         `yaml:"type"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	JSON        map[string]any `yaml:"json"`
}

var (
	loadOnce sync.Once
	loaded   []Template
	loadErr  error
)

func load() ([]Template, error) {
	loadOnce.Do(func() {
		var raw []yamlTemplate
		if err := yaml.Unmarshal(rawTemplates, &raw); err != nil {
			loadErr = fmt.Errorf("failed to parse templates: %w", err)
			return
		}

		loaded = make([]Template, 0, len(raw))
		for _, t := range raw {
			body, err := json.Marshal(t.JSON)
			if err != nil {
				loadErr = fmt.Errorf("failed to encode template %s: %w", t.Type, err)
				return
			}
			loaded = append(loaded, Template{
				Type:        t.Type,
				Name:        t.Name,
				Description: t.Description,
				JSON:        body,
			})
		}
	})
	return loaded, loadErr
}

// All returns every template in catalogue order.
func All() ([]Template, error) {
	tmpls, err := load()
	if err != nil {
		return nil, err
	}
	out := make([]Template, len(tmpls))
	copy(out, tmpls)
	return out, nil
}

// Get returns the template with the given type.
func Get(templateType string) (Template, bool) {
	tmpls, err := load()
	if err != nil {
		return Template{}, false
	}
	for _, t := range tmpls {
		if t.Type == templateType {
			return t, true
		}
	}
	return Template{}, false
}
