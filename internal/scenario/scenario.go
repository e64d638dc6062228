// Package scenario persists named inputs as flat documents in YAML, JSON or
// TOML, chosen by file extension.
package scenario

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/rgehrsitz/nestegg/internal/config"
	"github.com/rgehrsitz/nestegg/internal/domain"
)

// TimestampLayout is the format of LastSaved.
const TimestampLayout = "2006-01-02 15:04:05"

// Format is a scenario document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

var (
	nowFunc = time.Now
	newID   = uuid.NewString
)

// Document is a saved scenario: identity fields plus every input field at
// the top level.
type Document struct {
	ID                string `yaml:"id" json:"id" toml:"id"`
	Name              string `yaml:"scenario_name" json:"scenario_name" toml:"scenario_name"`
	LastSaved         string `yaml:"last_saved" json:"last_saved" toml:"last_saved"`
	domain.InputModel `yaml:",inline"`
}

// New wraps a copy of input in a document with a fresh id.
func New(name string, input *domain.InputModel) *Document {
	doc := &Document{
		ID:        newID(),
		Name:      name,
		LastSaved: nowFunc().Format(TimestampLayout),
	}
	if input != nil {
		doc.InputModel = *input.DeepCopy()
	}
	return doc
}

// Input returns an independent copy of the document's input.
func (d *Document) Input() *domain.InputModel {
	return d.InputModel.DeepCopy()
}

// Touch stamps the document with the current time.
func (d *Document) Touch() {
	d.LastSaved = nowFunc().Format(TimestampLayout)
}

// FormatFor returns the encoding implied by filename's extension.
func FormatFor(filename string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported scenario extension %q (use .yaml, .json or .toml)", ext)
	}
}

// Marshal encodes doc in format.
func Marshal(doc *Document, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	case FormatTOML:
		return toml.Marshal(doc)
	default:
		return nil, fmt.Errorf("unsupported scenario format %q", format)
	}
}

// Unmarshal decodes a document. YAML and JSON documents in the legacy flat
// schema are converted and given a new id; the result is validated either way.
func Unmarshal(data []byte, format Format) (*Document, error) {
	var probe map[string]any
	if err := unmarshal(data, format, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}

	doc := &Document{}
	if format != FormatTOML && config.IsLegacy(probe) {
		input, err := config.ParseLegacy(data)
		if err != nil {
			return nil, err
		}
		doc.InputModel = *input
		doc.ID = newID()
		doc.Name, _ = probe["scenario_name"].(string)
		doc.LastSaved, _ = probe["last_saved"].(string)
	} else if err := unmarshal(data, format, doc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}

	if doc.ID == "" {
		doc.ID = newID()
	}
	if err := config.NewInputParser().ValidateInput(&doc.InputModel); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", doc.Name, err)
	}
	return doc, nil
}

func unmarshal(data []byte, format Format, v any) error {
	switch format {
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	case FormatJSON:
		return json.Unmarshal(data, v)
	case FormatTOML:
		repaired, err := repairTOMLLumpSums(data)
		if err != nil {
			return err
		}
		return toml.Unmarshal(repaired, v)
	default:
		return fmt.Errorf("unsupported scenario format %q", format)
	}
}

// repairTOMLLumpSums gives TOML documents the same tolerance LumpSumList has
// for YAML and JSON: a lump_sums list that is not an array becomes empty and
// entries that do not decode as a lump sum are dropped.
func repairTOMLLumpSums(data []byte) ([]byte, error) {
	var tree map[string]any
	if err := toml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	node, ok := tree["lump_sums"]
	if !ok {
		return data, nil
	}
	sums, ok := node.(map[string]any)
	if !ok {
		delete(tree, "lump_sums")
		return toml.Marshal(tree)
	}

	changed := false
	for _, key := range []string{"deposits", "withdrawals"} {
		raw, ok := sums[key]
		if !ok {
			continue
		}
		items, ok := raw.([]any)
		if !ok {
			sums[key] = []any{}
			changed = true
			continue
		}
		kept := make([]any, 0, len(items))
		for _, item := range items {
			if validTOMLLumpSum(item) {
				kept = append(kept, item)
			}
		}
		if len(kept) != len(items) {
			sums[key] = kept
			changed = true
		}
	}
	if !changed {
		return data, nil
	}
	return toml.Marshal(tree)
}

func validTOMLLumpSum(item any) bool {
	table, ok := item.(map[string]any)
	if !ok {
		return false
	}
	b, err := toml.Marshal(table)
	if err != nil {
		return false
	}
	var ls domain.LumpSum
	return toml.Unmarshal(b, &ls) == nil
}

// Save writes doc to path in the format implied by its extension.
func Save(path string, doc *Document) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := Marshal(doc, format)
	if err != nil {
		return fmt.Errorf("failed to encode scenario %q: %w", doc.Name, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Load reads a document from path.
func Load(path string) (*Document, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	doc, err := Unmarshal(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return doc, nil
}
