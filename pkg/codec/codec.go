// Package codec converts the dream collection to and from its persisted blob.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aretw0/dreamlog/pkg/core"
	"gopkg.in/yaml.v3"
)

// Default returns the codec used when none is configured.
func Default() core.Codec {
	return JSON{}
}

// Registry returns the built-in codecs keyed by name.
func Registry() map[string]core.Codec {
	return map[string]core.Codec{
		JSON{}.Name(): JSON{},
		YAML{}.Name(): YAML{},
	}
}

// Lookup returns the codec registered under name (case-insensitive).
func Lookup(name string) (core.Codec, error) {
	if name == "" {
		return Default(), nil
	}
	c, ok := Registry()[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown codec %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return c, nil
}

// Names lists the registered codec names in sorted order.
func Names() []string {
	var names []string
	for name := range Registry() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// --- JSON ---

// JSON stores the collection as a compact JSON array.
type JSON struct {
	// Indent pretty-prints the output when set.
	Indent bool
}

func (JSON) Name() string { return "json" }

func (c JSON) Encode(dreams []core.Dream) ([]byte, error) {
	if dreams == nil {
		dreams = []core.Dream{}
	}
	if c.Indent {
		return json.MarshalIndent(dreams, "", "  ")
	}
	return json.Marshal(dreams)
}

// Decode rejects anything after the array.
func (JSON) Decode(data []byte) ([]core.Dream, error) {
	var dreams []core.Dream
	if err := json.Unmarshal(data, &dreams); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	return dreams, nil
}

// --- YAML ---

// YAML stores the collection as a YAML sequence with the same field names as JSON.
type YAML struct{}

func (YAML) Name() string { return "yaml" }

func (YAML) Encode(dreams []core.Dream) ([]byte, error) {
	if dreams == nil {
		dreams = []core.Dream{}
	}
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(dreams); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode accepts exactly one YAML document.
func (YAML) Decode(data []byte) ([]core.Dream, error) {
	var dreams []core.Dream
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&dreams); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	var extra yaml.Node
	if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected extra document")
		}
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	return dreams, nil
}
