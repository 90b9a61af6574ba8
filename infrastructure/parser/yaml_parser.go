// Package parser reads batch call files and renders documents as YAML.
package parser

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/reglet-dev/labelbind/domain/entities"
	"github.com/reglet-dev/labelbind/domain/errors"
	"github.com/reglet-dev/labelbind/domain/ports"
	"gopkg.in/yaml.v3"
)

// YamlCallParser implements ports.CallParser for YAML batch files.
//
// A batch is either a sequence of calls or a mapping with a "calls" key:
//
//	calls:
//	  - name: printer.new
//	    args: {prefix: pybind example}
//	  - name: printer.print_int
//	    args: {handle: 1, value: 3}
type YamlCallParser struct{}

// NewYamlCallParser creates a new YamlCallParser.
func NewYamlCallParser() ports.CallParser {
	return &YamlCallParser{}
}

type batchCall struct {
	Args map[string]any `yaml:"args"`
	Name string         `yaml:"name"`
}

type batchFile struct {
	Calls []batchCall `yaml:"calls"`
}

// Parse decodes a batch file into wire calls. Every call needs a name;
// missing args become an empty JSON object.
func (p *YamlCallParser) Parse(data []byte) ([]entities.CallWire, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &errors.WireFormatError{Err: err, Operation: "decode", Type: "batch"}
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	var calls []batchCall
	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&calls); err != nil {
			return nil, &errors.WireFormatError{Err: err, Operation: "decode", Type: "batch"}
		}
	case yaml.MappingNode:
		var file batchFile
		if err := root.Decode(&file); err != nil {
			return nil, &errors.WireFormatError{Err: err, Operation: "decode", Type: "batch"}
		}
		calls = file.Calls
	default:
		return nil, &errors.WireFormatError{
			Err:       fmt.Errorf("line %d: expected a sequence or a mapping", root.Line),
			Operation: "decode",
			Type:      "batch",
		}
	}

	out := make([]entities.CallWire, 0, len(calls))
	for i, c := range calls {
		if c.Name == "" {
			return nil, &errors.ValidationError{Field: fmt.Sprintf("calls[%d].name", i), Err: fmt.Errorf("is required")}
		}
		args := c.Args
		if args == nil {
			args = map[string]any{}
		}
		raw, err := json.Marshal(args)
		if err != nil {
			return nil, &errors.WireFormatError{Err: err, Operation: "encode", Type: c.Name}
		}
		out = append(out, entities.CallWire{Name: c.Name, Args: raw})
	}
	return out, nil
}

// MarshalYAML renders v as block-style YAML, keeping the field order of its
// JSON encoding.
func MarshalYAML(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, &errors.WireFormatError{Err: err, Operation: "encode", Type: fmt.Sprintf("%T", v)}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &errors.WireFormatError{Err: err, Operation: "decode", Type: "json"}
	}
	clearStyle(&doc)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, &errors.WireFormatError{Err: err, Operation: "encode", Type: "yaml"}
	}
	if err := enc.Close(); err != nil {
		return nil, &errors.WireFormatError{Err: err, Operation: "encode", Type: "yaml"}
	}
	return buf.Bytes(), nil
}

func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}
