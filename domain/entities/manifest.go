package entities

import (
	"encoding/json"
	"sort"
)

// Manifest describes everything a plugin exposes to a host.
type Manifest struct {
	Services     map[string]ServiceManifest `json:"services" yaml:"services"`
	ConfigSchema json.RawMessage            `json:"config_schema,omitempty" yaml:"-"`
	Name         string                     `json:"name" yaml:"name"`
	Version      string                     `json:"version" yaml:"version"`
	Description  string                     `json:"description,omitempty" yaml:"description,omitempty"`
}

// ServiceManifest describes one bound service (a class or function group).
type ServiceManifest struct {
	Name        string              `json:"name" yaml:"name"`
	Description string              `json:"description,omitempty" yaml:"description,omitempty"`
	Operations  []OperationManifest `json:"operations" yaml:"operations"`
}

// OperationManifest describes one callable operation of a service.
type OperationManifest struct {
	InputSchema json.RawMessage `json:"input_schema,omitempty" yaml:"-"`
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
}

// QualifiedName joins a service and operation name the way hosts address
// them ("printer.print_int").
func QualifiedName(service, op string) string {
	return service + "." + op
}

// OperationNames returns all qualified operation names in the manifest,
// sorted.
func (m *Manifest) OperationNames() []string {
	var names []string
	for _, svc := range m.Services {
		for _, op := range svc.Operations {
			names = append(names, QualifiedName(svc.Name, op.Name))
		}
	}
	sort.Strings(names)
	return names
}
