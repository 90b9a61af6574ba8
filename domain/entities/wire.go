package entities

import "encoding/json"

// CallWire is the JSON wire format for one call addressed to a bound
// operation by its qualified name. Guests and batch files use it.
type CallWire struct {
	Args json.RawMessage `json:"args,omitempty"`
	Name string          `json:"name"`
}

// LogAttrWire represents a single log attribute sent from a guest.
type LogAttrWire struct {
	Key   string `json:"key"`
	Type  string `json:"type"`  // "string", "int64", "bool", "float64", "error", "json"
	Value string `json:"value"` // String representation of the value
}
