// Package entities provides the core domain types shared by the binding
// layer: call results, structured errors, run metadata and manifests.
// These types double as the JSON wire format seen by scripting hosts.
package entities
