// Package ports defines the interfaces the binding layer depends on.
// Adapters in application/ and infrastructure/ implement them.
package ports
