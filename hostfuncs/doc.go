// Package hostfuncs holds the named byte handlers that hosts dispatch calls
// to. Handlers speak JSON in and JSON out and carry no runtime dependency, so
// the wazero adapter, the CLI and the tests all drive the same registry.
package hostfuncs
