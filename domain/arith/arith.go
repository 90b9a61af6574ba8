// Package arith holds the integer helpers exposed to scripting hosts.
package arith

// Add returns a + b.
func Add(a, b int) int {
	return a + b
}
