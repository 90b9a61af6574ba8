package ports

import "github.com/reglet-dev/labelbind/domain/entities"

// CallParser parses a batch document into a list of calls.
type CallParser interface {
	// Parse decodes data into calls in document order.
	Parse(data []byte) ([]entities.CallWire, error)
}
