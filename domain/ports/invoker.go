package ports

import "context"

// Invoker dispatches a call to a named operation with a JSON payload and
// returns the JSON response.
type Invoker interface {
	// Invoke calls the operation registered under name.
	Invoke(ctx context.Context, name string, payload []byte) ([]byte, error)

	// Names returns the sorted names of all callable operations.
	Names() []string
}
