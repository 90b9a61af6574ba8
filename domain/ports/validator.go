package ports

// ArgumentValidator validates decoded call arguments.
type ArgumentValidator interface {
	// Validate checks v (a pointer to a struct) against its validation tags.
	Validate(v any) error
}
