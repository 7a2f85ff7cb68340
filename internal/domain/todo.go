package domain

// Todo is a single todo row. Values are copied, never shared, between the
// store, the mutation bus and rendering.
type Todo struct {
	ID          int64
	Description string
	Completed   bool
}
