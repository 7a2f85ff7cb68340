package domain

// Mutation kinds, also used as metric labels.
const (
	KindCreate = "create"
	KindUpdate = "update"
	KindDelete = "delete"
)

// Mutation is a committed write on the todos table. The set of
// implementations is closed: Created, Updated and Deleted.
type Mutation interface {
	Kind() string
	TodoID() int64

	mutation()
}

// Created carries the inserted row including its store-assigned id.
type Created struct {
	Todo Todo
}

// Updated carries the full row as read back after the update.
type Updated struct {
	Todo Todo
}

// Deleted carries only the id; nothing else survives the delete.
type Deleted struct {
	ID int64
}

func (Created) Kind() string { return KindCreate }
func (Updated) Kind() string { return KindUpdate }
func (Deleted) Kind() string { return KindDelete }

func (m Created) TodoID() int64 { return m.Todo.ID }
func (m Updated) TodoID() int64 { return m.Todo.ID }
func (m Deleted) TodoID() int64 { return m.ID }

func (Created) mutation() {}
func (Updated) mutation() {}
func (Deleted) mutation() {}
