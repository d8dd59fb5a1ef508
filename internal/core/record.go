package core

// State describes the persistence state of a record.
type State string

const (
	// None means the record in memory matches the database row.
	None State = "none"
	// Added means the record is new and has no database row yet.
	Added State = "added"
	// Modified means the record diverged from its database row.
	Modified State = "modified"
	// Deleted means the record is marked for deletion.
	Deleted State = "deleted"
)

// StatefulRecord is a record tracking its own persistence state.
type StatefulRecord interface {
	State() State

	// Save persists the record according to its state.
	Save() error
	Insert() error
	Update() error
	Delete() error
}
