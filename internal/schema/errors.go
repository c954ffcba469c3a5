package schema

import "fmt"

// NotFoundError means no table resolves from the requested model name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("model '%s' not found", e.Name)
}

// AbstractModelError means the name resolves to a relation that cannot hold
// rows of its own, such as a view.
type AbstractModelError struct {
	Name     string
	Relation string
}

func (e *AbstractModelError) Error() string {
	return fmt.Sprintf("model '%s' is abstract (%s is a view) and cannot be seeded directly", e.Name, e.Relation)
}

// MissingParentDataError means a required parent table has no rows to point at.
type MissingParentDataError struct {
	Model        string
	RelatedModel string
	RelatedTable string
}

func (e *MissingParentDataError) Error() string {
	return fmt.Sprintf("cannot seed %s because it requires %s records, but none exist in %s",
		e.Model, e.RelatedModel, e.RelatedTable)
}
