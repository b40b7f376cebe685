package models

// AllModels returns every persisted model. The schema itself is owned by the
// SQL migrations in the database package, which check it against this list.
func AllModels() []interface{} {
	return []interface{}{
		&Link{},
		&Click{},
	}
}
