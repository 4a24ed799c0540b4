package model

// All lista os modelos na ordem de criação, usada pelo AutoMigrate do SQLite.
func All() []interface{} {
	return []interface{}{
		&Project{},
		&Phase{},
		&House{},
		&Service{},
		&Activation{},
		&ServiceState{},
		&Launch{},
		&AuditEntry{},
		&User{},
		&PlannedQuantity{},
	}
}
