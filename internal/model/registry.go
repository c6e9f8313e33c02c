package model

// All lists every model for AutoMigrate, parents before children.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Simulation{},
		&Module{},
		&DecisionNode{},
		&NodeOption{},
		&Session{},
		&SessionDecision{},
		&GameEvent{},
		&Assignment{},
		&ApiKey{},
	}
}
