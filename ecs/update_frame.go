package ecs

// UpdateFrame is passed to every System for one scheduler tick.
type UpdateFrame struct {
	DeltaTime float64
	Commands  *Commands
	Registry  *Registry
}

func newUpdateFrame(dt float64, registry *Registry) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Commands:  NewCommands(),
		Registry:  registry,
	}
}
