package ecs

// System represents a behavior that operates on entities with specific components.
// Systems usually hold their own QueryN values, built from the registry when the
// system is constructed, plus any state that persists between frames.
type System interface {
	Execute(frame *UpdateFrame)
}
