package ecs

import "github.com/rotisserie/eris"

// Precondition failures on the hot path panic with one of these errors wrapped
// by eris, so a recovering caller can still match them with errors.Is.
var (
	ErrStaleEntity           = eris.New("entity id is stale or was never issued")
	ErrComponentMissing      = eris.New("entity does not have component")
	ErrComponentExists       = eris.New("entity already has component")
	ErrUnregisteredComponent = eris.New("component type not registered")
	ErrInvalidComponentType  = eris.New("invalid component type")
	ErrTypeHashCollision     = eris.New("component type hash collision")
	ErrBadArchetypeRow       = eris.New("archetype row does not match its columns")
)
