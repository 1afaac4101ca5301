package scene

import (
	"errors"
	"fmt"
)

var (
	// ErrPrecondition marks a wiring mistake by the caller: a component used
	// before it is attached, a required sibling component missing, and so on.
	ErrPrecondition = errors.New("precondition failed")
	// ErrNotFound marks a failed lookup by name or index.
	ErrNotFound = errors.New("not found")
)

var (
	ErrNilComponent    = fmt.Errorf("%w: nil component", ErrPrecondition)
	ErrAttached        = fmt.Errorf("%w: component attached to another game object", ErrPrecondition)
	ErrNoOwner         = fmt.Errorf("%w: component has no owning game object", ErrPrecondition)
	ErrNoCollisionSkin = fmt.Errorf("%w: collider has no collision skin", ErrPrecondition)
	ErrNoPrimitives    = fmt.Errorf("%w: collider has no primitives", ErrPrecondition)
	ErrColliderEnabled = fmt.Errorf("%w: collider already enabled", ErrPrecondition)
	ErrInvalidMass     = fmt.Errorf("%w: collider mass must be positive", ErrPrecondition)
	ErrMissingCamera   = fmt.Errorf("%w: no camera component", ErrPrecondition)
	ErrMissingCollider = fmt.Errorf("%w: no collider component", ErrPrecondition)
	ErrMissingRenderer = fmt.Errorf("%w: no renderer component", ErrPrecondition)
	ErrMissingMesh     = fmt.Errorf("%w: renderer has no mesh", ErrPrecondition)
	ErrNoActiveScene   = fmt.Errorf("%w: no active scene", ErrPrecondition)

	ErrSceneNotFound  = fmt.Errorf("scene %w", ErrNotFound)
	ErrSceneIndex     = fmt.Errorf("scene index %w", ErrNotFound)
	ErrCameraNotFound = fmt.Errorf("camera %w", ErrNotFound)
)
