package interp

import (
	"fmt"

	"github.com/loxscript/glox/internal/loxerr"
	"github.com/loxscript/glox/internal/object"
)

// Environment is a lexical scope frame: a name-to-value map chained to an
// optional enclosing frame. Environments are shared by multiple holders
// (the active call chain and any closures that captured them) and are
// mutated in place through every reference, which a Go pointer to a
// struct holding a map satisfies directly.
type Environment struct {
	enclosing *Environment
	values    map[string]object.Value
}

// NewEnvironment constructs an empty environment, optionally chained to
// enclosing. A nil enclosing marks the global environment.
func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{enclosing: enclosing, values: make(map[string]object.Value)}
}

// Define unconditionally inserts name in this environment, shadowing any
// binding of the same name in an enclosing scope and overwriting any
// prior binding of the same name in this one (legal at runtime; the
// resolver statically forbids redeclaration within the same non-global
// scope).
func (e *Environment) Define(name string, v object.Value) {
	e.values[name] = v
}

// Get walks the enclosing chain outward for name.
func (e *Environment) Get(name string, line int) (object.Value, error) {
	for env := e; env != nil; env = env.enclosing {
		if v, ok := env.values[name]; ok {
			return v, nil
		}
	}
	return nil, &loxerr.RuntimeError{Line: line, Message: fmt.Sprintf("Undefined variable '%s'.", name)}
}

// Assign walks the enclosing chain outward for the nearest binding of
// name and updates it in place.
func (e *Environment) Assign(name string, v object.Value, line int) error {
	for env := e; env != nil; env = env.enclosing {
		if _, ok := env.values[name]; ok {
			env.values[name] = v
			return nil
		}
	}
	return &loxerr.RuntimeError{Line: line, Message: fmt.Sprintf("Undefined variable '%s'.", name)}
}

// GetAt jumps exactly distance steps outward and reads name directly from
// that environment's own map. Used whenever the resolver produced a hop
// count for the referencing expression; falls back to a global Get if,
// for any reason, the binding is absent at that depth.
func (e *Environment) GetAt(distance int, name string, line int) (object.Value, error) {
	env := e.ancestor(distance)
	if v, ok := env.values[name]; ok {
		return v, nil
	}
	return env.Get(name, line)
}

// AssignAt is GetAt's write counterpart.
func (e *Environment) AssignAt(distance int, name string, v object.Value, line int) error {
	env := e.ancestor(distance)
	if _, ok := env.values[name]; ok {
		env.values[name] = v
		return nil
	}
	return env.Assign(name, v, line)
}

func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.enclosing
	}
	return env
}
