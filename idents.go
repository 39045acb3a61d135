package main

import "fmt"

// Namespace is one of the three independent identifier roles.
type Namespace int

const (
	NamespaceBinary Namespace = iota
	NamespaceStack
	NamespaceFunction
)

func (ns Namespace) String() string {
	switch ns {
	case NamespaceBinary:
		return "binary"
	case NamespaceStack:
		return "stack"
	case NamespaceFunction:
		return "function"
	default:
		return fmt.Sprintf("Namespace(%d)", int(ns))
	}
}

// Current is the implicit accumulator / default stack. It is valid as a
// binary and as a stack everywhere, and can never be declared.
const Current = "current"

// Roles records in which namespaces a name has been declared.
type Roles struct {
	Binary   bool
	Stack    bool
	Function bool
}

func (r Roles) has(ns Namespace) bool {
	switch ns {
	case NamespaceBinary:
		return r.Binary
	case NamespaceStack:
		return r.Stack
	case NamespaceFunction:
		return r.Function
	}
	return false
}

func (r *Roles) set(ns Namespace) {
	switch ns {
	case NamespaceBinary:
		r.Binary = true
	case NamespaceStack:
		r.Stack = true
	case NamespaceFunction:
		r.Function = true
	}
}

// Identifiers is the per-compilation identifier table. Names keep their
// first-declaration order, which fixes storage index allocation.
type Identifiers struct {
	roles map[string]*Roles
	order []string
}

// NewIdentifiers returns a table holding only the reserved name current.
func NewIdentifiers() *Identifiers {
	ids := &Identifiers{roles: make(map[string]*Roles)}
	ids.roles[Current] = &Roles{Binary: true, Stack: true}
	ids.order = append(ids.order, Current)
	return ids
}

// Declare registers name in namespace ns.
func (ids *Identifiers) Declare(name string, ns Namespace) error {
	if name == Current && ns == NamespaceFunction {
		return fmt.Errorf("name %s is reserved and cannot be used as a function", name)
	}
	roles, ok := ids.roles[name]
	if !ok {
		roles = &Roles{}
		ids.roles[name] = roles
		ids.order = append(ids.order, name)
	}
	if roles.has(ns) {
		return fmt.Errorf("cannot use name %s, it is already taken", name)
	}
	roles.set(ns)
	return nil
}

// Check fails unless name was declared in namespace ns.
func (ids *Identifiers) Check(name string, ns Namespace) error {
	if !ids.Has(name, ns) {
		return fmt.Errorf("name %s is not declared", name)
	}
	return nil
}

// Has reports whether name is usable in namespace ns.
func (ids *Identifiers) Has(name string, ns Namespace) bool {
	roles, ok := ids.roles[name]
	return ok && roles.has(ns)
}

// Lookup returns the roles of name.
func (ids *Identifiers) Lookup(name string) (Roles, bool) {
	roles, ok := ids.roles[name]
	if !ok {
		return Roles{}, false
	}
	return *roles, true
}

// Names returns every name in first-declaration order, current first.
func (ids *Identifiers) Names() []string {
	return append([]string(nil), ids.order...)
}

// Indices numbers every name declared in namespace ns, in declaration
// order, starting at 0. current never receives an index.
func (ids *Identifiers) Indices(ns Namespace) map[string]int {
	indices := make(map[string]int)
	for _, name := range ids.order {
		if name == Current {
			continue
		}
		if ids.roles[name].has(ns) {
			indices[name] = len(indices)
		}
	}
	return indices
}
