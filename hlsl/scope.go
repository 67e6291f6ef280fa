// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

// DefaultBuiltinTypes are platform types recognized as type names without a
// declaration in the source.
var DefaultBuiltinTypes = []string{
	"RaytracingAccelerationStructure",
	"RayDesc",
	"BuiltInTriangleIntersectionAttributes",
}

// SymbolScope is one level of the parser's type-name scope stack. It only
// records which identifiers name types; it does not resolve them.
type SymbolScope struct {
	parent *SymbolScope
	name   string
	types  map[string]struct{}
}

// NewSymbolScope creates a scope nested in parent, which may be nil.
func NewSymbolScope(parent *SymbolScope, name string) *SymbolScope {
	return &SymbolScope{parent: parent, name: name}
}

// Parent returns the enclosing scope.
func (s *SymbolScope) Parent() *SymbolScope { return s.parent }

// Name returns the scope name; block scopes are unnamed.
func (s *SymbolScope) Name() string { return s.name }

// Add registers a type name, possibly qualified ("Ns::Type").
func (s *SymbolScope) Add(name string) {
	if s.types == nil {
		s.types = make(map[string]struct{})
	}
	s.types[name] = struct{}{}
}

// FindType reports whether name is a type in this scope or, when
// searchParents is set, in any enclosing scope.
func (s *SymbolScope) FindType(name string, searchParents bool) bool {
	for scope := s; scope != nil; scope = scope.parent {
		if _, ok := scope.types[name]; ok {
			return true
		}
		if !searchParents {
			break
		}
	}
	return false
}

// enterScope pushes a block scope and returns the function that pops it.
//
//	leave := p.enterScope()
//	defer leave()
func (p *Parser) enterScope() func() {
	prev := p.scope
	p.scope = NewSymbolScope(prev, "")
	return func() { p.scope = prev }
}
