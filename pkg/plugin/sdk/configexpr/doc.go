// Package configexpr implements a small, immutable expression tree for
// describing configuration resources and version relations, and a
// satisfies predicate that checks one expression (a "provided"
// configuration) against another (a "required" configuration).
//
// The underlying grammar comes from an operator-overloaded C++ API
// (comma, &&, ||, !, <, <=, ==, ...); this package exposes the same tree
// shape through an explicit builder of named constructors instead.
package configexpr
