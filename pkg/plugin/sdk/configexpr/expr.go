package configexpr

import (
	"fmt"
	"strconv"
	"strings"
)

// Op is a version comparison operator used inside a Rel leaf.
type Op int

const (
	Lt Op = iota
	Le
	Eq
	Ne
	Ge
	Gt
)

func (op Op) String() string {
	switch op {
	case Lt:
		return "<"
	case Le:
		return "<="
	case Eq:
		return "=="
	case Ne:
		return "!="
	case Ge:
		return ">="
	case Gt:
		return ">"
	default:
		return fmt.Sprintf("Op(%d)", int(op))
	}
}

type kind int

const (
	kindExists kind = iota
	kindRel
	kindNot
	kindAnd
	kindOr
	kindComma
)

// Expr is an immutable configuration-expression tree node. Build one with
// Exists, Rel, or Resource's convenience methods, and combine trees with
// And, Or, Not, and Comma.
type Expr struct {
	kind     kind
	resource string
	op       Op
	version  string
	left     *Expr
	right    *Expr
}

// Resource names a configuration resource and offers named constructors
// for the expression leaves that reference it, replacing the
// operator-overloaded builder of the original source.
type Resource string

// Exists builds a leaf that is true iff a provided configuration lists r.
func Exists(resource string) *Expr {
	return &Expr{kind: kindExists, resource: resource}
}

// Rel builds a version-relation leaf: resource, compared with op, against
// version.
func Rel(resource string, op Op, version string) *Expr {
	return &Expr{kind: kindRel, resource: resource, op: op, version: version}
}

// Exists is Resource's named-constructor form of the Exists leaf.
func (r Resource) Exists() *Expr { return Exists(string(r)) }

// VersionLt builds resource < version.
func (r Resource) VersionLt(version string) *Expr { return Rel(string(r), Lt, version) }

// VersionLe builds resource <= version.
func (r Resource) VersionLe(version string) *Expr { return Rel(string(r), Le, version) }

// VersionEq builds resource == version.
func (r Resource) VersionEq(version string) *Expr { return Rel(string(r), Eq, version) }

// VersionNe builds resource != version.
func (r Resource) VersionNe(version string) *Expr { return Rel(string(r), Ne, version) }

// VersionGe builds resource >= version.
func (r Resource) VersionGe(version string) *Expr { return Rel(string(r), Ge, version) }

// VersionGt builds resource > version.
func (r Resource) VersionGt(version string) *Expr { return Rel(string(r), Gt, version) }

// Not negates e.
func (e *Expr) Not() *Expr { return &Expr{kind: kindNot, left: e} }

// And conjoins e with other.
func (e *Expr) And(other *Expr) *Expr { return &Expr{kind: kindAnd, left: e, right: other} }

// Or disjoins e with other.
func (e *Expr) Or(other *Expr) *Expr { return &Expr{kind: kindOr, left: e, right: other} }

// Comma joins e with other the way the provided side of a satisfies call
// is built: a flat conjunction of leaves.
func (e *Expr) Comma(other *Expr) *Expr { return &Expr{kind: kindComma, left: e, right: other} }

// CompareFunc compares two version strings for the named resource,
// returning a negative number, zero, or a positive number the way a
// three-way comparator does. Pass nil to Satisfies to use DefaultCompare.
type CompareFunc func(resource, a, b string) int

// DefaultCompare splits on '.' and compares numeric segments left to
// right; a shorter segment list that shares the longer one's prefix
// compares as less ("4.7" < "4.7.0"). It has no notion of semantic
// versioning normalization — callers wanting that must supply their own
// CompareFunc.
func DefaultCompare(_ string, a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")

	n := len(as)
	if len(bs) < n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		if c := compareSegment(as[i], bs[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	default:
		return 0
	}
}

func compareSegment(a, b string) int {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

// Satisfies evaluates required by recursing on required's own structure,
// consulting p (the "provided" expression) at each leaf. p must be a
// Comma-tree of Exists and Rel(_, Eq, _) leaves only — any other shape
// encountered while searching p is a programmer error and panics, per
// this type's documented precondition.
func (p *Expr) Satisfies(required *Expr, cmp CompareFunc) bool {
	if cmp == nil {
		cmp = DefaultCompare
	}

	switch required.kind {
	case kindNot:
		return !p.Satisfies(required.left, cmp)
	case kindAnd, kindComma:
		return p.Satisfies(required.left, cmp) && p.Satisfies(required.right, cmp)
	case kindOr:
		return p.Satisfies(required.left, cmp) || p.Satisfies(required.right, cmp)
	case kindExists:
		return p.lookupExists(required.resource)
	case kindRel:
		version, hasVersion := p.lookupVersion(required.resource)
		if !hasVersion {
			// No Rel(resource, Eq, _) leaf in p: either the resource is
			// wholly absent, or p only Exists-asserts it without a version.
			return false
		}
		return satisfiesOp(cmp(required.resource, version, required.version), required.op)
	default:
		panic(fmt.Sprintf("configexpr: required expression has unsupported kind %d", required.kind))
	}
}

// lookupExists reports whether p contains an Exists(resource) leaf. It
// walks independently of lookupVersion: an Exists leaf and a
// Rel(resource, Eq, _) leaf for the same resource can both appear under a
// Comma tree (a provider can assert both that a resource exists and what
// version it is), so kindExists and kindRel in Satisfies must not share a
// single first-match search between them.
func (p *Expr) lookupExists(resource string) bool {
	switch p.kind {
	case kindComma:
		return p.left.lookupExists(resource) || p.right.lookupExists(resource)
	case kindExists:
		return p.resource == resource
	case kindRel:
		return false
	default:
		panic(fmt.Sprintf("configexpr: provided expression has invalid shape (kind %d); the provided side must consist only of Exists and Rel(_, Eq, _) leaves joined by Comma", p.kind))
	}
}

// lookupVersion searches p for a Rel(resource, Eq, _) leaf. hasVersion
// reports whether one was found; version is only meaningful when
// hasVersion is true. See lookupExists for why this is a separate walk.
func (p *Expr) lookupVersion(resource string) (version string, hasVersion bool) {
	switch p.kind {
	case kindComma:
		if v, hv := p.left.lookupVersion(resource); hv {
			return v, hv
		}
		return p.right.lookupVersion(resource)
	case kindExists:
		return "", false
	case kindRel:
		if p.resource != resource {
			return "", false
		}
		if p.op != Eq {
			panic(fmt.Sprintf("configexpr: provided expression contains Rel(%s, %s, ...); provided leaves must use Eq", p.resource, p.op))
		}
		return p.version, true
	default:
		panic(fmt.Sprintf("configexpr: provided expression has invalid shape (kind %d); the provided side must consist only of Exists and Rel(_, Eq, _) leaves joined by Comma", p.kind))
	}
}

func satisfiesOp(c int, op Op) bool {
	switch op {
	case Lt:
		return c < 0
	case Le:
		return c <= 0
	case Eq:
		return c == 0
	case Ne:
		return c != 0
	case Ge:
		return c >= 0
	case Gt:
		return c > 0
	default:
		panic(fmt.Sprintf("configexpr: unknown operator %d", int(op)))
	}
}
