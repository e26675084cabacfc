// Package guard decides which classes an untrusted save stream may
// instantiate and enforces resource ceilings on a single load.
package guard

import (
	"fmt"
	"math"
	"strings"
)

// Decision is the outcome of checking one class name.
type Decision int

const (
	Undecided Decision = iota
	Allowed
	Rejected
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "ALLOWED"
	case Rejected:
		return "REJECTED"
	default:
		return "UNDECIDED"
	}
}

// DefaultPrefixes are the trusted namespaces: the game's own types plus the
// runtime built-ins a save file legitimately references.
var DefaultPrefixes = []string{
	"br.brasfoot.",
	"e.",
	"java.lang.",
	"java.util.",
	"java.time.",
	"java.awt.",
}

var primitiveNames = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true, "void": true,
}

// Limits bounds a single load.
type Limits struct {
	MaxDepth int
	MaxRefs  int
	MaxBytes int64
}

// DefaultLimits returns maxdepth=20, maxrefs=50000, maxbytes=5 MiB.
func DefaultLimits() Limits {
	return Limits{
		MaxDepth: 20,
		MaxRefs:  50000,
		MaxBytes: 5 * 1024 * 1024,
	}
}

// Guard is immutable after construction and safe for concurrent use.
type Guard struct {
	prefixes []string
	limits   Limits
}

// New creates a Guard. A nil prefix list means DefaultPrefixes.
func New(prefixes []string, limits Limits) *Guard {
	if prefixes == nil {
		prefixes = DefaultPrefixes
	}
	p := make([]string, len(prefixes))
	copy(p, prefixes)
	return &Guard{prefixes: p, limits: limits}
}

// Default returns a Guard with the default prefixes and limits.
func Default() *Guard {
	return New(nil, DefaultLimits())
}

// Limits returns the ceilings this guard enforces.
func (g *Guard) Limits() Limits {
	return g.limits
}

// Decide classifies a class name. An empty name is a limits-only checkpoint
// and returns Undecided.
func (g *Guard) Decide(name string) Decision {
	if name == "" {
		return Undecided
	}
	if primitiveNames[name] || strings.HasPrefix(name, "[") {
		return Allowed
	}
	for _, p := range g.prefixes {
		if strings.HasPrefix(name, p) {
			return Allowed
		}
	}
	return Rejected
}

// Check returns a *BlockedClassError when name is rejected.
func (g *Guard) Check(name string) error {
	if g.Decide(name) == Rejected {
		return &BlockedClassError{Class: name}
	}
	return nil
}

// CheckDepth returns a *ResourceExceededError when depth is over the limit.
func (g *Guard) CheckDepth(depth int) error {
	if g.limits.MaxDepth > 0 && depth > g.limits.MaxDepth {
		return &ResourceExceededError{Limit: "maxdepth", Value: int64(depth), Max: int64(g.limits.MaxDepth)}
	}
	return nil
}

// CheckRefs returns a *ResourceExceededError when refs is over the limit.
func (g *Guard) CheckRefs(refs int) error {
	if g.limits.MaxRefs > 0 && refs > g.limits.MaxRefs {
		return &ResourceExceededError{Limit: "maxrefs", Value: int64(refs), Max: int64(g.limits.MaxRefs)}
	}
	return nil
}

// CheckBytes returns a *ResourceExceededError when n is over the limit.
func (g *Guard) CheckBytes(n int64) error {
	if g.limits.MaxBytes > 0 && n > g.limits.MaxBytes {
		return &ResourceExceededError{Limit: "maxbytes", Value: n, Max: g.limits.MaxBytes}
	}
	return nil
}

// CheckRead returns a *ResourceExceededError when n more bytes after read
// would pass the limit. n is a declared length and may be anything up to
// math.MaxInt64; the comparison never forms read+n.
func (g *Guard) CheckRead(read, n int64) error {
	if g.limits.MaxBytes <= 0 || n <= g.limits.MaxBytes-read {
		return nil
	}
	total := int64(math.MaxInt64)
	if n <= math.MaxInt64-read {
		total = read + n
	}
	return &ResourceExceededError{Limit: "maxbytes", Value: total, Max: g.limits.MaxBytes}
}

// BlockedClassError reports the class that stopped a load.
type BlockedClassError struct {
	Class string
}

func (e *BlockedClassError) Error() string {
	return fmt.Sprintf("class %q is not allowed", e.Class)
}

// ResourceExceededError reports which ceiling a load hit.
type ResourceExceededError struct {
	Limit string
	Value int64
	Max   int64
}

func (e *ResourceExceededError) Error() string {
	return fmt.Sprintf("%s exceeded: %d > %d", e.Limit, e.Value, e.Max)
}
