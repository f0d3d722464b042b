package services

import (
	"fmt"
	"strings"

	"github.com/zowe/imperative-go/internal/domain/entities"
)

// CycleError reports a profile reached again while loading its own
// dependency chain.
type CycleError struct {
	Chain []entities.DependencyRef
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Chain))
	for i, ref := range e.Chain {
		parts[i] = ref.String()
	}
	return "circular profile dependency detected: " + strings.Join(parts, " -> ")
}

// VisitChain is the set of {type,name} pairs on the current load path.
// It is immutable: Enter returns a new chain, so sibling branches loaded
// concurrently never see each other's entries and a profile reached twice
// through different branches is not mistaken for a cycle.
type VisitChain struct {
	seen  map[entities.DependencyRef]bool
	order []entities.DependencyRef
}

// Enter returns the chain extended with ref, or a CycleError when ref is
// already on the chain.
func (c VisitChain) Enter(ref entities.DependencyRef) (VisitChain, error) {
	if c.seen[ref] {
		chain := make([]entities.DependencyRef, 0, len(c.order)+1)
		chain = append(chain, c.order...)
		chain = append(chain, ref)
		return c, &CycleError{Chain: chain}
	}
	next := VisitChain{
		seen:  make(map[entities.DependencyRef]bool, len(c.seen)+1),
		order: make([]entities.DependencyRef, 0, len(c.order)+1),
	}
	for k := range c.seen {
		next.seen[k] = true
	}
	next.seen[ref] = true
	next.order = append(next.order, c.order...)
	next.order = append(next.order, ref)
	return next, nil
}

// Depth returns the number of profiles on the chain.
func (c VisitChain) Depth() int {
	return len(c.order)
}

// DependencyResolver handles profile dependency graph operations
type DependencyResolver struct{}

// NewDependencyResolver creates a new dependency resolver service
func NewDependencyResolver() *DependencyResolver {
	return &DependencyResolver{}
}

// CheckDeclaredDependencies returns a problem description for every
// malformed dependency entry and every required dependency type the profile
// does not carry.
func (r *DependencyResolver) CheckDeclaredDependencies(
	cfg *entities.ProfileTypeConfiguration,
	profile entities.Profile,
) []string {
	var problems []string

	deps, err := profile.Dependencies()
	if err != nil {
		return []string{err.Error()}
	}

	present := make(map[string]bool, len(deps))
	for i, d := range deps {
		if strings.TrimSpace(d.Type) == "" {
			problems = append(problems, fmt.Sprintf("dependency %d is missing a type", i))
		}
		if strings.TrimSpace(d.Name) == "" {
			problems = append(problems, fmt.Sprintf("dependency %d is missing a name", i))
		}
		present[d.Type] = true
	}

	for _, required := range cfg.RequiredDependencyTypes() {
		if !present[required] {
			problems = append(problems, fmt.Sprintf("required dependency of type %q is missing", required))
		}
	}
	return problems
}

// FindDependents returns the loaded profiles that declare a required
// dependency on target. The configuration of each candidate's type decides
// whether the dependency is required.
func (r *DependencyResolver) FindDependents(
	all []*entities.Loaded,
	target entities.DependencyRef,
	configs entities.TypeConfigurations,
) []*entities.Loaded {
	var out []*entities.Loaded
	for _, l := range all {
		if !l.Found() {
			continue
		}
		cfg, ok := configs.Find(l.Type)
		if !ok {
			continue
		}
		decl, ok := cfg.DependencyFor(target.Type)
		if !ok || !decl.Required {
			continue
		}
		deps, err := l.Profile.Dependencies()
		if err != nil {
			continue
		}
		for _, d := range deps {
			if d == target {
				out = append(out, l)
				break
			}
		}
	}
	return out
}

// TypeCycles reports the dependency cycles among profile types. Type cycles
// are legal; only profile-level cycles are errors. Callers use this to warn.
func (r *DependencyResolver) TypeCycles(configs entities.TypeConfigurations) [][]string {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(configs))
	var cycles [][]string
	var stack []string

	var visit func(t string)
	visit = func(t string) {
		state[t] = visiting
		stack = append(stack, t)
		if cfg, ok := configs.Find(t); ok {
			for _, d := range cfg.Dependencies {
				switch state[d.Type] {
				case visiting:
					for i := len(stack) - 1; i >= 0; i-- {
						if stack[i] == d.Type {
							cycle := append(CopyStringSlice(stack[i:]), d.Type)
							cycles = append(cycles, cycle)
							break
						}
					}
				case unvisited:
					visit(d.Type)
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[t] = done
	}

	for _, t := range configs.Types() {
		if state[t] == unvisited {
			visit(t)
		}
	}
	return cycles
}
