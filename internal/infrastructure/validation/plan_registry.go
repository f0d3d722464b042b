package validation

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/zowe/imperative-go/internal/domain/validation"
)

// PlanFactory builds a validation plan.
type PlanFactory func(ctx context.Context) (*validation.Plan, error)

// PlanRegistry resolves a type's validationPlanModule to a plan. Modules are
// either registered by name or, when they end in .yaml or .yml, read as a
// declarative plan file relative to the registry's base directory.
type PlanRegistry struct {
	mu        sync.RWMutex
	factories map[string]PlanFactory
	baseDir   string
	logger    *slog.Logger
}

// NewPlanRegistry creates a registry resolving plan files against baseDir.
func NewPlanRegistry(baseDir string, logger *slog.Logger) *PlanRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlanRegistry{
		factories: make(map[string]PlanFactory),
		baseDir:   baseDir,
		logger:    logger,
	}
}

// Register adds a named plan, replacing any previous one.
func (r *PlanRegistry) Register(module string, factory PlanFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[module] = factory
}

// RegisterDeclarative parses a declarative plan and registers it by name.
func (r *PlanRegistry) RegisterDeclarative(module string, data []byte) error {
	plan, err := ParsePlan(data)
	if err != nil {
		return fmt.Errorf("plan %q: %w", module, err)
	}
	r.Register(module, func(context.Context) (*validation.Plan, error) {
		return plan, nil
	})
	return nil
}

// Modules returns the registered module names.
func (r *PlanRegistry) Modules() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for m := range r.factories {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Plan returns the plan for module.
func (r *PlanRegistry) Plan(ctx context.Context, module string) (*validation.Plan, error) {
	r.mu.RLock()
	factory, ok := r.factories[module]
	r.mu.RUnlock()
	if ok {
		return factory(ctx)
	}

	switch strings.ToLower(filepath.Ext(module)) {
	case ".yaml", ".yml":
		path := module
		if !filepath.IsAbs(path) {
			path = filepath.Join(r.baseDir, path)
		}
		r.logger.Debug("loading declarative validation plan", "path", path)
		return LoadPlanFile(path)
	}
	return nil, fmt.Errorf("no validation plan is registered for module %q", module)
}
