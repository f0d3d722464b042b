// Package memory provides in-memory implementations of the profile store.
package memory

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	apperrors "github.com/zowe/imperative-go/internal/application/errors"
	"github.com/zowe/imperative-go/internal/application/ports"
	"github.com/zowe/imperative-go/internal/domain/entities"
	"github.com/zowe/imperative-go/internal/domain/services"
)

// Ensure interface compliance
var _ ports.ProfileIO = (*ProfileIO)(nil)

// ProfileIO is an in-memory profile store keyed by path.
// Useful for testing and ephemeral storage. Documents are copied on the way
// in and out so callers never share state with the store.
type ProfileIO struct {
	profiles map[string]entities.Profile
	metas    map[string]*entities.MetaProfile
	dirs     map[string]bool
	mu       sync.RWMutex
}

// NewProfileIO creates a new in-memory profile store.
func NewProfileIO() *ProfileIO {
	return &ProfileIO{
		profiles: make(map[string]entities.Profile),
		metas:    make(map[string]*entities.MetaProfile),
		dirs:     make(map[string]bool),
	}
}

// FileExtension returns ".yaml" so paths match the filesystem store.
func (p *ProfileIO) FileExtension() string {
	return ".yaml"
}

// Exists reports whether a profile or meta file is stored at path.
func (p *ProfileIO) Exists(path string) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, isProfile := p.profiles[path]
	_, isMeta := p.metas[path]
	return isProfile || isMeta, nil
}

// WriteProfile stores a copy of the document.
func (p *ProfileIO) WriteProfile(path string, profile entities.Profile) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.markDirs(filepath.Dir(path))
	p.profiles[path] = services.DeepCopyProfile(profile)
	return nil
}

// ReadProfileFile returns a copy of the stored document.
func (p *ProfileIO) ReadProfileFile(path, _ string) (entities.Profile, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	profile, ok := p.profiles[path]
	if !ok {
		return nil, apperrors.NewProfileIOError("read", path, os.ErrNotExist)
	}
	return services.DeepCopyProfile(profile), nil
}

// DeleteProfile removes a stored document.
func (p *ProfileIO) DeleteProfile(name, path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.profiles[path]; !ok {
		return apperrors.NewProfileIOError("delete", path, fmt.Errorf("profile %q: %w", name, os.ErrNotExist))
	}
	delete(p.profiles, path)
	return nil
}

// WriteMetaFile stores a copy of the meta record.
func (p *ProfileIO) WriteMetaFile(meta *entities.MetaProfile, path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.markDirs(filepath.Dir(path))
	cp := *meta
	p.metas[path] = &cp
	return nil
}

// ReadMetaFile returns a copy of the meta record.
func (p *ProfileIO) ReadMetaFile(path string) (*entities.MetaProfile, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	meta, ok := p.metas[path]
	if !ok {
		return nil, apperrors.NewProfileIOError("read", path, os.ErrNotExist)
	}
	cp := *meta
	return &cp, nil
}

// GetAllProfileDirectories lists the directories directly under root.
func (p *ProfileIO) GetAllProfileDirectories(root string) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []string
	for dir := range p.dirs {
		if filepath.Dir(dir) == filepath.Clean(root) {
			out = append(out, filepath.Base(dir))
		}
	}
	sort.Strings(out)
	return out, nil
}

// GetAllProfileNames lists the profiles stored in dir.
func (p *ProfileIO) GetAllProfileNames(dir, ext, metaName string) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var names []string
	for path := range p.profiles {
		if filepath.Dir(path) != filepath.Clean(dir) || !strings.HasSuffix(path, ext) {
			continue
		}
		name := strings.TrimSuffix(filepath.Base(path), ext)
		if name != metaName {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// CreateProfileDirs records the directory tree for path.
func (p *ProfileIO) CreateProfileDirs(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.markDirs(path)
	return nil
}

// RawProfile returns the stored document without copying, for assertions
// on what was actually persisted.
func (p *ProfileIO) RawProfile(path string) (entities.Profile, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	profile, ok := p.profiles[path]
	return profile, ok
}

func (p *ProfileIO) markDirs(path string) {
	for dir := filepath.Clean(path); ; dir = filepath.Dir(dir) {
		p.dirs[dir] = true
		if parent := filepath.Dir(dir); parent == dir {
			return
		}
	}
}
