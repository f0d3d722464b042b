// Package filesystem stores profiles as YAML files on local disk.
package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"

	apperrors "github.com/zowe/imperative-go/internal/application/errors"
	"github.com/zowe/imperative-go/internal/application/ports"
	"github.com/zowe/imperative-go/internal/domain/entities"
)

// Extension of profile and meta files.
const Extension = ".yaml"

// Ensure interface compliance
var _ ports.ProfileIO = (*ProfileIO)(nil)

// ProfileIO reads and writes profile documents as YAML files, one directory
// per profile type:
//
//	<root>/<type>/<name>.yaml
//	<root>/<type>/<type>_meta.yaml
type ProfileIO struct{}

// NewProfileIO creates a new filesystem profile store.
func NewProfileIO() *ProfileIO {
	return &ProfileIO{}
}

// FileExtension returns ".yaml".
func (p *ProfileIO) FileExtension() string {
	return Extension
}

// Exists reports whether a file exists at path.
func (p *ProfileIO) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, apperrors.NewProfileIOError("stat", path, err)
}

// WriteProfile writes a profile document, creating its directory.
func (p *ProfileIO) WriteProfile(path string, profile entities.Profile) error {
	data, err := yaml.MarshalWithOptions(map[string]any(profile), yaml.IndentSequence(true))
	if err != nil {
		return apperrors.NewProfileIOError("write", path, fmt.Errorf("failed to marshal profile to YAML: %w", err))
	}
	return p.writeFile(path, data)
}

// ReadProfileFile reads a profile document.
func (p *ProfileIO) ReadProfileFile(path, profileType string) (entities.Profile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is built from the profile root and type
	if err != nil {
		return nil, apperrors.NewProfileIOError("read", path, err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.NewProfileIOError("read", path,
			fmt.Errorf("failed to parse %s profile: %w", profileType, err))
	}
	if doc == nil {
		doc = make(map[string]any)
	}
	return entities.Profile(doc), nil
}

// DeleteProfile removes a profile file.
func (p *ProfileIO) DeleteProfile(name, path string) error {
	if err := os.Remove(path); err != nil {
		return apperrors.NewProfileIOError("delete", path, fmt.Errorf("profile %q: %w", name, err))
	}
	return nil
}

// WriteMetaFile writes the meta file of a type.
func (p *ProfileIO) WriteMetaFile(meta *entities.MetaProfile, path string) error {
	data, err := yaml.MarshalWithOptions(meta, yaml.IndentSequence(true))
	if err != nil {
		return apperrors.NewProfileIOError("write", path, fmt.Errorf("failed to marshal meta to YAML: %w", err))
	}
	return p.writeFile(path, data)
}

// ReadMetaFile reads the meta file of a type.
func (p *ProfileIO) ReadMetaFile(path string) (*entities.MetaProfile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is built from the profile root and type
	if err != nil {
		return nil, apperrors.NewProfileIOError("read", path, err)
	}
	var meta entities.MetaProfile
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, apperrors.NewProfileIOError("read", path, fmt.Errorf("failed to parse meta file: %w", err))
	}
	return &meta, nil
}

// GetAllProfileDirectories lists the type directories under root.
func (p *ProfileIO) GetAllProfileDirectories(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, apperrors.NewProfileIOError("list", root, err)
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// GetAllProfileNames lists profile names in dir, excluding the meta file.
// A missing directory has no profiles.
func (p *ProfileIO) GetAllProfileNames(dir, ext, metaName string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, apperrors.NewProfileIOError("list", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ext)
		if name == metaName {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// CreateProfileDirs creates the directory tree for path.
func (p *ProfileIO) CreateProfileDirs(path string) error {
	//nolint:gosec // G301: 0o755 is standard for user config directories
	if err := os.MkdirAll(path, 0o755); err != nil {
		return apperrors.NewProfileIOError("mkdir", path, err)
	}
	return nil
}

func (p *ProfileIO) writeFile(path string, data []byte) error {
	if err := p.CreateProfileDirs(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return apperrors.NewProfileIOError("write", path, err)
	}
	return nil
}
