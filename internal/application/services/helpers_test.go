package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zowe/imperative-go/internal/application/ports"
	"github.com/zowe/imperative-go/internal/domain/entities"
	"github.com/zowe/imperative-go/internal/infrastructure/credentials"
	"github.com/zowe/imperative-go/internal/infrastructure/persistence/memory"
	"github.com/zowe/imperative-go/internal/infrastructure/sensitivedata"
	"github.com/zowe/imperative-go/internal/infrastructure/validation"
)

const testRoot = "/profiles"

func opt(name, typ string) *entities.OptionDefinition {
	return &entities.OptionDefinition{Name: name, Type: typ, Description: "The " + name}
}

// testConfigurations describes three types: tso requires zosmf and
// optionally uses base; zosmf optionally uses base.
func testConfigurations() entities.TypeConfigurations {
	return entities.TypeConfigurations{
		{
			Type: "base",
			Schema: &entities.ProfileSchema{
				Type: "object",
				Properties: map[string]*entities.ProfileProperty{
					"host":     {Type: "string", OptionDefinition: opt("host", "string")},
					"user":     {Type: "string", OptionDefinition: opt("user", "string")},
					"password": {Type: "string", Secure: true, OptionDefinition: opt("password", "string")},
				},
			},
		},
		{
			Type: "zosmf",
			Schema: &entities.ProfileSchema{
				Type:     "object",
				Required: []string{"host"},
				Properties: map[string]*entities.ProfileProperty{
					"host": {Type: "string", OptionDefinition: opt("host", "string")},
					"port": {Type: "number", OptionDefinition: opt("port", "number")},
					"auth": {
						Type: "object",
						Properties: map[string]*entities.ProfileProperty{
							"user":     {Type: "string", OptionDefinition: opt("user", "string")},
							"password": {Type: "string", Secure: true, OptionDefinition: opt("password", "string")},
						},
					},
					"keys": {
						Type:   "object",
						Secure: true,
						Properties: map[string]*entities.ProfileProperty{
							"private": {Type: "string"},
							"public":  {Type: "string"},
						},
					},
				},
			},
			Dependencies: []entities.DependencyDeclaration{{Type: "base"}},
		},
		{
			Type: "tso",
			Schema: &entities.ProfileSchema{
				Type:     "object",
				Required: []string{"account"},
				Properties: map[string]*entities.ProfileProperty{
					"account": {Type: "string", OptionDefinition: opt("account", "string")},
				},
			},
			Dependencies: []entities.DependencyDeclaration{
				{Type: "zosmf", Required: true},
				{Type: "base"},
			},
		},
	}
}

type fixture struct {
	io      *memory.ProfileIO
	creds   *credentials.MemoryManager
	tracked *sensitivedata.Provider
	opts    ProfileServiceOptions
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		io:      memory.NewProfileIO(),
		creds:   credentials.NewMemoryManager("test store"),
		tracked: sensitivedata.NewProvider(),
	}
	f.opts = ProfileServiceOptions{
		ProfileRootDir:     testRoot,
		TypeConfigurations: testConfigurations(),
		ProfileIO:          f.io,
		SchemaValidator:    validation.NewSchemaValidator(),
		CredentialManager:  f.creds,
		SensitiveValues:    f.tracked,
	}
	return f
}

func (f *fixture) service(t *testing.T, profileType string) *ProfileService {
	t.Helper()
	opts := f.opts
	opts.Type = profileType
	svc, err := NewProfileService(opts)
	require.NoError(t, err)
	return svc
}

func (f *fixture) raw(t *testing.T, profileType, name string) entities.Profile {
	t.Helper()
	doc, ok := f.io.RawProfile(filepath.Join(testRoot, profileType, name+".yaml"))
	require.True(t, ok, "profile %s/%s is not stored", profileType, name)
	return doc
}

// put stores a document directly, bypassing validation.
func (f *fixture) put(t *testing.T, profileType, name string, doc entities.Profile) {
	t.Helper()
	require.NoError(t, f.io.WriteProfile(filepath.Join(testRoot, profileType, name+".yaml"), doc))
}

func (f *fixture) credential(t *testing.T, key string) (string, bool) {
	t.Helper()
	v, err := f.creds.Load(context.Background(), key, true)
	require.NoError(t, err)
	return v, v != ""
}

// flakyManager wraps a MemoryManager and fails the next saves of selected
// keys, and every load or delete of others.
type flakyManager struct {
	*credentials.MemoryManager
	mu          sync.Mutex
	failSaves   map[string]int
	failLoads   map[string]bool
	failDeletes map[string]bool
	initialized bool
}

var _ ports.CredentialManager = (*flakyManager)(nil)

func newFlakyManager() *flakyManager {
	return &flakyManager{
		MemoryManager: credentials.NewMemoryManager("test store"),
		failSaves:     make(map[string]int),
		failLoads:     make(map[string]bool),
		failDeletes:   make(map[string]bool),
		initialized:   true,
	}
}

func (m *flakyManager) Initialized() bool { return m.initialized }

func (m *flakyManager) failSave(key string, times int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSaves[key] = times
}

func (m *flakyManager) failLoad(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failLoads[key] = true
}

func (m *flakyManager) failDelete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failDeletes[key] = true
}

func (m *flakyManager) Load(ctx context.Context, key string, optional bool) (string, error) {
	m.mu.Lock()
	fail := m.failLoads[key]
	m.mu.Unlock()
	if fail {
		return "", errors.New("store locked")
	}
	return m.MemoryManager.Load(ctx, key, optional)
}

func (m *flakyManager) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	fail := m.failDeletes[key]
	m.mu.Unlock()
	if fail {
		return errors.New("store is read-only")
	}
	return m.MemoryManager.Delete(ctx, key)
}

func (m *flakyManager) Save(ctx context.Context, key, value string) error {
	m.mu.Lock()
	fail := m.failSaves[key] > 0
	if fail {
		m.failSaves[key]--
	}
	m.mu.Unlock()
	if fail {
		return errors.New("store unavailable")
	}
	return m.MemoryManager.Save(ctx, key, value)
}

// fakeValues answers every prompt with answer.
type fakeValues struct {
	interactive bool
	answer      string
	prompts     []string
}

func (f *fakeValues) IsInteractive() bool { return f.interactive }

func (f *fakeValues) PromptSecret(_ context.Context, title string) (string, error) {
	f.prompts = append(f.prompts, title)
	return f.answer, nil
}
