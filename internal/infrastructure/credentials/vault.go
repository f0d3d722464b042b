package credentials

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"filippo.io/age"
	"filippo.io/age/armor"

	"github.com/zowe/imperative-go/internal/application/ports"
	"github.com/zowe/imperative-go/internal/infrastructure/sensitivedata"
)

const vaultFormatVersion = 1

// Ensure interface compliance
var _ ports.CredentialManager = (*Vault)(nil)

// vaultDocument is the plaintext inside the encrypted vault file.
type vaultDocument struct {
	Version int               `json:"version"`
	Entries map[string]string `json:"entries"`
}

// VaultOptions configures an encrypted vault.
type VaultOptions struct {
	// Name is shown in secure value sentinels ("managed by <Name>").
	Name string
	// Path of the armored age file holding the credentials.
	Path string
	// IdentitySecret names the secret holding the AGE-SECRET-KEY-1... identity.
	IdentitySecret string
	// Secrets resolves IdentitySecret.
	Secrets ports.SecretResolver
	Logger  *slog.Logger
}

// Vault stores credentials in a single file encrypted to an age X25519
// identity. The whole map is re-encrypted on every write.
type Vault struct {
	name      string
	path      string
	identity  *sensitivedata.SecureString
	recipient *age.X25519Recipient
	logger    *slog.Logger
	mu        sync.Mutex
}

// NewVault creates a vault. When the identity cannot be resolved the vault
// is returned uninitialized rather than failing, so profiles without secure
// fields keep working.
func NewVault(opts VaultOptions) *Vault {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	name := opts.Name
	if name == "" {
		name = KindVault
	}

	v := &Vault{name: name, path: opts.Path, logger: logger}
	if err := v.initialize(opts); err != nil {
		logger.Warn("credential vault is not available", "name", name, "error", err)
	}
	return v
}

func (v *Vault) initialize(opts VaultOptions) error {
	if opts.Path == "" {
		return errors.New("no vault path configured")
	}
	if opts.Secrets == nil || opts.IdentitySecret == "" {
		return errors.New("no vault identity configured")
	}
	key, err := opts.Secrets.Resolve(opts.IdentitySecret)
	if err != nil {
		return err
	}
	identity, err := age.ParseX25519Identity(key)
	if err != nil {
		return fmt.Errorf("parsing vault identity: %w", err)
	}
	v.identity = sensitivedata.NewSecureString(key)
	v.recipient = identity.Recipient()
	return nil
}

// Name returns the display name used in secure value sentinels.
func (v *Vault) Name() string {
	return v.name
}

// Initialized reports whether the identity was loaded.
func (v *Vault) Initialized() bool {
	return v.recipient != nil
}

// Save stores value under key.
func (v *Vault) Save(ctx context.Context, key, value string) error {
	if err := v.ready(ctx); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	doc, err := v.read()
	if err != nil {
		return err
	}
	doc.Entries[key] = value
	return v.write(doc)
}

// Load returns the value stored under key.
func (v *Vault) Load(ctx context.Context, key string, optional bool) (string, error) {
	if err := v.ready(ctx); err != nil {
		return "", err
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	doc, err := v.read()
	if err != nil {
		return "", err
	}
	value, ok := doc.Entries[key]
	if !ok {
		if optional {
			return "", nil
		}
		return "", missingEntryError(key)
	}
	return value, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (v *Vault) Delete(ctx context.Context, key string) error {
	if err := v.ready(ctx); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	doc, err := v.read()
	if err != nil {
		return err
	}
	if _, ok := doc.Entries[key]; !ok {
		return nil
	}
	delete(doc.Entries, key)
	return v.write(doc)
}

// Close zeroes the identity held in memory.
func (v *Vault) Close() {
	if v.identity != nil {
		v.identity.Zero()
	}
}

func (v *Vault) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !v.Initialized() {
		return ErrNotInitialized
	}
	return nil
}

func (v *Vault) read() (*vaultDocument, error) {
	doc := &vaultDocument{Version: vaultFormatVersion, Entries: make(map[string]string)}

	data, err := os.ReadFile(v.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return doc, nil
		}
		return nil, fmt.Errorf("reading vault %s: %w", v.path, err)
	}

	key, ok := v.identity.Reveal()
	if !ok {
		return nil, ErrNotInitialized
	}
	identity, err := age.ParseX25519Identity(key)
	if err != nil {
		return nil, fmt.Errorf("parsing vault identity: %w", err)
	}
	reader, err := age.Decrypt(armor.NewReader(bytes.NewReader(data)), identity)
	if err != nil {
		return nil, fmt.Errorf("decrypting vault %s: %w", v.path, err)
	}
	plaintext, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted vault: %w", err)
	}
	if err := json.Unmarshal(plaintext, doc); err != nil {
		return nil, fmt.Errorf("parsing vault contents: %w", err)
	}
	if doc.Version != vaultFormatVersion {
		return nil, fmt.Errorf("unsupported vault version %d", doc.Version)
	}
	if doc.Entries == nil {
		doc.Entries = make(map[string]string)
	}
	return doc, nil
}

func (v *Vault) write(doc *vaultDocument) error {
	plaintext, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding vault contents: %w", err)
	}

	var buf bytes.Buffer
	armored := armor.NewWriter(&buf)
	writer, err := age.Encrypt(armored, v.recipient)
	if err != nil {
		return fmt.Errorf("creating age encryptor: %w", err)
	}
	if _, err := writer.Write(plaintext); err != nil {
		return fmt.Errorf("writing plaintext to age encryptor: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalizing age encryption: %w", err)
	}
	if err := armored.Close(); err != nil {
		return fmt.Errorf("finalizing armor: %w", err)
	}

	//nolint:gosec // G301: 0o755 is standard for user config directories
	if err := os.MkdirAll(filepath.Dir(v.path), 0o755); err != nil {
		return fmt.Errorf("creating vault directory: %w", err)
	}
	tmp := v.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing vault: %w", err)
	}
	if err := os.Rename(tmp, v.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing vault: %w", err)
	}
	return nil
}

// GenerateIdentity creates a new age X25519 identity for a vault, returning
// the secret key and its public recipient.
func GenerateIdentity() (identity, recipient string, err error) {
	id, err := age.GenerateX25519Identity()
	if err != nil {
		return "", "", fmt.Errorf("generating age identity: %w", err)
	}
	return id.String(), id.Recipient().String(), nil
}
