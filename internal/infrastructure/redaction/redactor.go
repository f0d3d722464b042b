// Package redaction censors secrets in profile documents and report text
// before they are displayed.
package redaction

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/viper"
	"github.com/zricethezav/gitleaks/v8/config"
	"github.com/zricethezav/gitleaks/v8/detect"

	"github.com/zowe/imperative-go/internal/application/ports"
	"github.com/zowe/imperative-go/internal/domain/entities"
	"github.com/zowe/imperative-go/internal/domain/services"
	"github.com/zowe/imperative-go/internal/domain/values"
)

// Marker replaces censored values when hash mode is off.
const Marker = "[REDACTED]"

// Redactor censors secrets. It combines values tracked at runtime (secure
// fields hydrated from the credential manager), the gitleaks rule set,
// built-in and custom regular expressions, and field paths that are always
// censored. Safe for concurrent use after construction.
type Redactor struct {
	tracked  ports.SensitiveValueProvider
	detector *detect.Detector
	patterns []*regexp.Regexp
	paths    []string
	hashMode bool
	salt     string
}

// Config holds the configuration for the Redactor.
type Config struct {
	// Patterns are extra regular expressions to censor.
	Patterns []string
	// Paths are dotted field paths always censored. A bare name such as
	// "password" matches that field at any depth.
	Paths []string
	// HashMode replaces values with a truncated HMAC instead of the marker.
	HashMode bool
	Salt     string
	// DisableGitleaks skips the gitleaks rule set.
	DisableGitleaks bool
}

// New creates a Redactor. tracked may be nil.
func New(cfg Config, tracked ports.SensitiveValueProvider) (*Redactor, error) {
	r := &Redactor{
		tracked:  tracked,
		paths:    append([]string(nil), cfg.Paths...),
		hashMode: cfg.HashMode,
		salt:     cfg.Salt,
	}

	if !cfg.DisableGitleaks {
		detector, err := newGitleaksDetector()
		if err != nil {
			return nil, err
		}
		r.detector = detector
	}

	for _, p := range append(append([]string(nil), defaultPatterns...), cfg.Patterns...) {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to compile redaction pattern %s: %w", p, err)
		}
		r.patterns = append(r.patterns, re)
	}
	return r, nil
}

// newGitleaksDetector loads the default gitleaks rules through viper, the
// same way the gitleaks CLI reads its TOML config.
func newGitleaksDetector() (*detect.Detector, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(strings.NewReader(config.DefaultConfig)); err != nil {
		return nil, fmt.Errorf("failed to read gitleaks config: %w", err)
	}

	var vc config.ViperConfig
	if err := v.Unmarshal(&vc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gitleaks config: %w", err)
	}

	cfg, err := vc.Translate()
	if err != nil {
		return nil, fmt.Errorf("failed to translate gitleaks config: %w", err)
	}
	return detect.NewDetector(cfg), nil
}

// ScrubString censors every secret found in input.
func (r *Redactor) ScrubString(input string) string {
	if input == "" {
		return ""
	}
	result := input

	if r.tracked != nil {
		for _, secret := range r.tracked.AllValues() {
			if secret != "" {
				result = strings.ReplaceAll(result, secret, r.replacement(secret))
			}
		}
	}

	if r.detector != nil {
		for _, finding := range r.detector.Detect(detect.Fragment{Raw: result}) {
			if finding.Secret != "" {
				result = strings.ReplaceAll(result, finding.Secret, r.replacement(finding.Secret))
			}
		}
	}

	for _, re := range r.patterns {
		result = re.ReplaceAllStringFunc(result, r.replacement)
	}
	return result
}

// RedactProfile returns a censored copy of profile. Values at securePaths
// (whole sub-documents for secure boxes) and at configured paths are
// replaced; other strings are scrubbed. Secure value sentinels are kept so
// the reader can see where a value is stored.
func (r *Redactor) RedactProfile(profile entities.Profile, securePaths []string) entities.Profile {
	out := services.DeepCopyProfile(profile)
	if out == nil {
		return nil
	}
	secure := make(map[string]bool, len(securePaths))
	for _, p := range securePaths {
		secure[p] = true
	}
	for k, v := range out {
		out[k] = r.walk(v, k, secure)
	}
	return out
}

func (r *Redactor) walk(value any, path string, secure map[string]bool) any {
	if s, ok := value.(string); ok && values.LooksLikeSentinel(s) {
		return s
	}
	if secure[path] || r.isPathMatch(path) {
		return r.censorWhole(value)
	}

	switch v := value.(type) {
	case string:
		return r.ScrubString(v)
	case map[string]any:
		for k, child := range v {
			v[k] = r.walk(child, path+"."+k, secure)
		}
		return v
	case []any:
		for i, child := range v {
			v[i] = r.walk(child, path, secure)
		}
		return v
	default:
		return v
	}
}

func (r *Redactor) censorWhole(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return r.replacement(v)
	default:
		return r.replacement(fmt.Sprint(v))
	}
}

// isPathMatch reports whether path equals a configured path or ends with
// "." followed by one.
func (r *Redactor) isPathMatch(path string) bool {
	for _, p := range r.paths {
		if p == path || strings.HasSuffix(path, "."+p) {
			return true
		}
	}
	return false
}

func (r *Redactor) replacement(secret string) string {
	if !r.hashMode {
		return Marker
	}
	mac := hmac.New(sha256.New, []byte(r.salt))
	mac.Write([]byte(secret))
	return fmt.Sprintf("[hmac:%s]", hex.EncodeToString(mac.Sum(nil))[:16])
}

// defaultPatterns catch common secrets when gitleaks is disabled.
var defaultPatterns = []string{
	// AWS Access Key ID
	`\b((?:AKIA|ABIA|ACCA|ASIA)[0-9A-Z]{16})\b`,
	// Private key header
	`-----BEGIN [A-Z ]+ PRIVATE KEY-----`,
	// age identity
	`AGE-SECRET-KEY-1[0-9A-Z]{58}`,
	// GitHub token
	`gh[pousr]_[A-Za-z0-9_]{36,255}`,
}
