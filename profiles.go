package llmstream

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

//go:embed config/profiles/providers.yaml
var providerProfilesYAML []byte

// Profile Philosophy:
//
// Providers disagree on finish-reason vocabularies, usage field names, and
// cache-token counters. Profiles capture those vocabularies as data so the
// normalizers stay free of per-provider switch statements, and so library
// users can track provider changes without waiting for a release.
//
// Users can override embedded profiles by:
//  1. Calling LoadProfilesFromFile() with custom YAML
//  2. Calling RegisterProviderProfile() programmatically
//
// An unknown provider falls back to a default profile with the common
// OpenAI-style aliases.

// ProfileSet is the on-disk format: a versioned list of provider profiles.
type ProfileSet struct {
	Version     string             `yaml:"version"`      // Semantic version (e.g., "1.0.0")
	LastUpdated string             `yaml:"last_updated"` // ISO 8601 date
	Profiles    []*ProviderProfile `yaml:"profiles"`
}

// ProviderProfile describes one provider's wire vocabulary.
type ProviderProfile struct {
	Provider string `yaml:"provider"`

	// FinishReasons maps provider finish tokens to canonical values.
	FinishReasons map[string]FinishReason `yaml:"finish_reasons"`

	// Usage lists the gjson paths tried, in order, for each counter.
	Usage UsageFields `yaml:"usage"`
}

// UsageFields enumerates usage-counter field aliases as gjson paths relative
// to the provider's usage node.
type UsageFields struct {
	Prompt     []string `yaml:"prompt"`
	Completion []string `yaml:"completion"`
	Total      []string `yaml:"total"`
	Thinking   []string `yaml:"thinking"`

	// Cache paths are summed into the opaque cacheDiscount metadata field.
	Cache []string `yaml:"cache"`
}

// CanonicalFinishReason maps a provider finish token to the canonical
// vocabulary. Unrecognized tokens (and empty ones) map to nil, not an error.
func (p *ProviderProfile) CanonicalFinishReason(token string) *FinishReason {
	if token == "" {
		return nil
	}
	mapped, ok := p.FinishReasons[token]
	if !ok || !mapped.IsValid() {
		return nil
	}
	return &mapped
}

// NormalizeUsage coalesces a provider usage node into canonical counters.
// Missing values default to 0 and negative values are clamped. The second
// return value is the summed cache-token discount (0 when absent).
func (p *ProviderProfile) NormalizeUsage(usage gjson.Result) (*Usage, int) {
	if !usage.Exists() {
		return nil, 0
	}

	u := &Usage{
		PromptTokens:     firstIntField(usage, p.Usage.Prompt),
		CompletionTokens: firstIntField(usage, p.Usage.Completion),
		TotalTokens:      firstIntField(usage, p.Usage.Total),
	}
	for _, path := range p.Usage.Thinking {
		if node := usage.Get(path); node.Exists() {
			thinking := clampTokens(node.Int())
			u.ThinkingTokens = &thinking
			break
		}
	}

	discount := 0
	for _, path := range p.Usage.Cache {
		discount += clampTokens(usage.Get(path).Int())
	}
	return u, discount
}

func firstIntField(node gjson.Result, paths []string) int {
	for _, path := range paths {
		if v := node.Get(path); v.Exists() {
			return clampTokens(v.Int())
		}
	}
	return 0
}

func clampTokens(n int64) int {
	if n < 0 {
		return 0
	}
	return int(n)
}

// ProfileRegistry manages provider profiles
type ProfileRegistry struct {
	profiles map[string]*ProviderProfile
	mu       sync.RWMutex
}

var (
	globalProfiles     *ProfileRegistry
	globalProfilesOnce sync.Once

	// defaultProfile serves providers with no registered profile.
	defaultProfile = &ProviderProfile{
		FinishReasons: map[string]FinishReason{
			"stop":           FinishStop,
			"length":         FinishLength,
			"content_filter": FinishContentFilter,
			"tool_calls":     FinishToolCalls,
		},
		Usage: UsageFields{
			Prompt:     []string{"prompt_tokens", "input_tokens"},
			Completion: []string{"completion_tokens", "output_tokens"},
			Total:      []string{"total_tokens"},
		},
	}
)

// GetProfileRegistry returns the global profile registry (singleton)
func GetProfileRegistry() *ProfileRegistry {
	globalProfilesOnce.Do(func() {
		globalProfiles = &ProfileRegistry{
			profiles: make(map[string]*ProviderProfile),
		}
		if err := globalProfiles.loadEmbedded(); err != nil {
			// Don't panic - missing profiles degrade to the default profile.
			fmt.Fprintf(os.Stderr, "Warning: failed to load embedded provider profiles: %v\n", err)
		}
	})
	return globalProfiles
}

func (r *ProfileRegistry) loadEmbedded() error {
	var set ProfileSet
	if err := yaml.Unmarshal(providerProfilesYAML, &set); err != nil {
		return &ProfileError{Reason: "failed to unmarshal embedded profiles", Err: ErrInvalidProfile}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range set.Profiles {
		r.profiles[p.Provider] = p
	}
	return nil
}

// Profile returns the profile for a provider, falling back to a default
// OpenAI-style profile when none is registered.
func (r *ProfileRegistry) Profile(provider ProviderID) *ProviderProfile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.profiles[provider.String()]; ok {
		return p
	}
	return defaultProfile
}

// LoadProfilesFromFile loads provider profiles from a YAML file.
// This allows library users to override embedded profiles with custom data.
// The file format should match the embedded YAML structure.
func (r *ProfileRegistry) LoadProfilesFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read profiles file: %w", err)
	}

	var set ProfileSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return fmt.Errorf("failed to unmarshal profiles: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range set.Profiles {
		r.profiles[p.Provider] = p
	}
	return nil
}

// RegisterProviderProfile programmatically registers a provider profile.
// This allows library users to define profiles in code rather than YAML.
func (r *ProfileRegistry) RegisterProviderProfile(p *ProviderProfile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.Provider] = p
}

// LoadProfilesFromFile is a convenience function that calls the global registry's LoadProfilesFromFile.
func LoadProfilesFromFile(path string) error {
	return GetProfileRegistry().LoadProfilesFromFile(path)
}

// RegisterProviderProfile is a convenience function that calls the global registry's RegisterProviderProfile.
func RegisterProviderProfile(p *ProviderProfile) {
	GetProfileRegistry().RegisterProviderProfile(p)
}
