package providers

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"
)

// Registry holds LLM providers keyed by their prefix name. It supports
// config-driven instantiation and hot reload, and is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	logger    *slog.Logger
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
		logger:    slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Register adds a provider under the given prefix name.
func (r *Registry) Register(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
	if r.logger != nil {
		r.logger.Info("registered provider", "name", name)
	}
}

// Get returns a provider by prefix name.
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	if !ok {
		return nil, &ConfigurationError{Message: fmt.Sprintf("unknown provider %q (registered: %s)", name, strings.Join(r.namesLocked(), ", "))}
	}
	return p, nil
}

// Resolve splits a "provider:model" identifier and returns the provider and
// model name. An identifier without a colon or with an unknown prefix is a
// *ConfigurationError.
func (r *Registry) Resolve(modelID string) (Provider, string, error) {
	prefix, model, ok := strings.Cut(modelID, ":")
	if !ok || prefix == "" || model == "" {
		return nil, "", &ConfigurationError{Message: fmt.Sprintf("model identifier %q must have the form provider:model", modelID)}
	}
	p, err := r.Get(prefix)
	if err != nil {
		return nil, "", err
	}
	return p, model, nil
}

// List returns all registered provider names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has checks whether a provider is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.providers[name]
	return ok
}

// ProviderConfig configures one backend with a resolved API key.
type ProviderConfig struct {
	Type    string // "openai", "groq", "anthropic", "openrouter"
	Model   string // default model (informational; requests carry their own)
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Enabled bool
}

// RegistryConfig maps provider prefix names to their backend configs.
type RegistryConfig struct {
	Providers map[string]ProviderConfig
}

// NewRegistryFromConfig creates a registry from configuration. Only enabled
// providers with an API key are registered.
func NewRegistryFromConfig(cfg RegistryConfig) *Registry {
	r := NewRegistry()
	for name, provCfg := range cfg.Providers {
		if !provCfg.Enabled || provCfg.APIKey == "" {
			continue
		}
		if p := createProvider(name, provCfg); p != nil {
			r.providers[name] = p
		}
	}
	return r
}

// Reload updates the registry from new configuration. Providers no longer
// configured are unregistered; changed providers are recreated.
func (r *Registry) Reload(cfg RegistryConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := make(map[string]bool)
	for name, provCfg := range cfg.Providers {
		if !provCfg.Enabled || provCfg.APIKey == "" {
			continue
		}
		want[name] = true

		p := createProvider(name, provCfg)
		if p == nil {
			if r.logger != nil {
				r.logger.Warn("unknown provider type in config", "name", name, "type", provCfg.Type)
			}
			continue
		}
		_, existed := r.providers[name]
		r.providers[name] = p
		if r.logger != nil {
			if existed {
				r.logger.Info("updated provider", "name", name, "type", provCfg.Type)
			} else {
				r.logger.Info("registered provider", "name", name, "type", provCfg.Type)
			}
		}
	}

	for name := range r.providers {
		if !want[name] {
			delete(r.providers, name)
			if r.logger != nil {
				r.logger.Info("unregistered provider", "name", name)
			}
		}
	}
}

// createProvider instantiates a backend from its config.
func createProvider(name string, cfg ProviderConfig) Provider {
	switch cfg.Type {
	case "openai":
		return NewOpenAIProvider(OpenAIConfig{
			Name:    name,
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		})
	case "groq":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = GroqBaseURL
		}
		return NewOpenAIProvider(OpenAIConfig{
			Name:    name,
			APIKey:  cfg.APIKey,
			BaseURL: baseURL,
			Timeout: cfg.Timeout,
		})
	case "anthropic":
		return NewAnthropicProvider(AnthropicConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		})
	case "openrouter":
		return NewOpenRouterProvider(OpenRouterConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		})
	default:
		return nil
	}
}
