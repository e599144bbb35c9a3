package llm

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Registry holds chat clients keyed by provider name. It supports
// config-driven instantiation and thread-safe access.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]Client
	logger  *slog.Logger
}

// NewRegistry creates an empty client registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		clients: make(map[string]Client),
		logger:  logger,
	}
}

// Register adds a client under the given provider name.
func (r *Registry) Register(name string, client Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[name] = client
	r.logger.Info("registered LLM client", "name", name, "provider", client.Name())
}

// Get returns a client by provider name.
func (r *Registry) Get(name string) (Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[name]
	if !ok {
		return nil, fmt.Errorf("LLM client not found: %s", name)
	}
	return client, nil
}

// Has checks whether a client is registered under the name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.clients[name]
	return ok
}

// Names returns all registered provider names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ProviderConfig describes one provider entry from configuration. API keys
// must already be resolved.
type ProviderConfig struct {
	Type       string // "openai", "mock"
	Model      string
	APIKey     string
	MaxRetries int
	Timeout    time.Duration
	Enabled    bool
}

// NewRegistryFromConfig builds a registry from provider configs. Disabled
// entries, unknown types, and providers missing a required API key are
// skipped.
func NewRegistryFromConfig(cfgs map[string]ProviderConfig, logger *slog.Logger) *Registry {
	r := NewRegistry(logger)
	for name, cfg := range cfgs {
		if !cfg.Enabled {
			continue
		}
		client := newClient(cfg, r.logger)
		if client == nil {
			r.logger.Warn("skipping LLM provider", "name", name, "type", cfg.Type)
			continue
		}
		r.Register(name, client)
	}
	return r
}

// newClient creates a chat client based on provider type.
func newClient(cfg ProviderConfig, logger *slog.Logger) Client {
	switch cfg.Type {
	case OpenAIName:
		if cfg.APIKey == "" {
			return nil
		}
		return NewOpenAIClient(OpenAIConfig{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			MaxRetries: cfg.MaxRetries,
			Timeout:    cfg.Timeout,
			Logger:     logger,
		})
	case MockClientName:
		return NewMockClient()
	default:
		return nil
	}
}
