// Package commands implements the fixhound CLI subcommands.
package commands

import (
	"github.com/Sumatoshi-tech/fixhound/internal/config"
	"github.com/Sumatoshi-tech/fixhound/pkg/memory"
)

// commonFlags carries the flags every subcommand shares.
type commonFlags struct {
	configPath string
	storePath  string
}

// loadConfig resolves configuration and applies the --store override.
func (f *commonFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	if f.storePath != "" {
		cfg.Store.Path = f.storePath
	}

	return cfg, nil
}

// openStore constructs the pattern store and loads its durable state.
// A missing or corrupt store file degrades to an empty store.
func openStore(cfg *config.Config) *memory.Store {
	store := memory.NewStore(cfg.Store.Path)
	store.Load()

	return store
}
