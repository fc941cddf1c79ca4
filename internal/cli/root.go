// Package cli implements the memoria CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/memoria-dev/memoria/internal/config"
	"github.com/memoria-dev/memoria/internal/embedding"
	"github.com/memoria-dev/memoria/internal/index"
	"github.com/memoria-dev/memoria/internal/search"
	"github.com/memoria-dev/memoria/internal/store"
)

var rootFlag string

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "memoria",
	Short: "Semantic long-term memory for a personal agent",
	Long:  "Indexes markdown notes and a journal log into a local vector store and answers similarity queries with related-item expansion.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&rootFlag, "root", "r", "", "Memory root directory (default: $MEMORIA_ROOT or ~/.memoria)")
}

func getConfig() config.Config {
	if rootFlag != "" {
		return config.New(rootFlag)
	}
	return config.FromEnv()
}

// memory bundles the engine pieces the commands work with.
type memory struct {
	cfg    config.Config
	store  *store.ChromemStore
	index  *index.Index
	search *search.Engine
}

func openMemory() (*memory, error) {
	cfg := getConfig()

	emb := embedding.NewFromEnv()
	if emb == nil {
		return nil, fmt.Errorf("no embedder configured (set MEMORIA_EMBED_PROVIDER to ollama, openai, or mock)")
	}

	st, err := store.NewChromemStore(cfg.IndexDir)
	if err != nil {
		return nil, err
	}

	return &memory{
		cfg:    cfg,
		store:  st,
		index:  index.New(cfg, st, emb),
		search: search.New(st, emb),
	}, nil
}

func (m *memory) Close() {
	m.store.Close()
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
