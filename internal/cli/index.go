package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/memoria-dev/memoria/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "index [path]",
		Short: "Incrementally re-index one source file",
		Long:  "Re-chunk and re-index a single source file. Section ids are deterministic, so existing sections are replaced in place.",
		Args:  cobra.ExactArgs(1),
		Run:   runIndex,
	}

	cmd.Flags().StringP("type", "t", "", "Item type: state, project, person, meeting, topic (required)")
	cmd.MarkFlagRequired("type")

	RootCmd.AddCommand(cmd)
}

func runIndex(cmd *cobra.Command, args []string) {
	typeStr, _ := cmd.Flags().GetString("type")
	typ := model.ItemType(typeStr)
	if !model.ValidTypes[typ] || typ == model.TypeJournal {
		exitErr("index", fmt.Errorf("invalid file type %q", typeStr))
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		exitErr("read file", err)
	}

	m, err := openMemory()
	if err != nil {
		exitErr("open memory", err)
	}
	defer m.Close()

	count, err := m.index.IndexFile(cmd.Context(), args[0], string(content), typ)
	if err != nil {
		exitErr("index", err)
	}

	b, _ := json.Marshal(map[string]int{"item_count": count})
	fmt.Println(string(b))
}
