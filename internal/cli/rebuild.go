package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Wipe and reconstruct the whole index",
		Long:  "Clear the vector store and re-derive every item from current source files and the journal log. Slow: bounded by embedding latency times item count.",
		Run:   runRebuild,
	}

	RootCmd.AddCommand(cmd)
}

func runRebuild(cmd *cobra.Command, args []string) {
	m, err := openMemory()
	if err != nil {
		exitErr("open memory", err)
	}
	defer m.Close()

	count, err := m.index.Rebuild(cmd.Context())
	if err != nil {
		exitErr("rebuild", err)
	}

	b, _ := json.Marshal(map[string]int{"item_count": count})
	fmt.Println(string(b))
}
