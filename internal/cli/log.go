package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "log [content]",
		Short: "Append a journal entry and index it",
		Long:  "Append an entry to the journal log and index it. Content can be a positional arg or piped via stdin.",
		Run:   runLog,
	}

	cmd.Flags().StringP("topic", "t", "", "Topic label for the entry (required)")
	cmd.Flags().String("intent", "", "Optional intent annotation")

	cmd.MarkFlagRequired("topic")

	RootCmd.AddCommand(cmd)
}

func runLog(cmd *cobra.Command, args []string) {
	topic, _ := cmd.Flags().GetString("topic")
	intent, _ := cmd.Flags().GetString("intent")

	// Content: positional arg first, then stdin
	var content string
	if len(args) > 0 {
		content = strings.Join(args, " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			content = string(b)
		}
	}

	if strings.TrimSpace(content) == "" {
		exitErr("log", fmt.Errorf("content is required (positional arg or stdin)"))
	}

	m, err := openMemory()
	if err != nil {
		exitErr("open memory", err)
	}
	defer m.Close()

	entry, err := m.index.Log(cmd.Context(), topic, strings.TrimSpace(content), intent)
	if err != nil {
		exitErr("log", err)
	}

	b, _ := json.Marshal(entry)
	fmt.Println(string(b))
}
