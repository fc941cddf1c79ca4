package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "Regenerate and print the topic listing",
		Run:   runTopics,
	}

	RootCmd.AddCommand(cmd)
}

func runTopics(cmd *cobra.Command, args []string) {
	m, err := openMemory()
	if err != nil {
		exitErr("open memory", err)
	}
	defer m.Close()

	if err := m.index.RegenerateTopicsList(); err != nil {
		exitErr("topics", err)
	}

	b, err := os.ReadFile(m.cfg.TopicsList)
	if err != nil {
		exitErr("read listing", err)
	}
	fmt.Print(string(b))
}
