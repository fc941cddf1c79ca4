package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/memoria-dev/memoria/internal/model"
	"github.com/memoria-dev/memoria/internal/search"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search memory by meaning",
		Long:  "Embed the query, rank indexed items by similarity, and expand each hit with related items.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().IntP("limit", "l", search.DefaultLimit, "Max results")
	cmd.Flags().StringP("type", "t", "", "Filter by type: journal, state, project, person, meeting, topic")
	cmd.Flags().String("since", "", "Only items at or after this RFC 3339 timestamp")
	cmd.Flags().Bool("no-related", false, "Skip related-item expansion")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	typeStr, _ := cmd.Flags().GetString("type")
	sinceStr, _ := cmd.Flags().GetString("since")
	noRelated, _ := cmd.Flags().GetBool("no-related")
	query := strings.Join(args, " ")

	opts := search.Options{Limit: limit, IncludeRelated: !noRelated}

	if typeStr != "" {
		typ := model.ItemType(typeStr)
		if !model.ValidTypes[typ] {
			exitErr("search", fmt.Errorf("invalid type %q", typeStr))
		}
		opts.Type = typ
	}
	if sinceStr != "" {
		since, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			exitErr("parse --since", err)
		}
		opts.Since = since
	}

	m, err := openMemory()
	if err != nil {
		exitErr("open memory", err)
	}
	defer m.Close()

	results, err := m.search.Search(cmd.Context(), query, opts)
	if err != nil {
		exitErr("search", err)
	}

	if len(results) == 0 {
		fmt.Println("[]")
		return
	}

	b, _ := json.MarshalIndent(results, "", "  ")
	fmt.Println(string(b))
}
