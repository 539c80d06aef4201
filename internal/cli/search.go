package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search across notes",
		Long:  "Scan outline names, descriptions, note names, and note content for the query. Matching is case-insensitive unless --sensitive is set.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().StringP("outline", "o", "", "Limit the scan to one outline")
	cmd.Flags().BoolP("sensitive", "s", false, "Case-sensitive matching")
	cmd.Flags().Bool("by-name", false, "Exact outline name lookup instead of full-text scan")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	outlineKey, _ := cmd.Flags().GetString("outline")
	sensitive, _ := cmd.Flags().GetBool("sensitive")
	byName, _ := cmd.Flags().GetBool("by-name")
	query := strings.Join(args, " ")

	s, err := openMind(cmd.Context())
	if err != nil {
		exitErr("open mind", err)
	}
	defer s.Close()

	if byName {
		var views []outlineView
		for _, o := range s.mind.OutlinesByName(query) {
			views = append(views, viewOutline(o, false))
		}
		printJSON(views)
		return
	}

	notes := s.mind.FindNotes(query, !sensitive, outlineKey)
	if formatFlag == "text" {
		for _, n := range notes {
			fmt.Printf("%s\t%s\n", n.Outline().Key, n.Name)
		}
		return
	}
	views := make([]noteView, 0, len(notes))
	for _, n := range notes {
		views = append(views, viewNote(n, notePos(n), true))
	}
	printJSON(views)
}
