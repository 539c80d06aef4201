package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "associate <outline> <pos>",
		Short: "Rank the notes most associated with a note",
		Long:  "Score every other note against the given one by shared vocabulary and tags and print the relevance leaderboard.",
		Args:  cobra.ExactArgs(2),
		Run:   runAssociate,
	}

	RootCmd.AddCommand(cmd)
}

func runAssociate(cmd *cobra.Command, args []string) {
	s, err := openMind(cmd.Context())
	if err != nil {
		exitErr("open mind", err)
	}
	defer s.Close()

	n, err := noteAt(s.mind, args[0], parsePos(args[1]))
	if err != nil {
		exitErr("associate", err)
	}

	ranked, err := s.mind.AssociationsFor(cmd.Context(), n).Await(cmd.Context())
	if err != nil {
		exitErr("associate", err)
	}

	type entry struct {
		Note  noteView `json:"note"`
		Score float64  `json:"score"`
	}
	leaderboard := make([]entry, 0, len(ranked))
	for _, a := range ranked {
		leaderboard = append(leaderboard, entry{
			Note:  viewNote(a.Note, notePos(a.Note), true),
			Score: a.Score,
		})
	}
	printJSON(leaderboard)
}
