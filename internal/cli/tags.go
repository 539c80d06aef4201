package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List tags and their cardinality",
		Run:   runTags,
	}

	RootCmd.AddCommand(cmd)
}

func runTags(cmd *cobra.Command, args []string) {
	s, err := openMind(cmd.Context())
	if err != nil {
		exitErr("open mind", err)
	}
	defer s.Close()

	tags := s.mind.Tags()
	if formatFlag == "text" {
		names := make([]string, 0, len(tags))
		for t := range tags {
			names = append(names, t)
		}
		sort.Strings(names)
		for _, t := range names {
			fmt.Printf("%s\t%d\n", t, tags[t])
		}
		return
	}
	printJSON(tags)
}
