package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mindkeep/mindkeep/internal/chunker"
	"github.com/mindkeep/mindkeep/internal/mind"
	"github.com/mindkeep/mindkeep/internal/model"
)

func init() {
	note := &cobra.Command{
		Use:   "note",
		Short: "Manage notes inside outlines",
		Long:  "Manage the notes of an outline. Notes are addressed by the outline key and the note's position in the flattened sequence, as printed by outline show.",
	}

	addCmd := &cobra.Command{
		Use:   "add <outline> [name]",
		Short: "Add a note to an outline",
		Args:  cobra.MinimumNArgs(1),
		Run:   runNoteAdd,
	}
	addCmd.Flags().String("type", "", "Note type")
	addCmd.Flags().IntP("offset", "o", 0, "Insertion position, 0 inserts at the head")
	addCmd.Flags().Int("depth", 0, "Tree depth")
	addCmd.Flags().StringP("tags", "t", "", "Comma-separated tags")
	addCmd.Flags().IntP("progress", "p", 0, "Progress 0-100")

	cloneCmd := &cobra.Command{
		Use:   "clone <outline> <pos>",
		Short: "Duplicate a note and its descendants",
		Args:  cobra.ExactArgs(2),
		Run:   runNoteClone,
	}

	forgetCmd := &cobra.Command{
		Use:   "forget <outline> <pos>",
		Short: "Remove a note and its descendants",
		Args:  cobra.ExactArgs(2),
		Run:   runNoteForget,
	}

	refactorCmd := &cobra.Command{
		Use:   "refactor <outline> <pos> <target-outline>",
		Short: "Move a note subtree to another outline",
		Args:  cobra.ExactArgs(3),
		Run:   runNoteRefactor,
	}

	moveCmd := &cobra.Command{
		Use:       "move <outline> <pos> <up|down|first|last|promote|demote>",
		Short:     "Reorder a note subtree within its outline",
		Args:      cobra.ExactArgs(3),
		ValidArgs: []string{"up", "down", "first", "last", "promote", "demote"},
		Run:       runNoteMove,
	}

	note.AddCommand(addCmd, cloneCmd, forgetCmd, refactorCmd, moveCmd)
	RootCmd.AddCommand(note)
}

func parsePos(arg string) int {
	pos, err := strconv.Atoi(arg)
	if err != nil {
		exitErr("note", fmt.Errorf("bad note position %q", arg))
	}
	return pos
}

func runNoteAdd(cmd *cobra.Command, args []string) {
	typ, _ := cmd.Flags().GetString("type")
	offset, _ := cmd.Flags().GetInt("offset")
	depth, _ := cmd.Flags().GetInt("depth")
	tagsStr, _ := cmd.Flags().GetString("tags")
	progress, _ := cmd.Flags().GetInt("progress")

	p := mind.NoteNewParams{
		OutlineKey: args[0],
		Type:       typ,
		Offset:     offset,
		Depth:      depth,
		Tags:       splitTags(tagsStr),
		Progress:   progress,
	}
	if len(args) > 1 {
		p.Name = strings.Join(args[1:], " ")
	}
	if stat, _ := os.Stdin.Stat(); (stat.Mode() & os.ModeCharDevice) == 0 {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			exitErr("read stdin", err)
		}
		if s := strings.TrimSpace(string(b)); s != "" {
			p.Stencil = &model.Stencil{Content: s}
		}
	}
	if p.Name == "" && p.Stencil != nil {
		if blocks := chunker.Blocks(p.Stencil.Content); len(blocks) > 0 {
			p.Name = strings.TrimLeft(strings.SplitN(blocks[0], "\n", 2)[0], "# ")
		}
	}
	if p.Name == "" {
		exitErr("note add", fmt.Errorf("note name is required (positional arg or stdin)"))
	}

	s, err := openMind(cmd.Context())
	if err != nil {
		exitErr("open mind", err)
	}
	defer s.Close()

	n, err := s.mind.NoteNew(cmd.Context(), p)
	if err != nil {
		exitErr("note add", err)
	}
	printJSON(viewNote(n, notePos(n), true))
}

func runNoteClone(cmd *cobra.Command, args []string) {
	s, err := openMind(cmd.Context())
	if err != nil {
		exitErr("open mind", err)
	}
	defer s.Close()

	n, err := noteAt(s.mind, args[0], parsePos(args[1]))
	if err != nil {
		exitErr("note clone", err)
	}
	clone, err := s.mind.NoteClone(cmd.Context(), args[0], n)
	if err != nil {
		exitErr("note clone", err)
	}
	printJSON(viewNote(clone, notePos(clone), true))
}

func runNoteForget(cmd *cobra.Command, args []string) {
	s, err := openMind(cmd.Context())
	if err != nil {
		exitErr("open mind", err)
	}
	defer s.Close()

	n, err := noteAt(s.mind, args[0], parsePos(args[1]))
	if err != nil {
		exitErr("note forget", err)
	}
	o, err := s.mind.NoteForget(cmd.Context(), n)
	if err != nil {
		exitErr("note forget", err)
	}
	fmt.Printf("forgotten: %s, %d notes remain\n", n.Name, o.NoteCount())
}

func runNoteRefactor(cmd *cobra.Command, args []string) {
	s, err := openMind(cmd.Context())
	if err != nil {
		exitErr("open mind", err)
	}
	defer s.Close()

	n, err := noteAt(s.mind, args[0], parsePos(args[1]))
	if err != nil {
		exitErr("note refactor", err)
	}
	target, err := s.mind.NoteRefactor(cmd.Context(), n, args[2])
	if err != nil {
		exitErr("note refactor", err)
	}
	printJSON(viewOutline(target, true))
}

func runNoteMove(cmd *cobra.Command, args []string) {
	s, err := openMind(cmd.Context())
	if err != nil {
		exitErr("open mind", err)
	}
	defer s.Close()

	n, err := noteAt(s.mind, args[0], parsePos(args[1]))
	if err != nil {
		exitErr("note move", err)
	}

	var patch model.Patch
	switch args[2] {
	case "up":
		patch, err = s.mind.NoteUp(cmd.Context(), n)
	case "down":
		patch, err = s.mind.NoteDown(cmd.Context(), n)
	case "first":
		patch, err = s.mind.NoteFirst(cmd.Context(), n)
	case "last":
		patch, err = s.mind.NoteLast(cmd.Context(), n)
	case "promote":
		patch, err = s.mind.NotePromote(cmd.Context(), n)
	case "demote":
		patch, err = s.mind.NoteDemote(cmd.Context(), n)
	default:
		exitErr("note move", fmt.Errorf("unknown direction %q", args[2]))
	}
	if err != nil {
		exitErr("note move", err)
	}
	printJSON(map[string]any{
		"moved": patch.Diff != model.PatchNoChange,
		"pos":   notePos(n),
		"depth": n.Depth,
	})
}
