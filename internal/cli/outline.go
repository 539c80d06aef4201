package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mindkeep/mindkeep/internal/mind"
	"github.com/mindkeep/mindkeep/internal/model"
)

func init() {
	outline := &cobra.Command{
		Use:   "outline",
		Short: "Manage outlines",
	}

	newCmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create an outline",
		Long:  "Create an outline. Preamble content can be piped via stdin; a stencil seeds name and content.",
		Run:   runOutlineNew,
	}
	newCmd.Flags().String("type", "", "Outline type")
	newCmd.Flags().IntP("importance", "i", 0, "Importance 0-5")
	newCmd.Flags().IntP("urgency", "u", 0, "Urgency 0-5")
	newCmd.Flags().IntP("progress", "p", 0, "Progress 0-100")
	newCmd.Flags().StringP("tags", "t", "", "Comma-separated tags")
	newCmd.Flags().String("stencil", "", "Stencil file to seed from")

	cloneCmd := &cobra.Command{
		Use:   "clone <key>",
		Short: "Deep-copy an outline under a new key",
		Args:  cobra.ExactArgs(1),
		Run:   runOutlineClone,
	}

	forgetCmd := &cobra.Command{
		Use:   "forget <key>",
		Short: "Move an outline to limbo",
		Args:  cobra.ExactArgs(1),
		Run:   runOutlineForget,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List outlines",
		Run:   runOutlineList,
	}
	listCmd.Flags().Bool("keys-only", false, "Only output keys")

	showCmd := &cobra.Command{
		Use:   "show <key>",
		Short: "Show an outline with its notes",
		Args:  cobra.ExactArgs(1),
		Run:   runOutlineShow,
	}

	outline.AddCommand(newCmd, cloneCmd, forgetCmd, listCmd, showCmd)
	RootCmd.AddCommand(outline)
}

func runOutlineNew(cmd *cobra.Command, args []string) {
	typ, _ := cmd.Flags().GetString("type")
	importance, _ := cmd.Flags().GetInt("importance")
	urgency, _ := cmd.Flags().GetInt("urgency")
	progress, _ := cmd.Flags().GetInt("progress")
	tagsStr, _ := cmd.Flags().GetString("tags")
	stencilPath, _ := cmd.Flags().GetString("stencil")

	p := mind.OutlineNewParams{
		Type:       typ,
		Importance: importance,
		Urgency:    urgency,
		Progress:   progress,
		Tags:       splitTags(tagsStr),
	}
	if len(args) > 0 {
		p.Name = strings.Join(args, " ")
	}
	if stencilPath != "" {
		b, err := os.ReadFile(stencilPath)
		if err != nil {
			exitErr("read stencil", err)
		}
		name := strings.TrimSuffix(stencilPath, ".md")
		p.Stencil = &model.Stencil{Name: name, Content: string(b)}
	}
	if stat, _ := os.Stdin.Stat(); (stat.Mode() & os.ModeCharDevice) == 0 {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			exitErr("read stdin", err)
		}
		if s := strings.TrimSpace(string(b)); s != "" {
			p.Preamble = strings.Split(s, "\n")
		}
	}

	s, err := openMind(cmd.Context())
	if err != nil {
		exitErr("open mind", err)
	}
	defer s.Close()

	key, err := s.mind.OutlineNew(cmd.Context(), p)
	if err != nil {
		exitErr("outline new", err)
	}
	printJSON(viewOutline(s.mind.Outline(key), false))
}

func runOutlineClone(cmd *cobra.Command, args []string) {
	s, err := openMind(cmd.Context())
	if err != nil {
		exitErr("open mind", err)
	}
	defer s.Close()

	clone, err := s.mind.OutlineClone(cmd.Context(), args[0])
	if err != nil {
		exitErr("outline clone", err)
	}
	if clone == nil {
		exitErr("outline clone", fmt.Errorf("outline not found: %s", args[0]))
	}
	printJSON(viewOutline(clone, false))
}

func runOutlineForget(cmd *cobra.Command, args []string) {
	s, err := openMind(cmd.Context())
	if err != nil {
		exitErr("open mind", err)
	}
	defer s.Close()

	ok, err := s.mind.OutlineForget(cmd.Context(), args[0])
	if err != nil {
		exitErr("outline forget", err)
	}
	if !ok {
		exitErr("outline forget", fmt.Errorf("outline not found: %s", args[0]))
	}
	fmt.Printf("forgotten: %s\n", args[0])
}

func runOutlineList(cmd *cobra.Command, args []string) {
	keysOnly, _ := cmd.Flags().GetBool("keys-only")

	s, err := openMind(cmd.Context())
	if err != nil {
		exitErr("open mind", err)
	}
	defer s.Close()

	outlines := s.mind.Outlines()
	if keysOnly || formatFlag == "text" {
		for _, o := range outlines {
			if keysOnly {
				fmt.Println(o.Key)
			} else {
				fmt.Printf("%s\t%s\t(%d notes)\n", o.Key, o.Name, o.NoteCount())
			}
		}
		return
	}

	views := make([]outlineView, 0, len(outlines))
	for _, o := range outlines {
		views = append(views, viewOutline(o, false))
	}
	printJSON(views)
}

func runOutlineShow(cmd *cobra.Command, args []string) {
	s, err := openMind(cmd.Context())
	if err != nil {
		exitErr("open mind", err)
	}
	defer s.Close()

	o := s.mind.Outline(args[0])
	if o == nil {
		exitErr("outline show", fmt.Errorf("outline not found: %s", args[0]))
	}
	if formatFlag == "text" {
		fmt.Printf("%s (%s)\n", o.Name, o.Key)
		for _, line := range o.Preamble {
			fmt.Println(line)
		}
		for _, n := range o.Notes() {
			fmt.Printf("%s- %s\n", strings.Repeat("  ", n.Depth), n.Name)
		}
		return
	}
	printJSON(viewOutline(o, true))
}
