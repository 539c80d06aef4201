package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	think := &cobra.Command{
		Use:   "think",
		Short: "Dream up associations between notes",
		Long:  "Transition the mind to DREAMING, infer relations between every pair of notes, persist them, and wake up THINKING.",
		Run:   runThink,
	}
	sleep := &cobra.Command{
		Use:   "sleep",
		Short: "Rest the mind and drop derived caches",
		Run:   runSleep,
	}
	amnesia := &cobra.Command{
		Use:   "amnesia",
		Short: "Forget everything in memory",
		Long:  "Force the mind to sleep and wipe all outlines from memory. Storage is untouched; the next learn brings everything back.",
		Run:   runAmnesia,
	}

	RootCmd.AddCommand(think, sleep, amnesia)
}

func runThink(cmd *cobra.Command, args []string) {
	s, err := openMind(cmd.Context())
	if err != nil {
		exitErr("open mind", err)
	}
	defer s.Close()

	ok, err := s.mind.Think(cmd.Context()).Await(cmd.Context())
	if err != nil {
		exitErr("think", err)
	}
	if err := s.cfg.Save(); err != nil {
		exitErr("persist configuration", err)
	}

	b, _ := json.Marshal(map[string]any{
		"ok":        ok,
		"state":     s.mind.State(),
		"relations": len(s.engine.Triples()),
	})
	fmt.Println(string(b))
}

func runSleep(cmd *cobra.Command, args []string) {
	s, err := openMind(cmd.Context())
	if err != nil {
		exitErr("open mind", err)
	}
	defer s.Close()

	ok := s.mind.Sleep(cmd.Context())
	b, _ := json.Marshal(map[string]any{"ok": ok, "state": s.mind.State()})
	fmt.Println(string(b))
}

func runAmnesia(cmd *cobra.Command, args []string) {
	s, err := openMind(cmd.Context())
	if err != nil {
		exitErr("open mind", err)
	}
	defer s.Close()

	ok := s.mind.Amnesia(cmd.Context())
	b, _ := json.Marshal(map[string]any{"ok": ok, "state": s.mind.State()})
	fmt.Println(string(b))
}
