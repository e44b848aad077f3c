package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/elemduel/duel-server-go/internal/game"
	"github.com/elemduel/duel-server-go/internal/repository"
)

func newReplayCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Inspect stored replays",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List stored replays",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				store, err := repository.Open(cmd.Context(), a.cfg.Replay, a.logger)
				if err != nil {
					return err
				}
				defer store.Close()

				infos, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				return printList(cmd.OutOrStdout(), infos)
			},
		},
		newShowCommand(a),
	)
	return cmd
}

// showOptions select which states of a replay are printed.
type showOptions struct {
	actionsOnly bool
	from        int
	step        int
}

func newShowCommand(a *app) *cobra.Command {
	opts := showOptions{step: 1}
	cmd := &cobra.Command{
		Use:   "show GAME_ID",
		Short: "Print the states of one replay",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.step == 0 {
				return errors.New("--step must not be 0")
			}
			store, err := repository.Open(cmd.Context(), a.cfg.Replay, a.logger)
			if err != nil {
				return err
			}
			defer store.Close()

			rec := game.NewReplayRecorder(a.logger, store)
			replay, err := rec.LoadReplay(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printReplay(cmd.OutOrStdout(), replay, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.actionsOnly, "actions", false, "only print states reached by player actions")
	cmd.Flags().IntVar(&opts.from, "from", 0, "index of the first state to print (negative counts from the end)")
	cmd.Flags().IntVar(&opts.step, "step", 1, "states to advance between prints (negative walks backwards)")
	return cmd
}

func printList(out io.Writer, infos []repository.ReplayInfo) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "GAME\tOUTCOME\tROUNDS\tSTATES\tSAVED")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			info.GameID, info.Outcome, info.Rounds, info.States, info.SavedAt.Format("2006-01-02T15:04:05Z"))
	}
	return w.Flush()
}

func printReplay(out io.Writer, replay *game.Replay, opts showOptions) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tROUND\tPHASE\tACTOR\tACTION\tP1 HP\tP2 HP")
	from := opts.from
	if from < 0 {
		from += replay.Size()
	}
	for s := replay.Seek(from); s != nil; {
		if !opts.actionsOnly || s.Action != "" {
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
				s.Index, s.Round, s.Phase, s.Actor, s.Action, teamHP(s, 0), teamHP(s, 1))
		}
		next := replay.Skip(opts.step)
		if next == nil || next.Index == s.Index {
			break
		}
		s = next
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if last := replay.Last(); last != nil {
		fmt.Fprintf(out, "outcome=%s rounds=%d states=%d\n", last.Outcome, last.Round, replay.Size())
	}
	return nil
}

func teamHP(s *game.Snapshot, seat int) string {
	if seat >= len(s.Players) {
		return "-"
	}
	hp := ""
	for i, c := range s.Players[seat].Characters {
		if i > 0 {
			hp += "/"
		}
		hp += fmt.Sprint(c.HP)
	}
	return hp
}
