package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/elemduel/duel-server-go/internal/config"
	"github.com/elemduel/duel-server-go/internal/game"
	"github.com/elemduel/duel-server-go/internal/game/agent"
	"github.com/elemduel/duel-server-go/internal/game/content"
	"github.com/elemduel/duel-server-go/internal/game/state"
	"github.com/elemduel/duel-server-go/internal/repository"
)

const deckSize = 30

func newRunCommand(a *app) *cobra.Command {
	var (
		seed  int64
		games int
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Play seeded games between random agents",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("seed") {
				a.cfg.Simulation.Seed = seed
			}
			if cmd.Flags().Changed("games") {
				a.cfg.Simulation.Games = games
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runGames(ctx, a.cfg, a.logger, cmd.OutOrStdout())
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed of the first game (overrides simulation.seed)")
	cmd.Flags().IntVar(&games, "games", 0, "number of games to play (overrides simulation.games)")
	return cmd
}

func runGames(ctx context.Context, cfg *config.Config, logger *zap.Logger, out io.Writer) error {
	var store repository.Store
	if cfg.Replay.Enabled {
		var err error
		store, err = repository.Open(ctx, cfg.Replay, logger)
		if err != nil {
			return err
		}
		defer store.Close()
	}
	var rec *game.ReplayRecorder
	if store != nil {
		rec = game.NewReplayRecorder(logger, store)
	}

	tally := make(map[state.Outcome]int)
	for i := 0; i < cfg.Simulation.Games; i++ {
		seed := cfg.Simulation.Seed + int64(i)
		sm, outcome, err := playAndSave(ctx, cfg, seed, rec, logger)
		if err != nil {
			return fmt.Errorf("game %d (seed %d): %w", i+1, seed, err)
		}
		tally[outcome]++
		gs := sm.Current()
		fmt.Fprintf(out, "%s seed=%d outcome=%s rounds=%d states=%d\n",
			sm.ID(), seed, outcome, gs.Round, sm.Len())
	}

	fmt.Fprintf(out, "games=%d p1=%d p2=%d draws=%d\n", cfg.Simulation.Games,
		tally[state.OutcomeP1Wins], tally[state.OutcomeP2Wins], tally[state.OutcomeDraw])
	return nil
}

// playAndSave plays one game and stores its replay. The replay of a game
// that fails is discarded.
func playAndSave(ctx context.Context, cfg *config.Config, seed int64, rec *game.ReplayRecorder, logger *zap.Logger) (*game.StateMachine, state.Outcome, error) {
	sm, outcome, err := playOne(ctx, cfg, seed, rec, logger)
	if rec == nil {
		return sm, outcome, err
	}
	if err != nil {
		rec.DiscardReplay(sm.ID(), err)
		return sm, outcome, err
	}
	if err := rec.SaveReplay(ctx, sm.ID()); err != nil {
		return sm, outcome, err
	}
	return sm, outcome, nil
}

func playOne(ctx context.Context, cfg *config.Config, seed int64, rec *game.ReplayRecorder, logger *zap.Logger) (*game.StateMachine, state.Outcome, error) {
	newPlayer := func() *state.PlayerState {
		return state.NewPlayerState(content.StarterTeam(), content.StarterDeck(deckSize))
	}
	gs := state.NewGameState(cfg.Game, seed, newPlayer(), newPlayer())
	agents := [2]game.Agent{
		agent.NewRandomAgent(seed*2+1, logger.Named("p1")),
		agent.NewRandomAgent(seed*2+2, logger.Named("p2")),
	}
	opts := []game.Option{game.WithPatience(cfg.Simulation.Patience)}
	if rec != nil {
		opts = append(opts, game.WithRecorder(rec))
	}
	sm := game.NewStateMachine(gs, agents, logger, opts...)
	outcome, err := sm.RunToEnd(ctx)
	return sm, outcome, err
}
