// tablesim runs AI-vs-AI poker tables to exercise the engine end to end.
// Each table plays a fixed number of hands (or until one player holds all
// the chips) with every action flowing through the gateway, exactly as a
// networked client's would.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/decred/slog"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"cardroom/pkg/ai"
	"cardroom/pkg/gateway"
	"cardroom/pkg/poker"
)

type simConfig struct {
	Tables        int    `env:"SIM_TABLES" env-default:"2"`
	HandsPerTable int    `env:"SIM_HANDS" env-default:"50"`
	Seats         int    `env:"SIM_SEATS" env-default:"4"`
	StartingStack int64  `env:"SIM_STACK" env-default:"2000"`
	SmallBlind    int64  `env:"SIM_SMALL_BLIND" env-default:"10"`
	BigBlind      int64  `env:"SIM_BIG_BLIND" env-default:"20"`
	McSamples     int    `env:"SIM_MC_SAMPLES" env-default:"1000"`
	TurnTimeoutMs int    `env:"SIM_TURN_TIMEOUT_MS" env-default:"5000"`
	Seed          int64  `env:"SIM_SEED" env-default:"0"`
	DebugLevel    string `env:"SIM_DEBUG_LEVEL" env-default:"info"`
}

func main() {
	_ = godotenv.Load()

	var cfg simConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to read config: %v\n", err)
		os.Exit(1)
	}
	flag.IntVar(&cfg.Tables, "tables", cfg.Tables, "Number of tables to run in parallel")
	flag.IntVar(&cfg.HandsPerTable, "hands", cfg.HandsPerTable, "Hands to play per table")
	flag.IntVar(&cfg.Seats, "seats", cfg.Seats, "Players per table (2-10)")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Deterministic RNG seed (0 = random)")
	flag.StringVar(&cfg.DebugLevel, "debuglevel", cfg.DebugLevel, "Logging level: trace, debug, info, warn, error")
	flag.Parse()

	backend := slog.NewBackend(os.Stderr)
	log := backend.Logger("SIM")
	if lvl, ok := slog.LevelFromString(cfg.DebugLevel); ok {
		log.SetLevel(lvl)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < cfg.Tables; i++ {
		tableNum := i
		tableLog := backend.Logger(fmt.Sprintf("TBL%d", tableNum))
		if lvl, ok := slog.LevelFromString(cfg.DebugLevel); ok {
			tableLog.SetLevel(lvl)
		}
		g.Go(func() error {
			return runTable(ctx, cfg, seed+int64(tableNum), tableLog)
		})
	}
	if err := g.Wait(); err != nil {
		log.Errorf("simulation failed: %v", err)
		os.Exit(1)
	}
	log.Infof("simulation complete: %d tables, up to %d hands each", cfg.Tables, cfg.HandsPerTable)
}

// runTable plays hands on one table until the hand budget is spent, the
// table has a single funded player, or ctx is cancelled.
func runTable(ctx context.Context, cfg simConfig, seed int64, log slog.Logger) error {
	rng := rand.New(rand.NewSource(seed))
	table, err := poker.NewTable(poker.TableConfig{
		SmallBlind: cfg.SmallBlind,
		BigBlind:   cfg.BigBlind,
		Rng:        rng,
		Log:        log,
	})
	if err != nil {
		return err
	}
	for s := 0; s < cfg.Seats; s++ {
		name := fmt.Sprintf("bot-%d", s)
		if _, err := table.AddPlayer(name, name, cfg.StartingStack); err != nil {
			return err
		}
	}

	oracle := ai.NewMonteCarlo(cfg.McSamples, rand.New(rand.NewSource(seed+1)))
	turnTimeout := time.Duration(cfg.TurnTimeoutMs) * time.Millisecond

	for handNum := 0; handNum < cfg.HandsPerTable; handNum++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if table.Funded() < 2 {
			break
		}
		if err := playHand(ctx, table, oracle, turnTimeout, log); err != nil {
			return fmt.Errorf("table hand %d: %w", handNum+1, err)
		}
	}

	if w := table.Winner(); w != nil {
		log.Infof("%s wins the table with %d", w.Name, w.Stack)
	} else {
		for _, p := range table.Players() {
			log.Infof("%s finishes with %d", p.Name, p.Stack)
		}
	}
	return nil
}

// playHand runs a single hand to completion through the gateway.
func playHand(ctx context.Context, table *poker.Table, oracle ai.Oracle, turnTimeout time.Duration, log slog.Logger) error {
	hand, err := table.StartHand()
	if err != nil {
		return err
	}

	eventCh := make(chan poker.Event, 256)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for ev := range eventCh {
			logEvent(log, hand.HandNum(), ev)
		}
	}()

	gw := gateway.New(gateway.Config{Hand: hand, Log: log, EventCh: eventCh})
	defer func() {
		close(eventCh)
		<-drained
	}()

	agents := make(map[int]*ai.Agent)
	for _, p := range table.Players() {
		agents[p.Seat] = &ai.Agent{
			Gateway: gw,
			Oracle:  oracle,
			Seat:    p.Seat,
			Timeout: turnTimeout / 2,
			Log:     log,
		}
	}

	for !gw.Over() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if gw.RevealPending() {
			if res := gw.AdvanceReveal(); res.Err != nil {
				return res.Err
			}
			continue
		}

		snap := gw.Snapshot()
		if snap.ActionOn < 0 {
			return fmt.Errorf("hand %d stalled in phase %s", snap.HandNum, snap.Phase)
		}
		seat := snap.ActionOn

		// Safety net around a slow agent; normally the timer never fires.
		timer := time.AfterFunc(turnTimeout, func() {
			if _, folded := gw.TimeoutFold(seat); folded {
				log.Warnf("hand %d: folded seat %d on timeout", snap.HandNum, seat)
			}
		})
		res, acted := agents[seat].Act(ctx)
		timer.Stop()

		if acted && res.Err != nil {
			if _, ok := poker.IsRuleError(res.Err); !ok {
				return res.Err
			}
			// A rule rejection here means the timeout fold won the race.
		}
	}
	return nil
}

func logEvent(log slog.Logger, handNum int, ev poker.Event) {
	switch ev.Type {
	case poker.EventCardDealt:
		if ev.Seat < 0 {
			log.Debugf("hand %d: board %s", handNum, poker.FormatCards(ev.Cards))
		}
	case poker.EventBetApplied:
		log.Tracef("hand %d: seat %d %s %d", handNum, ev.Seat, ev.Kind, ev.Amount)
	case poker.EventPhaseAdvanced:
		log.Debugf("hand %d: phase %s", handNum, ev.Phase)
	case poker.EventPotAwarded:
		log.Infof("hand %d: seat %d wins %d (pot %d)", handNum, ev.Seat, ev.Amount, ev.PotIdx)
	case poker.EventHandOver:
		log.Debugf("hand %d: over", handNum)
	}
}
