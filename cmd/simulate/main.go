// Package main provides the damage simulator binary: it loads one character
// class and reports the average damage of one skill level against the
// configured defender.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/hwextract/internal/config"
	"github.com/cory-johannsen/hwextract/internal/extract"
	"github.com/cory-johannsen/hwextract/internal/game/entity"
	"github.com/cory-johannsen/hwextract/internal/game/sim"
	"github.com/cory-johannsen/hwextract/internal/observability"
	"github.com/cory-johannsen/hwextract/internal/sval"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty uses defaults and HWX_ environment")
	root := flag.String("root", "", "game data directory (overrides extract.root)")
	class := flag.String("class", "", "character class, e.g. ranger")
	skillIdx := flag.Int("skill", 0, "zero-based index into the class skill list")
	level := flag.Int("level", 0, "zero-based skill level")
	times := flag.Int("times", 0, "iterations (overrides simulation.iterations)")
	flag.Parse()

	if *class == "" {
		fmt.Fprintln(os.Stderr, "usage: simulate -class <name> [-skill <n>] [-level <n>] [-times <n>] [-config <file>]")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *root != "" {
		cfg.Extract.Root = *root
	}
	if *times > 0 {
		cfg.Simulation.Iterations = *times
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ectx := entity.NewContext(sval.NewLoader(cfg.Extract.Root), entity.WithLogger(logger.Named("resolve")))
	ch, err := extract.New(ectx).LoadCharacter(*class)
	if err != nil {
		logger.Fatal("loading character", zap.String("class", *class), zap.Error(err))
	}
	if *skillIdx < 0 || *skillIdx >= len(ch.Skills) {
		logger.Fatal("skill index out of range",
			zap.Int("skill", *skillIdx),
			zap.Int("skills", len(ch.Skills)),
		)
	}
	skill := ch.Skills[*skillIdx]

	src := sim.NewCryptoSource()
	if cfg.Simulation.Seed != 0 {
		src = sim.NewSeededSource(cfg.Simulation.Seed)
	}
	st := sim.State{
		EnemyCount:       cfg.Simulation.EnemyCount,
		EvadePhysical:    cfg.Simulation.EvadePhysical,
		EvadeMagical:     cfg.Simulation.EvadeMagical,
		Armor:            cfg.Simulation.Armor,
		Resistance:       cfg.Simulation.Resistance,
		DamageMultiplier: cfg.Simulation.DamageMultiplier,
	}
	res, err := sim.NewSimulator(src, logger).Simulate(skill, *level, st, cfg.Simulation.Iterations)
	if err != nil {
		logger.Fatal("simulating", zap.Error(err))
	}

	out := struct {
		Class  string     `json:"class"`
		Skill  string     `json:"skill"`
		Level  int        `json:"level"`
		Damage sim.Result `json:"damage"`
	}{*class, skill.Name, *level, res.Rounded()}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Fatal("writing result", zap.Error(err))
	}
	logger.Info("simulation complete",
		zap.Int("iterations", cfg.Simulation.Iterations),
		zap.Duration("elapsed", time.Since(start).Round(time.Millisecond)),
	)
}
