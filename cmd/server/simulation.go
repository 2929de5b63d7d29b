package main

import (
	"strconv"
	"time"

	engine "github.com/jason-s-yu/sabacc/engine"
	"github.com/jason-s-yu/sabacc/engine/agent"
	"github.com/sirupsen/logrus"
)

const simulationMaxSteps = 100000

// StartSimulation plays random tables and logs how the winning hands were classed.
func StartSimulation(rules engine.HouseRules, args []string) {
	games := 1000
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			logrus.WithField("arg", args[0]).Fatal("games must be a positive integer")
		}
		games = n
	}

	start := time.Now()
	seed := uint64(start.UnixNano())
	kinds := map[engine.ScoreKind]int{}
	ties, steps := 0, 0
	for i := 0; i < games; i++ {
		g := engine.NewGame(seed+uint64(i), rules)
		res, n, err := agent.PlayGame(&g, agent.NewRandom(seed^uint64(i)), simulationMaxSteps)
		if err != nil {
			logrus.WithError(err).WithField("game", i).Fatal("simulation failed")
		}
		if err := g.CheckConservation(); err != nil {
			logrus.WithError(err).WithField("game", i).Fatal("deck conservation violated")
		}
		kinds[res.Kind]++
		if len(res.Winners) > 1 {
			ties++
		}
		steps += n
	}

	logrus.WithFields(logrus.Fields{
		"games":       games,
		"players":     rules.NumPlayers,
		"pure_sabacc": kinds[engine.KindPureSabacc],
		"sabacc":      kinds[engine.KindSabacc],
		"numeric":     kinds[engine.KindNumeric],
		"ties":        ties,
		"avg_steps":   float64(steps) / float64(games),
		"elapsed":     time.Since(start).String(),
	}).Info("simulation finished")
}
