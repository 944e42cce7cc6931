package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Name = "snapchef-social"
	s.app.Usage = "Workers for the snapchef social layer"
	s.app.Action = cli.ShowAppHelp
	s.app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to the toml configuration file",
			Value: "config.toml",
		},
	}
	s.app.Commands = []*cli.Command{
		{
			Action:   server.startReconcile,
			Name:     "reconcile",
			Usage:    "Run one reconciliation sweep",
			Category: "Worker",
			Description: `Recounts follower and following counters from the edge records and
rewrites every recipe like counter from the like records, then exits.
Meant to be run periodically from a scheduler.`,
		},
		{
			Action:   server.startChallengeSubscriber,
			Name:     "challenge-subscriber",
			Usage:    "Start the challenge change subscriber",
			Category: "Worker",
			Description: `Consumes record change envelopes from kafka and invalidates the
cached challenge windows whenever a challenge record changes.`,
		},
	}
}
