package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "rolewarden"
	app.Usage = "Guild role administration agent"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path of the configuration file",
			Value: "config.toml",
		},
	}
	app.Commands = []*cli.Command{
		{
			Action:      server.startAgent,
			Name:        "agent",
			Usage:       "Start the role administration agent",
			Category:    "Agent",
			Description: `Runs the agent which serves role-admin intents and keeps the security lists fresh.`,
		},
		{
			Action:      server.reloadSecurity,
			Name:        "reload-security",
			Usage:       "Reload banned and privileged lists once",
			Category:    "Operation",
			Description: `Forces a one-shot reload of guild bans, user bans, contributors and bot admins.`,
		},
		{
			Action:      server.migrate,
			Name:        "migrate",
			Usage:       "Run database migration",
			Category:    "Operation",
			Description: `Creates or updates the database tables used by the agent.`,
		},
	}

	s.app = app
}
