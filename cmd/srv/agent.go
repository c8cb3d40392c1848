package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rolewarden/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startAgent(cliCtx *cli.Context) error {
	s.loadConfig(cliCtx)
	s.loadLogger()
	s.loadDatabase()
	s.loadRepos()
	s.loadSecurityStore()
	s.loadEndpoint()
	s.loadDomains()

	xcontext.Logger(s.ctx).Infof("Agent started as bot %s", s.discordEndpoint.BotID())

	interval := time.Duration(xcontext.Configs(s.ctx).Security.ReloadIntervalSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// SIGHUP forces a reload between ticks.
	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			s.reload()
		case <-reload:
			s.reload()
		case sig := <-stop:
			xcontext.Logger(s.ctx).Infof("Agent stopped by signal %s", sig)
			return nil
		}
	}
}

// reload refreshes the security lists. A failure keeps the last snapshot, so
// it is logged and the agent carries on.
func (s *srv) reload() {
	if err := s.securityStore.Load(s.ctx); err != nil {
		xcontext.Logger(s.ctx).Warnf("Cannot reload security lists: %v", err)
		return
	}

	xcontext.Logger(s.ctx).Debugf("Reloaded security lists")
}
