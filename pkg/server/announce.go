package server

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

// startAnnouncements wires config.Announcements (SPEC_FULL.md DOMAIN STACK:
// robfig/cron/v3, grounded on nishisan-dev-n-backup/internal/agent/scheduler.go's
// cron.New(cron.WithLogger(...)) construction) into a *cron.Cron ticking
// independently of the 50ms game loop. Each firing enqueues a server task
// rather than touching player state directly, since cron invokes callbacks
// on its own goroutine and the player map is only ever safe to touch from
// Run's loop (spec §5).
func (s *Server) startAnnouncements() {
	if len(s.cfg.Announcements) == 0 {
		return
	}
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(s.log.Handler(), slog.LevelDebug))))
	for _, a := range s.cfg.Announcements {
		message := a.Message
		_, err := c.AddFunc(a.Cron, func() {
			select {
			case s.tasks <- func(srv *Server) { srv.broadcastChat(message) }:
			case <-s.bus.Done():
			}
		})
		if err != nil {
			s.log.Error("console: invalid announcement cron expression", "cron", a.Cron, "err", err)
		}
	}
	c.Start()
	s.cron = c
}

func (s *Server) stopAnnouncements() {
	if s.cron != nil {
		s.cron.Stop()
	}
}
