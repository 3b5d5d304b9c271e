package server

import (
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// reportStatus answers the console "status" command (SPEC_FULL.md DOMAIN
// STACK: extends spec §4.H's console parser beyond stop/kick) by sampling
// host CPU and memory the way nishisan-dev-n-backup/internal/agent/monitor.go's
// SystemMonitor.collect does, alongside this actor's own tick counter.
func (s *Server) reportStatus() {
	fields := []any{
		"players", len(s.players),
		"max_players", s.cfg.MaxPlayers,
		"ticks", s.tickCount,
	}
	if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
		fields = append(fields, "cpu_percent", pct[0])
	}
	if v, err := mem.VirtualMemory(); err == nil {
		fields = append(fields, "mem_percent", v.UsedPercent)
	}
	s.log.Info("console: status", fields...)
}
