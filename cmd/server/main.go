// Command server boots the protocol core: load config, build the world,
// start the Server actor, the network acceptor, and (if configured) the
// admin console listener, then block until an interrupt or a console
// "stop" tears everything down.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/ironclad-mc/mcserver/internal/config"
	"github.com/ironclad-mc/mcserver/internal/logging"
	"github.com/ironclad-mc/mcserver/internal/schematic"
	"github.com/ironclad-mc/mcserver/pkg/admin"
	"github.com/ironclad-mc/mcserver/pkg/blockids"
	"github.com/ironclad-mc/mcserver/pkg/protocol"
	"github.com/ironclad-mc/mcserver/pkg/server"
	"github.com/ironclad-mc/mcserver/pkg/shutdown"
	"github.com/ironclad-mc/mcserver/pkg/world"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	address := flag.String("address", "", "Override server_ip:server_port, as host:port")
	maxPlayers := flag.Int("max-players", 0, "Override max_players (0 keeps the config value)")
	motd := flag.String("motd", "", "Override the status response's description")
	defaultGamemode := flag.String("default-gamemode", "", "Override default_gamemode")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	applyFlagOverrides(cfg, *address, *maxPlayers, *motd, *defaultGamemode)

	log := logging.New(cfg.TracingLevel)

	w := world.NewWorld()
	if cfg.SchematicPath != "" {
		data, err := schematic.Load(cfg.SchematicPath)
		if err != nil {
			log.Error("failed to load schematic", "path", cfg.SchematicPath, "err", err)
			os.Exit(1)
		}
		w.LoadSchematic(data)
		log.Info("loaded schematic", "path", cfg.SchematicPath,
			"width", data.Width, "height", data.Height, "length", data.Length)
	}

	catalog := blockids.DefaultCatalog(protocol.Supported)

	bus := shutdown.New()
	srv := server.New(cfg, w, catalog, bus, log)
	go srv.Run()

	acceptor, err := server.Listen(cfg.Address(), srv.Handle(), bus, log)
	if err != nil {
		log.Error("failed to bind game listener", "address", cfg.Address(), "err", err)
		os.Exit(1)
	}
	go acceptor.Run()
	log.Info("listening", "address", cfg.Address(), "protocols", protocol.Supported)

	if cfg.AdminListen != "" {
		startAdmin(cfg.AdminListen, srv, bus, log)
	}

	go func() {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			srv.ConsoleLine(sc.Text())
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutting down", "signal", sig.String())
	case <-bus.Done():
		log.Info("shutting down", "reason", "console stop")
	}

	bus.Shutdown()
	bus.Wait()
	log.Info("server stopped")
}

// startAdmin binds the yamux-multiplexed admin console listener (domain
// stack: pkg/admin) and tears it down once shutdown is observed.
func startAdmin(addr string, srv *server.Server, bus *shutdown.Bus, log *slog.Logger) {
	adminLn, err := admin.Listen(addr, srv, log)
	if err != nil {
		log.Error("failed to bind admin listener", "address", addr, "err", err)
		return
	}
	go adminLn.Run()
	go func() {
		<-bus.Done()
		adminLn.Close()
	}()
	log.Info("admin console listening", "address", addr)
}

// applyFlagOverrides layers non-empty/non-zero CLI flags onto cfg, the
// "flags override YAML" half of SPEC_FULL.md's configuration layering.
func applyFlagOverrides(cfg *config.Config, address string, maxPlayers int, motd, defaultGamemode string) {
	if address != "" {
		host, port, ok := splitHostPort(address)
		if ok {
			cfg.ServerIP = host
			cfg.ServerPort = port
		}
	}
	if maxPlayers != 0 {
		cfg.MaxPlayers = maxPlayers
	}
	if motd != "" {
		cfg.MOTD = motd
	}
	if defaultGamemode != "" {
		cfg.DefaultGamemode = defaultGamemode
	}
}

func splitHostPort(addr string) (host string, port int, ok bool) {
	h, p, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, false
	}
	n, err := strconv.Atoi(p)
	if err != nil {
		return "", 0, false
	}
	return h, n, true
}
