package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/qnkhuat/peerchess/pkg/gui"
	"github.com/qnkhuat/peerchess/pkg/logging"
	"github.com/qnkhuat/peerchess/pkg/peer"
	"github.com/qnkhuat/peerchess/pkg/transport"
)

func fail(err error, code int) {
	color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "peerchess: %v\n", err)
	os.Exit(code)
}

func main() {
	logPath := flag.String("log", "./log", "path to log file")
	network := flag.String("transport", transport.TCP, "transport: tcp or ws")
	fen := flag.String("fen", "", "start position in FEN, both peers must pass the same one")
	themeName := flag.String("theme", gui.ThemeBasic.Name, "board theme: basic, classic, dark or a name from -theme-file")
	themeFile := flag.String("theme-file", "", "JSON file with a list of themes")
	name := flag.String("name", "", "your display name (random when empty)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "%v\n\n  s  listen and play White\n  c  connect and play Black\n\n", peer.ErrUsage)
		flag.PrintDefaults()
	}
	flag.Parse()

	role, port, err := peer.ParseArgs(flag.Args())
	if err != nil {
		flag.Usage()
		fail(err, 2)
	}
	theme, err := gui.ResolveTheme(*themeName, *themeFile)
	if err != nil {
		fail(err, 2)
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		fail(errors.New("non-interactive terminals are not supported"), 1)
	}

	log := logging.New(*logPath, role.String())
	defer logging.Sync(log)
	log.Infow("Starting", "role", role.String(), "port", port, "transport", *network)

	cfg := peer.Config{
		Role:    role,
		Port:    port,
		Network: *network,
		FEN:     *fen,
		Name:    *name,
	}
	ui := gui.New(theme, peer.LayoutFor(role.Color()))

	// Down when killed
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		<-sigc
		ui.Stop()
	}()

	if err := peer.Play(cfg, ui, log); err != nil {
		log.Errorw("Game ended with error", "error", err)
		logging.Sync(log)
		fail(err, 1)
	}
	log.Info("Bye")
	color.Green("Thanks for playing!")
}
