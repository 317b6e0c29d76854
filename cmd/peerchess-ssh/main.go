package main

import (
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/gliderlabs/ssh"
	"github.com/pkg/errors"

	"github.com/qnkhuat/peerchess/pkg/logging"
	"github.com/qnkhuat/peerchess/pkg/sshd"
	"github.com/qnkhuat/peerchess/pkg/transport"
)

func defaultBinary() string {
	exe, err := os.Executable()
	if err != nil {
		return "peerchess"
	}
	return filepath.Join(filepath.Dir(exe), "peerchess")
}

func main() {
	addr := flag.String("addr", sshd.DefaultAddr, "ssh listen address")
	binary := flag.String("binary", defaultBinary(), "path to the peerchess binary")
	hostKey := flag.String("hostkey", "", "host key file (a key is generated when empty)")
	logPath := flag.String("log", "./ssh.log", "path to log file")
	gameLog := flag.String("game-log", "./log", "log file for the hosted games")
	network := flag.String("transport", transport.TCP, "transport between hosted peers: tcp or ws")
	idle := flag.Duration("idle", sshd.DefaultIdleTimeout, "disconnect idle sessions after")
	flag.Parse()

	log := logging.New(*logPath, "sshd")
	defer logging.Sync(log)

	s, err := sshd.New(sshd.Config{
		Addr:        *addr,
		Binary:      *binary,
		Flags:       []string{"-log", *gameLog, "-transport", *network},
		HostKeyFile: *hostKey,
		IdleTimeout: *idle,
	}, log)
	if err != nil {
		color.Red("peerchess-ssh: %v", err)
		os.Exit(1)
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		log.Info("Shutting down")
		s.Close()
	}()

	color.Cyan("Listening on %s, play with: ssh -t <host> -p <port> s|c <game port>", *addr)
	log.Infow("Listening", "addr", *addr, "binary", *binary)
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		log.Errorw("Server stopped", "error", err)
		logging.Sync(log)
		color.Red("peerchess-ssh: %v", err)
		os.Exit(1)
	}
}
