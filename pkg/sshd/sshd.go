// Package sshd lets players without the binary join over ssh. Each
// interactive session runs peerchess in a pseudo-terminal, with the ssh
// command line ("s 4000", "c 4000") as its arguments.
package sshd

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/creack/pty"
	"github.com/gliderlabs/ssh"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	gossh "golang.org/x/crypto/ssh"

	"github.com/qnkhuat/peerchess/pkg/peer"
)

const (
	DefaultAddr        = ":2222"
	DefaultIdleTimeout = 5 * time.Minute
)

type Config struct {
	Addr        string
	Binary      string   // peerchess executable
	Flags       []string // passed before the role and port
	HostKeyFile string   // a fresh ed25519 key is generated when empty
	IdleTimeout time.Duration
}

type Server struct {
	*ssh.Server
	cfg Config
	log *zap.SugaredLogger
}

func New(cfg Config, log *zap.SugaredLogger) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	s := &Server{cfg: cfg, log: log}
	s.Server = &ssh.Server{
		Addr:        cfg.Addr,
		IdleTimeout: cfg.IdleTimeout,
		Handler:     s.handle,
	}

	if cfg.HostKeyFile != "" {
		if err := s.SetOption(ssh.HostKeyFile(cfg.HostKeyFile)); err != nil {
			return nil, errors.Wrapf(err, "sshd: host key %s", cfg.HostKeyFile)
		}
		return s, nil
	}
	signer, err := generateHostKey()
	if err != nil {
		return nil, err
	}
	s.AddHostKey(signer)
	return s, nil
}

func generateHostKey() (gossh.Signer, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "sshd: generate host key")
	}
	signer, err := gossh.NewSignerFromKey(priv)
	if err != nil {
		return nil, errors.Wrap(err, "sshd: host key signer")
	}
	return signer, nil
}

// Args builds the peerchess command line for an ssh command.
func (s *Server) Args(command []string) ([]string, error) {
	if _, _, err := peer.ParseArgs(command); err != nil {
		return nil, err
	}
	args := append([]string{}, s.cfg.Flags...)
	return append(args, command...), nil
}

func setWinsize(f *os.File, w, h int) error {
	return pty.Setsize(f, &pty.Winsize{Rows: uint16(h), Cols: uint16(w)})
}

// watchWindow applies window changes to f in the background. Once stop
// returns, f is no longer touched and may be closed.
func watchWindow(f *os.File, winCh <-chan ssh.Window, log *zap.SugaredLogger) (stop func()) {
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		for {
			select {
			case win, ok := <-winCh:
				if !ok {
					return
				}
				if err := setWinsize(f, win.Width, win.Height); err != nil {
					log.Warnw("Failed to resize pseudo-terminal", "error", err)
				}
			case <-done:
				return
			}
		}
	}()
	return func() {
		close(done)
		<-exited
	}
}

func (s *Server) handle(sess ssh.Session) {
	log := s.log.With("remote", sess.RemoteAddr().String(), "user", sess.User())

	ptyReq, winCh, isPty := sess.Pty()
	if !isPty {
		io.WriteString(sess, "non-interactive terminals are not supported\n")
		sess.Exit(1)
		return
	}

	args, err := s.Args(sess.Command())
	if err != nil {
		fmt.Fprintf(sess, "%v\r\n", err)
		sess.Exit(2)
		return
	}

	cmd := exec.CommandContext(sess.Context(), s.cfg.Binary, args...)
	cmd.Env = append(sess.Environ(), fmt.Sprintf("TERM=%s", ptyReq.Term))

	f, err := pty.Start(cmd)
	if err != nil {
		log.Errorw("Failed to start pseudo-terminal", "error", err)
		fmt.Fprintf(sess, "failed to initialize pseudo-terminal: %s\r\n", err)
		sess.Exit(1)
		return
	}
	log.Infow("Session started", "args", args)

	if err := setWinsize(f, ptyReq.Window.Width, ptyReq.Window.Height); err != nil {
		log.Warnw("Failed to set window size", "error", err)
	}
	stopResize := watchWindow(f, winCh, log)
	defer func() {
		stopResize()
		f.Close()
	}()

	go func() {
		io.Copy(f, sess)
	}()
	io.Copy(sess, f)

	code := 0
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		} else {
			code = 1
		}
	}
	log.Infow("Session ended", "code", code)
	sess.Exit(code)
}
