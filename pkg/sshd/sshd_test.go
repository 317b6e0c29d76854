package sshd

import (
	"bytes"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/gliderlabs/ssh"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gossh "golang.org/x/crypto/ssh"

	"github.com/qnkhuat/peerchess/pkg/peer"
)

// echoBinary stands in for peerchess and prints its arguments.
func echoBinary(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "peerchess")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\necho \"args: $*\"\n"), 0o755))
	return path
}

// script writes an executable shell script standing in for peerchess.
func script(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "peerchess")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func start(t *testing.T, cfg Config) string {
	t.Helper()
	s, err := New(cfg, zap.NewNop().Sugar())
	require.NoError(t, err)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go s.Serve(ln)
	t.Cleanup(func() { s.Close() })
	return ln.Addr().String()
}

func dial(t *testing.T, addr string) *gossh.Session {
	t.Helper()
	client, err := gossh.Dial("tcp", addr, &gossh.ClientConfig{
		User:            "player",
		HostKeyCallback: gossh.InsecureIgnoreHostKey(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	sess, err := client.NewSession()
	require.NoError(t, err)
	return sess
}

func TestArgs(t *testing.T) {
	s := &Server{cfg: Config{Flags: []string{"-transport", "ws"}}}

	args, err := s.Args([]string{"s", "4000"})
	require.NoError(t, err)
	assert.Equal(t, []string{"-transport", "ws", "s", "4000"}, args)
	assert.Equal(t, []string{"-transport", "ws"}, s.cfg.Flags, "flags are not aliased")

	_, err = s.Args([]string{"rm", "-rf"})
	assert.True(t, errors.Is(err, peer.ErrUsage))
	_, err = s.Args(nil)
	assert.True(t, errors.Is(err, peer.ErrUsage))
}

func TestGenerateHostKey(t *testing.T) {
	signer, err := generateHostKey()
	require.NoError(t, err)
	assert.Equal(t, gossh.KeyAlgoED25519, signer.PublicKey().Type())
}

func TestMissingHostKeyFile(t *testing.T) {
	_, err := New(Config{HostKeyFile: filepath.Join(t.TempDir(), "missing")}, zap.NewNop().Sugar())
	assert.Error(t, err)
}

func TestSessionRunsBinary(t *testing.T) {
	addr := start(t, Config{Binary: echoBinary(t), Flags: []string{"-log", "/dev/null"}})
	sess := dial(t, addr)
	require.NoError(t, sess.RequestPty("xterm", 24, 80, gossh.TerminalModes{}))

	out, err := sess.CombinedOutput("c 4000")
	require.NoError(t, err)
	assert.Contains(t, string(out), "args: -log /dev/null c 4000")
}

func TestSessionRejectsBadCommand(t *testing.T) {
	addr := start(t, Config{Binary: echoBinary(t)})
	sess := dial(t, addr)
	require.NoError(t, sess.RequestPty("xterm", 24, 80, gossh.TerminalModes{}))

	out, err := sess.CombinedOutput("ls /")
	var exitErr *gossh.ExitError
	require.True(t, errors.As(err, &exitErr), "got %v", err)
	assert.Equal(t, 2, exitErr.ExitStatus())
	assert.Contains(t, string(out), "usage: peerchess")
}

func TestSessionRequiresPty(t *testing.T) {
	addr := start(t, Config{Binary: echoBinary(t)})
	sess := dial(t, addr)

	out, err := sess.CombinedOutput("s 4000")
	var exitErr *gossh.ExitError
	require.True(t, errors.As(err, &exitErr), "got %v", err)
	assert.Equal(t, 1, exitErr.ExitStatus())
	assert.Equal(t, "non-interactive terminals are not supported\n", string(out))
}

func TestWatchWindow(t *testing.T) {
	ptmx, tty, err := pty.Open()
	require.NoError(t, err)
	defer tty.Close()

	winCh := make(chan ssh.Window)
	stop := watchWindow(ptmx, winCh, zap.NewNop().Sugar())

	winCh <- ssh.Window{Width: 100, Height: 40}
	assert.Eventually(t, func() bool {
		rows, cols, err := pty.Getsize(tty)
		return err == nil && rows == 40 && cols == 100
	}, time.Second, 10*time.Millisecond)

	stop()
	require.NoError(t, ptmx.Close())

	select {
	case winCh <- ssh.Window{Width: 1, Height: 1}:
		t.Fatal("window change applied after stop")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatchWindowChannelClosed(t *testing.T) {
	ptmx, tty, err := pty.Open()
	require.NoError(t, err)
	defer tty.Close()
	defer ptmx.Close()

	winCh := make(chan ssh.Window)
	stop := watchWindow(ptmx, winCh, zap.NewNop().Sugar())
	close(winCh)
	stop()
}

func TestSessionResizeWhileRunning(t *testing.T) {
	addr := start(t, Config{Binary: script(t, "sleep 0.2\necho resized")})
	sess := dial(t, addr)
	require.NoError(t, sess.RequestPty("xterm", 24, 80, gossh.TerminalModes{}))

	var out bytes.Buffer
	sess.Stdout = &out
	require.NoError(t, sess.Start("s 4000"))

	resizing := make(chan struct{})
	go func() {
		defer close(resizing)
		for i := 0; i < 50; i++ {
			if err := sess.WindowChange(24+i%5, 80+i%7); err != nil {
				return
			}
			time.Sleep(5 * time.Millisecond)
		}
	}()

	require.NoError(t, sess.Wait())
	<-resizing
	assert.Contains(t, out.String(), "resized")
}
