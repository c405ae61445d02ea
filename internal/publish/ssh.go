package publish

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

const defaultSSHPort = "22"

// Target is a parsed user@host:path destination
type Target struct {
	User string
	Host string
	Dir  string
}

// ParseTarget parses a destination in the form user@host:path. The host may
// carry a port in brackets, e.g. user@[example.com:2222]:/srv/www.
func ParseTarget(raw string) (Target, error) {
	if raw == "" {
		return Target{}, fmt.Errorf("publish target is empty")
	}

	user, hostPath, ok := strings.Cut(raw, "@")
	if !ok || user == "" {
		return Target{}, fmt.Errorf("invalid publish target %q: expected user@host:path", raw)
	}

	var host, dir string
	if strings.HasPrefix(hostPath, "[") {
		end := strings.Index(hostPath, "]:")
		if end < 0 {
			return Target{}, fmt.Errorf("invalid publish target %q: unterminated host", raw)
		}
		host, dir = hostPath[1:end], hostPath[end+2:]
	} else {
		host, dir, ok = strings.Cut(hostPath, ":")
		if !ok {
			return Target{}, fmt.Errorf("invalid publish target %q: expected user@host:path", raw)
		}
	}
	if host == "" || dir == "" {
		return Target{}, fmt.Errorf("invalid publish target %q: expected user@host:path", raw)
	}

	return Target{User: user, Host: host, Dir: dir}, nil
}

// Address returns host:port for dialing
func (t Target) Address() string {
	if _, _, err := net.SplitHostPort(t.Host); err == nil {
		return t.Host
	}
	return net.JoinHostPort(t.Host, defaultSSHPort)
}

// SSHPublisher uploads files to a remote directory over SCP
type SSHPublisher struct {
	target         Target
	keyPath        string
	knownHostsPath string
	timeout        time.Duration
}

// NewSSHPublisher creates a publisher. knownHostsPath may be empty, in which
// case the host key is not verified.
func NewSSHPublisher(rawTarget, keyPath, knownHostsPath string, timeout time.Duration) (*SSHPublisher, error) {
	target, err := ParseTarget(rawTarget)
	if err != nil {
		return nil, err
	}
	return &SSHPublisher{
		target:         target,
		keyPath:        keyPath,
		knownHostsPath: knownHostsPath,
		timeout:        timeout,
	}, nil
}

func (p *SSHPublisher) clientConfig() (*ssh.ClientConfig, error) {
	keyData, err := os.ReadFile(p.keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read SSH key file %s: %w", p.keyPath, err)
	}

	signer, err := ssh.ParsePrivateKey(keyData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SSH private key: %w", err)
	}

	hostKeyCallback := ssh.InsecureIgnoreHostKey()
	if p.knownHostsPath != "" {
		hostKeyCallback, err = knownhosts.New(p.knownHostsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load known hosts %s: %w", p.knownHostsPath, err)
		}
	} else {
		log.Warn().Str("host", p.target.Host).Msg("No known hosts file configured, skipping host key verification")
	}

	return &ssh.ClientConfig{
		User:            p.target.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: hostKeyCallback,
		Timeout:         p.timeout,
	}, nil
}

// Publish uploads data as filename into the target directory. The connection
// is opened and closed per call.
func (p *SSHPublisher) Publish(ctx context.Context, filename string, data []byte) error {
	config, err := p.clientConfig()
	if err != nil {
		return err
	}

	client, err := ssh.Dial("tcp", p.target.Address(), config)
	if err != nil {
		return fmt.Errorf("failed to connect to SSH server %s: %w", p.target.Host, err)
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return fmt.Errorf("failed to create SSH session: %w", err)
	}
	defer session.Close()

	// ssh sessions ignore contexts; closing the session unblocks Wait
	stop := context.AfterFunc(ctx, func() { session.Close() })
	defer stop()

	stdin, err := session.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to get stdin pipe: %w", err)
	}

	remotePath := path.Join(p.target.Dir, filename)
	if err := session.Start("scp -t " + shellQuote(remotePath)); err != nil {
		return fmt.Errorf("failed to start SCP session: %w", err)
	}

	if err := WriteSCP(stdin, filename, data); err != nil {
		return err
	}
	stdin.Close()

	if err := session.Wait(); err != nil {
		return fmt.Errorf("SCP session failed: %w", err)
	}

	log.Info().
		Str("host", p.target.Host).
		Str("remote_path", remotePath).
		Int("size", len(data)).
		Msg("Published file via SCP")

	return nil
}

// WriteSCP writes a single file in the SCP sink protocol: header, content, end marker
func WriteSCP(w io.Writer, filename string, data []byte) error {
	if _, err := fmt.Fprintf(w, "C0644 %d %s\n", len(data), path.Base(filename)); err != nil {
		return fmt.Errorf("failed to write SCP header: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to copy file content: %w", err)
	}
	if _, err := w.Write([]byte{0}); err != nil {
		return fmt.Errorf("failed to write SCP end marker: %w", err)
	}
	return nil
}

// shellQuote wraps s in single quotes for the remote shell
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
