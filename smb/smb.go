// Package smb reads files from SMB shares, e.g. log or status files a
// Windows service writes to a network drive.
package smb

import (
	"context"
	stderrors "errors"
	"io"
	"io/fs"
	"net"
	"path"
	"strings"
	"time"

	"github.com/hirochachacha/go-smb2"
	"github.com/xuenqlve/checkkit/errors"
	"github.com/xuenqlve/checkkit/log"
)

const (
	defaultPort    = "445"
	defaultTimeout = "10s"

	// NTSTATUS codes
	statusObjectNameNotFound = 0xC0000034
	statusObjectPathNotFound = 0xC000003A
	statusLogonFailure       = 0xC000006D
	statusFileIsADirectory   = 0xC00000BA
)

var (
	ErrSMB          = errors.NewErrorMessage(errors.ErrCodeSMB, "smb")
	ErrLoginFailed  = errors.NewErrorMessage(errors.ErrCodeSMB, "Login failed")
	ErrNotFound     = errors.NewErrorMessage(errors.ErrCodeSMB, "No such file or directory on the smb server.")
	ErrIsADirectory = errors.NewErrorMessage(errors.ErrCodeSMB, "The file that was specified as a target is a directory, should be a file.")
)

type Config struct {
	Username string `toml:"username" json:"username" yaml:"username"`
	Password string `toml:"password" json:"password" yaml:"password"`
	Domain   string `toml:"domain" json:"domain" yaml:"domain"`
	// Timeout for establishing the connection, such as "10s".
	Timeout         string        `toml:"timeout" json:"timeout" yaml:"timeout"`
	TimeoutDuration time.Duration `toml:"-" json:"-" yaml:"-"`
	RequireSigning  bool          `toml:"require-signing" json:"require-signing" yaml:"require-signing"`
}

func (c *Config) ValidateAndSetDefault() error {
	if c.Timeout == "" {
		c.Timeout = defaultTimeout
	}
	var err error
	if c.TimeoutDuration, err = time.ParseDuration(c.Timeout); err != nil {
		return errors.Trace(err)
	}
	return nil
}

// ParsePath splits \\host\share\dir\file (or //host/share/dir/file, with
// an optional smb: scheme) into its parts. name uses backslashes and is
// relative to the share; it is empty for the share root.
func ParsePath(p string) (host, share, name string, err error) {
	p = strings.ReplaceAll(p, `\`, "/")
	p = strings.TrimPrefix(p, "smb:")
	if !strings.HasPrefix(p, "//") {
		return "", "", "", errors.Annotatef(ErrSMB, "%q is not a UNC path", p)
	}
	parts := strings.SplitN(strings.TrimPrefix(p, "//"), "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", "", errors.Annotatef(ErrSMB, "%q has no host or share", p)
	}
	host, share = parts[0], parts[1]
	if len(parts) == 3 {
		name = strings.ReplaceAll(strings.Trim(parts[2], "/"), "/", `\`)
	}
	return host, share, name, nil
}

type mount struct {
	conn    net.Conn
	session *smb2.Session
	share   *smb2.Share
}

func (m *mount) close() error {
	var firstErr error
	if m.share != nil {
		if err := m.share.Umount(); err != nil {
			firstErr = err
		}
	}
	if m.session != nil {
		if err := m.session.Logoff(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := m.conn.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func dial(ctx context.Context, cfg *Config, host, share string) (*mount, error) {
	if err := cfg.ValidateAndSetDefault(); err != nil {
		return nil, errors.Trace(err)
	}
	addr := host
	if _, _, err := net.SplitHostPort(host); err != nil {
		addr = net.JoinHostPort(host, defaultPort)
	}
	dialer := net.Dialer{Timeout: cfg.TimeoutDuration}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Annotatef(ErrSMB, "connecting to %s: %v", addr, err)
	}
	m := &mount{conn: conn}

	d := &smb2.Dialer{
		Negotiator: smb2.Negotiator{RequireMessageSigning: cfg.RequireSigning},
		Initiator: &smb2.NTLMInitiator{
			User:     cfg.Username,
			Password: cfg.Password,
			Domain:   cfg.Domain,
		},
	}
	if m.session, err = d.DialContext(ctx, conn); err != nil {
		m.close()
		return nil, classify(err, host)
	}
	if m.share, err = m.session.Mount(share); err != nil {
		m.close()
		return nil, classify(err, share)
	}
	m.share = m.share.WithContext(ctx)
	return m, nil
}

func classify(err error, target string) error {
	var rerr *smb2.ResponseError
	if stderrors.As(err, &rerr) {
		switch rerr.Code {
		case statusLogonFailure:
			return errors.Trace(ErrLoginFailed)
		case statusObjectNameNotFound, statusObjectPathNotFound:
			return errors.Trace(ErrNotFound)
		case statusFileIsADirectory:
			return errors.Trace(ErrIsADirectory)
		}
	}
	if stderrors.Is(err, fs.ErrNotExist) {
		return errors.Trace(ErrNotFound)
	}
	return errors.Annotatef(ErrSMB, "I/O error while opening or reading %s: %v", target, err)
}

type file struct {
	*smb2.File
	m *mount
}

func (f *file) Close() error {
	err := f.File.Close()
	cerr := f.m.close()
	if err != nil {
		return err
	}
	return cerr
}

// OpenFile opens the file at the UNC path p for reading. Closing the returned
// reader also tears down the SMB session.
func OpenFile(ctx context.Context, cfg *Config, p string) (io.ReadCloser, error) {
	host, share, name, err := ParsePath(p)
	if err != nil {
		return nil, err
	}
	m, err := dial(ctx, cfg, host, share)
	if err != nil {
		return nil, err
	}
	f, err := m.share.Open(name)
	if err != nil {
		m.close()
		return nil, classify(err, p)
	}
	info, err := f.Stat()
	if err == nil && info.IsDir() {
		f.Close()
		m.close()
		return nil, errors.Trace(ErrIsADirectory)
	}
	return &file{File: f, m: m}, nil
}

// Glob returns the entry at p itself if it is a file, otherwise the entries of
// the directory p whose names match pattern ("*" for all). A directory that
// does not exist yields no entries and no error.
func Glob(ctx context.Context, cfg *Config, p, pattern string) ([]fs.FileInfo, error) {
	if pattern == "" {
		pattern = "*"
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, errors.Annotatef(ErrSMB, "bad pattern %q", pattern)
	}
	host, share, name, err := ParsePath(p)
	if err != nil {
		return nil, err
	}
	m, err := dial(ctx, cfg, host, share)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := m.close(); err != nil {
			log.Debugf("closing smb session to %s: %v", host, err)
		}
	}()

	if name != "" {
		info, err := m.share.Stat(name)
		if err != nil {
			err = classify(err, p)
			if errors.Cause(err) == ErrNotFound {
				return nil, nil
			}
			return nil, err
		}
		if !info.IsDir() {
			return []fs.FileInfo{info}, nil
		}
	}

	entries, err := m.share.ReadDir(name)
	if err != nil {
		return nil, classify(err, p)
	}
	return filterEntries(entries, pattern), nil
}

func filterEntries(entries []fs.FileInfo, pattern string) []fs.FileInfo {
	var result []fs.FileInfo
	for _, e := range entries {
		if ok, _ := path.Match(pattern, e.Name()); ok {
			result = append(result, e)
		}
	}
	return result
}
