package sonar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"sonar-radar.klederson.com/internal/config"
	"sonar-radar.klederson.com/internal/logging"
)

var (
	// ErrNoReply means the head did not answer within the link timeout.
	ErrNoReply = errors.New("no reply from head")
	// ErrDevice wraps an ERR line sent by the head.
	ErrDevice = errors.New("head error")
	// ErrBadReply means the head answered with something unparseable.
	ErrBadReply = errors.New("malformed reply")
)

// Link speaks the head's line protocol over a byte stream:
//
//	S <angle>   move the servo; the head replies OK once it has settled
//	D           measure once; the head replies with the distance in meters
//	X           switch the servo output off; the head replies OK
//
// Any request may be answered with "ERR <reason>". Lines starting with '#'
// are diagnostics from the head and are logged, not parsed.
//
// A request that times out leaves its reply owed. The link drains it, or
// skips it when it turns up later, so the following requests stay in step.
//
// The stream's Read must not block forever: it should return (0, nil)
// periodically when idle so that the link can give up on a silent head.
type Link struct {
	mu      sync.Mutex
	rw      io.ReadWriter
	pending []byte
	timeout time.Duration
	name    string
	log     *logrus.Entry

	// replies still owed by the head for requests that timed out
	stale int
}

// NewLink wraps rw. name is used in log entries only.
func NewLink(name string, rw io.ReadWriter) *Link {
	return &Link{
		rw:      rw,
		timeout: config.LinkTimeout,
		name:    name,
		log:     logging.For("link").WithField("link", name),
	}
}

// SetPosition moves the head to angle and waits for it to settle.
func (l *Link) SetPosition(ctx context.Context, angle int) error {
	_, err := l.request(ctx, "S "+strconv.Itoa(angle))
	return err
}

// Read takes one measurement, in meters.
func (l *Link) Read(ctx context.Context) (float64, error) {
	reply, err := l.request(ctx, "D")
	if err != nil {
		return 0, err
	}
	m, err := strconv.ParseFloat(reply, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: distance %q", ErrBadReply, reply)
	}
	return m, nil
}

// Disable turns the servo output off.
func (l *Link) Disable() error {
	_, err := l.request(context.Background(), "X")
	return err
}

// Close closes the underlying stream if it can be closed.
func (l *Link) Close() error {
	if c, ok := l.rw.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (l *Link) request(ctx context.Context, cmd string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	if l.stale > 0 {
		l.drain(ctx)
	}

	if _, err := l.rw.Write([]byte(cmd + "\n")); err != nil {
		return "", fmt.Errorf("write %q: %w", cmd, err)
	}

	for {
		line, err := l.readLine(ctx)
		if errors.Is(err, ErrNoReply) {
			// whatever the head sends for this request from now on is late
			l.stale++
			l.pending = nil
		}
		if err != nil {
			return "", fmt.Errorf("%s: %w", cmd, err)
		}
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "#"):
			l.log.Debug(strings.TrimSpace(line[1:]))
			continue
		case l.stale > 0 && isLate(cmd, line):
			l.stale--
			l.log.WithField("reply", line).Debug("skipped late reply")
			continue
		case line == "OK":
			return line, nil
		case strings.HasPrefix(line, "ERR"):
			return "", fmt.Errorf("%s: %w: %s", cmd, ErrDevice, strings.TrimSpace(line[3:]))
		default:
			if cmd == "D" {
				return line, nil
			}
			return "", fmt.Errorf("%s: %w: %q", cmd, ErrBadReply, line)
		}
	}
}

// isLate reports whether line cannot be the answer to cmd and so belongs
// to an earlier request: a distance where OK is due, or OK where a
// distance is due.
func isLate(cmd, line string) bool {
	if cmd == "D" {
		return line == "OK"
	}
	_, err := strconv.ParseFloat(line, 64)
	return err == nil
}

// drain discards what the head has already sent, until the stream goes
// idle. Each complete reply thrown away settles one stale request. A
// partial line is kept so that the rest of it is not read as a reply.
func (l *Link) drain(ctx context.Context) {
	buf := make([]byte, 64)
	for ctx.Err() == nil {
		n, err := l.rw.Read(buf)
		l.pending = append(l.pending, buf[:n]...)
		if n == 0 || err != nil {
			break
		}
	}

	for {
		i := bytes.IndexByte(l.pending, '\n')
		if i < 0 {
			break
		}
		line := string(bytes.TrimSpace(l.pending[:i]))
		l.pending = l.pending[i+1:]
		if line != "" && !strings.HasPrefix(line, "#") && l.stale > 0 {
			l.stale--
			l.log.WithField("reply", line).Debug("dropped late reply")
		}
	}
}

func (l *Link) readLine(ctx context.Context) (string, error) {
	buf := make([]byte, 64)
	for {
		if i := bytes.IndexByte(l.pending, '\n'); i >= 0 {
			line := string(bytes.TrimSpace(l.pending[:i]))
			l.pending = l.pending[i+1:]
			return line, nil
		}
		if ctx.Err() != nil {
			return "", ErrNoReply
		}

		n, err := l.rw.Read(buf)
		l.pending = append(l.pending, buf[:n]...)
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		if errors.Is(err, io.EOF) && n == 0 {
			return "", io.ErrUnexpectedEOF
		}
	}
}
