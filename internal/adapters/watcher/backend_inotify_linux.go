//go:build linux

package watcher

import (
	"bytes"
	"encoding/binary"
	"errors"

	"go.trai.ch/xo/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sys/unix"
)

const (
	// pollTimeoutMillis bounds how long a worker waits before rechecking its stop signal.
	pollTimeoutMillis = 100

	inotifyMask = unix.IN_CREATE | unix.IN_CLOSE_WRITE | unix.IN_DELETE |
		unix.IN_MOVED_FROM | unix.IN_MOVED_TO | unix.IN_ONLYDIR

	// readBufferSize holds many events with names up to NAME_MAX.
	readBufferSize = 64 * (unix.SizeofInotifyEvent + unix.NAME_MAX + 1)
)

// InotifyBackend talks to inotify directly, one descriptor per root.
type InotifyBackend struct{}

// NewInotifyBackend creates the linux backend.
func NewInotifyBackend() *InotifyBackend {
	return &InotifyBackend{}
}

// Name implements Backend.
func (*InotifyBackend) Name() string {
	return domain.BackendInotify
}

// Open implements Backend.
func (*InotifyBackend) Open() (Source, error) {
	fd, err := unix.InotifyInit1(unix.IN_CLOEXEC | unix.IN_NONBLOCK)
	if err != nil {
		if isWatchLimit(err) {
			return nil, zerr.Wrap(domain.ErrWatchLimit, err.Error())
		}
		return nil, zerr.Wrap(domain.ErrUnavailable, err.Error())
	}
	return &inotifySource{fd: fd, buf: make([]byte, readBufferSize)}, nil
}

type inotifySource struct {
	fd  int
	buf []byte
}

func (s *inotifySource) Watch(dir string) (WatchID, error) {
	wd, err := unix.InotifyAddWatch(s.fd, dir, inotifyMask)
	if err != nil {
		return 0, mapWatchErr(err, dir)
	}
	return WatchID(wd), nil
}

func (s *inotifySource) Unwatch(id WatchID) error {
	//nolint:gosec // Watch descriptors are non-negative
	if _, err := unix.InotifyRmWatch(s.fd, uint32(id)); err != nil && !errors.Is(err, unix.EINVAL) {
		return zerr.With(zerr.Wrap(err, "failed to remove watch"), "wd", int(id))
	}
	return nil
}

func (s *inotifySource) Read(done <-chan struct{}) ([]RawEvent, error) {
	//nolint:gosec // File descriptors fit in int32
	fds := []unix.PollFd{{Fd: int32(s.fd), Events: unix.POLLIN}}
	for {
		select {
		case <-done:
			return nil, nil
		default:
		}

		n, err := unix.Poll(fds, pollTimeoutMillis)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return nil, zerr.Wrap(err, "failed to poll inotify descriptor")
		}
		if n == 0 {
			continue
		}
		if fds[0].Revents&(unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0 {
			return nil, errSourceClosed
		}

		read, err := unix.Read(s.fd, s.buf)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
				continue
			}
			return nil, zerr.Wrap(err, "failed to read inotify descriptor")
		}
		return parseInotifyEvents(s.buf[:read])
	}
}

func (s *inotifySource) Close() error {
	return unix.Close(s.fd)
}

// parseInotifyEvents decodes a buffer of struct inotify_event records.
//
//nolint:gosec // Integer widths follow the kernel ABI
func parseInotifyEvents(buf []byte) ([]RawEvent, error) {
	var (
		events   []RawEvent
		overflow bool
	)
	for offset := 0; offset+unix.SizeofInotifyEvent <= len(buf); {
		wd := int32(binary.NativeEndian.Uint32(buf[offset:]))
		mask := binary.NativeEndian.Uint32(buf[offset+4:])
		nameLen := int(binary.NativeEndian.Uint32(buf[offset+12:]))
		nameStart := offset + unix.SizeofInotifyEvent
		if nameStart+nameLen > len(buf) {
			break
		}
		name := string(bytes.TrimRight(buf[nameStart:nameStart+nameLen], "\x00"))
		offset = nameStart + nameLen

		if mask&unix.IN_Q_OVERFLOW != 0 {
			overflow = true
			continue
		}
		if op, ok := inotifyOp(mask); ok {
			events = append(events, RawEvent{
				ID:   WatchID(wd),
				Name: name,
				Op:   op,
				Dir:  mask&unix.IN_ISDIR != 0,
			})
		}
	}
	if overflow {
		return events, zerr.New("events were dropped by the kernel")
	}
	return events, nil
}

func inotifyOp(mask uint32) (Op, bool) {
	switch {
	case mask&unix.IN_IGNORED != 0:
		return OpGone, true
	case mask&(unix.IN_CREATE|unix.IN_MOVED_TO) != 0:
		return OpCreated, true
	case mask&unix.IN_CLOSE_WRITE != 0:
		return OpModified, true
	case mask&(unix.IN_DELETE|unix.IN_MOVED_FROM) != 0:
		return OpDeleted, true
	default:
		return 0, false
	}
}
