//go:build unix

package socket

import (
	"golang.org/x/sys/unix"
)

func applyListenerOptions(fd uintptr, cfg *Config) error {
	if cfg.ReuseAddr {
		if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
			return err
		}
	}

	if cfg.DeferAccept {
		// Not every kernel supports it.
		_ = applyDeferAccept(int(fd))
	}

	return nil
}

func applyConnOptions(fd uintptr, cfg *Config) error {
	s := int(fd)

	if cfg.NoDelay {
		if err := unix.SetsockoptInt(s, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1); err != nil {
			return err
		}
	}

	if cfg.RecvBuffer > 0 {
		_ = unix.SetsockoptInt(s, unix.SOL_SOCKET, unix.SO_RCVBUF, cfg.RecvBuffer)
	}
	if cfg.SendBuffer > 0 {
		_ = unix.SetsockoptInt(s, unix.SOL_SOCKET, unix.SO_SNDBUF, cfg.SendBuffer)
	}

	if cfg.KeepAlive {
		_ = unix.SetsockoptInt(s, unix.SOL_SOCKET, unix.SO_KEEPALIVE, 1)
		if secs := int(cfg.KeepAlivePeriod.Seconds()); secs > 0 {
			_ = applyKeepAlivePeriod(s, secs)
		}
	}

	return nil
}
