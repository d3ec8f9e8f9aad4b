//go:build unix && !linux

package socket

func applyDeferAccept(fd int) error {
	return nil
}

func applyKeepAlivePeriod(fd, secs int) error {
	return nil
}
