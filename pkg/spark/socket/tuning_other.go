//go:build !unix

package socket

func applyListenerOptions(fd uintptr, cfg *Config) error {
	return nil
}

func applyConnOptions(fd uintptr, cfg *Config) error {
	return nil
}
