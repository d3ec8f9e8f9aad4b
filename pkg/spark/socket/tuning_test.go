package socket

import (
	"context"
	"net"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.NoDelay {
		t.Error("NoDelay should be true by default")
	}
	if !cfg.KeepAlive {
		t.Error("KeepAlive should be true by default")
	}
	if !cfg.ReuseAddr {
		t.Error("ReuseAddr should be true by default")
	}
	if cfg.RecvBuffer != 0 || cfg.SendBuffer != 0 {
		t.Error("buffer sizes should keep system defaults")
	}
}

func TestListenAndApply(t *testing.T) {
	cfgs := map[string]*Config{
		"nil":     nil,
		"default": DefaultConfig(),
		"tuned": {
			NoDelay:         true,
			KeepAlive:       true,
			KeepAlivePeriod: 30 * time.Second,
			RecvBuffer:      64 * 1024,
			SendBuffer:      64 * 1024,
			ReuseAddr:       true,
			DeferAccept:     true,
		},
		"zero": {},
	}

	for name, cfg := range cfgs {
		t.Run(name, func(t *testing.T) {
			ln, err := Listen(context.Background(), "127.0.0.1:0", cfg)
			if err != nil {
				t.Fatalf("Listen: %v", err)
			}
			defer ln.Close()

			accepted := make(chan net.Conn, 1)
			go func() {
				conn, err := ln.Accept()
				if err != nil {
					close(accepted)
					return
				}
				accepted <- conn
			}()

			client, err := net.Dial("tcp", ln.Addr().String())
			if err != nil {
				t.Fatalf("Dial: %v", err)
			}
			defer client.Close()

			// DeferAccept holds the connection until data arrives.
			if _, err := client.Write([]byte("x")); err != nil {
				t.Fatalf("Write: %v", err)
			}

			select {
			case conn, ok := <-accepted:
				if !ok {
					t.Fatal("Accept failed")
				}
				defer conn.Close()
				if err := Apply(conn, cfg); err != nil {
					t.Errorf("Apply: %v", err)
				}
			case <-time.After(5 * time.Second):
				t.Fatal("timed out waiting for Accept")
			}
		})
	}
}

func TestApplyNonTCP(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	if err := Apply(a, DefaultConfig()); err != nil {
		t.Errorf("Apply on pipe = %v, want nil", err)
	}
}

func TestListenConfigDisablesStdlibKeepAlive(t *testing.T) {
	lc := ListenConfig(nil)
	if lc.KeepAlive >= 0 {
		t.Errorf("KeepAlive = %v, want negative", lc.KeepAlive)
	}
	if lc.Control == nil {
		t.Error("Control hook not installed")
	}
}
