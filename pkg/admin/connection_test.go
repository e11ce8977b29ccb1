package admin

import (
	"testing"
	"time"
)

func TestConfigNormalizeDefaults(t *testing.T) {
	cfg := Config{Host: "example.com"}
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Port != NetworkAdminPort {
		t.Fatalf("Port = %d, want %d", cfg.Port, NetworkAdminPort)
	}
	if cfg.Name == "" || cfg.Version == "" {
		t.Fatal("Name/Version should have defaults")
	}
	if len(cfg.Subscriptions) == 0 {
		t.Fatal("Subscriptions should default to defaultSubscriptions()")
	}
	if cfg.DialTimeout <= 0 {
		t.Fatal("DialTimeout should have a positive default")
	}
}

func TestConfigNormalizeRequiresHost(t *testing.T) {
	cfg := Config{}
	if err := cfg.normalize(); err == nil {
		t.Fatal("expected an error for missing Host")
	}
}

func TestConfigNormalizeRejectsOverlongName(t *testing.T) {
	long := make([]byte, maxClientNameLength+1)
	for i := range long {
		long[i] = 'x'
	}
	cfg := Config{Host: "example.com", Name: string(long)}
	if err := cfg.normalize(); err == nil {
		t.Fatal("expected ErrStringTooLong for an overlong Name")
	}
}

func TestNewConnectionStartsDisconnected(t *testing.T) {
	conn, err := NewConnection(Config{Host: "example.com"})
	if err != nil {
		t.Fatalf("NewConnection: %v", err)
	}
	if conn.State() != StateDisconnected {
		t.Fatalf("State() = %v, want StateDisconnected", conn.State())
	}
	if conn.Mirror() == nil {
		t.Fatal("Mirror() should never be nil")
	}
}

func TestRequireActiveBeforeConnect(t *testing.T) {
	conn, err := NewConnection(Config{Host: "example.com"})
	if err != nil {
		t.Fatalf("NewConnection: %v", err)
	}
	if err := conn.SendRcon("say hi"); err != ErrNotConnected {
		t.Fatalf("err = %v, want ErrNotConnected", err)
	}
	if err := conn.Ping(1); err != ErrNotConnected {
		t.Fatalf("err = %v, want ErrNotConnected", err)
	}
}

func TestDefaultSubscriptionsSplitPollBit(t *testing.T) {
	freq := defaultSubscriptions()[UpdateNames]
	if freq != FreqPoll {
		t.Fatalf("UpdateNames default = %#x, want FreqPoll (%#x)", freq, FreqPoll)
	}
	if masked := freq &^ FreqPoll; masked != 0 {
		t.Fatalf("masked frequency for a poll-only entry should be 0, got %#x", masked)
	}
	if freq&FreqPoll == 0 {
		t.Fatal("poll-only entry should still trigger an AdminPoll via the POLL bit")
	}
}

func TestPumpRequiresCooperativeConfig(t *testing.T) {
	conn, err := NewConnection(Config{Host: "example.com"})
	if err != nil {
		t.Fatalf("NewConnection: %v", err)
	}
	if err := conn.Pump(time.Millisecond); err == nil {
		t.Fatal("Pump should fail without Config.Cooperative and a dialled loopTransport")
	}
}
