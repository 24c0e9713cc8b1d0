package config

import "testing"

func TestParseEnv(t *testing.T) {
	type cfg struct {
		Addr string `env:"CONFIG_TEST_ADDR" envDefault:"localhost:9000"`
		TTL  int    `env:"CONFIG_TEST_TTL"  envDefault:"60"`
	}

	t.Run("defaults", func(t *testing.T) {
		var c cfg
		if err := ParseEnv(&c); err != nil {
			t.Fatalf("parse env: %v", err)
		}
		if c.Addr != "localhost:9000" {
			t.Errorf("addr = %q, want localhost:9000", c.Addr)
		}
		if c.TTL != 60 {
			t.Errorf("ttl = %d, want 60", c.TTL)
		}
	})

	t.Run("override", func(t *testing.T) {
		t.Setenv("CONFIG_TEST_ADDR", "localhost:1234")
		var c cfg
		if err := ParseEnv(&c); err != nil {
			t.Fatalf("parse env: %v", err)
		}
		if c.Addr != "localhost:1234" {
			t.Errorf("addr = %q, want localhost:1234", c.Addr)
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("CONFIG_TEST_TTL", "not-a-number")
		var c cfg
		if err := ParseEnv(&c); err == nil {
			t.Fatal("expected error for invalid int")
		}
	})
}
