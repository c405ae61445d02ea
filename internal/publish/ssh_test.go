package publish

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseTarget(t *testing.T) {
	testCases := []struct {
		name        string
		raw         string
		expected    Target
		address     string
		expectError bool
	}{
		{"Simple", "deploy@example.com:/srv/www", Target{"deploy", "example.com", "/srv/www"}, "example.com:22", false},
		{"RelativeDir", "deploy@example.com:public", Target{"deploy", "example.com", "public"}, "example.com:22", false},
		{"BracketedPort", "deploy@[example.com:2222]:/srv/www", Target{"deploy", "example.com:2222", "/srv/www"}, "example.com:2222", false},
		{"Empty", "", Target{}, "", true},
		{"NoUser", "example.com:/srv/www", Target{}, "", true},
		{"NoPath", "deploy@example.com", Target{}, "", true},
		{"EmptyPath", "deploy@example.com:", Target{}, "", true},
		{"UnterminatedHost", "deploy@[example.com:/srv", Target{}, "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			target, err := ParseTarget(tc.raw)
			if tc.expectError {
				if err == nil {
					t.Fatalf("Expected error for %q, got %+v", tc.raw, target)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if target != tc.expected {
				t.Errorf("Expected %+v, got %+v", tc.expected, target)
			}
			if target.Address() != tc.address {
				t.Errorf("Expected address %s, got %s", tc.address, target.Address())
			}
		})
	}
}

func TestWriteSCP(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSCP(&buf, "nested/war_day.json", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expected := "C0644 7 war_day.json\n{\"a\":1}\x00"
	if buf.String() != expected {
		t.Errorf("Expected %q, got %q", expected, buf.String())
	}
}

func TestNewSSHPublisher(t *testing.T) {
	if _, err := NewSSHPublisher("not-a-target", "key.pem", "", time.Second); err == nil {
		t.Error("Expected error for an invalid target")
	}

	publisher, err := NewSSHPublisher("deploy@example.com:/srv/www", filepath.Join(t.TempDir(), "missing.pem"), "", time.Second)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := publisher.clientConfig(); err == nil {
		t.Error("Expected error for a missing key file")
	}

	badKey := filepath.Join(t.TempDir(), "bad.pem")
	if err := os.WriteFile(badKey, []byte("not a key"), 0600); err != nil {
		t.Fatal(err)
	}
	publisher.keyPath = badKey
	if _, err := publisher.clientConfig(); err == nil {
		t.Error("Expected error for an unparseable key")
	}
}

func TestShellQuote(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"Plain", "/var/www/stats.json", `'/var/www/stats.json'`},
		{"Spaces", "/srv/war stats/out.json", `'/srv/war stats/out.json'`},
		{"Substitution", "/tmp/$(rm -rf ~)/out.json", `'/tmp/$(rm -rf ~)/out.json'`},
		{"SingleQuote", "/tmp/it's/out.json", `'/tmp/it'\''s/out.json'`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := shellQuote(tc.input); got != tc.expected {
				t.Errorf("Expected %s, got %s", tc.expected, got)
			}
		})
	}
}
