package sysexec

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
)

func TestLimitedBuffer_KeepsTail(t *testing.T) {
	b := &limitedBuffer{max: 4}
	b.Write([]byte("abc"))
	b.Write([]byte("defg"))
	if got := b.String(); got != "defg" {
		t.Errorf("String() = %q, want %q", got, "defg")
	}
}

func TestRunner_Output(t *testing.T) {
	if _, err := exec.LookPath("echo"); err != nil {
		t.Skip("echo not available")
	}
	out, err := NewRunner().Output(context.Background(), "echo", "hello")
	if err != nil {
		t.Fatalf("Output() error: %v", err)
	}
	if strings.TrimSpace(string(out)) != "hello" {
		t.Errorf("Output() = %q, want hello", out)
	}
}

func TestRunner_ForcesCLocale(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	t.Setenv("LC_ALL", "de_DE.UTF-8")
	t.Setenv("LANG", "de_DE.UTF-8")

	out, err := NewRunner().Output(context.Background(), "sh", "-c", "echo $LC_ALL")
	if err != nil {
		t.Fatalf("Output() error: %v", err)
	}
	if got := strings.TrimSpace(string(out)); got != "C" {
		t.Errorf("LC_ALL = %q, want C", got)
	}
}

func TestRunner_MissingBinary(t *testing.T) {
	_, err := NewRunner().Output(context.Background(), "statbar-no-such-utility")
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error = %v, want 'not found'", err)
	}
}

func TestRunner_NonZeroExit(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	_, err := NewRunner().Output(context.Background(), "sh", "-c", "echo boom >&2; exit 3")
	if err == nil {
		t.Fatal("expected error for exit 3")
	}
	if !strings.Contains(err.Error(), "code 3") || !strings.Contains(err.Error(), "boom") {
		t.Errorf("error = %v, want exit code and stderr", err)
	}
}

func TestCanned(t *testing.T) {
	c := NewCanned(map[string]string{"vmstat -s": "1 K total memory\n"})
	out, err := c.Output(context.Background(), "vmstat", "-s")
	if err != nil || string(out) != "1 K total memory\n" {
		t.Fatalf("Output() = %q, %v", out, err)
	}

	boom := errors.New("boom")
	c.Fail("free", boom)
	if _, err := c.Output(context.Background(), "free"); !errors.Is(err, boom) {
		t.Errorf("Output(free) error = %v, want boom", err)
	}
	if _, err := c.Output(context.Background(), "upower"); err == nil {
		t.Error("unknown command should fail")
	}
	if got := len(c.Calls()); got != 3 {
		t.Errorf("Calls() = %d, want 3", got)
	}
}
