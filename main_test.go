package main

import "testing"

func TestRunHeadless(t *testing.T) {
	if code := run([]string{"-backend", "headless", "-frames", "3", "-fps", "1000"}); code != 0 {
		t.Fatalf("run() = %d, want 0", code)
	}
}

func TestRunBadConfig(t *testing.T) {
	tests := [][]string{
		{"-backend", "wayland"},
		{"-fps", "0"},
		{"-no-such-flag"},
	}
	for _, args := range tests {
		if code := run(args); code != 2 {
			t.Errorf("run(%v) = %d, want 2", args, code)
		}
	}
}

func TestRunBadEnv(t *testing.T) {
	t.Setenv("LUMEN_WIDTH", "wide")
	if code := run([]string{"-backend", "headless", "-frames", "1"}); code != 2 {
		t.Fatalf("run() = %d, want 2", code)
	}
}
