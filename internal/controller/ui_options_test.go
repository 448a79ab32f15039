package controller

import "testing"

func TestStartOptions(t *testing.T) {
	if cfg := newStartConfig(); cfg.mode != ModeCollect {
		t.Fatalf("default mode = %v, want ModeCollect", cfg.mode)
	}

	if cfg := newStartConfig(WithRunMode()); cfg.mode != ModeRun {
		t.Fatalf("WithRunMode mode = %v, want ModeRun", cfg.mode)
	}

	if cfg := newStartConfig(WithRunMode(), WithCollectMode()); cfg.mode != ModeCollect {
		t.Fatalf("last option should win, got %v", cfg.mode)
	}
}
