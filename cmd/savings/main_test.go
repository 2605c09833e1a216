package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.json")
	if err := os.WriteFile(path, []byte(`{"agents": 8, "horizon": 5, "beta": 0.9, "seed": 3}`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SKAGENT_EPOCHS", "7")
	t.Setenv("SKAGENT_AGENTS", "16")

	tests := []struct {
		name       string
		args       []string
		wantAgents int
		wantEpochs int
		wantSeed   uint64
		wantErr    bool
	}{
		{
			name:       "正常_ファイルと環境変数",
			args:       []string{"-config", path},
			wantAgents: 16,
			wantEpochs: 7,
			wantSeed:   3,
		},
		{
			name:       "正常_フラグが優先",
			args:       []string{"-config", path, "-agents", "4", "-seed", "9"},
			wantAgents: 4,
			wantEpochs: 7,
			wantSeed:   9,
		},
		{
			name:    "異常_存在しないファイル",
			args:    []string{"-config", filepath.Join(dir, "missing.json")},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := loadConfig(tc.args)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Agents != tc.wantAgents || cfg.Epochs != tc.wantEpochs {
				t.Errorf("agents = %d, epochs = %d, want %d, %d", cfg.Agents, cfg.Epochs, tc.wantAgents, tc.wantEpochs)
			}
			if cfg.Seed == nil || *cfg.Seed != tc.wantSeed {
				t.Errorf("seed = %v, want %d", cfg.Seed, tc.wantSeed)
			}
			if cfg.Horizon != 5 || cfg.Beta != 0.9 {
				t.Errorf("horizon = %d, beta = %v, want 5, 0.9", cfg.Horizon, cfg.Beta)
			}
		})
	}
}

func TestRun(t *testing.T) {
	seed := uint64(1)
	cfg := defaultConfig()
	cfg.Seed = &seed
	cfg.Agents = 4
	cfg.Iterations = 1
	cfg.Epochs = 2
	cfg.Horizon = 3
	cfg.Width = 4
	cfg.Workers = 2

	s, err := run(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Iterations != 1 || len(s.Losses) != 1 {
		t.Errorf("iterations = %d, losses = %v", s.Iterations, s.Losses)
	}
	if s.MinAssets <= 0 {
		t.Errorf("assets should stay positive: min = %v", s.MinAssets)
	}

	cfg.Optimizer = "momentum"
	cfg.Gradient = "fd"
	if _, err := run(cfg, nil); err != nil {
		t.Errorf("momentum + fd: unexpected error: %v", err)
	}

	cfg.Gradient = "adjoint"
	if _, err := run(cfg, nil); err == nil {
		t.Error("expected unknown gradient error")
	}
}
