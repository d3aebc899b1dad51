package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/ccrm/pkg/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	return &config.Config{
		Env:        config.EnvDevelopment,
		AppName:    "Campus Course & Records Manager",
		AppVersion: "1.0",
		DateFormat: "2006-01-02",
		Paths: config.PathsConfig{
			DataDir:   filepath.Join(root, "data"),
			ExportDir: filepath.Join(root, "exports"),
			BackupDir: filepath.Join(root, "backups"),
		},
		Enrollment: config.EnrollmentConfig{MaxCreditsPerSemester: 20},
		Backup:     config.BackupConfig{Keep: 5},
		Reports:    config.ReportsConfig{Locale: "en"},
		Metrics:    config.MetricsConfig{File: filepath.Join(root, "ccrm.prom")},
		SeedSample: true,
	}
}

func TestRunOneShotCommands(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	var out bytes.Buffer
	require.NoError(t, run(ctx, cfg, zap.NewNop(), false, []string{"report", "course", "cs101"}, nil, &out))
	assert.Contains(t, out.String(), "Enrolled: 2/50")

	out.Reset()
	require.NoError(t, run(ctx, cfg, zap.NewNop(), false, []string{"config"}, nil, &out))
	assert.Contains(t, out.String(), "Export Directory: "+cfg.Paths.ExportDir)

	out.Reset()
	require.NoError(t, run(ctx, cfg, zap.NewNop(), false, []string{"export"}, nil, &out))
	assert.Equal(t, 3, strings.Count(out.String(), "✓ Exported"))

	metrics, err := os.ReadFile(cfg.Metrics.File)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `ccrm_enrollments_total{semester="FALL"} 4`)
}

func TestRunMenuFromInput(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), testConfig(t), zap.NewNop(), false, nil, strings.NewReader("9\n"), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Thank you for using CCRM!")
}

func TestRunRejectsUnknownCommands(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	var out bytes.Buffer

	assert.Error(t, run(ctx, cfg, zap.NewNop(), false, []string{"bogus"}, nil, &out))
	assert.Contains(t, out.String(), "Usage: ccrm")
	assert.Error(t, run(ctx, cfg, zap.NewNop(), false, []string{"snapshot", "save"}, nil, &out))
	assert.Error(t, run(ctx, cfg, zap.NewNop(), true, []string{"config"}, nil, &out))
	assert.Error(t, run(ctx, cfg, zap.NewNop(), false, []string{"backup", "verify"}, nil, &out))
}
