package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ccrm/internal/cli"
	"github.com/noah-isme/ccrm/pkg/config"
	"github.com/noah-isme/ccrm/pkg/logger"
	"github.com/noah-isme/ccrm/pkg/response"
)

const usage = `Usage: ccrm [command] [args]

Commands:
  menu                      interactive menu (default)
  export                    export students, courses and enrollments to CSV
  report summary            print the summary report
  report student <id>       print a student's profile and transcript
  report course <code>      print a course report
  transcript [id...]        write PDF transcripts (every student when no id is given)
  backup create|list|stats  manage backups of the export directory
  backup verify <name>      check a backup against its manifest
  backup cleanup [keep]     delete all but the newest backups
  snapshot save|load        copy state to or from the snapshot database
  config                    print the effective configuration

Flags:
  -restore                  load the snapshot database before running the command
`

var restore = flag.Bool("restore", false, "load the snapshot database before running the command")

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr, *restore, flag.Args(), os.Stdin, os.Stdout); err != nil {
		response.Error(os.Stderr, err)
		logr.Sync() //nolint:errcheck
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger, restoreSnapshot bool, args []string, in io.Reader, out io.Writer) error {
	deps, closeDB, err := cli.Bootstrap(ctx, cfg, logr)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeDB(); err != nil {
			logr.Warn("close snapshot database", zap.Error(err))
		}
		if err := deps.Metrics.WriteTextfile(cfg.Metrics.File); err != nil {
			logr.Warn("write metrics file", zap.String("path", cfg.Metrics.File), zap.Error(err))
		}
	}()

	if restoreSnapshot {
		if err := runSnapshot(ctx, deps, []string{"load"}, out); err != nil {
			return err
		}
	}

	command := "menu"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}
	logr.Debug("command started", zap.String("command", command), zap.Strings("args", args))

	switch command {
	case "menu":
		return cli.New(deps, in, out, logr).Run(ctx)
	case "export":
		paths, err := deps.Exports.ExportAll(ctx)
		for _, path := range paths {
			response.Success(out, "Exported %s", path)
		}
		return err
	case "report":
		return runReport(ctx, deps, args, out)
	case "transcript":
		paths, err := deps.Exports.ExportTranscripts(ctx, args)
		for _, path := range paths {
			response.Success(out, "Transcript written to %s", path)
		}
		return err
	case "backup":
		return runBackup(ctx, deps, args, out)
	case "snapshot":
		return runSnapshot(ctx, deps, args, out)
	case "config":
		cfg.Print(out)
		return nil
	default:
		fmt.Fprint(out, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func runReport(ctx context.Context, deps cli.Deps, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("report requires a kind: summary, student or course")
	}
	switch {
	case args[0] == "summary":
		fmt.Fprint(out, deps.Reports.SummaryReport(ctx, time.Now()))
		return nil
	case args[0] == "student" && len(args) == 2:
		report, err := deps.Reports.StudentReport(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Fprint(out, report)
		return nil
	case args[0] == "course" && len(args) == 2:
		report, err := deps.Reports.CourseReport(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Fprint(out, report)
		return nil
	}
	return fmt.Errorf("unknown report %v", args)
}

func runBackup(ctx context.Context, deps cli.Deps, args []string, out io.Writer) error {
	action := "create"
	if len(args) > 0 {
		action = args[0]
	}
	switch action {
	case "create":
		info, err := deps.Backups.Create(ctx)
		if err != nil {
			return err
		}
		response.Success(out, "Backup %s created: %d file(s), %s", info.Name, info.Files, info.HumanSize)
	case "list":
		backups, err := deps.Backups.List(ctx)
		if err != nil {
			return err
		}
		for _, b := range backups {
			fmt.Fprintf(out, "%s  %d file(s)  %s\n", b.Name, b.Files, b.HumanSize)
		}
	case "stats":
		stats, err := deps.Backups.Statistics(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Backups: %d\nTotal size: %s\n", stats.Count, stats.HumanSize)
	case "verify":
		if len(args) != 2 {
			return fmt.Errorf("backup verify requires a backup name")
		}
		mismatched, err := deps.Backups.Verify(ctx, args[1])
		if err != nil {
			return err
		}
		if len(mismatched) > 0 {
			return fmt.Errorf("backup %s has damaged files: %v", args[1], mismatched)
		}
		response.Success(out, "Backup %s verified", args[1])
	case "cleanup":
		keep := 0
		if len(args) == 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid keep count %q", args[1])
			}
			keep = n
		}
		removed, err := deps.Backups.Cleanup(ctx, keep)
		if err != nil {
			return err
		}
		response.Success(out, "Removed %d old backup(s)", len(removed))
	default:
		return fmt.Errorf("unknown backup action %q", action)
	}
	return nil
}

func runSnapshot(ctx context.Context, deps cli.Deps, args []string, out io.Writer) error {
	if deps.Snapshots == nil {
		return fmt.Errorf("snapshots are disabled; set SNAPSHOT_ENABLED=true")
	}
	if len(args) != 1 {
		return fmt.Errorf("snapshot requires save or load")
	}
	switch args[0] {
	case "save":
		snapshot, err := deps.Snapshots.Save(ctx)
		if err != nil {
			return err
		}
		response.Success(out, "Snapshot saved: %d students, %d courses, %d enrollments",
			len(snapshot.Students), len(snapshot.Courses), len(snapshot.Enrollments))
	case "load":
		snapshot, err := deps.Snapshots.Load(ctx)
		if err != nil {
			return err
		}
		response.Success(out, "Snapshot loaded: %d students, %d courses, %d enrollments",
			len(snapshot.Students), len(snapshot.Courses), len(snapshot.Enrollments))
	default:
		return fmt.Errorf("unknown snapshot action %q", args[0])
	}
	return nil
}
