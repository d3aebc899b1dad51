package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/noah-isme/ccrm/pkg/response"
)

func (m *Menu) backupMenu(ctx context.Context) {
	switch m.submenu("Backup Operations",
		"Create Backup",
		"List Backups",
		"Verify Backup",
		"Backup Statistics",
		"Cleanup Old Backups",
		"Show Backup Tree",
		"Save Database Snapshot",
		"Load Database Snapshot",
		"Back to Main Menu",
	) {
	case 1:
		m.createBackup(ctx)
	case 2:
		m.listBackups(ctx)
	case 3:
		m.verifyBackup(ctx)
	case 4:
		m.backupStatistics(ctx)
	case 5:
		m.cleanupBackups(ctx)
	case 6:
		m.backupTree(ctx)
	case 7:
		m.saveSnapshot(ctx)
	case 8:
		m.loadSnapshot(ctx)
	}
}

func (m *Menu) createBackup(ctx context.Context) {
	info, err := m.deps.Backups.Create(ctx)
	if err != nil {
		m.fail("backup_create", err)
		return
	}
	response.Success(m.out, "Backup %s created: %d file(s), %s", info.Name, info.Files, info.HumanSize)
}

func (m *Menu) listBackups(ctx context.Context) {
	backups, err := m.deps.Backups.List(ctx)
	if err != nil {
		m.fail("backup_list", err)
		return
	}
	if len(backups) == 0 {
		response.Info(m.out, "No backups found.")
		return
	}
	for _, b := range backups {
		fmt.Fprintf(m.out, "%s  %d file(s)  %s\n", b.Name, b.Files, b.HumanSize)
	}
}

func (m *Menu) verifyBackup(ctx context.Context) {
	name := m.prompt("Backup name: ")
	if m.eof {
		return
	}
	mismatched, err := m.deps.Backups.Verify(ctx, name)
	if err != nil {
		m.fail("backup_verify", err)
		return
	}
	if len(mismatched) == 0 {
		response.Success(m.out, "Backup %s verified", name)
		return
	}
	response.Info(m.out, "Backup %s has %d damaged file(s):", name, len(mismatched))
	for _, path := range mismatched {
		response.Info(m.out, "  %s", path)
	}
}

func (m *Menu) backupStatistics(ctx context.Context) {
	stats, err := m.deps.Backups.Statistics(ctx)
	if err != nil {
		m.fail("backup_statistics", err)
		return
	}
	fmt.Fprintf(m.out, "Backups: %d\nTotal size: %s\n", stats.Count, stats.HumanSize)
	if stats.Newest != nil {
		fmt.Fprintf(m.out, "Newest: %s\nOldest: %s\n", stats.Newest.Name, stats.Oldest.Name)
	}
}

func (m *Menu) cleanupBackups(ctx context.Context) {
	keep := 0
	if raw := m.prompt("Backups to keep (blank for default): "); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.Info(m.out, "Invalid number.")
			return
		}
		keep = n
	}
	if m.eof {
		return
	}
	removed, err := m.deps.Backups.Cleanup(ctx, keep)
	if err != nil {
		m.fail("backup_cleanup", err)
		return
	}
	response.Success(m.out, "Removed %d old backup(s)", len(removed))
}

func (m *Menu) backupTree(ctx context.Context) {
	tree, err := m.deps.Backups.Tree(ctx, 2)
	if err != nil {
		m.fail("backup_tree", err)
		return
	}
	fmt.Fprint(m.out, tree)
}

func (m *Menu) saveSnapshot(ctx context.Context) {
	if m.deps.Snapshots == nil {
		response.Info(m.out, "Database snapshots are disabled. Set SNAPSHOT_ENABLED=true.")
		return
	}
	snapshot, err := m.deps.Snapshots.Save(ctx)
	if err != nil {
		m.fail("snapshot_save", err)
		return
	}
	response.Success(m.out, "Snapshot saved: %d students, %d courses, %d enrollments",
		len(snapshot.Students), len(snapshot.Courses), len(snapshot.Enrollments))
}

func (m *Menu) loadSnapshot(ctx context.Context) {
	if m.deps.Snapshots == nil {
		response.Info(m.out, "Database snapshots are disabled. Set SNAPSHOT_ENABLED=true.")
		return
	}
	snapshot, err := m.deps.Snapshots.Load(ctx)
	if err != nil {
		m.fail("snapshot_load", err)
		return
	}
	response.Success(m.out, "Snapshot loaded: %d students, %d courses, %d enrollments",
		len(snapshot.Students), len(snapshot.Courses), len(snapshot.Enrollments))
}
