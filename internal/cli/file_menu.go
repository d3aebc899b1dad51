package cli

import (
	"context"
	"fmt"

	"github.com/noah-isme/ccrm/internal/service"
	"github.com/noah-isme/ccrm/pkg/response"
)

func (m *Menu) fileMenu(ctx context.Context) {
	switch m.submenu("File Operations",
		"Import Students (CSV)",
		"Import Courses (CSV)",
		"Export All Data (CSV)",
		"Generate Summary Report",
		"Export Transcript (PDF)",
		"Export All Transcripts (PDF)",
		"Back to Main Menu",
	) {
	case 1:
		m.importFile(ctx, "students", m.deps.Exports.ImportStudentsFile)
	case 2:
		m.importFile(ctx, "courses", m.deps.Exports.ImportCoursesFile)
	case 3:
		m.exportAll(ctx)
	case 4:
		m.summaryReport(ctx)
	case 5:
		m.transcriptPDF(ctx)
	case 6:
		m.allTranscripts(ctx)
	}
}

func (m *Menu) importFile(ctx context.Context, kind string, load func(context.Context, string) (service.ImportResult, error)) {
	path := m.prompt(fmt.Sprintf("Path to %s CSV file: ", kind))
	if m.eof {
		return
	}
	result, err := load(ctx, path)
	if err != nil {
		m.fail("import_"+kind, err)
		return
	}
	response.Success(m.out, "Imported %d %s, %d failed", result.Imported, kind, result.Failed)
	for _, rowErr := range result.Errors {
		response.Info(m.out, "  %s", rowErr)
	}
}

func (m *Menu) exportAll(ctx context.Context) {
	paths, err := m.deps.Exports.ExportAll(ctx)
	for _, path := range paths {
		response.Success(m.out, "Exported %s", path)
	}
	if err != nil {
		m.fail("export_all", err)
	}
}

func (m *Menu) summaryReport(ctx context.Context) {
	path, err := m.deps.Exports.GenerateSummaryReport(ctx)
	if err != nil {
		m.fail("summary_report", err)
		return
	}
	response.Success(m.out, "Summary report written to %s", path)
}

func (m *Menu) transcriptPDF(ctx context.Context) {
	id := m.prompt("Enter student ID: ")
	if m.eof {
		return
	}
	path, err := m.deps.Exports.ExportTranscriptPDF(ctx, id)
	if err != nil {
		m.fail("transcript_pdf", err)
		return
	}
	response.Success(m.out, "Transcript written to %s", path)
}

func (m *Menu) allTranscripts(ctx context.Context) {
	paths, err := m.deps.Exports.ExportTranscripts(ctx, nil)
	response.Success(m.out, "Wrote %d transcript(s)", len(paths))
	if err != nil {
		m.fail("transcripts_pdf", err)
	}
}
