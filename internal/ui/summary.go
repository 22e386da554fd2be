// Package ui renders reorganization reports for the terminal: a styled
// summary after a run and a scrollable viewer for saved reports.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sortdesk/sortdesk/internal/engine"
)

// RenderSummary formats the summary counts of a report.
func RenderSummary(report *engine.Report) string {
	var sb strings.Builder

	sb.WriteString(HeaderStyle.Render("sortdesk "+report.Path) + "\n\n")

	sb.WriteString(countLine("Moved", report.Summary.Moved, SuccessStyle))
	sb.WriteString(countLine("Renamed", report.Summary.Renamed, SuccessStyle))
	sb.WriteString(countLine("Deduplicated", report.Summary.Deduped, SuccessStyle))
	sb.WriteString(countLine("Empty folders removed", report.Summary.DeletedEmptyFolders, SuccessStyle))
	sb.WriteString(countLine("Skipped", report.Summary.Skipped, MutedStyle))

	if report.Summary.Errors > 0 {
		sb.WriteString(countLine("Errors", report.Summary.Errors, ErrorStyle))
	} else {
		sb.WriteString(countLine("Errors", 0, MutedStyle))
	}

	return sb.String()
}

// RenderDetails formats the full per-file record lists.
func RenderDetails(report *engine.Report) string {
	var sb strings.Builder

	if len(report.Moved) > 0 {
		sb.WriteString(TitleStyle.Render("Moved") + "\n")
		for _, rec := range report.Moved {
			sb.WriteString(fmt.Sprintf("  %s %s %s\n", rec.From, MutedStyle.Render("→"), rec.To))
		}
	}

	if len(report.Renamed) > 0 {
		sb.WriteString(TitleStyle.Render("Renamed") + "\n")
		for _, rec := range report.Renamed {
			sb.WriteString(fmt.Sprintf("  %s %s %s\n", rec.From, MutedStyle.Render("→"), rec.To))
		}
	}

	if len(report.Deduped) > 0 {
		sb.WriteString(TitleStyle.Render("Deduplicated") + "\n")
		for _, rec := range report.Deduped {
			sb.WriteString(fmt.Sprintf("  %s %s\n", ErrorStyle.Render("removed"), rec.From))
			sb.WriteString(fmt.Sprintf("  %s %s\n", SuccessStyle.Render("kept   "), rec.Kept))
		}
	}

	if len(report.DeletedEmptyFolders) > 0 {
		sb.WriteString(TitleStyle.Render("Removed empty folders") + "\n")
		for _, path := range report.DeletedEmptyFolders {
			sb.WriteString("  " + path + "\n")
		}
	}

	if len(report.Skipped) > 0 {
		sb.WriteString(TitleStyle.Render("Skipped") + "\n")
		for _, path := range report.Skipped {
			sb.WriteString("  " + MutedStyle.Render(path) + "\n")
		}
	}

	if len(report.Errors) > 0 {
		sb.WriteString(TitleStyle.Render("Errors") + "\n")
		for _, rec := range report.Errors {
			sb.WriteString(fmt.Sprintf("  %s %s\n", WarningStyle.Render(rec.Path), rec.Message))
		}
	}

	if sb.Len() == 0 {
		return MutedStyle.Render("Nothing to do.") + "\n"
	}

	return sb.String()
}

func countLine(label string, n int, style lipgloss.Style) string {
	return fmt.Sprintf("  %-24s %s\n", label, style.Render(fmt.Sprintf("%d", n)))
}
