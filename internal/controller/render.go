package controller

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	m "narrow.dev/pkg/narrow/internal/model"
)

func newTable(buf *bytes.Buffer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(buf)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	return table
}

func renderAnalysisTable(results []m.AnalysisResult) string {
	var tableBuffer bytes.Buffer

	table := newTable(&tableBuffer, []string{"Path", "Position", "Context", "Pattern", "Replacement", "Source"})

	total := 0

	for _, result := range results {
		for _, occurrence := range result.Occurrences {
			table.Append([]string{
				string(result.Path),
				fmt.Sprintf("%d:%d", occurrence.Line, occurrence.Column),
				string(occurrence.Context),
				occurrence.Pattern.Text,
				occurrence.Replacement,
				sourceLabel(occurrence),
			})
		}

		total += result.Total
	}

	table.SetFooter([]string{fmt.Sprintf("Total Files %d", len(results)), "", "", "", "", fmt.Sprintf("%d", total)})
	table.Render()

	return tableBuffer.String()
}

func sourceLabel(occurrence m.Occurrence) string {
	if occurrence.Rule != "" {
		return fmt.Sprintf("%s (%s)", occurrence.Source, occurrence.Rule)
	}

	return string(occurrence.Source)
}

func renderFixTable(results []m.FixResult) string {
	var tableBuffer bytes.Buffer

	table := newTable(&tableBuffer, []string{"Path", "Position", "Original", "Replacement", "Status"})

	changes := 0

	for _, result := range results {
		status := fixStatus(result)

		// Changes are stored right-to-left; show them top-down.
		for i := len(result.Changes) - 1; i >= 0; i-- {
			change := result.Changes[i]
			table.Append([]string{
				string(result.Path),
				fmt.Sprintf("%d:%d", change.Line, change.Column),
				change.Original,
				change.Replacement,
				status,
			})
		}

		changes += len(result.Changes)
	}

	table.SetFooter([]string{fmt.Sprintf("Total Files %d", len(results)), "", "", fmt.Sprintf("%d", changes), ""})
	table.Render()

	return tableBuffer.String()
}

func fixStatus(result m.FixResult) string {
	switch {
	case result.DryRun:
		return "dry-run"
	case result.Applied:
		return "applied"
	default:
		return "unchanged"
	}
}

func renderSummaryTable(result m.BatchResult) string {
	var tableBuffer bytes.Buffer

	table := newTable(&tableBuffer, []string{"Operation", "Total", "Processed", "Succeeded", "Failed"})
	table.Append([]string{
		string(result.Operation),
		fmt.Sprintf("%d", result.Total),
		fmt.Sprintf("%d", result.Processed),
		fmt.Sprintf("%d", result.Succeeded),
		fmt.Sprintf("%d", result.Failed),
	})
	table.Render()

	if len(result.Errors) == 0 {
		return tableBuffer.String()
	}

	tableBuffer.WriteString("\n")

	errorsTable := newTable(&tableBuffer, []string{"Path", "Kind", "Message"})
	for _, fileErr := range result.Errors {
		errorsTable.Append([]string{string(fileErr.Path), fileErr.Kind, fileErr.Message})
	}

	errorsTable.Render()

	return tableBuffer.String()
}

func renderPropsTable(result m.InterfaceResult) string {
	var tableBuffer bytes.Buffer

	table := newTable(&tableBuffer, []string{"Prop", "Type", "Required", "Origin"})
	for _, prop := range result.Props {
		table.Append([]string{prop.Name, prop.Type, fmt.Sprintf("%t", prop.Required), string(prop.Origin)})
	}

	table.Render()

	return tableBuffer.String()
}

func joinDiffs(results []m.FixResult) string {
	var b strings.Builder

	for _, result := range results {
		if result.Diff == "" {
			continue
		}

		b.WriteString(result.Diff)

		if !strings.HasSuffix(result.Diff, "\n") {
			b.WriteString("\n")
		}
	}

	return b.String()
}
