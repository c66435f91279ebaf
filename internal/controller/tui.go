package controller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	m "narrow.dev/pkg/narrow/internal/model"
)

// TUI implements UI using Bubble Tea: a live progress bar while a batch
// runs, followed by styled result sections.
type TUI struct {
	output  io.Writer
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the Bubble Tea program in the background.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := newStartConfig(options...)

	t.program = tea.NewProgram(newOperationModel(cfg), tea.WithOutput(t.output), tea.WithInput(nil))
	t.done = make(chan struct{})

	go func() {
		defer close(t.done)

		if _, err := t.program.Run(); err != nil {
			slog.Warn("TUI stopped with error", "error", err)
		}
	}()

	return nil
}

// Close asks the program to render its final frame and exit.
func (t *TUI) Close(ctx context.Context) {
	if t.program == nil {
		return
	}

	if ctx.Err() != nil {
		t.program.Quit()
		return
	}

	t.program.Send(finishMsg{})
}

// Wait blocks until the program exited or ctx is done.
func (t *TUI) Wait(ctx context.Context) {
	if t.done == nil {
		return
	}

	select {
	case <-t.done:
	case <-ctx.Done():
	}
}

// DisplayProgress advances the progress bar.
func (t *TUI) DisplayProgress(ctx context.Context, progress m.BatchProgress) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.send(progressMsg(progress))
}

// DisplayAnalysis adds the occurrence table.
func (t *TUI) DisplayAnalysis(ctx context.Context, results []m.AnalysisResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.send(sectionMsg{title: "Escape hatches", body: renderAnalysisTable(results)})
}

// DisplayFix adds the change table and the diffs.
func (t *TUI) DisplayFix(ctx context.Context, results []m.FixResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.send(sectionMsg{title: "Changes", body: renderFixTable(results)})

	if diff := joinDiffs(results); diff != "" {
		t.send(sectionMsg{title: "Diff", body: colorDiff(diff)})
	}
}

// DisplayBatchSummary adds counts and per-file errors.
func (t *TUI) DisplayBatchSummary(ctx context.Context, result m.BatchResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.send(summaryMsg(result))
}

// DisplayInterface adds the generated declaration.
func (t *TUI) DisplayInterface(ctx context.Context, result m.InterfaceResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.send(sectionMsg{title: result.InterfaceName, body: result.Declaration + "\n" + renderPropsTable(result)})
}

// DisplayCacheCleared confirms the cache was emptied.
func (t *TUI) DisplayCacheCleared(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.send(sectionMsg{title: "Cache", body: "Cache cleared\n"})
}

func (t *TUI) send(msg tea.Msg) {
	if t.program == nil {
		return
	}

	t.program.Send(msg)
}

// Message types.
type progressMsg m.BatchProgress

type summaryMsg m.BatchResult

type sectionMsg struct {
	title string
	body  string
}

type finishMsg struct{}

// operationModel renders one CLI operation.
type operationModel struct {
	title       string
	batch       bool
	width       int
	progressBar progress.Model
	progress    m.BatchProgress
	summary     *m.BatchResult
	sections    []sectionMsg
	finished    bool
}

func newOperationModel(cfg StartConfig) operationModel {
	prog := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	title := cfg.title
	if title == "" {
		title = "narrow"
	}

	return operationModel{
		title:       title,
		batch:       cfg.mode == ModeBatch,
		progressBar: prog,
	}
}

func (om operationModel) Init() tea.Cmd {
	return nil
}

func (om operationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		om.width = msg.Width
		om.progressBar.Width = max(10, min(msg.Width-4, 60))
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return om, tea.Quit
		}
	case progressMsg:
		om.progress = m.BatchProgress(msg)
	case summaryMsg:
		result := m.BatchResult(msg)
		om.summary = &result
		om.progress.Processed = result.Processed
		om.progress.Total = result.Total
		om.progress.Failed = result.Failed
		om.progress.Succeeded = result.Succeeded
		om.progress.Current = ""
	case sectionMsg:
		om.sections = append(om.sections, msg)
	case finishMsg:
		om.finished = true
		return om, tea.Quit
	}

	return om, nil
}

func (om operationModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	b.WriteString(titleStyle.Render(om.title))
	b.WriteString("\n")

	if om.batch {
		om.renderProgress(&b)
	}

	for _, section := range om.sections {
		renderSection(&b, section)
	}

	if om.summary != nil {
		renderSection(&b, sectionMsg{title: "Summary", body: renderSummaryTable(*om.summary)})
		om.renderVerdict(&b)
	}

	return b.String()
}

func (om operationModel) renderProgress(b *strings.Builder) {
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	failStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	padded := lipgloss.NewStyle().Padding(0, 0, 0, 2)

	b.WriteString(padded.Render(fmt.Sprintf(
		"Processed: %s / %s  •  Failed: %s",
		accentStyle.Render(fmt.Sprintf("%d", om.progress.Processed)),
		accentStyle.Render(fmt.Sprintf("%d", om.progress.Total)),
		failStyle.Render(fmt.Sprintf("%d", om.progress.Failed)),
	)))
	b.WriteString("\n")
	b.WriteString(padded.Render(om.progressBar.ViewAs(om.progress.Percent())))
	b.WriteString("\n")

	if om.progress.Current != "" && !om.finished {
		current := lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Padding(0, 0, 0, 2)
		b.WriteString(current.Render(truncateToWidth(string(om.progress.Current), max(om.width-4, 20))))
		b.WriteString("\n")
	}
}

func (om operationModel) renderVerdict(b *strings.Builder) {
	style := lipgloss.NewStyle().Bold(true).Padding(0, 0, 1, 2)

	switch {
	case om.summary.Cancelled:
		b.WriteString(style.Foreground(lipgloss.Color("11")).Render("Cancelled"))
	case om.summary.Success:
		b.WriteString(style.Foreground(lipgloss.Color("10")).Render("All files processed"))
	default:
		b.WriteString(style.Foreground(lipgloss.Color("9")).Render(fmt.Sprintf("%d file(s) failed", om.summary.Failed)))
	}

	b.WriteString("\n")
}

func renderSection(b *strings.Builder, section sectionMsg) {
	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("6")).
		Bold(true).
		Padding(1, 0, 0, 2)

	b.WriteString(headerStyle.Render(section.title))
	b.WriteString("\n")
	b.WriteString(section.body)

	if !strings.HasSuffix(section.body, "\n") {
		b.WriteString("\n")
	}
}

func colorDiff(diff string) string {
	added := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	removed := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hunk := lipgloss.NewStyle().Foreground(lipgloss.Color("5"))

	lines := strings.Split(strings.TrimSuffix(diff, "\n"), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			lines[i] = added.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = removed.Render(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = hunk.Render(line)
		}
	}

	return strings.Join(lines, "\n") + "\n"
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	const ellipsis = "…"

	if width <= 1 {
		return ellipsis
	}

	maxWidth := width - lipgloss.Width(ellipsis)
	currentWidth := 0

	result := make([]rune, 0, len(text))
	for _, r := range text {
		rWidth := lipgloss.Width(string(r))
		if currentWidth+rWidth > maxWidth {
			break
		}

		result = append(result, r)
		currentWidth += rWidth
	}

	return string(result) + ellipsis
}
