package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/facematch/internal/facematch"
	"github.com/handiism/facematch/internal/model"
)

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("Face Match"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Find the photos a face appears in"))
	b.WriteString("\n\n")

	switch m.state {
	case StatePickTarget:
		b.WriteString(m.viewPickTarget())
	case StatePickComparisons:
		b.WriteString(m.viewPickComparisons())
	case StateMatching:
		b.WriteString(m.viewMatching())
	case StateResults:
		b.WriteString(m.viewResults())
	case StateSaveAlbum:
		b.WriteString(m.viewSaveAlbum())
	case StateLibrary:
		b.WriteString(m.viewLibrary())
	case StateConfirmDelete:
		b.WriteString(m.viewConfirm(fmt.Sprintf("Delete album %q?", m.albums[m.cursor].Name)))
	case StateConfirmClear:
		b.WriteString(m.viewConfirm("Clear all saved albums and settings?"))
	case StateError:
		b.WriteString(m.viewError())
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render(m.notice))
		b.WriteString("\n")
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewPickTarget() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Pick the photo of the person to find:"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.picker.CurrentDirectory))
	b.WriteString("\n\n")
	b.WriteString(m.picker.View())
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewPickComparisons() string {
	var b strings.Builder

	b.WriteString(infoStyle.Render("Target: " + filepath.Base(m.target)))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf(
		"Pick comparison photos (%d picked, at least %d):", len(m.comparisons), model.MinComparisons)))
	b.WriteString("\n")
	for i, c := range m.comparisons {
		b.WriteString(albumStyle.Render(fmt.Sprintf("  %d. %s", i+1, filepath.Base(c))))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render(m.picker.CurrentDirectory))
	b.WriteString("\n\n")
	b.WriteString(m.picker.View())
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewMatching() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Matching against %d photos...", len(m.comparisons))))
	b.WriteString("\n\n")

	var percent float64
	if m.totalBytes > 0 {
		percent = float64(m.sentBytes) / float64(m.totalBytes)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Uploaded: %.2f / %.2f MB",
		float64(m.sentBytes)/1024/1024,
		float64(m.totalBytes)/1024/1024,
	)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewResults() string {
	var b strings.Builder
	if m.outcome == nil || m.outcome.Result == nil {
		return ""
	}
	result := m.outcome.Result

	b.WriteString(boxStyle.Render(fmt.Sprintf(
		"Matches: %d\nNon-matches: %d",
		len(result.Matches),
		len(result.NonMatches),
	)))
	b.WriteString("\n\n")

	b.WriteString(successStyle.Render("Matches"))
	b.WriteString("\n")
	b.WriteString(m.renderImages(result.Matches, "No matches found"))
	b.WriteString("\n")
	b.WriteString(errorStyle.Render("Non-matches"))
	b.WriteString("\n")
	b.WriteString(m.renderImages(result.NonMatches, "None"))
	b.WriteString("\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewSaveAlbum() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Save %d matches as an album:", len(m.outcome.Result.Matches))))
	b.WriteString("\n\n")
	b.WriteString(m.nameInput.View())
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewLibrary() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Saved albums (%d):", len(m.albums))))
	b.WriteString("\n\n")
	if len(m.albums) == 0 {
		b.WriteString(dimStyle.Render("  No albums yet"))
		b.WriteString("\n")
		return b.String()
	}

	for i := range m.albums {
		a := &m.albums[i]
		line := fmt.Sprintf("  %s (%d matches, %s)", a.Name, len(a.Matches), a.CreatedAt.Local().Format("2006-01-02 15:04"))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + strings.TrimPrefix(line, "  ")))
		} else {
			b.WriteString(albumStyle.Render(line))
		}
		b.WriteString("\n")

		shown, more := a.Preview(previewSize)
		names := make([]string, len(shown))
		for j, img := range shown {
			names[j] = filepath.Base(img.String())
		}
		preview := "    " + strings.Join(names, ", ")
		if more > 0 {
			preview += fmt.Sprintf(" +%d more", more)
		}
		b.WriteString(dimStyle.Render(preview))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewConfirm(question string) string {
	return boxStyle.BorderForeground(lipgloss.Color("#FF6B6B")).Render(question + "\n\ny: yes • n: no")
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", describeError(m.err)))
	}
	b.WriteString("\n")

	return b.String()
}

// renderImages lists images by name followed by the path the renderer
// would load.
func (m Model) renderImages(images []model.StoredImage, empty string) string {
	if len(images) == 0 {
		return dimStyle.Render("  "+empty) + "\n"
	}

	var b strings.Builder
	for _, img := range images {
		path := img.String()
		if m.manager != nil {
			path = m.manager.RenderablePath(img)
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", filepath.Base(img.String()), dimStyle.Render(path)))
	}
	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case facematch.LevelError:
			style = errorStyle
			prefix = "✗"
		case facematch.LevelWarning:
			style = warningStyle
			prefix = "!"
		case facematch.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case facematch.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StatePickTarget:
		return "enter: pick • a: albums • q: quit"
	case StatePickComparisons:
		return "enter: add • x: remove last • m: match • t: change target • q: quit"
	case StateMatching:
		return "esc: cancel"
	case StateResults:
		if m.outcome != nil && len(m.outcome.Result.Matches) > 0 && !m.saved {
			return "s: save album • n: new match • a: albums • q: quit"
		}
		return "n: new match • a: albums • q: quit"
	case StateSaveAlbum:
		return "enter: save • esc: back"
	case StateLibrary:
		return "↑/↓: select • d: delete • c: clear all • esc: back • q: quit"
	case StateConfirmDelete, StateConfirmClear:
		return "y: confirm • n: cancel"
	case StateError:
		return "r: start over • q: quit"
	}
	return ""
}
