package learn

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/synapse/internal/artifact"
	"github.com/abhisek/synapse/internal/challenge"
	"github.com/abhisek/synapse/internal/lesson"
	"github.com/abhisek/synapse/internal/ui/components"
	"github.com/abhisek/synapse/internal/ui/layout"
	"github.com/abhisek/synapse/internal/ui/theme"
)

const (
	listWidth          = 30
	collapsedListWidth = 6
)

func (s *LearnScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render("\n\n" + s.errMsg)
	}

	v := s.opts.Controller.View()
	if !v.HasUnit {
		return ""
	}
	if v.Finished {
		return s.renderFinished(v, width, height)
	}

	lw := listWidth
	if s.collapsed || layout.IsCompactWidth(width) {
		lw = collapsedListWidth
	}
	list := s.renderList(v, lw, height)
	main := s.renderMain(v, width-lw-1)

	return lipgloss.JoinHorizontal(lipgloss.Top, list, " ", main)
}

func (s *LearnScreen) renderList(v lesson.View, width, height int) string {
	compact := width == collapsedListWidth

	var b strings.Builder
	if !compact {
		b.WriteString(theme.Selected.Render(v.UnitTitle))
		b.WriteString("\n")
		b.WriteString(components.NewProgressBar("", v.Percent, width-2).View())
		b.WriteString("\n\n")
	}

	for _, l := range v.Lessons {
		mark := "○"
		style := theme.Unselected
		switch l.Status {
		case lesson.StatusCompleted:
			mark, style = "✓", theme.Correct
		case lesson.StatusLocked:
			mark, style = "·", theme.Locked
		}
		if l.Active {
			style = theme.Selected
		}

		line := fmt.Sprintf("%s %d", mark, l.Index+1)
		if !compact {
			line += ". " + l.Title
		}
		if l.Active {
			line = "▸" + line
		} else {
			line = " " + line
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(theme.Border).
		Render(b.String())
}

func (s *LearnScreen) renderMain(v lesson.View, width int) string {
	var sections []string

	sections = append(sections, renderTabs(s.tab))
	sections = append(sections, theme.Title.Align(lipgloss.Left).Render(
		fmt.Sprintf("第 %d 課：%s", v.LessonIndex+1, v.Lesson.Title)))

	if s.tab == tabInsight {
		sections = append(sections, s.renderInsight(v, width))
	} else {
		sections = append(sections, s.renderChallenge(v, width))
	}

	if v.StorageWarning {
		sections = append(sections, theme.Incorrect.Render("⚠ 進度無法儲存，只會保留到關閉程式為止"))
	}

	return lipgloss.NewStyle().Width(width).Render(strings.Join(sections, "\n\n"))
}

func renderTabs(active tab) string {
	labels := []string{"概念", "挑戰"}
	parts := make([]string, len(labels))
	for i, l := range labels {
		if tab(i) == active {
			parts[i] = theme.ButtonActive.Render(l)
		} else {
			parts[i] = lipgloss.NewStyle().Foreground(theme.TextDim).Padding(0, 2).Render(l)
		}
	}
	return strings.Join(parts, " ")
}

func (s *LearnScreen) renderInsight(v lesson.View, width int) string {
	var sections []string
	sections = append(sections, theme.Body.Width(width).Render(strings.TrimSpace(v.Lesson.Insight)))

	cmds := s.play.Commands()
	if len(cmds) > 0 {
		var b strings.Builder
		group := ""
		for i, c := range cmds {
			if c.Group != group {
				group = c.Group
				b.WriteString(theme.Hint.Render(group))
				b.WriteString("\n")
			}
			mark := "○"
			style := theme.Unselected
			if s.play.IsActive(i) {
				mark, style = "●", theme.Correct
			}
			if i == s.cmdIndex {
				style = style.Underline(true)
			}
			key := " "
			if i < 9 {
				key = fmt.Sprintf("%d", i+1)
			}
			b.WriteString(style.Render(fmt.Sprintf("  %s %s %s", key, mark, c.Label)))
			b.WriteString("\n")
		}
		sections = append(sections, b.String())
	}

	sections = append(sections, s.renderPreview(v, s.play.Render(), width))
	return strings.Join(sections, "\n")
}

func (s *LearnScreen) renderChallenge(v lesson.View, width int) string {
	ch := v.Lesson.Challenge
	sections := []string{theme.Body.Width(width).Render(ch.Prompt)}

	if v.ReadOnly {
		label := "下一課"
		if v.IsLastLesson {
			label = "完成"
		}
		done := theme.Correct.Render("✓ 挑戰完成！")
		if v.AdvancePending {
			done += theme.Hint.Render("  即將進入下一課…")
		}
		sections = append(sections, done, components.NewButton("N  "+label, true).View())
		return strings.Join(sections, "\n\n")
	}

	s.editor.SetWidth(max(width-2, 10))
	sections = append(sections, components.Card(s.editor.View(), width))

	switch {
	case s.result.Outcome == challenge.Pass:
		sections = append(sections, theme.Correct.Render("✓ 正確！"))
	case s.result.ShowHint:
		sections = append(sections, theme.Incorrect.Render("還差一點："+s.result.Hint))
	case !s.evaluated:
		sections = append(sections, theme.Hint.Render("輸入答案後會即時檢查"))
	}

	sections = append(sections, s.renderPreview(v, s.editor.Value(), width))
	return strings.Join(sections, "\n")
}

// renderPreview shows source as the unit's artifact: an element outline
// for documents, a styled box for style units.
func (s *LearnScreen) renderPreview(v lesson.View, source string, width int) string {
	var body string
	if v.Artifact == artifact.KindStyle {
		el := s.play.Style()
		if s.tab == tabChallenge {
			el = artifact.ParseStyle(source)
		}
		body = styledBox(el, width-4)
	} else {
		body = outline(source)
	}
	return theme.Hint.Render("預覽") + "\n" + components.Card(body, width)
}

func (s *LearnScreen) renderFinished(v lesson.View, width, height int) string {
	lines := []string{
		theme.Title.Render("🎉 恭喜完成「" + v.UnitTitle + "」！"),
		"",
		theme.Body.Render(fmt.Sprintf("你完成了全部 %d 課。", v.TotalLessons)),
	}
	if s.opts.NewQuiz != nil {
		lines = append(lines, "", theme.Hint.Render("按 T 進行綜合測驗，或按 Enter 回到首頁"))
	} else {
		lines = append(lines, "", theme.Hint.Render("按 Enter 回到首頁"))
	}
	return components.Center(strings.Join(lines, "\n"), width, height)
}
