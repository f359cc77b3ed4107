package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/synapse/internal/curriculum"
	"github.com/abhisek/synapse/internal/quiz"
	"github.com/abhisek/synapse/internal/ui/components"
	"github.com/abhisek/synapse/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var body string
	switch {
	case s.confirming:
		body = s.renderConfirm(cw)
	case s.session.Phase() == quiz.PhaseResults:
		body = s.renderResults(cw)
	default:
		body = s.renderQuestion(cw)
	}
	return components.Center(body, width, height)
}

func (s *QuizScreen) renderQuestion(cw int) string {
	q, ok := s.session.Current()
	if !ok {
		return theme.Hint.Render("題庫是空的")
	}
	i := s.session.Index()

	header := fmt.Sprintf("第 %d / %d 題 · %s", i+1, s.session.Total(), q.Topic)
	if s.session.Phase() == quiz.PhaseReview {
		header += " · 檢視模式"
	}

	sections := []string{
		theme.Hint.Render(header),
		theme.Body.Bold(true).Width(cw).Render(q.Prompt),
	}

	if q.Type == curriculum.MultipleChoice {
		sections = append(sections, s.choice.View())
	} else {
		sections = append(sections, components.Card(s.input.View(), cw))
	}

	if fb, ok := s.session.Feedback(i); ok {
		sections = append(sections, s.renderFeedback(i, fb, cw))
	}

	return lipgloss.NewStyle().Width(cw).Render(strings.Join(sections, "\n\n"))
}

func (s *QuizScreen) renderFeedback(i int, fb quiz.Feedback, cw int) string {
	var lines []string
	switch {
	case fb.Correct:
		lines = append(lines, theme.Correct.Render("✓ 答對了"))
	case !fb.Answered:
		lines = append(lines, theme.Incorrect.Render("✗ 未作答"))
	default:
		lines = append(lines, theme.Incorrect.Render("✗ 答錯了"))
	}
	if !fb.Correct {
		lines = append(lines, theme.Body.Render("正確答案："+fb.Reference))
	}

	switch {
	case s.explanations[i] != nil:
		exp := s.explanations[i]
		lines = append(lines, "", theme.Body.Width(cw).Render(exp.Text))
		if exp.Tip != "" {
			lines = append(lines, theme.Hint.Render("💡 "+exp.Tip))
		}
	case s.explaining == i:
		lines = append(lines, theme.Hint.Render("AI 解說產生中…"))
	case s.explainErr != "":
		lines = append(lines, theme.Hint.Render(s.explainErr))
	case !fb.Correct && s.opts.Tutor.Enabled():
		lines = append(lines, theme.Hint.Render("按 E 取得 AI 解說"))
	}
	return strings.Join(lines, "\n")
}

func (s *QuizScreen) renderConfirm(cw int) string {
	unanswered := 0
	for i := 0; i < s.session.Total(); i++ {
		if s.session.Answer(i) == nil {
			unanswered++
		}
	}
	lines := []string{theme.Title.Render("確定要交卷嗎？")}
	if unanswered > 0 {
		lines = append(lines, "", theme.Incorrect.Render(fmt.Sprintf("還有 %d 題未作答", unanswered)))
	}
	lines = append(lines, "", theme.Hint.Render("Y 交卷 · N 繼續作答"))
	return components.Card(lipgloss.NewStyle().Width(cw-4).Align(lipgloss.Center).Render(strings.Join(lines, "\n")), cw)
}

func (s *QuizScreen) renderResults(cw int) string {
	band := s.session.Band()
	lines := []string{
		theme.Title.Render(band.Title()),
		"",
		theme.Subtitle.Render(band.Summary(s.session.Score())),
		"",
		components.NewProgressBar(fmt.Sprintf("%d / %d", s.session.Score(), s.session.Total()), s.session.Percent(), cw-4).View(),
		"",
		components.NewButton("R  檢視答案", true).View() + "  " + components.NewButton("A  重新測驗", false).View(),
	}
	return components.Card(lipgloss.NewStyle().Width(cw-4).Align(lipgloss.Center).Render(strings.Join(lines, "\n")), cw)
}
