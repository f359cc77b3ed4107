package tutor

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a friendly tutor for complete beginners learning HTML and CSS. Reply in Traditional Chinese (zh-TW). Keep code in plain backticks and never invent tags or properties.`

func buildUserMessage(in Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", in.Topic)
	fmt.Fprintf(&b, "Question: %s\n", in.Prompt)
	if len(in.Options) > 0 {
		b.WriteString("Options:\n")
		for i, o := range in.Options {
			fmt.Fprintf(&b, "%d. %s\n", i+1, o)
		}
	}
	answer := in.UserAnswer
	if strings.TrimSpace(answer) == "" {
		answer = "(no answer)"
	}
	fmt.Fprintf(&b, "Learner answered: %s\n", answer)
	fmt.Fprintf(&b, "Correct answer: %s\n", in.Reference)

	b.WriteString(`
Instructions:
1. Explain in 2-4 sentences why the correct answer is right.
2. If the learner answered, point out what was wrong with their answer.
3. Give one short tip that helps remember the rule.`)

	return b.String()
}
