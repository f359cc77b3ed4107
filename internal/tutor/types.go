package tutor

// Input describes one quiz question the learner got wrong.
type Input struct {
	QuestionIndex int
	Topic         string
	Prompt        string
	Options       []string
	UserAnswer    string
	Reference     string
}

// Explanation is a short generated walkthrough of the correct answer.
type Explanation struct {
	QuestionIndex int
	Text          string
	Tip           string
}
