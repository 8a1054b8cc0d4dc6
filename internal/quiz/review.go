package quiz

// Item is one row of the question breakdown shown with a result.
type Item struct {
	Index       int
	Question    string
	Chosen      int
	Answered    bool
	ChosenText  string
	Correct     int
	CorrectText string
	IsCorrect   bool
}

// Review pairs each question with the submitted answer. It is for display
// only; the score in r stays authoritative.
func Review(q *Quiz, r Result) []Item {
	if q == nil {
		return nil
	}
	items := make([]Item, len(q.Questions))
	for i, question := range q.Questions {
		chosen, answered := r.Answers[i]
		item := Item{
			Index:       i,
			Question:    question.Question,
			Correct:     question.CorrectAnswer,
			CorrectText: option(question.Options, question.CorrectAnswer),
			Answered:    answered,
		}
		if answered {
			item.Chosen = chosen
			item.ChosenText = option(question.Options, chosen)
			item.IsCorrect = chosen == question.CorrectAnswer
		}
		items[i] = item
	}
	return items
}

func option(opts []string, i int) string {
	if i < 0 || i >= len(opts) {
		return ""
	}
	return opts[i]
}
