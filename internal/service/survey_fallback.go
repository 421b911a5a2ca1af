package service

import (
	"fmt"
	"strings"

	"datarw/internal/ai"
	"datarw/internal/model"
)

// fallbackDraft builds a deterministic template survey when the provider is
// unavailable. The templates cover the question shapes an M&E survey
// typically opens with; extra slots repeat as free-text prompts.
func fallbackDraft(description string, count int) *ai.SurveyDraft {
	topic := summarizeTopic(description)

	templates := []model.Question{
		{Type: model.QuestionSingleChoice, Text: fmt.Sprintf("How familiar are you with %s?", topic),
			Options: []string{"Not at all", "Somewhat", "Very familiar"}, Required: true},
		{Type: model.QuestionRating, Text: fmt.Sprintf("How satisfied are you with %s overall?", topic), Required: true},
		{Type: model.QuestionSingleChoice, Text: fmt.Sprintf("Has %s improved your situation?", topic),
			Options: []string{"Yes", "No", "Not sure"}},
		{Type: model.QuestionMultiChoice, Text: fmt.Sprintf("Which aspects of %s matter most to you?", topic),
			Options: []string{"Quality", "Accessibility", "Timeliness", "Cost"}},
		{Type: model.QuestionNumber, Text: fmt.Sprintf("How many times did you engage with %s in the last month?", topic)},
		{Type: model.QuestionText, Text: fmt.Sprintf("What works well about %s?", topic)},
		{Type: model.QuestionText, Text: fmt.Sprintf("What should change about %s?", topic)},
		{Type: model.QuestionDate, Text: fmt.Sprintf("When did you first encounter %s?", topic)},
	}

	questions := make([]model.Question, 0, count)
	for i := 0; i < count; i++ {
		var q model.Question
		if i < len(templates) {
			q = templates[i]
		} else {
			q = model.Question{
				Type: model.QuestionText,
				Text: fmt.Sprintf("Please share any further feedback on %s (%d).", topic, i-len(templates)+1),
			}
		}
		q.ID = fmt.Sprintf("q%d", i+1)
		questions = append(questions, q)
	}

	return &ai.SurveyDraft{
		Title:       fmt.Sprintf("Survey: %s", topic),
		Description: description,
		Questions:   questions,
	}
}

// summarizeTopic trims the free-form description down to a short phrase
// usable inside a question sentence.
func summarizeTopic(description string) string {
	topic := strings.TrimSpace(description)
	if topic == "" {
		return "the program"
	}
	words := strings.Fields(topic)
	if len(words) > 8 {
		topic = strings.Join(words[:8], " ")
	}
	return strings.TrimRight(topic, ".!?")
}
