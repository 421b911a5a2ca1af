package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

func generatePrompt(description string, questionCount int, language string) string {
	var b strings.Builder
	b.WriteString("You are a monitoring-and-evaluation survey designer. ")
	fmt.Fprintf(&b, "Draft a survey with exactly %d questions for the following purpose:\n\n%s\n\n", questionCount, description)
	if language != "" {
		fmt.Fprintf(&b, "Write everything in %s.\n", language)
	}
	b.WriteString(`Respond with strict JSON only, no prose, in this shape:
{"title": "...", "description": "...", "questions": [{"id": "q1", "text": "...", "type": "text|single_choice|multi_choice|number|rating|date", "options": ["..."], "required": true}]}
Choice questions must include 2-6 options; other types must omit options.`)
	return b.String()
}

func translatePrompt(texts []string, targetLanguage string) string {
	encoded, _ := json.Marshal(texts)
	var b strings.Builder
	fmt.Fprintf(&b, "Translate each string in the following JSON array into %s. ", targetLanguage)
	b.WriteString("Respond with a strict JSON array of the same length and order, no prose.\n\n")
	b.Write(encoded)
	return b.String()
}
