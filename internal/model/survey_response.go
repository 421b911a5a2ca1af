package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SurveyResponse is one respondent's submission
type SurveyResponse struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrgID      primitive.ObjectID `bson:"orgId" json:"orgId"`
	SurveyID   primitive.ObjectID `bson:"surveyId" json:"surveyId"`
	Answers    []Answer           `bson:"answers" json:"answers"`
	Respondent string             `bson:"respondent,omitempty" json:"respondent,omitempty"`
	SubmittedAt time.Time         `bson:"submittedAt" json:"submittedAt"`
}

// GetID implements generic.Entity
func (r *SurveyResponse) GetID() primitive.ObjectID { return r.ID }

// SetID implements generic.Entity
func (r *SurveyResponse) SetID(id primitive.ObjectID) { r.ID = id }

// Answer holds one question's answer. Value is a string for text/choice/date
// questions and a numeric string for number/rating; multi-choice answers use
// Values.
type Answer struct {
	QuestionID string   `bson:"questionId" json:"questionId"`
	Value      string   `bson:"value,omitempty" json:"value,omitempty"`
	Values     []string `bson:"values,omitempty" json:"values,omitempty"`
	Number     *float64 `bson:"number,omitempty" json:"number,omitempty"`
}

// QuestionStats aggregates answers for one question
type QuestionStats struct {
	QuestionID  string           `json:"questionId"`
	Text        string           `json:"text"`
	Type        string           `json:"type"`
	AnswerCount int64            `json:"answerCount"`
	Options     map[string]int64 `json:"options,omitempty"` // choice questions
	Min         *float64         `json:"min,omitempty"`     // numeric questions
	Max         *float64         `json:"max,omitempty"`
	Avg         *float64         `json:"avg,omitempty"`
}

// SurveyStats is the per-survey response rollup
type SurveyStats struct {
	SurveyID      string          `json:"surveyId"`
	ResponseCount int64           `json:"responseCount"`
	Questions     []QuestionStats `json:"questions"`
}
