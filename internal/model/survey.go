package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Survey status values
const (
	SurveyDraft  = "draft"
	SurveyActive = "active"
	SurveyClosed = "closed"
)

// Question types
const (
	QuestionText         = "text"
	QuestionSingleChoice = "single_choice"
	QuestionMultiChoice  = "multi_choice"
	QuestionNumber       = "number"
	QuestionRating       = "rating"
	QuestionDate         = "date"
)

type Survey struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrgID       primitive.ObjectID `bson:"orgId" json:"orgId"`
	ProjectID   primitive.ObjectID `bson:"projectId,omitempty" json:"projectId,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Language    string             `bson:"language" json:"language"`
	Status      string             `bson:"status" json:"status"`
	Questions   []Question         `bson:"questions" json:"questions"`
	AIGenerated bool               `bson:"aiGenerated" json:"aiGenerated"`

	ResponseCount int64 `bson:"responseCount" json:"responseCount"`

	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	CreatedBy primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Question is a single survey question. IDs are short stable strings
// ("q1", "q2", ...) so answers can reference them across translations.
type Question struct {
	ID       string   `bson:"id" json:"id"`
	Text     string   `bson:"text" json:"text"`
	Type     string   `bson:"type" json:"type"`
	Options  []string `bson:"options,omitempty" json:"options,omitempty"`
	Required bool     `bson:"required" json:"required"`
}

// ValidQuestionType reports whether t is a known question type
func ValidQuestionType(t string) bool {
	switch t {
	case QuestionText, QuestionSingleChoice, QuestionMultiChoice, QuestionNumber, QuestionRating, QuestionDate:
		return true
	}
	return false
}

// QuestionByID returns the question with the given id, if present
func (s *Survey) QuestionByID(id string) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// GenerateSurveyRequest asks the AI service to draft a survey
type GenerateSurveyRequest struct {
	Description   string `json:"description" binding:"required"`
	QuestionCount int    `json:"questionCount"`
	ProjectID     string `json:"projectId"`
	Language      string `json:"language"`
}

// TranslateSurveyRequest asks for a translated copy of a survey
type TranslateSurveyRequest struct {
	Language string `json:"language" binding:"required"`
}
