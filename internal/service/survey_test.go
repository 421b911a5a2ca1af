package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"datarw/internal/ai"
	"datarw/internal/config"
	"datarw/internal/events"
	"datarw/internal/model"
)

type surveyFixture struct {
	svc      *SurveyService
	repo     *fakeSurveyRepo
	provider *stubProvider
	org      *model.Organization
	actor    primitive.ObjectID
}

func newSurveyFixture() *surveyFixture {
	cfg := config.New()
	log := zerolog.Nop()

	orgRepo := newFakeOrgRepo()
	org, _ := orgRepo.Create(context.Background(), &model.Organization{
		Name:    "Acme",
		OwnerID: primitive.NewObjectID(),
		Plan:    model.PlanBasic,
	})

	repo := newFakeSurveyRepo()
	provider := &stubProvider{}
	svc := NewSurveyService(cfg, repo, newFakeResponseRepo(), orgRepo, provider, events.NewHub(log), log)

	return &surveyFixture{svc: svc, repo: repo, provider: provider, org: org, actor: primitive.NewObjectID()}
}

func choiceSurvey() *model.Survey {
	return &model.Survey{
		Title: "Water satisfaction",
		Questions: []model.Question{
			{ID: "q1", Text: "Are you satisfied?", Type: model.QuestionSingleChoice, Options: []string{"Yes", "No"}, Required: true},
			{ID: "q2", Text: "Which sources do you use?", Type: model.QuestionMultiChoice, Options: []string{"Well", "Tap", "River"}},
			{ID: "q3", Text: "Liters per day?", Type: model.QuestionNumber},
			{ID: "q4", Text: "Anything else?", Type: model.QuestionText},
		},
	}
}

func TestGenerateFallsBackWhenProviderFails(t *testing.T) {
	f := newSurveyFixture()
	f.provider.err = errors.New("provider down")

	survey, err := f.svc.Generate(context.Background(), f.org.ID, f.actor, &model.GenerateSurveyRequest{
		Description: "clean water access in rural districts",
	})
	require.NoError(t, err)

	assert.False(t, survey.AIGenerated)
	assert.Equal(t, model.SurveyDraft, survey.Status)
	require.Len(t, survey.Questions, 8)
	for i, q := range survey.Questions {
		assert.Equal(t, fmt.Sprintf("q%d", i+1), q.ID)
		assert.True(t, model.ValidQuestionType(q.Type))
	}
}

func TestGenerateNormalizesProviderDraft(t *testing.T) {
	f := newSurveyFixture()
	f.provider.draft = &ai.SurveyDraft{
		Title: "Health outcomes",
		Questions: []model.Question{
			{Text: "How do you feel?", Type: "mood"}, // unknown type, no id
			{ID: "custom", Text: "Visits last month?", Type: model.QuestionNumber},
		},
	}

	survey, err := f.svc.Generate(context.Background(), f.org.ID, f.actor, &model.GenerateSurveyRequest{
		Description:   "health",
		QuestionCount: 2,
	})
	require.NoError(t, err)

	assert.True(t, survey.AIGenerated)
	assert.Equal(t, "q1", survey.Questions[0].ID)
	assert.Equal(t, model.QuestionText, survey.Questions[0].Type)
	assert.Equal(t, "custom", survey.Questions[1].ID)
}

func TestGenerateCapsQuestionCount(t *testing.T) {
	f := newSurveyFixture()
	f.provider.err = errors.New("provider down")

	survey, err := f.svc.Generate(context.Background(), f.org.ID, f.actor, &model.GenerateSurveyRequest{
		Description:   "very long survey",
		QuestionCount: 500,
	})
	require.NoError(t, err)
	assert.Len(t, survey.Questions, config.MaxQuestionsPerCall)
}

func TestCreateEnforcesSurveyCap(t *testing.T) {
	f := newSurveyFixture()
	ctx := context.Background()

	for i := 0; i < model.PlanBasic.Spec().MaxSurveys; i++ {
		_, err := f.svc.Create(ctx, f.org.ID, f.actor, &model.Survey{Title: fmt.Sprintf("s%d", i)})
		require.NoError(t, err)
	}

	_, err := f.svc.Create(ctx, f.org.ID, f.actor, &model.Survey{Title: "over the cap"})
	assert.ErrorIs(t, err, ErrPlanLimitReached)
}

func TestPublishLifecycle(t *testing.T) {
	f := newSurveyFixture()
	ctx := context.Background()

	empty, err := f.svc.Create(ctx, f.org.ID, f.actor, &model.Survey{Title: "no questions"})
	require.NoError(t, err)
	_, err = f.svc.Publish(ctx, f.org.ID, empty.ID)
	assert.ErrorIs(t, err, ErrInvalidInput)

	survey, err := f.svc.Create(ctx, f.org.ID, f.actor, choiceSurvey())
	require.NoError(t, err)

	published, err := f.svc.Publish(ctx, f.org.ID, survey.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SurveyActive, published.Status)

	// Publishing twice is rejected; a published survey cannot be edited
	_, err = f.svc.Publish(ctx, f.org.ID, survey.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.Update(ctx, f.org.ID, survey.ID, "new title", "", nil)
	assert.ErrorIs(t, err, ErrForbidden)

	closed, err := f.svc.Close(ctx, f.org.ID, survey.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SurveyClosed, closed.Status)
	_, err = f.svc.Close(ctx, f.org.ID, survey.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSubmitResponseValidatesAnswers(t *testing.T) {
	f := newSurveyFixture()
	ctx := context.Background()

	survey, err := f.svc.Create(ctx, f.org.ID, f.actor, choiceSurvey())
	require.NoError(t, err)
	_, err = f.svc.Publish(ctx, f.org.ID, survey.ID)
	require.NoError(t, err)

	cases := []struct {
		name    string
		answers []model.Answer
	}{
		{"unknown question", []model.Answer{{QuestionID: "q1", Value: "Yes"}, {QuestionID: "nope", Value: "x"}}},
		{"missing required", []model.Answer{{QuestionID: "q4", Value: "hi"}}},
		{"invalid option", []model.Answer{{QuestionID: "q1", Value: "Maybe"}}},
		{"multi choice off the list", []model.Answer{{QuestionID: "q1", Value: "Yes"}, {QuestionID: "q2", Values: []string{"Lake"}}}},
		{"number without a number", []model.Answer{{QuestionID: "q1", Value: "Yes"}, {QuestionID: "q3"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.SubmitResponse(ctx, f.org.ID, survey.ID, &model.SurveyResponse{Answers: tc.answers})
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	liters := 12.0
	resp, err := f.svc.SubmitResponse(ctx, f.org.ID, survey.ID, &model.SurveyResponse{
		Answers: []model.Answer{
			{QuestionID: "q1", Value: "Yes"},
			{QuestionID: "q2", Values: []string{"Well", "Tap"}},
			{QuestionID: "q3", Number: &liters},
		},
	})
	require.NoError(t, err)
	assert.False(t, resp.SubmittedAt.IsZero())

	reloaded, err := f.svc.Get(ctx, f.org.ID, survey.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reloaded.ResponseCount)
}

func TestSubmitResponseRequiresActiveSurvey(t *testing.T) {
	f := newSurveyFixture()
	ctx := context.Background()

	survey, err := f.svc.Create(ctx, f.org.ID, f.actor, choiceSurvey())
	require.NoError(t, err)

	_, err = f.svc.SubmitResponse(ctx, f.org.ID, survey.ID, &model.SurveyResponse{
		Answers: []model.Answer{{QuestionID: "q1", Value: "Yes"}},
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestTranslateFallbackKeepsSourceText(t *testing.T) {
	f := newSurveyFixture()
	ctx := context.Background()
	f.provider.err = errors.New("provider down")

	source, err := f.svc.Create(ctx, f.org.ID, f.actor, choiceSurvey())
	require.NoError(t, err)

	translated, err := f.svc.Translate(ctx, f.org.ID, f.actor, source.ID, "fr")
	require.NoError(t, err)

	assert.Equal(t, source.Title, translated.Title)
	assert.Equal(t, source.Language, translated.Language) // not "fr": translation failed
	assert.Equal(t, model.SurveyDraft, translated.Status)
	require.Len(t, translated.Questions, len(source.Questions))
	assert.Equal(t, source.Questions[0].Text, translated.Questions[0].Text)
	assert.Equal(t, source.Questions[0].Options, translated.Questions[0].Options)
}

func TestTranslateMapsTextsInOrder(t *testing.T) {
	f := newSurveyFixture()
	ctx := context.Background()

	source, err := f.svc.Create(ctx, f.org.ID, f.actor, &model.Survey{
		Title:       "Title",
		Description: "Desc",
		Questions: []model.Question{
			{ID: "q1", Text: "Q one", Type: model.QuestionSingleChoice, Options: []string{"A", "B"}},
		},
	})
	require.NoError(t, err)

	f.provider.translations = []string{"Titre", "Description", "Q un", "Un", "Deux"}
	translated, err := f.svc.Translate(ctx, f.org.ID, f.actor, source.ID, "fr")
	require.NoError(t, err)

	assert.Equal(t, "Titre", translated.Title)
	assert.Equal(t, "Description", translated.Description)
	assert.Equal(t, "fr", translated.Language)
	assert.Equal(t, "Q un", translated.Questions[0].Text)
	assert.Equal(t, []string{"Un", "Deux"}, translated.Questions[0].Options)
	assert.Equal(t, "q1", translated.Questions[0].ID)
}

func TestComputeStats(t *testing.T) {
	survey := choiceSurvey()
	survey.ID = primitive.NewObjectID()

	n5, n10 := 5.0, 10.0
	responses := []*model.SurveyResponse{
		{Answers: []model.Answer{
			{QuestionID: "q1", Value: "Yes"},
			{QuestionID: "q2", Values: []string{"Well", "Tap"}},
			{QuestionID: "q3", Number: &n5},
		}},
		{Answers: []model.Answer{
			{QuestionID: "q1", Value: "No"},
			{QuestionID: "q2", Values: []string{"Well"}},
			{QuestionID: "q3", Number: &n10},
		}},
		{Answers: []model.Answer{
			{QuestionID: "q1", Value: "Yes"},
		}},
	}

	stats := computeStats(survey, responses)

	assert.Equal(t, int64(3), stats.ResponseCount)
	require.Len(t, stats.Questions, 4)

	q1 := stats.Questions[0]
	assert.Equal(t, int64(3), q1.AnswerCount)
	assert.Equal(t, int64(2), q1.Options["Yes"])
	assert.Equal(t, int64(1), q1.Options["No"])

	q2 := stats.Questions[1]
	assert.Equal(t, int64(2), q2.Options["Well"])
	assert.Equal(t, int64(1), q2.Options["Tap"])

	q3 := stats.Questions[2]
	require.NotNil(t, q3.Min)
	require.NotNil(t, q3.Max)
	require.NotNil(t, q3.Avg)
	assert.Equal(t, 5.0, *q3.Min)
	assert.Equal(t, 10.0, *q3.Max)
	assert.Equal(t, 7.5, *q3.Avg)

	q4 := stats.Questions[3]
	assert.Equal(t, int64(0), q4.AnswerCount)
	assert.Nil(t, q4.Avg)
}

func TestDeleteCascadesResponses(t *testing.T) {
	f := newSurveyFixture()
	ctx := context.Background()

	survey, err := f.svc.Create(ctx, f.org.ID, f.actor, choiceSurvey())
	require.NoError(t, err)
	_, err = f.svc.Publish(ctx, f.org.ID, survey.ID)
	require.NoError(t, err)

	_, err = f.svc.SubmitResponse(ctx, f.org.ID, survey.ID, &model.SurveyResponse{
		Answers: []model.Answer{{QuestionID: "q1", Value: "Yes"}},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, f.org.ID, survey.ID))

	_, err = f.svc.Get(ctx, f.org.ID, survey.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSummarizeTopic(t *testing.T) {
	assert.Equal(t, "the program", summarizeTopic("  "))
	assert.Equal(t, "school feeding", summarizeTopic("school feeding."))
	long := summarizeTopic("one two three four five six seven eight nine ten")
	assert.Equal(t, "one two three four five six seven eight", long)
}
