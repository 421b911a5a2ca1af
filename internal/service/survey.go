package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"datarw/internal/ai"
	"datarw/internal/config"
	"datarw/internal/events"
	"datarw/internal/model"
	"datarw/internal/repository"
)

// SurveyService handles survey lifecycle, AI generation and responses
type SurveyService struct {
	repo      repository.ISurveyRepository
	responses repository.ISurveyResponseRepository
	orgs      repository.IOrgRepository
	provider  ai.Client
	hub       *events.Hub
	log       zerolog.Logger
	cfg       *config.Config
}

// NewSurveyService creates a new survey service
func NewSurveyService(cfg *config.Config, repo repository.ISurveyRepository, responses repository.ISurveyResponseRepository,
	orgs repository.IOrgRepository, provider ai.Client, hub *events.Hub, log zerolog.Logger) *SurveyService {
	return &SurveyService{
		repo: repo, responses: responses, orgs: orgs,
		provider: provider, hub: hub,
		log: log.With().Str("component", "survey").Logger(),
		cfg: cfg,
	}
}

func (s *SurveyService) checkSurveyLimit(ctx context.Context, orgID primitive.ObjectID) error {
	org, err := s.orgs.FindByID(ctx, orgID)
	if err != nil {
		return fmt.Errorf("failed to load org: %w", err)
	}
	if org == nil {
		return ErrNotFound
	}

	count, err := s.repo.CountByOrg(ctx, orgID)
	if err != nil {
		return fmt.Errorf("failed to count surveys: %w", err)
	}
	if !model.Allows(org.Plan.Spec().MaxSurveys, count) {
		return fmt.Errorf("%w: plan %s allows %d surveys", ErrPlanLimitReached, org.Plan, org.Plan.Spec().MaxSurveys)
	}
	return nil
}

// Create adds a draft survey, enforcing the plan's survey cap
func (s *SurveyService) Create(ctx context.Context, orgID, actorID primitive.ObjectID, survey *model.Survey) (*model.Survey, error) {
	if survey.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	for i, q := range survey.Questions {
		if err := validateQuestion(i, q); err != nil {
			return nil, err
		}
	}
	if err := s.checkSurveyLimit(ctx, orgID); err != nil {
		return nil, err
	}

	survey.OrgID = orgID
	survey.CreatedBy = actorID
	survey.Status = model.SurveyDraft
	if survey.Language == "" {
		survey.Language = "en"
	}
	return s.repo.Create(ctx, survey)
}

// Get returns a survey scoped to the caller's organization
func (s *SurveyService) Get(ctx context.Context, orgID, id primitive.ObjectID) (*model.Survey, error) {
	survey, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load survey: %w", err)
	}
	if survey == nil || survey.OrgID != orgID {
		return nil, ErrNotFound
	}
	return survey, nil
}

// ListByOrg returns an organization's surveys, newest first
func (s *SurveyService) ListByOrg(ctx context.Context, orgID primitive.ObjectID) ([]*model.Survey, error) {
	return s.repo.FindByOrg(ctx, orgID)
}

// Update edits a draft survey. Published surveys are immutable.
func (s *SurveyService) Update(ctx context.Context, orgID, id primitive.ObjectID, title, description string, questions []model.Question) (*model.Survey, error) {
	survey, err := s.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if survey.Status != model.SurveyDraft {
		return nil, fmt.Errorf("%w: only draft surveys can be edited", ErrForbidden)
	}

	fields := map[string]interface{}{}
	if title != "" {
		fields["title"] = title
	}
	if description != "" {
		fields["description"] = description
	}
	if questions != nil {
		for i, q := range questions {
			if err := validateQuestion(i, q); err != nil {
				return nil, err
			}
		}
		fields["questions"] = questions
	}
	if len(fields) > 0 {
		if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
			return nil, fmt.Errorf("failed to update survey: %w", err)
		}
	}
	return s.Get(ctx, orgID, id)
}

// Delete removes a survey and its responses
func (s *SurveyService) Delete(ctx context.Context, orgID, id primitive.ObjectID) error {
	if _, err := s.Get(ctx, orgID, id); err != nil {
		return err
	}
	if _, err := s.responses.DeleteMany(ctx, map[string]interface{}{"surveyId": id}); err != nil {
		return fmt.Errorf("failed to delete responses: %w", err)
	}
	return s.repo.Delete(ctx, id)
}

// Publish activates a draft survey so it can accept responses
func (s *SurveyService) Publish(ctx context.Context, orgID, id primitive.ObjectID) (*model.Survey, error) {
	survey, err := s.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if survey.Status != model.SurveyDraft {
		return nil, fmt.Errorf("%w: survey is %s", ErrForbidden, survey.Status)
	}
	if len(survey.Questions) == 0 {
		return nil, fmt.Errorf("%w: survey has no questions", ErrInvalidInput)
	}

	if err := s.repo.UpdateFields(ctx, id, map[string]interface{}{"status": model.SurveyActive}); err != nil {
		return nil, fmt.Errorf("failed to publish survey: %w", err)
	}

	s.hub.Publish(orgID, events.SurveyPublished, map[string]string{"surveyId": id.Hex(), "title": survey.Title})
	return s.Get(ctx, orgID, id)
}

// Close stops an active survey from accepting further responses
func (s *SurveyService) Close(ctx context.Context, orgID, id primitive.ObjectID) (*model.Survey, error) {
	survey, err := s.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if survey.Status != model.SurveyActive {
		return nil, fmt.Errorf("%w: survey is %s", ErrForbidden, survey.Status)
	}
	if err := s.repo.UpdateFields(ctx, id, map[string]interface{}{"status": model.SurveyClosed}); err != nil {
		return nil, fmt.Errorf("failed to close survey: %w", err)
	}
	return s.Get(ctx, orgID, id)
}

// Generate drafts a survey with the AI provider. Provider failures fall back
// to deterministic template questions rather than surfacing an error.
func (s *SurveyService) Generate(ctx context.Context, orgID, actorID primitive.ObjectID, req *model.GenerateSurveyRequest) (*model.Survey, error) {
	if err := s.checkSurveyLimit(ctx, orgID); err != nil {
		return nil, err
	}

	count := req.QuestionCount
	if count <= 0 {
		count = 8
	}
	if count > config.MaxQuestionsPerCall {
		count = config.MaxQuestionsPerCall
	}
	language := req.Language
	if language == "" {
		language = "en"
	}

	aiGenerated := true
	draft, err := s.provider.GenerateSurvey(ctx, req.Description, count, language)
	if err != nil {
		s.log.Warn().Err(err).Msg("provider generation failed, using heuristic fallback")
		draft = fallbackDraft(req.Description, count)
		aiGenerated = false
	}

	survey := &model.Survey{
		OrgID:       orgID,
		Title:       draft.Title,
		Description: draft.Description,
		Language:    language,
		Status:      model.SurveyDraft,
		Questions:   normalizeQuestions(draft.Questions),
		AIGenerated: aiGenerated,
		CreatedBy:   actorID,
	}
	if req.ProjectID != "" {
		pid, err := primitive.ObjectIDFromHex(req.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid projectId", ErrInvalidInput)
		}
		survey.ProjectID = pid
	}

	return s.repo.Create(ctx, survey)
}

// Translate produces a translated copy of a survey as a new draft. When the
// provider fails the copy keeps the source text and the original language.
func (s *SurveyService) Translate(ctx context.Context, orgID, actorID, id primitive.ObjectID, targetLanguage string) (*model.Survey, error) {
	source, err := s.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkSurveyLimit(ctx, orgID); err != nil {
		return nil, err
	}

	// Flatten title, description, question texts and options into one batch
	texts := []string{source.Title, source.Description}
	for _, q := range source.Questions {
		texts = append(texts, q.Text)
		texts = append(texts, q.Options...)
	}

	language := targetLanguage
	translated, err := s.provider.TranslateTexts(ctx, texts, targetLanguage)
	if err != nil {
		s.log.Warn().Err(err).Str("language", targetLanguage).Msg("provider translation failed, keeping source text")
		translated = texts
		language = source.Language
	}

	copySurvey := &model.Survey{
		OrgID:       orgID,
		ProjectID:   source.ProjectID,
		Title:       translated[0],
		Description: translated[1],
		Language:    language,
		Status:      model.SurveyDraft,
		AIGenerated: source.AIGenerated,
		CreatedBy:   actorID,
	}

	idx := 2
	for _, q := range source.Questions {
		nq := model.Question{ID: q.ID, Type: q.Type, Required: q.Required}
		nq.Text = translated[idx]
		idx++
		for range q.Options {
			nq.Options = append(nq.Options, translated[idx])
			idx++
		}
		copySurvey.Questions = append(copySurvey.Questions, nq)
	}

	return s.repo.Create(ctx, copySurvey)
}

// SubmitResponse validates and stores a respondent's answers
func (s *SurveyService) SubmitResponse(ctx context.Context, orgID, surveyID primitive.ObjectID, resp *model.SurveyResponse) (*model.SurveyResponse, error) {
	survey, err := s.Get(ctx, orgID, surveyID)
	if err != nil {
		return nil, err
	}
	if survey.Status != model.SurveyActive {
		return nil, fmt.Errorf("%w: survey is not accepting responses", ErrForbidden)
	}

	if err := validateAnswers(survey, resp.Answers); err != nil {
		return nil, err
	}

	resp.OrgID = orgID
	resp.SurveyID = surveyID
	resp.SubmittedAt = time.Now()
	if err := s.responses.Create(ctx, resp); err != nil {
		return nil, fmt.Errorf("failed to store response: %w", err)
	}
	if err := s.repo.IncResponseCount(ctx, surveyID); err != nil {
		s.log.Warn().Err(err).Msg("failed to bump response counter")
	}

	s.hub.Publish(orgID, events.SurveyResponseReceived, map[string]string{"surveyId": surveyID.Hex()})
	return resp, nil
}

// ListResponses returns a survey's responses, newest first
func (s *SurveyService) ListResponses(ctx context.Context, orgID, surveyID primitive.ObjectID) ([]*model.SurveyResponse, error) {
	if _, err := s.Get(ctx, orgID, surveyID); err != nil {
		return nil, err
	}
	return s.responses.FindBySurvey(ctx, surveyID)
}

// Stats aggregates responses per question: option counts for choice
// questions, min/max/avg for numeric ones.
func (s *SurveyService) Stats(ctx context.Context, orgID, surveyID primitive.ObjectID) (*model.SurveyStats, error) {
	survey, err := s.Get(ctx, orgID, surveyID)
	if err != nil {
		return nil, err
	}
	responses, err := s.responses.FindBySurvey(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load responses: %w", err)
	}

	return computeStats(survey, responses), nil
}

func computeStats(survey *model.Survey, responses []*model.SurveyResponse) *model.SurveyStats {
	stats := &model.SurveyStats{
		SurveyID:      survey.ID.Hex(),
		ResponseCount: int64(len(responses)),
	}

	for _, q := range survey.Questions {
		qs := model.QuestionStats{QuestionID: q.ID, Text: q.Text, Type: q.Type}

		var sum float64
		var numCount int64
		for _, resp := range responses {
			for _, ans := range resp.Answers {
				if ans.QuestionID != q.ID {
					continue
				}
				qs.AnswerCount++

				switch q.Type {
				case model.QuestionSingleChoice:
					if qs.Options == nil {
						qs.Options = map[string]int64{}
					}
					qs.Options[ans.Value]++
				case model.QuestionMultiChoice:
					if qs.Options == nil {
						qs.Options = map[string]int64{}
					}
					for _, v := range ans.Values {
						qs.Options[v]++
					}
				case model.QuestionNumber, model.QuestionRating:
					if ans.Number == nil {
						continue
					}
					v := *ans.Number
					if qs.Min == nil || v < *qs.Min {
						qs.Min = &v
					}
					if qs.Max == nil || v > *qs.Max {
						qs.Max = &v
					}
					sum += v
					numCount++
				}
			}
		}
		if numCount > 0 {
			avg := sum / float64(numCount)
			qs.Avg = &avg
		}
		stats.Questions = append(stats.Questions, qs)
	}
	return stats
}

func validateQuestion(i int, q model.Question) error {
	if q.ID == "" || q.Text == "" {
		return fmt.Errorf("%w: question %d needs id and text", ErrInvalidInput, i)
	}
	if !model.ValidQuestionType(q.Type) {
		return fmt.Errorf("%w: question %s has unknown type %q", ErrInvalidInput, q.ID, q.Type)
	}
	isChoice := q.Type == model.QuestionSingleChoice || q.Type == model.QuestionMultiChoice
	if isChoice && len(q.Options) < 2 {
		return fmt.Errorf("%w: question %s needs at least 2 options", ErrInvalidInput, q.ID)
	}
	return nil
}

func validateAnswers(survey *model.Survey, answers []model.Answer) error {
	answered := make(map[string]bool, len(answers))
	for _, ans := range answers {
		q, ok := survey.QuestionByID(ans.QuestionID)
		if !ok {
			return fmt.Errorf("%w: unknown question %q", ErrInvalidInput, ans.QuestionID)
		}
		answered[ans.QuestionID] = true

		switch q.Type {
		case model.QuestionSingleChoice:
			if !containsOption(q.Options, ans.Value) {
				return fmt.Errorf("%w: %q is not an option of %s", ErrInvalidInput, ans.Value, q.ID)
			}
		case model.QuestionMultiChoice:
			if len(ans.Values) == 0 {
				return fmt.Errorf("%w: question %s needs at least one selection", ErrInvalidInput, q.ID)
			}
			for _, v := range ans.Values {
				if !containsOption(q.Options, v) {
					return fmt.Errorf("%w: %q is not an option of %s", ErrInvalidInput, v, q.ID)
				}
			}
		case model.QuestionNumber, model.QuestionRating:
			if ans.Number == nil {
				return fmt.Errorf("%w: question %s needs a numeric answer", ErrInvalidInput, q.ID)
			}
		default:
			if ans.Value == "" {
				return fmt.Errorf("%w: question %s needs a value", ErrInvalidInput, q.ID)
			}
		}
	}

	for _, q := range survey.Questions {
		if q.Required && !answered[q.ID] {
			return fmt.Errorf("%w: question %s is required", ErrInvalidInput, q.ID)
		}
	}
	return nil
}

func containsOption(options []string, value string) bool {
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}

// normalizeQuestions repairs provider drafts: missing ids get sequential
// ones, unknown types degrade to free text.
func normalizeQuestions(questions []model.Question) []model.Question {
	out := make([]model.Question, 0, len(questions))
	for i, q := range questions {
		if q.ID == "" {
			q.ID = "q" + strconv.Itoa(i+1)
		}
		if !model.ValidQuestionType(q.Type) {
			q.Type = model.QuestionText
			q.Options = nil
		}
		out = append(out, q)
	}
	return out
}
