package usecase

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gopkg.in/yaml.v3"

	"github.com/yaadplay/storefront/internal/kafka"
	"github.com/yaadplay/storefront/internal/models"
	"github.com/yaadplay/storefront/internal/repo/webhook"
	"github.com/yaadplay/storefront/pkg/logger"
)

//go:embed survey_questions.yaml
var surveyQuestionsData []byte

// ErrSubmissionFailed is returned when the lead webhook did not accept a submission.
var ErrSubmissionFailed = errors.New("survey submission failed")

type SurveyConfig struct {
	Source string
}

type SurveyUsecase interface {
	Questions() []models.SurveyQuestion
	// IsStepValid reports whether the question at step has an answer.
	IsStepValid(step int, answers models.SurveyAnswers) bool
	Submit(ctx context.Context, answers models.SurveyAnswers) (*models.SurveySubmission, error)
}

type surveyUsecase struct {
	cfg       SurveyConfig
	questions []models.SurveyQuestion
	webhook   webhook.Client
	leads     kafka.LeadPublisher
	validate  *validator.Validate
	now       func() time.Time
	log       *zap.SugaredLogger
}

func NewSurveyUsecase(cfg SurveyConfig, hook webhook.Client, leads kafka.LeadPublisher) (SurveyUsecase, error) {
	var questions []models.SurveyQuestion
	if err := yaml.Unmarshal(surveyQuestionsData, &questions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal survey questions: %w", err)
	}
	return &surveyUsecase{
		cfg:       cfg,
		questions: questions,
		webhook:   hook,
		leads:     leads,
		validate:  validator.New(),
		now:       time.Now,
		log:       logger.MustNamed("survey"),
	}, nil
}

func (u *surveyUsecase) Questions() []models.SurveyQuestion {
	out := make([]models.SurveyQuestion, len(u.questions))
	for i, q := range u.questions {
		q.Options = slices.Clone(q.Options)
		out[i] = q
	}
	return out
}

func (u *surveyUsecase) IsStepValid(step int, answers models.SurveyAnswers) bool {
	if step < 0 || step >= len(u.questions) {
		return false
	}
	return len(answers.Values(u.questions[step].Field)) > 0
}

// Submit checks every answer against its question and forwards the lead. The webhook
// outcome decides success; publishing to Kafka is best effort.
func (u *surveyUsecase) Submit(ctx context.Context, answers models.SurveyAnswers) (*models.SurveySubmission, error) {
	if err := u.validate.Struct(answers); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "incomplete survey: %v", err)
	}
	if err := u.checkOptions(answers); err != nil {
		return nil, err
	}

	submission := &models.SurveySubmission{
		SurveyAnswers: answers,
		Timestamp:     u.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Source:        u.cfg.Source,
	}

	if err := u.webhook.Send(ctx, submission); err != nil {
		u.log.Errorw("Failed to deliver survey to webhook", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	if u.leads != nil {
		if err := u.leads.PublishLead(ctx, submission); err != nil {
			u.log.Warnw("Failed to publish survey lead", "error", err)
		}
	}

	u.log.Infow("Survey submitted",
		"source", submission.Source,
		"age_range", answers.AgeRange,
		"gamer_type", answers.GamerType)
	return submission, nil
}

func (u *surveyUsecase) checkOptions(answers models.SurveyAnswers) error {
	for step, q := range u.questions {
		values := answers.Values(q.Field)
		if len(values) == 0 {
			return status.Errorf(codes.InvalidArgument, "question %d (%s) is unanswered", step+1, q.Field)
		}
		if q.Type == models.QuestionSingle && len(values) > 1 {
			return status.Errorf(codes.InvalidArgument, "question %d (%s) takes one answer", step+1, q.Field)
		}
		for _, v := range values {
			if !slices.Contains(q.Options, v) {
				return status.Errorf(codes.InvalidArgument, "question %d (%s): unknown option %q", step+1, q.Field, v)
			}
		}
	}
	return nil
}
