package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/yaadplay/storefront/internal/models"
	"github.com/yaadplay/storefront/internal/repo/webhook"
	pkgmdw "github.com/yaadplay/storefront/internal/server/middleware"
	"github.com/yaadplay/storefront/internal/usecase"
	"github.com/yaadplay/storefront/pkg/logger"
)

type SubmitSurveyRequest struct {
	models.SurveyAnswers
	Referer string `header:"referer" json:"-"`
}

type SurveyController interface {
	Questions(c echo.Context, req struct{}) ([]models.SurveyQuestion, error)
	Submit(c echo.Context, req SubmitSurveyRequest) (*pkgmdw.Response, error)
}

type surveyController struct {
	survey usecase.SurveyUsecase
	log    *zap.SugaredLogger
}

func NewSurveyController(survey usecase.SurveyUsecase) SurveyController {
	return &surveyController{
		survey: survey,
		log:    logger.MustNamed("survey_controller"),
	}
}

func (h *surveyController) Questions(_ echo.Context, _ struct{}) ([]models.SurveyQuestion, error) {
	return h.survey.Questions(), nil
}

func (h *surveyController) Submit(c echo.Context, req SubmitSurveyRequest) (*pkgmdw.Response, error) {
	submission, err := h.survey.Submit(c.Request().Context(), req.SurveyAnswers)
	switch {
	case errors.Is(err, webhook.ErrNotConfigured):
		return nil, pkgmdw.NewResponseError(http.StatusServiceUnavailable, "webhook_not_configured", err)
	case errors.Is(err, usecase.ErrSubmissionFailed):
		h.log.Warnw("survey submission rejected", "referer", req.Referer, "error", err)
		return nil, pkgmdw.NewResponseError(http.StatusBadGateway, "submission_failed", usecase.ErrSubmissionFailed)
	case err != nil:
		return nil, err
	}

	h.log.Infow("survey submitted", "referer", req.Referer, "timestamp", submission.Timestamp)
	return &pkgmdw.Response{
		Status:  http.StatusCreated,
		Success: true,
		Data:    submission,
	}, nil
}
