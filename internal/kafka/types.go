package kafka

import (
	"time"

	"github.com/yaadplay/storefront/internal/models"
)

const (
	leadPattern   = "survey.submitted"
	headerPattern = "pattern"
	headerSource  = "source"
)

// LeadEvent is the value written to the lead topic.
type LeadEvent struct {
	ID          string                   `json:"id"`
	Pattern     string                   `json:"pattern"`
	PublishedAt time.Time                `json:"published_at"`
	Data        *models.SurveySubmission `json:"data"`
}
