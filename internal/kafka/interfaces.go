package kafka

import (
	"context"

	"github.com/yaadplay/storefront/internal/models"
)

// LeadPublisher forwards completed survey submissions to the lead topic.
type LeadPublisher interface {
	PublishLead(ctx context.Context, lead *models.SurveySubmission) error
	Close() error
}
