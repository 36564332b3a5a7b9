package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"

	"github.com/yaadplay/storefront/internal/config"
	"github.com/yaadplay/storefront/internal/models"
)

func testLead() *models.SurveySubmission {
	return &models.SurveySubmission{
		SurveyAnswers: models.SurveyAnswers{
			ConsolesOwned: []string{"PlayStation 5"},
			PlayFrequency: "Daily",
		},
		Timestamp: "2026-10-19T12:00:00Z",
		Source:    "YaadPlay Gaming Survey",
	}
}

func TestPublishLead(t *testing.T) {
	producer := mocks.NewSyncProducer(t, newSaramaConfig())
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event LeadEvent
		if err := json.Unmarshal(val, &event); err != nil {
			return err
		}
		if event.Pattern != leadPattern {
			return errors.New("unexpected pattern " + event.Pattern)
		}
		if event.Data == nil || event.Data.PlayFrequency != "Daily" {
			return errors.New("lead data not carried")
		}
		if event.ID == "" {
			return errors.New("missing event id")
		}
		return nil
	})

	pub, err := newLeadPublisher(producer, "storefront.survey-leads")
	require.NoError(t, err)
	pub.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }

	require.NoError(t, pub.PublishLead(context.Background(), testLead()))
	require.NoError(t, pub.Close())
}

func TestPublishLeadFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, newSaramaConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub, err := newLeadPublisher(producer, "storefront.survey-leads")
	require.NoError(t, err)

	err = pub.PublishLead(context.Background(), testLead())
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, pub.Close())
}

func TestPublishLeadRejectsNil(t *testing.T) {
	producer := mocks.NewSyncProducer(t, newSaramaConfig())
	pub, err := newLeadPublisher(producer, "leads")
	require.NoError(t, err)

	assert.Error(t, pub.PublishLead(context.Background(), nil))
	require.NoError(t, pub.Close())
}

func TestNewLeadPublisherDisabled(t *testing.T) {
	pub, err := NewLeadPublisher(&config.KafkaConfig{Topic: "leads"})
	require.NoError(t, err)

	assert.IsType(t, &noopPublisher{}, pub)
	assert.NoError(t, pub.PublishLead(context.Background(), testLead()))
	assert.NoError(t, pub.Close())
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"nil", nil, codes.OK},
		{"deadline", context.DeadlineExceeded, codes.DeadlineExceeded},
		{"canceled", context.Canceled, codes.Canceled},
		{"status", models.ErrNotFound, codes.NotFound},
		{"transport", sarama.ErrOutOfBrokers, codes.Unavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getCode(tt.err))
		})
	}
}
