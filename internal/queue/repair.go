package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/pkg/errors"
)

// ProfileRepair is a profile write that succeeded at the provider but failed
// to persist. A worker replays these against the profile store.
type ProfileRepair struct {
	UserID        string    `json:"user_id"`
	AccountID     string    `json:"account_id"`
	AccountNumber string    `json:"account_number"`
	Status        string    `json:"status"`
	IsMock        bool      `json:"is_mock"`
	RawResponse   []byte    `json:"raw_response"`
	FailedAt      time.Time `json:"failed_at"`
}

// RepairQueue publishes failed profile writes to SQS so a successful provider
// call is never silently lost.
type RepairQueue struct {
	client   *sqs.Client
	queueURL string
}

// NewRepairQueue creates a publisher for the given queue URL. Returns nil
// when the URL is empty; callers treat a nil queue as "not configured".
func NewRepairQueue(ctx context.Context, queueURL string) (*RepairQueue, error) {
	if queueURL == "" {
		return nil, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load AWS SDK config")
	}

	return &RepairQueue{
		client:   sqs.NewFromConfig(cfg),
		queueURL: queueURL,
	}, nil
}

// Publish enqueues one repair message.
func (q *RepairQueue) Publish(ctx context.Context, repair ProfileRepair) error {
	body, err := json.Marshal(repair)
	if err != nil {
		return errors.Wrap(err, "failed to marshal repair message")
	}

	_, err = q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.queueURL),
		MessageBody: aws.String(string(body)),
	})
	return errors.Wrap(err, "failed to publish repair message")
}
