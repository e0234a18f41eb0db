// internal/common/aws/sns.go
package aws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// PublishAPI is the subset of the SNS client used here.
type PublishAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// ScheduleSignal announces that a project's phase dates were regenerated.
type ScheduleSignal struct {
	ProjectID  string  `json:"projectId"`
	Region     string  `json:"region"`
	Multiplier float64 `json:"multiplier"`
	Reason     string  `json:"reason"`
	StartDate  string  `json:"startDate,omitempty"`
	EndDate    string  `json:"endDate,omitempty"`
	PhaseCount int     `json:"phaseCount"`
	// WorkingDays is the total across all phases.
	WorkingDays int `json:"workingDays"`
}

// SNSClient publishes schedule signals to one topic.
type SNSClient struct {
	client   PublishAPI
	topicARN string
}

func NewSNSClient(ctx context.Context, region, topicARN string) (*SNSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return NewSNSClientWithAPI(sns.NewFromConfig(cfg), topicARN), nil
}

func NewSNSClientWithAPI(api PublishAPI, topicARN string) *SNSClient {
	return &SNSClient{client: api, topicARN: topicARN}
}

// PublishScheduleSignal sends the signal as JSON. The project id becomes a
// message attribute for subscription filtering.
func (s *SNSClient) PublishScheduleSignal(ctx context.Context, signal ScheduleSignal) (string, error) {
	body, err := json.Marshal(signal)
	if err != nil {
		return "", fmt.Errorf("marshal schedule signal: %w", err)
	}
	out, err := s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Message:  aws.String(string(body)),
		Subject:  aws.String("schedule-regenerated"),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"projectId": {DataType: aws.String("String"), StringValue: aws.String(signal.ProjectID)},
		},
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.MessageId), nil
}

// NoopPublisher is used when SNS is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishScheduleSignal(context.Context, ScheduleSignal) (string, error) {
	return "", nil
}

// SchedulePublisher is satisfied by *SNSClient and NoopPublisher.
type SchedulePublisher interface {
	PublishScheduleSignal(ctx context.Context, signal ScheduleSignal) (string, error)
}
