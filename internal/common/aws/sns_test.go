package aws

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSNS struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNS) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-1")}, nil
}

func TestPublishScheduleSignal(t *testing.T) {
	fake := &fakeSNS{}
	client := NewSNSClientWithAPI(fake, "arn:aws:sns:ap-southeast-1:123:schedule")

	id, err := client.PublishScheduleSignal(context.Background(), ScheduleSignal{
		ProjectID:  "proj-1",
		Region:     "ABMY",
		Multiplier: 1.8,
		PhaseCount: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)

	require.NotNil(t, fake.input)
	assert.Equal(t, "arn:aws:sns:ap-southeast-1:123:schedule", aws.ToString(fake.input.TopicArn))
	assert.Equal(t, "proj-1", aws.ToString(fake.input.MessageAttributes["projectId"].StringValue))

	var sent ScheduleSignal
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(fake.input.Message)), &sent))
	assert.Equal(t, 1.8, sent.Multiplier)
	assert.Equal(t, 5, sent.PhaseCount)
}

func TestPublishScheduleSignal_Error(t *testing.T) {
	client := NewSNSClientWithAPI(&fakeSNS{err: errors.New("throttled")}, "arn")
	_, err := client.PublishScheduleSignal(context.Background(), ScheduleSignal{ProjectID: "p"})
	assert.EqualError(t, err, "throttled")

	id, err := NoopPublisher{}.PublishScheduleSignal(context.Background(), ScheduleSignal{})
	assert.NoError(t, err)
	assert.Empty(t, id)
}
