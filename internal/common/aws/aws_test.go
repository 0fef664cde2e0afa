package aws

import (
	"context"
	"errors"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: awssdk.String("ses-1")}, nil
}

type fakeSNS struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNS) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: awssdk.String("sns-1")}, nil
}

func TestSESClient_SendEmail(t *testing.T) {
	api := &fakeSES{}
	client := NewSESClientWithAPI(api, "experts@driveup.in")

	id, err := client.SendEmail(context.Background(), Email{
		To:       "asha@example.com",
		Subject:  "Your DriveUp consultation",
		TextBody: "We will be in touch.",
	})
	require.NoError(t, err)
	assert.Equal(t, "ses-1", id)
	assert.Equal(t, "experts@driveup.in", awssdk.ToString(api.input.Source))
	assert.Equal(t, []string{"asha@example.com"}, api.input.Destination.ToAddresses)
	assert.Nil(t, api.input.Message.Body.Html)
}

func TestSESClient_SendEmailError(t *testing.T) {
	client := NewSESClientWithAPI(&fakeSES{err: errors.New("throttled")}, "x@driveup.in")
	_, err := client.SendEmail(context.Background(), Email{To: "a@b.c"})
	assert.ErrorContains(t, err, "ses send to a@b.c: throttled")
}

func TestSNSClient_SendSMS(t *testing.T) {
	api := &fakeSNS{}
	id, err := NewSNSClientWithAPI(api).SendSMS(context.Background(), "+919800000000", "hello")
	require.NoError(t, err)
	assert.Equal(t, "sns-1", id)
	assert.Equal(t, "+919800000000", awssdk.ToString(api.input.PhoneNumber))

	_, err = NewSNSClientWithAPI(&fakeSNS{err: errors.New("opted out")}).SendSMS(context.Background(), "+91", "x")
	assert.ErrorContains(t, err, "opted out")
}
