package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aws/aws-sdk-go-v2/aws"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type fakeSNS struct {
	endpointApp string
	published   []*awssns.PublishInput
}

func (f *fakeSNS) CreatePlatformEndpoint(_ context.Context, in *awssns.CreatePlatformEndpointInput, _ ...func(*awssns.Options)) (*awssns.CreatePlatformEndpointOutput, error) {
	f.endpointApp = aws.ToString(in.PlatformApplicationArn)
	return &awssns.CreatePlatformEndpointOutput{EndpointArn: aws.String("arn:endpoint/1")}, nil
}

func (f *fakeSNS) Publish(_ context.Context, in *awssns.PublishInput, _ ...func(*awssns.Options)) (*awssns.PublishOutput, error) {
	f.published = append(f.published, in)
	return &awssns.PublishOutput{}, nil
}

func TestPlatformArn(t *testing.T) {
	p := NewPushService(nil, nil, "arn:fcm", "")
	arn, err := p.platformArn("Android")
	require.NoError(t, err)
	assert.Equal(t, "arn:fcm", arn)

	arn, err = p.platformArn("ios")
	require.NoError(t, err)
	assert.Equal(t, "arn:fcm", arn)

	p = NewPushService(nil, nil, "arn:fcm", "arn:apns")
	arn, _ = p.platformArn("ios")
	assert.Equal(t, "arn:apns", arn)

	_, err = p.platformArn("windows")
	assert.ErrorIs(t, err, ErrUnknownPlatform)

	_, err = NewPushService(nil, nil, "", "").platformArn("android")
	assert.Error(t, err)
}

func TestRegisterNewDevice(t *testing.T) {
	db, mock := newMockDB(t)
	sns := &fakeSNS{}
	p := NewPushService(db, sns, "arn:fcm", "")

	mock.ExpectQuery(`SELECT \* FROM "user_devices"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO "user_devices"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	dev, err := p.RegisterDevice(context.Background(), uuid.New(), "ANDROID", "device-token")
	require.NoError(t, err)
	assert.Equal(t, "arn:fcm", sns.endpointApp)
	assert.Equal(t, "android", dev.Platform)
	assert.Equal(t, "arn:endpoint/1", dev.EndpointARN)
	assert.Equal(t, tokenHash("device-token"), dev.TokenHash)
	assert.Len(t, dev.TokenHash, 64)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPushToUsers(t *testing.T) {
	db, mock := newMockDB(t)
	sns := &fakeSNS{}
	p := NewPushService(db, sns, "arn:fcm", "")

	mock.ExpectQuery(`SELECT \* FROM "user_devices"`).WillReturnRows(
		sqlmock.NewRows([]string{"id", "endpoint_arn", "enabled"}).
			AddRow(1, "arn:a", true).
			AddRow(2, "arn:b", true))

	p.PushToUsers(context.Background(), []uuid.UUID{uuid.New()}, "Food alert", "Milk expires soon", map[string]string{"type": "expiring"})
	require.Len(t, sns.published, 2)

	msg := aws.ToString(sns.published[0].Message)
	assert.Equal(t, "json", aws.ToString(sns.published[0].MessageStructure))
	assert.Equal(t, "Milk expires soon", gjson.Get(msg, "default").String())
	gcm := gjson.Get(msg, "GCM").String()
	assert.Equal(t, "Food alert", gjson.Get(gcm, "notification.title").String())
	assert.Equal(t, "expiring", gjson.Get(gcm, "data.type").String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPushToNobodySkipsQuery(t *testing.T) {
	db, mock := newMockDB(t)
	p := NewPushService(db, &fakeSNS{}, "arn:fcm", "")
	p.PushToUsers(context.Background(), nil, "t", "b", nil)
	assert.NoError(t, mock.ExpectationsWereMet())
}
