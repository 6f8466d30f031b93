package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"
	"github.com/pricejoshua/wehavefoodathome-backend/logger"
	"github.com/pricejoshua/wehavefoodathome-backend/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrUnknownPlatform = errors.New("unknown platform")

// SNSAPI is the subset of the SNS client used for mobile push.
type SNSAPI interface {
	CreatePlatformEndpoint(ctx context.Context, in *awssns.CreatePlatformEndpointInput, optFns ...func(*awssns.Options)) (*awssns.CreatePlatformEndpointOutput, error)
	Publish(ctx context.Context, in *awssns.PublishInput, optFns ...func(*awssns.Options)) (*awssns.PublishOutput, error)
}

type PushService struct {
	db              *gorm.DB
	sns             SNSAPI
	fcmPlatformArn  string
	apnsPlatformArn string
}

func NewPushService(db *gorm.DB, sns SNSAPI, fcmArn, apnsArn string) *PushService {
	return &PushService{db: db, sns: sns, fcmPlatformArn: fcmArn, apnsPlatformArn: apnsArn}
}

type RegisterDeviceReq struct {
	Platform string `json:"platform"` // "android" | "ios"
	Token    string `json:"token"`
}

func tokenHash(tok string) string {
	h := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(h[:])
}

func (p *PushService) platformArn(platform string) (string, error) {
	switch strings.ToLower(platform) {
	case "android":
		if p.fcmPlatformArn == "" {
			return "", errors.New("SNS_FCM_ARN not set")
		}
		return p.fcmPlatformArn, nil
	case "ios":
		// iOS devices go through FCM unless an APNS application is configured.
		if p.apnsPlatformArn != "" {
			return p.apnsPlatformArn, nil
		}
		if p.fcmPlatformArn == "" {
			return "", errors.New("SNS_FCM_ARN not set")
		}
		return p.fcmPlatformArn, nil
	default:
		return "", ErrUnknownPlatform
	}
}

// RegisterDevice creates (or refreshes) the SNS endpoint for a device token.
func (p *PushService) RegisterDevice(ctx context.Context, userID uuid.UUID, platform, token string) (*models.UserDevice, error) {
	appArn, err := p.platformArn(platform)
	if err != nil {
		return nil, err
	}

	out, err := p.sns.CreatePlatformEndpoint(ctx, &awssns.CreatePlatformEndpointInput{
		PlatformApplicationArn: aws.String(appArn),
		Token:                  aws.String(token),
	})
	if err != nil {
		return nil, fmt.Errorf("create platform endpoint: %w", err)
	}

	hash := tokenHash(token)
	var dev models.UserDevice
	err = p.db.WithContext(ctx).Where("user_id = ? AND token_hash = ?", userID, hash).First(&dev).Error
	switch {
	case err == nil:
		dev.EndpointARN = aws.ToString(out.EndpointArn)
		dev.Platform = strings.ToLower(platform)
		dev.UpdatedAt = time.Now()
		if err := p.db.WithContext(ctx).Save(&dev).Error; err != nil {
			return nil, translate("update device", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		dev = models.UserDevice{
			UserID:      userID,
			Platform:    strings.ToLower(platform),
			TokenHash:   hash,
			EndpointARN: aws.ToString(out.EndpointArn),
			Enabled:     true,
		}
		if err := p.db.WithContext(ctx).Create(&dev).Error; err != nil {
			return nil, translate("register device", err)
		}
	default:
		return nil, translate("find device", err)
	}
	return &dev, nil
}

// SetEnabled toggles push delivery for all of a user's devices.
func (p *PushService) SetEnabled(ctx context.Context, userID uuid.UUID, enabled bool) (int64, error) {
	res := p.db.WithContext(ctx).
		Model(&models.UserDevice{}).
		Where("user_id = ?", userID).
		Update("enabled", enabled)
	if res.Error != nil {
		return 0, translate("toggle notifications", res.Error)
	}
	return res.RowsAffected, nil
}

// PushToUsers publishes to every enabled device of the given users. Delivery failures
// are logged and skipped.
func (p *PushService) PushToUsers(ctx context.Context, userIDs []uuid.UUID, title, body string, data map[string]string) {
	if len(userIDs) == 0 {
		return
	}
	var endpoints []models.UserDevice
	if err := p.db.WithContext(ctx).Where("user_id IN ? AND enabled = ?", userIDs, true).Find(&endpoints).Error; err != nil {
		logger.GetLogger().Error("load push endpoints", zap.Error(err))
		return
	}
	if len(endpoints) == 0 {
		return
	}

	gcm, _ := json.Marshal(map[string]any{
		"notification": map[string]string{
			"title": title,
			"body":  body,
		},
		"data": data,
	})
	raw, _ := json.Marshal(map[string]string{
		"default": body,
		"GCM":     string(gcm),
	})
	for _, d := range endpoints {
		_, err := p.sns.Publish(ctx, &awssns.PublishInput{
			MessageStructure: aws.String("json"),
			Message:          aws.String(string(raw)),
			TargetArn:        aws.String(d.EndpointARN),
		})
		if err != nil {
			logger.GetLogger().Warn("push publish failed", zap.Uint("device_id", d.ID), zap.Error(err))
		}
	}
}
