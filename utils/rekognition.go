package utils

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

const (
	maxLabels     = 5
	minConfidence = 75
)

// LabelDetector wraps Rekognition's DetectLabels for product photos.
type LabelDetector struct {
	client *rekognition.Client
}

func NewLabelDetector(cfg aws.Config) *LabelDetector {
	return &LabelDetector{client: rekognition.NewFromConfig(cfg)}
}

// DetectLabels returns up to five label names seen with at least 75% confidence.
func (d *LabelDetector) DetectLabels(ctx context.Context, image []byte) ([]string, error) {
	out, err := d.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: image},
		MaxLabels:     aws.Int32(maxLabels),
		MinConfidence: aws.Float32(minConfidence),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call Rekognition: %w", err)
	}

	labels := make([]string, 0, len(out.Labels))
	for _, l := range out.Labels {
		if l.Name != nil {
			labels = append(labels, *l.Name)
		}
	}
	return labels, nil
}
