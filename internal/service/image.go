package service

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/nutrisync/backend/config"
)

// ImageService stores uploaded meal photos and recipe images in S3.
type ImageService struct {
	s3Config *config.S3Config
}

// NewImageService wraps an initialized S3 configuration.
func NewImageService(s3Config *config.S3Config) *ImageService {
	return &ImageService{s3Config: s3Config}
}

// UploadMealPhoto stores a meal photo under the user's prefix and returns
// its public URL. The photo is kept so an analysis can be re-run or
// audited later.
func (s *ImageService) UploadMealPhoto(ctx context.Context, userID string, data []byte, mimeType string) (string, error) {
	ext := "jpg"
	if mimeType == "image/png" {
		ext = "png"
	}
	key := fmt.Sprintf("meal-photos/%s/%s.%s", userID, uuid.New().String(), ext)
	return s.upload(ctx, key, data, mimeType)
}

// UploadRecipeImage stores a generated recipe illustration.
func (s *ImageService) UploadRecipeImage(ctx context.Context, data []byte, mimeType string) (string, error) {
	key := fmt.Sprintf("recipe-images/%s.png", uuid.New().String())
	return s.upload(ctx, key, data, mimeType)
}

func (s *ImageService) upload(ctx context.Context, key string, data []byte, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key)
	log.Printf("[ImageService] uploaded %s", publicURL)
	return publicURL, nil
}
