package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// SpacesService stores uploaded forum media in a DigitalOcean Spaces bucket
// (S3 API) and hands back public URLs.
type SpacesService struct {
	client    *s3.Client
	bucket    string
	region    string
	MediaRoot string
}

func NewSpacesService(spacesKey, spacesSecret, region, bucket, mediaRoot string) *SpacesService {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(spacesKey, spacesSecret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		panic(fmt.Sprintf("Unable to load Spaces config: %v", err))
	}

	return &SpacesService{
		client:    s3.NewFromConfig(cfg),
		bucket:    bucket,
		region:    region,
		MediaRoot: strings.TrimPrefix(mediaRoot, "/"),
	}
}

// UploadMedia stores one uploaded file under <mediaroot>/<kind>/<name> and
// returns its public URL.
func (s *SpacesService) UploadMedia(ctx context.Context, kind MediaKind, name, contentType string, body io.Reader) (string, error) {
	key := fmt.Sprintf("%s/%s/%s", s.MediaRoot, kind, name)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return s.PublicURL(key), nil
}

// DeleteMedia removes a stored object by its key.
func (s *SpacesService) DeleteMedia(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *SpacesService) PublicURL(key string) string {
	return fmt.Sprintf("https://%s.%s.digitaloceanspaces.com/%s", s.bucket, s.region, key)
}

// KeyFromURL maps a public media URL back to its object key. URLs that do not
// point into this bucket return false.
func (s *SpacesService) KeyFromURL(url string) (string, bool) {
	prefix := fmt.Sprintf("https://%s.%s.digitaloceanspaces.com/", s.bucket, s.region)
	key, found := strings.CutPrefix(url, prefix)
	if !found || key == "" {
		return "", false
	}
	return key, true
}
