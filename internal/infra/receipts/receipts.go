package receipts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/BruksfildServices01/beauty-booking/internal/config"
)

const (
	KindBooking      = "booking"
	KindCancellation = "cancellation"
)

// Receipt is the customer-facing record of a booking or a cancellation.
type Receipt struct {
	Kind           string    `json:"kind"`
	ReservationID  uint      `json:"reservation_id"`
	ProviderID     uint      `json:"provider_id"`
	CustomerID     uint      `json:"customer_id"`
	SeriesID       string    `json:"series_id,omitempty"`
	Date           string    `json:"date"`
	StartTime      string    `json:"start_time"`
	DurationMin    int       `json:"duration_min"`
	TotalCents     int64     `json:"total_cents"`
	TravelFeeCents int64     `json:"travel_fee_cents"`
	RefundPercent  *int      `json:"refund_percentage,omitempty"`
	RefundCents    *int64    `json:"refund_cents,omitempty"`
	RefundTier     string    `json:"refund_tier,omitempty"`
	IssuedAt       time.Time `json:"issued_at"`
}

func (r Receipt) Key() string {
	return fmt.Sprintf("receipts/%d/%d/%s-%d.json", r.ProviderID, r.ReservationID, r.Kind, r.IssuedAt.Unix())
}

type Archiver interface {
	Store(ctx context.Context, r Receipt) (string, error)
}

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Archiver struct {
	client objectPutter
	bucket string
}

// NewS3Archiver builds a static-credential client. A custom endpoint
// switches to path-style addressing for S3-compatible stores.
func NewS3Archiver(cfg *config.Config) *S3Archiver {
	opts := s3.Options{
		Region: cfg.S3Region,
	}
	if cfg.S3AccessKey != "" {
		opts.Credentials = aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		)
	}
	if cfg.S3Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.S3Endpoint)
		opts.UsePathStyle = true
	}

	return &S3Archiver{client: s3.New(opts), bucket: cfg.S3Bucket}
}

func (a *S3Archiver) Store(ctx context.Context, r Receipt) (string, error) {
	body, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}

	key := r.Key()
	if _, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return "", fmt.Errorf("store receipt %s: %w", key, err)
	}
	return key, nil
}

// Noop keeps nothing.
type Noop struct{}

func (Noop) Store(_ context.Context, r Receipt) (string, error) { return r.Key(), nil }
