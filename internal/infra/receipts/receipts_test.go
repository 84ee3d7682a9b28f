package receipts

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	in   *s3.PutObjectInput
	body string
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.in = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func TestS3ArchiverStoresJSON(t *testing.T) {
	put := &fakePutter{}
	a := &S3Archiver{client: put, bucket: "receipts-bucket"}

	pct := 50
	refund := int64(2750)
	r := Receipt{
		Kind:          KindCancellation,
		ReservationID: 42,
		ProviderID:    7,
		TotalCents:    5500,
		RefundPercent: &pct,
		RefundCents:   &refund,
		IssuedAt:      time.Unix(1700000000, 0).UTC(),
	}

	key, err := a.Store(context.Background(), r)
	require.NoError(t, err)

	assert.Equal(t, "receipts/7/42/cancellation-1700000000.json", key)
	assert.Equal(t, "receipts-bucket", aws.ToString(put.in.Bucket))
	assert.Equal(t, "application/json", aws.ToString(put.in.ContentType))
	assert.Contains(t, put.body, `"refund_percentage": 50`)
	assert.Contains(t, put.body, `"refund_cents": 2750`)
}

func TestS3ArchiverWrapsErrors(t *testing.T) {
	a := &S3Archiver{client: &fakePutter{err: errors.New("access denied")}, bucket: "b"}

	_, err := a.Store(context.Background(), Receipt{Kind: KindBooking, ReservationID: 1})
	assert.ErrorContains(t, err, "access denied")
}
