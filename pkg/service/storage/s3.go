package storage

import (
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/vulntrend/pkg/domain/interfaces"
	"github.com/secmon-lab/vulntrend/pkg/domain/model"
)

// S3API is the part of the S3 client used by S3
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3 reads snapshots from an S3 bucket
type S3 struct {
	client S3API
	bucket string
	prefix string
}

// NewS3 creates a reader using client
func NewS3(client S3API, bucket, prefix string) *S3 {
	return &S3{client: client, bucket: bucket, prefix: prefix}
}

// NewS3FromConfig creates a reader with the default AWS credential chain
func NewS3FromConfig(ctx context.Context, bucket, prefix, region string) (*S3, error) {
	var (
		awsConfig aws.Config
		err       error
	)
	if region != "" {
		awsConfig, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	} else {
		awsConfig, err = awsconfig.LoadDefaultConfig(ctx)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load AWS config")
	}

	return NewS3(s3.NewFromConfig(awsConfig), bucket, prefix), nil
}

// Read downloads s3://<bucket>/<prefix>/<key>
func (s *S3) Read(ctx context.Context, key string) ([]byte, error) {
	objKey := objectKey(s.prefix, key)

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objKey),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && (apiErr.ErrorCode() == "NoSuchKey" || apiErr.ErrorCode() == "NotFound") {
			return nil, goerr.Wrap(model.ErrSnapshotNotFound, "S3 object does not exist",
				goerr.V("bucket", s.bucket), goerr.V("key", objKey))
		}
		return nil, goerr.Wrap(err, "failed to get S3 object",
			goerr.V("bucket", s.bucket), goerr.V("key", objKey))
	}
	defer func() { _ = result.Body.Close() }()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read S3 object",
			goerr.V("bucket", s.bucket), goerr.V("key", objKey))
	}

	return data, nil
}

var _ interfaces.SnapshotReader = (*S3)(nil)
