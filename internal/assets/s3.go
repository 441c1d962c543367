package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Store keeps submission assets in an S3-compatible bucket (R2 included)
// under <submission id>/<name> keys. It satisfies the same contract as
// DiskStore so the rest of the service is backend-agnostic.
type S3Store struct {
	client *s3.Client
	bucket string
}

// NewS3Store initializes the client using static credentials and the R2
// endpoint convention for the given account.
func NewS3Store(accessKey, secretKey, accountID, bucketName, region string) *S3Store {
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)

	cfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		Region:      region,
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	log.Println("Successfully initialized object storage client")

	return &S3Store{client: client, bucket: bucketName}
}

func (s *S3Store) Place(ctx context.Context, submissionID, filename string, r io.Reader) (string, error) {
	key := path.Join(submissionID, filepath.Base(filename))
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return key, nil
}

func (s *S3Store) Open(ctx context.Context, relPath string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(relPath),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, relPath)
		}
		return nil, fmt.Errorf("get object %s: %w", relPath, err)
	}
	return out.Body, nil
}

// SubmissionExists probes for any key under the submission's prefix; object
// stores have no directories, so an empty listing means a missing submission.
func (s *S3Store) SubmissionExists(ctx context.Context, submissionID string) (bool, error) {
	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(submissionID + "/"),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return false, fmt.Errorf("list prefix %s: %w", submissionID, err)
	}
	return len(out.Contents) > 0, nil
}
