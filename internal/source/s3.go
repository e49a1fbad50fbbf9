package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"cusipd/internal/cusip"
	"cusipd/internal/parse"
)

// s3API is the subset of the S3 client used by S3Source. Narrowed for tests.
type s3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads PIP files from an S3 bucket under a key prefix.
// Credentials come from the default AWS chain (env vars, SSO profile,
// instance role).
type S3Source struct {
	client s3API
	bucket string
	prefix string
}

// NewS3Source creates an S3-backed source. Region may be empty to use
// the SDK default resolution.
func NewS3Source(ctx context.Context, bucket, prefix, region string) (*S3Source, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &S3Source{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: normalizePrefix(prefix),
	}, nil
}

// Fetch lists keys under prefix + "CED{MM}-{DD}", filters by record-type
// suffix, and downloads the single match.
func (s *S3Source) Fetch(ctx context.Context, rt cusip.RecordType, date time.Time) (*File, error) {
	searchPrefix := s.prefix + namePrefix(date)
	suffix := strings.ToUpper(nameSuffix(rt))

	var matches []string
	var token *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(searchPrefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, &UnavailableError{Source: "s3", Err: fmt.Errorf("list s3://%s/%s: %w", s.bucket, searchPrefix, err)}
		}

		for _, obj := range out.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(strings.ToUpper(key), suffix) {
				matches = append(matches, key)
			}
		}

		if !aws.ToBool(out.IsTruncated) {
			break
		}
		token = out.NextContinuationToken
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("s3://%s/%s for %s %s: %w", s.bucket, pattern(rt, date), rt, date.Format("2006-01-02"), ErrNotFound)
	case 1:
	default:
		return nil, &AmbiguousError{Pattern: "s3://" + s.bucket + "/" + s.prefix + pattern(rt, date), Names: matches}
	}

	key := matches[0]
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, &UnavailableError{Source: "s3", Err: fmt.Errorf("get s3://%s/%s: %w", s.bucket, key, err)}
	}
	defer out.Body.Close()

	lines, err := parse.ReadLines(out.Body)
	if err != nil {
		return nil, &UnavailableError{Source: "s3", Err: fmt.Errorf("read s3://%s/%s: %w", s.bucket, key, err)}
	}

	return &File{Name: "s3://" + s.bucket + "/" + key, Lines: lines}, nil
}

// normalizePrefix ensures a non-empty prefix ends with exactly one slash.
func normalizePrefix(prefix string) string {
	prefix = strings.TrimRight(prefix, "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}
