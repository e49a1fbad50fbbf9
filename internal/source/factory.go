package source

import (
	"context"
	"fmt"
)

// New creates the configured file source. kind is "local" or "s3".
func New(ctx context.Context, kind, dir, bucket, prefix, region string) (FileSource, error) {
	switch kind {
	case "local":
		if dir == "" {
			return nil, fmt.Errorf("file source %q requires a directory", kind)
		}
		return NewLocalSource(dir), nil
	case "s3":
		if bucket == "" {
			return nil, fmt.Errorf("file source %q requires a bucket", kind)
		}
		return NewS3Source(ctx, bucket, prefix, region)
	default:
		return nil, fmt.Errorf("unknown file source type %q", kind)
	}
}
