package storage

import (
	"context"
	"net/url"
	"path"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/vulntrend/pkg/domain/interfaces"
)

// Scheme is the kind of data root a reader is built for
type Scheme string

const (
	SchemeFile      Scheme = "file"
	SchemeHTTP      Scheme = "http"
	SchemeS3        Scheme = "s3"
	SchemeGCS       Scheme = "gs"
	SchemeAzureBlob Scheme = "azblob"
)

// Location is a parsed data root
type Location struct {
	Scheme Scheme
	// URL is the base URL of HTTP roots
	URL string
	// Bucket is the S3/GCS bucket or the Azure storage account
	Bucket string
	// Container is the Azure blob container
	Container string
	// Prefix is the object key prefix, or the directory of file roots
	Prefix string
}

// ParseRoot parses a data root:
//
//	http(s)://host/path          HTTP GET of <root>/<key>
//	s3://bucket/prefix           Amazon S3
//	gs://bucket/prefix           Google Cloud Storage
//	azblob://account/container   Azure Blob Storage, optional /prefix
//	file:///dir or dir           local directory
func ParseRoot(root string) (*Location, error) {
	if root == "" {
		return nil, goerr.New("data root is empty")
	}

	scheme, rest, ok := strings.Cut(root, "://")
	if !ok {
		return &Location{Scheme: SchemeFile, Prefix: root}, nil
	}

	switch strings.ToLower(scheme) {
	case "http", "https":
		if _, err := url.Parse(root); err != nil {
			return nil, goerr.Wrap(err, "invalid data root URL", goerr.V("root", root))
		}
		return &Location{Scheme: SchemeHTTP, URL: strings.TrimRight(root, "/")}, nil

	case "file":
		if rest == "" {
			return nil, goerr.New("file data root has no path", goerr.V("root", root))
		}
		return &Location{Scheme: SchemeFile, Prefix: rest}, nil

	case "s3", "gs":
		bucket, prefix, _ := strings.Cut(rest, "/")
		if bucket == "" {
			return nil, goerr.New("data root has no bucket", goerr.V("root", root))
		}
		return &Location{
			Scheme: Scheme(strings.ToLower(scheme)),
			Bucket: bucket,
			Prefix: strings.Trim(prefix, "/"),
		}, nil

	case "azblob":
		parts := strings.SplitN(rest, "/", 3)
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return nil, goerr.New("azblob data root needs account and container", goerr.V("root", root))
		}
		loc := &Location{Scheme: SchemeAzureBlob, Bucket: parts[0], Container: parts[1]}
		if len(parts) == 3 {
			loc.Prefix = strings.Trim(parts[2], "/")
		}
		return loc, nil

	default:
		return nil, goerr.New("unsupported data root scheme", goerr.V("root", root), goerr.V("scheme", scheme))
	}
}

// Config holds settings shared by the readers
type Config struct {
	awsRegion     string
	azureEndpoint string
}

// Option configures New
type Option func(*Config)

// WithAWSRegion sets the region of the S3 client; empty uses the default chain
func WithAWSRegion(region string) Option {
	return func(c *Config) {
		c.awsRegion = region
	}
}

// WithAzureEndpoint overrides the blob service endpoint, e.g. for Azurite
func WithAzureEndpoint(endpoint string) Option {
	return func(c *Config) {
		c.azureEndpoint = endpoint
	}
}

// New creates the snapshot reader matching the data root
func New(ctx context.Context, root string, opts ...Option) (interfaces.SnapshotReader, error) {
	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}

	loc, err := ParseRoot(root)
	if err != nil {
		return nil, err
	}

	switch loc.Scheme {
	case SchemeHTTP:
		return NewHTTP(loc.URL), nil
	case SchemeS3:
		return NewS3FromConfig(ctx, loc.Bucket, loc.Prefix, cfg.awsRegion)
	case SchemeGCS:
		return NewGCS(ctx, loc.Bucket, loc.Prefix)
	case SchemeAzureBlob:
		return NewAzureBlob(loc.Bucket, loc.Container, loc.Prefix, cfg.azureEndpoint)
	default:
		return NewFile(loc.Prefix), nil
	}
}

// objectKey joins the prefix and the snapshot key with forward slashes
func objectKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return path.Join(prefix, key)
}
