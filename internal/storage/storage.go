package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/rs/zerolog/log"
)

// ErrNotFound is returned when a dataset does not exist in the backend.
var ErrNotFound = errors.New("dataset not found")

// Storage reads a named dataset document such as "phcs.json".
type Storage interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	String() string
}

type LocalStorage struct {
	dataDir string
}

type HTTPStorage struct {
	baseURL *url.URL
	client  *http.Client
}

type SpacesStorage struct {
	client s3iface.S3API
	bucket string
	prefix string
}

func NewLocalStorage(dataDir string) *LocalStorage {
	return &LocalStorage{dataDir: dataDir}
}

func (ls *LocalStorage) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(ls.dataDir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	return f, nil
}

func (ls *LocalStorage) String() string { return "local:" + ls.dataDir }

// NewHTTPStorage resolves dataset names relative to baseURL, the way the
// browser page fetched data/phcs.json next to itself.
func NewHTTPStorage(baseURL string, client *http.Client) (*HTTPStorage, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid data base url: %w", err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPStorage{baseURL: u, client: client}, nil
}

func (hs *HTTPStorage) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	target := hs.baseURL.ResolveReference(&url.URL{Path: name})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := hs.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", target, err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		resp.Body.Close()
		return nil, fmt.Errorf("failed to fetch %s: status %d", target, resp.StatusCode)
	}
	return resp.Body, nil
}

func (hs *HTTPStorage) String() string { return "http:" + hs.baseURL.String() }

func NewSpacesStorage(endpoint, region, bucket, prefix, accessKey, secretKey string) (*SpacesStorage, error) {
	config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(accessKey, secretKey, ""),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String(region),
		S3ForcePathStyle: aws.Bool(false),
	}

	sess, err := session.NewSession(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return NewSpacesStorageWithClient(s3.New(sess), bucket, prefix), nil
}

func NewSpacesStorageWithClient(client s3iface.S3API, bucket, prefix string) *SpacesStorage {
	return &SpacesStorage{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

func (ss *SpacesStorage) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	key := path.Join(ss.prefix, name)
	out, err := ss.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(ss.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		log.Error().Err(err).Str("bucket", ss.bucket).Str("key", key).Msg("Failed to read dataset from Spaces")
		return nil, fmt.Errorf("failed to read from Spaces: %w", err)
	}
	return out.Body, nil
}

func (ss *SpacesStorage) String() string { return "spaces:" + ss.bucket + "/" + ss.prefix }

// validName keeps dataset names relative and inside the backend root.
func validName(name string) error {
	if name == "" || strings.Contains(name, "..") || strings.HasPrefix(name, "/") || strings.ContainsRune(name, '\\') {
		return fmt.Errorf("invalid dataset name %q", name)
	}
	return nil
}
