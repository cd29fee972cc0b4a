// Package storage archives opaque blobs in an Azure Blob Storage container.
// Keys are slash-separated relative paths; a configured prefix is applied
// transparently.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/JaimeStill/redress/pkg/lifecycle"
)

type System interface {
	// Start ensures the container exists once the coordinator starts up.
	Start(lc *lifecycle.Coordinator) error
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error
	// Download returns the blob body, which the caller closes. A missing
	// blob is ErrNotFound.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
}

type container struct {
	client *azblob.Client
	name   string
	prefix string
	logger *slog.Logger
}

// New builds the client without contacting the service. With storage
// disabled it returns a System whose operations fail with ErrDisabled.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	if !cfg.Enabled() {
		logger.Info("blob storage disabled")
		return disabled{}, nil
	}

	opts := &azblob.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries: int32(cfg.MaxRetries),
				TryTimeout: cfg.TryTimeoutDuration(),
			},
		},
	}

	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, opts)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &container{
		client: client,
		name:   cfg.ContainerName,
		prefix: strings.Trim(cfg.Prefix, "/"),
		logger: logger.With("system", "storage", "container", cfg.ContainerName),
	}, nil
}

func (c *container) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup("storage", func(ctx context.Context) error {
		_, err := c.client.CreateContainer(ctx, c.name, nil)
		if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			return fmt.Errorf("create container %s: %w", c.name, err)
		}
		c.logger.Info("storage container ready")
		return nil
	})
	return nil
}

func (c *container) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	name, err := c.blobName(key)
	if err != nil {
		return err
	}

	_, err = c.client.UploadStream(ctx, c.name, name, r, &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", name, err)
	}
	return nil
}

func (c *container) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	name, err := c.blobName(key)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.DownloadStream(ctx, c.name, name, nil)
	switch {
	case bloberror.HasCode(err, bloberror.BlobNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("download %s: %w", name, err)
	}
	return resp.Body, nil
}

func (c *container) blobName(key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	if c.prefix == "" {
		return key, nil
	}
	return c.prefix + "/" + key, nil
}

// ValidateKey rejects empty keys, absolute paths, backslashes and any key
// that does not survive path.Clean unchanged.
func ValidateKey(key string) error {
	switch {
	case key == "":
		return ErrEmptyKey
	case strings.HasPrefix(key, "/"),
		strings.Contains(key, `\`),
		path.Clean(key) != key:
		return ErrInvalidKey
	}
	for seg := range strings.SplitSeq(key, "/") {
		if seg == "." || seg == ".." {
			return ErrInvalidKey
		}
	}
	return nil
}

type disabled struct{}

func (disabled) Start(*lifecycle.Coordinator) error { return nil }

func (disabled) Upload(context.Context, string, io.Reader, string) error { return ErrDisabled }

func (disabled) Download(context.Context, string) (io.ReadCloser, error) { return nil, ErrDisabled }
