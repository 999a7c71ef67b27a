package conn

import (
	"context"
	"errors"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/ddeutils/flowext/pkg/flowerrors"
)

func init() {
	Register(newGCS, "gcs", "gs")
}

// gcsAdapter checks a Google Cloud Storage bucket endpoint. Extras:
// google_json_path points at a service account key file; application
// default credentials apply otherwise.
type gcsAdapter struct {
	c Conn
}

func newGCS(c Conn) (Adapter, error) {
	if c.Endpoint == "" {
		return nil, flowerrors.New(flowerrors.ErrorTypeConfig,
			"gcs connection requires a bucket endpoint").WithField("endpoint")
	}
	return &gcsAdapter{c: c}, nil
}

func (a *gcsAdapter) client(ctx context.Context) (*storage.Client, error) {
	var opts []option.ClientOption
	if keyPath := a.c.Extra("google_json_path", ""); keyPath != "" {
		opts = append(opts, option.WithCredentialsFile(keyPath))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, flowerrors.Wrap(err, flowerrors.ErrorTypeConnection,
			"cannot create gcs client")
	}
	return client, nil
}

// Ping reports whether the bucket is reachable with the descriptor's
// credentials.
func (a *gcsAdapter) Ping(ctx context.Context) (bool, error) {
	client, err := a.client(ctx)
	if err != nil {
		return false, err
	}
	defer client.Close()

	_, err = client.Bucket(a.c.Endpoint).Attrs(ctx)
	if errors.Is(err, storage.ErrBucketNotExist) {
		return false, nil
	}
	if err != nil {
		return false, flowerrors.Wrap(err, flowerrors.ErrorTypeConnection,
			"gcs bucket attrs failed").WithDetail("bucket", a.c.Endpoint)
	}
	return true, nil
}

// Exists reports whether the object exists in the bucket.
func (a *gcsAdapter) Exists(ctx context.Context, object string) (bool, error) {
	client, err := a.client(ctx)
	if err != nil {
		return false, err
	}
	defer client.Close()

	_, err = client.Bucket(a.c.Endpoint).Object(object).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, flowerrors.Wrap(err, flowerrors.ErrorTypeConnection,
			"gcs object attrs failed").
			WithDetail("bucket", a.c.Endpoint).
			WithDetail("object", object)
	}
	return true, nil
}
