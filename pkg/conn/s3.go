package conn

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/ddeutils/flowext/pkg/flowerrors"
)

func init() {
	Register(newS3, "s3")
}

// s3Adapter checks an S3 bucket endpoint. The descriptor maps as:
// User = access key id, Password = secret access key, Endpoint = bucket.
// Extras: region (default us-east-1), endpoint_url for S3-compatible
// stores. When no static credentials are given, the default AWS chain
// (env, shared config, IAM role) applies.
type s3Adapter struct {
	c Conn
}

func newS3(c Conn) (Adapter, error) {
	if c.Endpoint == "" {
		return nil, flowerrors.New(flowerrors.ErrorTypeConfig,
			"s3 connection requires a bucket endpoint").WithField("endpoint")
	}
	return &s3Adapter{c: c}, nil
}

func (a *s3Adapter) client(ctx context.Context) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(a.c.Extra("region", "us-east-1")),
	}
	if a.c.User != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				a.c.User, a.c.Password.Value(), a.c.Extra("session_token", ""))))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, flowerrors.Wrap(err, flowerrors.ErrorTypeConfig,
			"cannot load aws configuration")
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpointURL := a.c.Extra("endpoint_url", ""); endpointURL != "" {
			o.BaseEndpoint = aws.String(endpointURL)
			o.UsePathStyle = true
		}
	}), nil
}

// Ping reports whether the bucket is reachable with the descriptor's
// credentials.
func (a *s3Adapter) Ping(ctx context.Context) (bool, error) {
	client, err := a.client(ctx)
	if err != nil {
		return false, err
	}

	_, err = client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(a.c.Endpoint),
	})
	if err != nil {
		if isAPIStatus(err, 404) {
			return false, nil
		}
		return false, flowerrors.Wrap(err, flowerrors.ErrorTypeConnection,
			"s3 head bucket failed").WithDetail("bucket", a.c.Endpoint)
	}
	return true, nil
}

// Exists reports whether the object key exists in the bucket.
func (a *s3Adapter) Exists(ctx context.Context, object string) (bool, error) {
	client, err := a.client(ctx)
	if err != nil {
		return false, err
	}

	_, err = client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.c.Endpoint),
		Key:    aws.String(object),
	})
	if err != nil {
		if isAPIStatus(err, 404) {
			return false, nil
		}
		return false, flowerrors.Wrap(err, flowerrors.ErrorTypeConnection,
			"s3 head object failed").
			WithDetail("bucket", a.c.Endpoint).
			WithDetail("key", object)
	}
	return true, nil
}

// isAPIStatus reports whether err is the AWS API's way of answering
// "no such bucket/object" rather than a transport or credential failure.
func isAPIStatus(err error, status int) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if status == 404 {
		code := apiErr.ErrorCode()
		return code == "NotFound" || code == "NoSuchKey" || code == "NoSuchBucket"
	}
	return false
}
