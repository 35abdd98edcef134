package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	pages   [][]types.Object
	putErr  error

	lastPut *s3.PutObjectInput
	calls   int
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = body
	f.lastPut = in
	return &s3.PutObjectOutput{ETag: aws.String(`"etag"`)}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("missing")}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String("application/json"),
	}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, _ *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	page := f.pages[f.calls]
	f.calls++

	out := &s3.ListObjectsV2Output{Contents: page}
	if f.calls < len(f.pages) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String("next")
	}
	return out, nil
}

func TestS3Adapter_PutGet(t *testing.T) {
	client := &fakeS3{objects: map[string][]byte{}}
	s := NewS3WithClient(client, "bucket")

	info, err := s.PutObject(context.Background(), "messages/1.json", strings.NewReader(`{"a":1}`), PutOptions{
		Size:        7,
		ContentType: "application/json",
	})
	require.NoError(t, err)
	assert.Equal(t, "bucket", info.Bucket)
	assert.Equal(t, `"etag"`, info.ETag)
	assert.Equal(t, "bucket", aws.ToString(client.lastPut.Bucket))
	assert.Equal(t, int64(7), aws.ToInt64(client.lastPut.ContentLength))

	rc, got, err := s.GetObject(context.Background(), "messages/1.json")
	require.NoError(t, err)
	defer rc.Close()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(body))
	assert.Equal(t, "application/json", got.ContentType)
}

func TestS3Adapter_GetMissing(t *testing.T) {
	s := NewS3WithClient(&fakeS3{objects: map[string][]byte{}}, "bucket")

	_, _, err := s.GetObject(context.Background(), "nope")

	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestS3Adapter_PutError(t *testing.T) {
	boom := errors.New("boom")
	s := NewS3WithClient(&fakeS3{objects: map[string][]byte{}, putErr: boom}, "bucket")

	_, err := s.PutObject(context.Background(), "k", strings.NewReader("x"), PutOptions{})

	assert.ErrorIs(t, err, boom)
}

func TestS3Adapter_ListObjects(t *testing.T) {
	client := &fakeS3{pages: [][]types.Object{
		{{Key: aws.String("messages/3")}, {Key: aws.String("messages/1")}},
		{{Key: aws.String("messages/2")}},
	}}
	s := NewS3WithClient(client, "bucket")

	objects, err := s.ListObjects(context.Background(), "messages/", ListOptions{Limit: 2})
	require.NoError(t, err)

	require.Len(t, objects, 2)
	assert.Equal(t, "messages/1", objects[0].Key)
	assert.Equal(t, "messages/2", objects[1].Key)
	assert.Equal(t, 2, client.calls)
}

func TestNewFromDriver(t *testing.T) {
	_, err := NewFromDriver(context.Background(), "ftp", FactoryOptions{})
	assert.ErrorIs(t, err, ErrUnknownDriver)

	_, err = NewFromDriver(context.Background(), "S3", FactoryOptions{})
	assert.ErrorIs(t, err, ErrMissingBucket)

	_, err = NewFromDriver(context.Background(), "minio", FactoryOptions{})
	assert.ErrorIs(t, err, ErrMissingBucket)

	s, err := NewFromDriver(context.Background(), "minio", FactoryOptions{MinIO: MinIOOptions{
		Endpoint: "localhost:9000",
		Bucket:   "local",
	}})
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}
