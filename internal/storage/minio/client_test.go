package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	minioLib "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMinio implements minioAPI for testing without network.
type fakeMinio struct {
	bucketExists    bool
	bucketExistsErr error
	makeBucketErr   error

	putInfo minioLib.UploadInfo
	putErr  error
	putOpts minioLib.PutObjectOptions
	putSize int64

	getRC  io.ReadCloser
	getErr error

	removeErr error

	statInfo minioLib.ObjectInfo
	statErr  error
}

func (f *fakeMinio) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}
func (f *fakeMinio) MakeBucket(_ context.Context, _ string, _ minioLib.MakeBucketOptions) error {
	return f.makeBucketErr
}
func (f *fakeMinio) PutObject(_ context.Context, _ string, _ string, _ io.Reader, size int64, opts minioLib.PutObjectOptions) (minioLib.UploadInfo, error) {
	f.putSize = size
	f.putOpts = opts
	return f.putInfo, f.putErr
}
func (f *fakeMinio) GetObject(_ context.Context, _ string, _ string, _ minioLib.GetObjectOptions) (io.ReadCloser, error) {
	return f.getRC, f.getErr
}
func (f *fakeMinio) RemoveObject(_ context.Context, _ string, _ string, _ minioLib.RemoveObjectOptions) error {
	return f.removeErr
}
func (f *fakeMinio) StatObject(_ context.Context, _ string, _ string, _ minioLib.StatObjectOptions) (minioLib.ObjectInfo, error) {
	return f.statInfo, f.statErr
}

func TestNewClientWithAPI_BucketExists(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: true}
	c, err := NewClientWithAPI(ctx, api, "b")
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.Equal(t, "b", c.bucket)
}

func TestNewClientWithAPI_CreateBucket(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: false}
	c, err := NewClientWithAPI(ctx, api, "bucket")
	require.NoError(t, err)
	assert.Equal(t, "bucket", c.bucket)
}

func TestNewClientWithAPI_BucketExistsError(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExistsErr: errors.New("boom")}
	c, err := NewClientWithAPI(ctx, api, "bucket")
	assert.Nil(t, c)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ensure bucket exists")
}

func TestNewClientWithAPI_MakeBucketError(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: false, makeBucketErr: errors.New("fail")}
	c, err := NewClientWithAPI(ctx, api, "bucket")
	assert.Nil(t, c)
	assert.Error(t, err)
}

func TestClient_Upload(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: true}
	c, err := NewClientWithAPI(ctx, api, "bucket")
	require.NoError(t, err)

	data := []byte("%PDF-1.4 fake")
	err = c.Upload(ctx, "key.pdf", bytes.NewReader(data), int64(len(data)), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), api.putSize)
	assert.Equal(t, "application/pdf", api.putOpts.ContentType)
}

func TestClient_Upload_Error(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: true, putErr: errors.New("put failed")}
	c, err := NewClientWithAPI(ctx, api, "bucket")
	require.NoError(t, err)

	err = c.Upload(ctx, "key.pdf", bytes.NewReader(nil), 0, "application/pdf")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upload object")
}

func TestClient_Download(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: true, getRC: io.NopCloser(bytes.NewReader([]byte("content")))}
	c, err := NewClientWithAPI(ctx, api, "bucket")
	require.NoError(t, err)

	rc, err := c.Download(ctx, "key.pdf")
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), got)
}

func TestClient_Download_Error(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: true, getErr: errors.New("get failed")}
	c, err := NewClientWithAPI(ctx, api, "bucket")
	require.NoError(t, err)

	rc, err := c.Download(ctx, "key.pdf")
	assert.Nil(t, rc)
	assert.Error(t, err)
}

func TestClient_Delete(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: true}
	c, err := NewClientWithAPI(ctx, api, "bucket")
	require.NoError(t, err)

	assert.NoError(t, c.Delete(ctx, "key.pdf"))
}

func TestClient_Delete_Error(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: true, removeErr: errors.New("remove failed")}
	c, err := NewClientWithAPI(ctx, api, "bucket")
	require.NoError(t, err)

	err = c.Delete(ctx, "key.pdf")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete object")
}

func TestClient_Exists(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: true}
	c, err := NewClientWithAPI(ctx, api, "bucket")
	require.NoError(t, err)

	ok, err := c.Exists(ctx, "key.pdf")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestClient_Exists_NoSuchKey(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{
		bucketExists: true,
		statErr: minioLib.ErrorResponse{
			Code: "NoSuchKey",
		},
	}
	c, err := NewClientWithAPI(ctx, api, "bucket")
	require.NoError(t, err)

	ok, err := c.Exists(ctx, "missing.pdf")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClient_Exists_Error(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: true, statErr: errors.New("stat failed")}
	c, err := NewClientWithAPI(ctx, api, "bucket")
	require.NoError(t, err)

	ok, err := c.Exists(ctx, "key.pdf")
	assert.False(t, ok)
	assert.Error(t, err)
}
