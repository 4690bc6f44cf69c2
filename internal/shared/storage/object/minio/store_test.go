package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-manager/internal/shared/storage/object"
)

type fakeAPI struct {
	mu      sync.Mutex
	buckets map[string]bool
	objects map[string][]byte
	types   map[string]string
	made    int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{buckets: map[string]bool{}, objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeAPI) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buckets[bucketName], nil
}

func (f *fakeAPI) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buckets[bucketName] = true
	f.made++
	return nil
}

func (f *fakeAPI) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[objectName] = data
	f.types[objectName] = opts.ContentType
	return minio.UploadInfo{Bucket: bucketName, Key: objectName, Size: int64(len(data))}, nil
}

func (f *fakeAPI) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return io.NopCloser(bytes.NewReader(f.objects[objectName])), nil
}

func (f *fakeAPI) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[objectName]; !ok {
		return minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"}
	}
	return minio.ObjectInfo{Key: objectName}, nil
}

func (f *fakeAPI) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, objectName)
	return nil
}

func TestNewCreatesMissingBucketOnce(t *testing.T) {
	api := newFakeAPI()
	_, err := newWithAPI(context.Background(), api, "resumes")
	require.NoError(t, err)
	_, err = newWithAPI(context.Background(), api, "resumes")
	require.NoError(t, err)
	assert.Equal(t, 1, api.made)
}

func TestSaveOpenDelete(t *testing.T) {
	api := newFakeAPI()
	store, err := newWithAPI(context.Background(), api, "resumes")
	require.NoError(t, err)
	ctx := context.Background()

	key, size, mime, err := store.Save(ctx, "u1", "cv.pdf", strings.NewReader("%PDF-1.7 body"))
	require.NoError(t, err)
	assert.Equal(t, int64(len("%PDF-1.7 body")), size)
	assert.Equal(t, "application/pdf", mime)
	assert.Equal(t, "application/pdf", api.types[key])
	assert.True(t, strings.HasSuffix(key, "_cv.pdf"))

	rc, err := store.Open(ctx, key)
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "%PDF-1.7 body", string(data))

	require.NoError(t, store.Delete(ctx, key))
	_, err = store.Open(ctx, key)
	assert.True(t, errors.Is(err, object.ErrNotFound))
}
