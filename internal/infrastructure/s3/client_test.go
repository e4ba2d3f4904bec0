package s3infra

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockS3 struct{ mock.Mock }

func (m *mockS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.PutObjectOutput)
	return out, args.Error(1)
}
func (m *mockS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.GetObjectOutput)
	return out, args.Error(1)
}
func (m *mockS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.DeleteObjectOutput)
	return out, args.Error(1)
}

func TestUpload_DetectsContentType(t *testing.T) {
	api := &mockS3{}
	api.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Bucket == "posters" && *in.Key == "posters/a.PNG" && *in.ContentType == "image/png"
	})).Return(&s3.PutObjectOutput{}, nil)

	err := NewStore(api, "posters").Upload(context.Background(), "posters/a.PNG", strings.NewReader("x"), "")
	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestDownload_NotFound(t *testing.T) {
	api := &mockS3{}
	api.On("GetObject", mock.Anything, mock.Anything).Return(nil, &types.NoSuchKey{})

	_, _, err := NewStore(api, "posters").Download(context.Background(), "posters/missing.png")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestDownload_Streams(t *testing.T) {
	api := &mockS3{}
	api.On("GetObject", mock.Anything, mock.Anything).Return(&s3.GetObjectOutput{
		Body:        io.NopCloser(strings.NewReader("img")),
		ContentType: aws.String("image/jpeg"),
	}, nil)

	rc, ct, err := NewStore(api, "posters").Download(context.Background(), "posters/a.jpg")
	require.NoError(t, err)
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	assert.Equal(t, "img", string(b))
	assert.Equal(t, "image/jpeg", ct)
}

func TestDelete_WrapsError(t *testing.T) {
	api := &mockS3{}
	boom := errors.New("denied")
	api.On("DeleteObject", mock.Anything, mock.Anything).Return(nil, boom)

	err := NewStore(api, "posters").Delete(context.Background(), "k")
	assert.ErrorIs(t, err, boom)
}

func TestDetectContentType(t *testing.T) {
	assert.Equal(t, "image/jpeg", DetectContentType("x.JPEG"))
	assert.Equal(t, "image/webp", DetectContentType("x.webp"))
	assert.Equal(t, "application/octet-stream", DetectContentType("x"))
}
