package service

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/makiuchi-d/gozxing"
	gzqr "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image_media/internal/cache"
	"image_media/internal/media/mediatest"
	"image_media/internal/models"
	"image_media/internal/repository"
	"image_media/internal/storage"
)

const (
	testImageID  = "abc123"
	testOriginal = "https://cdn.example/abc123.jpg"
)

type testEnv struct {
	repo    repository.ImageRepository
	media   *mediatest.Fake
	service *ImageService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := storage.NewDatabase("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.AutoMigrate(&models.Image{}))

	repo := repository.NewImageRepository(db)
	require.NoError(t, repo.Create(context.Background(), &models.Image{ID: testImageID, URLOriginal: testOriginal}))

	fake := mediatest.NewFake()
	return &testEnv{
		repo:    repo,
		media:   fake,
		service: NewImageService(repo, fake, nil),
	}
}

func (e *testEnv) image(t *testing.T) *models.Image {
	t.Helper()
	image, err := e.repo.FindByID(context.Background(), testImageID)
	require.NoError(t, err)
	return image
}

func decodeQR(t *testing.T, data []byte) string {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	require.NoError(t, err)
	result, err := gzqr.NewQRCodeReader().Decode(bmp, nil)
	require.NoError(t, err)
	return result.GetText()
}

func TestRotatePersistsRemoteURL(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.service.Rotate(context.Background(), testImageID, 90)
	require.NoError(t, err)

	calls := env.media.Transforms()
	require.Len(t, calls, 1)
	assert.Equal(t, 90, calls[0].Angle)
	assert.Equal(t, testOriginal, calls[0].SourceURL)
	assert.Equal(t, "transform/abc123", calls[0].PublicID)

	image := env.image(t)
	require.NotNil(t, image.URLTransformed)
	assert.Equal(t, result.URL, *image.URLTransformed)
	assert.Equal(t, "transform/abc123", *image.TransformedPublicID)
	assert.Equal(t, testOriginal, image.URLOriginal)
}

func TestRotateOverwritesPreviousLocator(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.service.Rotate(ctx, testImageID, 45)
	require.NoError(t, err)
	second, err := env.service.Rotate(ctx, testImageID, 180)
	require.NoError(t, err)

	assert.NotEqual(t, first.URL, second.URL)
	assert.Equal(t, second.URL, *env.image(t).URLTransformed)
}

func TestRotateUsesStoredPublicID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.repo.UpdateFields(ctx, testImageID, map[string]interface{}{"public_id": "photos/cat"}))

	_, err := env.service.Rotate(ctx, testImageID, 45)
	require.NoError(t, err)
	assert.Equal(t, "transform/photos/cat", env.media.Transforms()[0].PublicID)
}

func TestRemoteFailureLeavesRecordUntouched(t *testing.T) {
	env := newTestEnv(t)
	env.media.Err = errors.New("503 service unavailable")
	ctx := context.Background()

	_, err := env.service.Rotate(ctx, testImageID, 90)
	assert.ErrorIs(t, err, ErrRemoteService)

	_, err = env.service.GenerateQR(ctx, testImageID)
	assert.ErrorIs(t, err, ErrRemoteService)

	image := env.image(t)
	assert.Nil(t, image.URLTransformed)
	assert.Nil(t, image.URLOriginalQR)
}

func TestMissingImage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.service.Rotate(ctx, "missing", 45)
	assert.ErrorIs(t, err, ErrImageNotFound)

	_, err = env.service.GenerateQR(ctx, "missing")
	assert.ErrorIs(t, err, ErrImageNotFound)

	_, err = env.service.RenderQR(ctx, "missing", models.SourceOriginal)
	assert.ErrorIs(t, err, ErrImageNotFound)

	assert.Zero(t, env.media.Calls())
	image := env.image(t)
	assert.Nil(t, image.URLTransformed)
	assert.Nil(t, image.URLOriginalQR)
}

func TestGenerateQRUploadsScannablePNG(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.service.GenerateQR(context.Background(), testImageID)
	require.NoError(t, err)

	uploads := env.media.Uploads()
	require.Len(t, uploads, 1)
	assert.Equal(t, "qr_codes/abc123_qr_code", uploads[0].PublicID)
	assert.Equal(t, testOriginal, decodeQR(t, uploads[0].Data))

	image := env.image(t)
	require.NotNil(t, image.URLOriginalQR)
	assert.Equal(t, result.URL, *image.URLOriginalQR)
}

func TestGenerateQRTwiceOverwrites(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.service.GenerateQR(ctx, testImageID)
	require.NoError(t, err)
	second, err := env.service.GenerateQR(ctx, testImageID)
	require.NoError(t, err)

	assert.Equal(t, second.URL, *env.image(t).URLOriginalQR)
	assert.Equal(t, 1, env.media.Assets(), "repeated uploads must overwrite the same remote asset")
}

func TestRenderQR(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	data, err := env.service.RenderQR(ctx, testImageID, models.SourceOriginal)
	require.NoError(t, err)
	assert.Equal(t, testOriginal, decodeQR(t, data))
	assert.Zero(t, env.media.Calls())
}

func TestRenderQRTransformedRequiresLocator(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.service.RenderQR(ctx, testImageID, models.SourceTransformed)
	assert.ErrorIs(t, err, ErrImageNotFound)

	rotated, err := env.service.Rotate(ctx, testImageID, 90)
	require.NoError(t, err)

	data, err := env.service.RenderQR(ctx, testImageID, models.SourceTransformed)
	require.NoError(t, err)
	assert.Equal(t, rotated.URL, decodeQR(t, data))
}

func TestRenderQRUsesCache(t *testing.T) {
	env := newTestEnv(t)
	mr := miniredis.RunT(t)
	qrCache := cache.NewRedisCache(mr.Addr(), "", 0)
	t.Cleanup(func() { qrCache.Close() })
	env.service = NewImageService(env.repo, env.media, qrCache)
	ctx := context.Background()

	data, err := env.service.RenderQR(ctx, testImageID, models.SourceOriginal)
	require.NoError(t, err)
	assert.True(t, mr.Exists(cache.Key(testOriginal)))

	require.NoError(t, qrCache.Set(ctx, testOriginal, []byte("cached")))
	cached, err := env.service.RenderQR(ctx, testImageID, models.SourceOriginal)
	require.NoError(t, err)
	assert.Equal(t, []byte("cached"), cached)
	assert.NotEqual(t, data, cached)
}

func TestRenderQRCacheDownFallsBack(t *testing.T) {
	env := newTestEnv(t)
	mr, err := miniredis.Run()
	require.NoError(t, err)
	qrCache := cache.NewRedisCache(mr.Addr(), "", 0)
	t.Cleanup(func() { qrCache.Close() })
	mr.Close()
	env.service = NewImageService(env.repo, env.media, qrCache)

	data, err := env.service.RenderQR(context.Background(), testImageID, models.SourceOriginal)
	require.NoError(t, err)
	assert.Equal(t, testOriginal, decodeQR(t, data))
}

// swappingRepository 在條件更新前改寫 url_original，模擬並行的請求
type swappingRepository struct {
	repository.ImageRepository
}

func (r swappingRepository) UpdateIfOriginal(ctx context.Context, id, expected string, fields map[string]interface{}) error {
	if err := r.UpdateFields(ctx, id, map[string]interface{}{"url_original": "https://cdn.example/replaced.jpg"}); err != nil {
		return err
	}
	return r.ImageRepository.UpdateIfOriginal(ctx, id, expected, fields)
}

func TestConcurrentOriginalChangeIsRejected(t *testing.T) {
	env := newTestEnv(t)
	svc := NewImageService(swappingRepository{env.repo}, env.media, nil)

	_, err := svc.GenerateQR(context.Background(), testImageID)
	assert.ErrorIs(t, err, ErrStaleRecord)
	assert.Nil(t, env.image(t).URLOriginalQR)
}
