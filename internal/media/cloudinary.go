package media

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"image_media/pkg/config"
)

// CloudinaryClient 實作 Service，於程序啟動時建立一次並注入服務層
type CloudinaryClient struct {
	cld     *cloudinary.Cloudinary
	timeout time.Duration
}

func NewCloudinaryClient(cfg config.CloudinaryConfig, timeout time.Duration) (*CloudinaryClient, error) {
	cld, err := cloudinary.NewFromParams(cfg.Name, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}

	return &CloudinaryClient{cld: cld, timeout: timeout}, nil
}

// SetUploadPrefix 改寫上傳 API 的位址；uploader 持有自己的設定副本，必須寫在那裡
func (c *CloudinaryClient) SetUploadPrefix(prefix string) {
	c.cld.Upload.Config.API.UploadPrefix = prefix
}

// UploadPrefix 回傳實際用於上傳的 API 位址
func (c *CloudinaryClient) UploadPrefix() string {
	return c.cld.Upload.Config.API.UploadPrefix
}

func (c *CloudinaryClient) Transform(ctx context.Context, sourceURL, publicID string, angle int) (*Asset, error) {
	params := uploader.UploadParams{
		PublicID:       publicID,
		Transformation: RotateTransformation(angle),
	}
	return c.upload(ctx, sourceURL, params)
}

func (c *CloudinaryClient) UploadPNG(ctx context.Context, data []byte, publicID string) (*Asset, error) {
	params := uploader.UploadParams{
		PublicID:  publicID,
		Format:    "png",
		Overwrite: api.Bool(true),
	}
	return c.upload(ctx, bytes.NewReader(data), params)
}

func (c *CloudinaryClient) upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*Asset, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	started := time.Now()
	resp, err := c.cld.Upload.Upload(ctx, file, params)
	if err != nil {
		return nil, fmt.Errorf("%w: upload %s: %v", ErrRemote, params.PublicID, err)
	}
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("%w: upload %s: %s", ErrRemote, params.PublicID, resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return nil, fmt.Errorf("%w: upload %s: empty secure_url", ErrRemote, params.PublicID)
	}

	slog.Debug("remote upload finished",
		"public_id", resp.PublicID,
		"secure_url", resp.SecureURL,
		"elapsed", time.Since(started))

	return &Asset{PublicID: resp.PublicID, SecureURL: resp.SecureURL}, nil
}
