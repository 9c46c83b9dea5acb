// Package mediatest 提供測試用的遠端媒體服務替身。
package mediatest

import (
	"context"
	"fmt"
	"sync"

	"image_media/internal/media"
)

// TransformCall 記錄一次 Transform 呼叫
type TransformCall struct {
	SourceURL string
	PublicID  string
	Angle     int
}

// UploadCall 記錄一次 UploadPNG 呼叫
type UploadCall struct {
	Data     []byte
	PublicID string
}

// Fake 是記憶體中的 media.Service，同一 PublicID 的上傳會覆寫既有資源
type Fake struct {
	BaseURL string
	Err     error

	mu         sync.Mutex
	transforms []TransformCall
	uploads    []UploadCall
	assets     map[string][]byte
	version    int
}

func NewFake() *Fake {
	return &Fake{
		BaseURL: "https://res.cloudinary.test/demo/image/upload",
		assets:  make(map[string][]byte),
	}
}

func (f *Fake) Transform(_ context.Context, sourceURL, publicID string, angle int) (*media.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.transforms = append(f.transforms, TransformCall{SourceURL: sourceURL, PublicID: publicID, Angle: angle})
	if f.Err != nil {
		return nil, fmt.Errorf("%w: %v", media.ErrRemote, f.Err)
	}
	f.assets[publicID] = []byte(sourceURL)
	return f.asset(publicID, "jpg"), nil
}

func (f *Fake) UploadPNG(_ context.Context, data []byte, publicID string) (*media.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.uploads = append(f.uploads, UploadCall{Data: data, PublicID: publicID})
	if f.Err != nil {
		return nil, fmt.Errorf("%w: %v", media.ErrRemote, f.Err)
	}
	f.assets[publicID] = data
	return f.asset(publicID, "png"), nil
}

// asset 每次呼叫都產生新的版本號，模擬遠端服務回傳的新網址
func (f *Fake) asset(publicID, format string) *media.Asset {
	f.version++
	return &media.Asset{
		PublicID:  publicID,
		SecureURL: fmt.Sprintf("%s/v%d/%s.%s", f.BaseURL, f.version, publicID, format),
	}
}

func (f *Fake) Transforms() []TransformCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]TransformCall(nil), f.transforms...)
}

func (f *Fake) Uploads() []UploadCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]UploadCall(nil), f.uploads...)
}

// Assets 回傳目前存在的資源數量
func (f *Fake) Assets() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.assets)
}

// Calls 回傳所有遠端呼叫次數
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.transforms) + len(f.uploads)
}
