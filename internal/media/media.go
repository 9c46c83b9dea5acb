// Package media 封裝遠端媒體托管服務（Cloudinary）的上傳與轉換呼叫。
package media

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

const (
	// TransformFolder 旋轉後圖片的虛擬資料夾
	TransformFolder = "transform"
	// QRFolder QR code 圖片的虛擬資料夾
	QRFolder = "qr_codes"
)

// ErrRemote 表示遠端服務呼叫失敗（連線錯誤、非 2xx 或回傳錯誤內容）
var ErrRemote = errors.New("remote media service failure")

// Asset 是遠端服務建立的資源
type Asset struct {
	PublicID  string
	SecureURL string
}

// Service 是服務層依賴的遠端媒體介面
type Service interface {
	// Transform 以 sourceURL 建立旋轉 angle 度的新資源
	Transform(ctx context.Context, sourceURL, publicID string, angle int) (*Asset, error)
	// UploadPNG 上傳 PNG 並覆寫同一 publicID 的既有資源
	UploadPNG(ctx context.Context, data []byte, publicID string) (*Asset, error)
}

// DerivePublicID 從網址取出最後一段路徑並去掉副檔名，作為遠端識別碼
func DerivePublicID(locator string) string {
	p := locator
	if u, err := url.Parse(locator); err == nil {
		p = u.Path
	}
	base := path.Base(p)
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// TransformPublicID 回傳旋轉結果的識別碼 "transform/<id>"
func TransformPublicID(id string) string {
	return TransformFolder + "/" + id
}

// QRPublicID 回傳 QR code 的識別碼 "qr_codes/<id>_qr_code"
func QRPublicID(id string) string {
	return QRFolder + "/" + id + "_qr_code"
}

// RotateTransformation 回傳 Cloudinary 的旋轉轉換字串
func RotateTransformation(angle int) string {
	return fmt.Sprintf("a_%d", angle)
}
