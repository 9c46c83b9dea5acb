package models

import (
	"time"
)

// Image 表示一張托管於遠端媒體服務的圖片及其衍生資源
type Image struct {
	ID                  string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	URLOriginal         string    `gorm:"column:url_original;not null" json:"url_original"`
	PublicID            *string   `gorm:"column:public_id" json:"public_id,omitempty"`                         // 原圖在遠端服務上的識別碼
	URLTransformed      *string   `gorm:"column:url_transformed" json:"url_transformed,omitempty"`             // 旋轉後的圖片
	TransformedPublicID *string   `gorm:"column:transformed_public_id" json:"transformed_public_id,omitempty"`
	URLOriginalQR       *string   `gorm:"column:url_original_qr" json:"url_original_qr,omitempty"`             // 原圖網址的 QR code
	QRPublicID          *string   `gorm:"column:qr_public_id" json:"qr_public_id,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// TableName 指定資料表名稱
func (Image) TableName() string {
	return "images"
}

// Locator 依來源選項回傳對應的網址，未設定時回傳空字串
func (i *Image) Locator(source ImageSource) string {
	if source == SourceTransformed {
		if i.URLTransformed == nil {
			return ""
		}
		return *i.URLTransformed
	}
	return i.URLOriginal
}

// ImageSource 定義產生 QR code 時使用的網址來源
type ImageSource string

const (
	SourceOriginal    ImageSource = "original"
	SourceTransformed ImageSource = "transformed"
)
