// Package qr 將文字編碼為 QR code 並輸出為 PNG。
//
// 編碼固定使用 M 級錯誤修正（約 15%）與 4 個模組寬的靜區，
// 版本由內容長度自動決定（最小為 1）。
package qr

import (
	"errors"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// QuietZone 是 QR code 四周保留的空白模組數
const QuietZone = 4

var ErrEmptyPayload = errors.New("qr payload is empty")

// Symbol 是一個已編碼的 QR code 矩陣
type Symbol struct {
	code *qrcode.QRCode
}

// Encode 將 payload 編碼為 QR symbol
func Encode(payload string) (*Symbol, error) {
	if payload == "" {
		return nil, ErrEmptyPayload
	}

	code, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	return &Symbol{code: code}, nil
}

// Content 回傳被編碼的原始文字
func (s *Symbol) Content() string {
	return s.code.Content
}

// Version 回傳 QR code 版本 (1-40)
func (s *Symbol) Version() int {
	return s.code.VersionNumber
}

// Bitmap 回傳包含靜區的模組矩陣，true 代表黑色模組
func (s *Symbol) Bitmap() [][]bool {
	return s.code.Bitmap()
}

// Size 回傳矩陣邊長（模組數，含靜區）
func (s *Symbol) Size() int {
	return len(s.code.Bitmap())
}
