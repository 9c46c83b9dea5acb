package qr

import (
	"fmt"
	"image"
	"image/color"
)

// DefaultModuleSize 是每個模組的像素邊長
const DefaultModuleSize = 10

// Renderer 將 QR symbol 轉成黑白點陣圖
type Renderer struct {
	ModuleSize int
	Foreground color.Color
	Background color.Color
}

func NewRenderer() *Renderer {
	return &Renderer{
		ModuleSize: DefaultModuleSize,
		Foreground: color.Black,
		Background: color.White,
	}
}

func (r *Renderer) prepare(sym *Symbol) int {
	sym.code.ForegroundColor = r.Foreground
	sym.code.BackgroundColor = r.Background
	size := r.ModuleSize
	if size <= 0 {
		size = DefaultModuleSize
	}
	// 負值代表「每個模組的像素數」
	return -size
}

// Image 回傳邊長為 Size()*ModuleSize 像素的圖片
func (r *Renderer) Image(sym *Symbol) image.Image {
	return sym.code.Image(r.prepare(sym))
}

// PNG 在記憶體中將 symbol 編碼為 PNG
func (r *Renderer) PNG(sym *Symbol) ([]byte, error) {
	data, err := sym.code.PNG(r.prepare(sym))
	if err != nil {
		return nil, fmt.Errorf("render qr png: %w", err)
	}
	return data, nil
}

// EncodePNG 以預設參數編碼並輸出 PNG
func EncodePNG(payload string) ([]byte, error) {
	sym, err := Encode(payload)
	if err != nil {
		return nil, err
	}
	return NewRenderer().PNG(sym)
}
