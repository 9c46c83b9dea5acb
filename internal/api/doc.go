// Package api 處理 HTTP 請求路由和處理。
//
// 這個包包含了所有的 HTTP 處理器（handlers）。
// 它負責將 HTTP 請求轉換為服務調用，並將結果轉換回 JSON 或 PNG 響應。
package api
