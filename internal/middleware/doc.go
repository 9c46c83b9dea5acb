// Package middleware 提供了 HTTP 請求處理的中間件。
//
// 目前包含請求識別碼與請求日誌，兩者都以 gin.HandlerFunc 的形式掛在路由上。
package middleware
