package app

import "context"

// Component 任何可啟動 / 可關閉的長生命週期元件，例如 HTTP server。
//   - Run() 阻塞直到元件停止；正常關閉應回傳 nil。
//   - Shutdown(ctx) 要求優雅關閉，需尊重 ctx 的期限。
type Component interface {
	Run() error
	Shutdown(ctx context.Context) error
}
