// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logger 為 CLI 與 HTTP 服務組裝 *slog.Logger。
//
// 引擎與服務層一律只依賴 *slog.Logger；要不要非同步、輸出到哪裡，由這裡的組裝決定：
//   - New(mode)：同步 handler，CLI 使用。
//   - NewAsync(buf, mode)：以 AsyncHandler 包裝，HTTP 服務使用，請求路徑上不做 I/O。
//   - NewLogger(h)：自帶 slog.Handler。
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/zintix-labs/categorical/errs"
)

// enum LogMode
type LogMode uint8

const (
	ModeDev LogMode = iota
	ModeProd
	ModeSilence
)

func (m LogMode) String() string {
	switch m {
	case ModeDev:
		return "dev"
	case ModeProd:
		return "prod"
	case ModeSilence:
		return "silence"
	default:
		return "unknown"
	}
}

// ParseLogMode 解析 "dev" / "prod" / "silence" (不分大小寫)
func ParseLogMode(s string) (LogMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dev", "":
		return ModeDev, nil
	case "prod":
		return ModeProd, nil
	case "silence", "silent", "off":
		return ModeSilence, nil
	default:
		return ModeDev, errs.Warnf("unknown log mode %q (dev|prod|silence)", s)
	}
}

// New 以 LogMode 預設值建立同步 logger
func New(mode LogMode) *slog.Logger {
	return slog.New(buildHandler(mode))
}

// NewLogger 以呼叫端組好的 handler 建立 logger；h 為 nil 時使用 ModeDev
func NewLogger(h slog.Handler) *slog.Logger {
	if h == nil {
		h = buildHandler(ModeDev)
	}
	return slog.New(h)
}

// NewAsync 以 LogMode 預設值建立非同步 logger，並回傳 handler 供關閉時 Close() drain。
func NewAsync(buf int, mode LogMode) (*slog.Logger, *AsyncHandler) {
	ah := NewAsyncHandler(buildHandler(mode), buf)
	return slog.New(ah), ah
}

func buildHandler(mode LogMode) slog.Handler {
	return handlerTo(mode, os.Stderr, os.Stdout)
}

// dev => text/debug 到 stderr；prod => json/info 到 stdout；silence => 全部丟棄
func handlerTo(mode LogMode, dev, prod io.Writer) slog.Handler {
	switch mode {
	case ModeProd:
		return slog.NewJSONHandler(prod, &slog.HandlerOptions{Level: slog.LevelInfo})
	case ModeSilence:
		return slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1})
	default:
		return slog.NewTextHandler(dev, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}
