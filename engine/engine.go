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

// Package engine 依 setting.PipelineSetting 建立分布、執行 Combine 步驟並產出 stats.Report。
//
// 核心分布違反前置條件時會 panic；引擎在執行前先把能檢查的都檢查掉 (回傳 Warn)，
// 仍然發生的 panic 一律 recover 成 Fatal，呼叫端 (CLI / HTTP) 只需要處理 error。
//
// Engine 本身不持有可變狀態，可被多個 goroutine 同時呼叫 Run。
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/zintix-labs/categorical/errs"
	"github.com/zintix-labs/categorical/sdk/combiner"
	"github.com/zintix-labs/categorical/sdk/num"
	"github.com/zintix-labs/categorical/setting"
	"github.com/zintix-labs/categorical/stats"
)

// Progress 每完成一個步驟呼叫一次 Increment。nil 代表不回報。
type Progress interface {
	Increment()
}

type Engine struct {
	reg *combiner.Registry
	log *slog.Logger
}

// New 建立引擎。reg 為 nil 時使用內建 combiner；log 為 nil 時使用 slog.Default()。
func New(reg *combiner.Registry, log *slog.Logger) *Engine {
	if reg == nil {
		reg = combiner.Default()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Engine{reg: reg, log: log}
}

// Ops 可用的 combiner 名稱 (已排序)
func (e *Engine) Ops() []string {
	return e.reg.Names()
}

// Run 執行一份 pipeline。
//
// 錯誤分級：
//   - 設定內容錯誤 (未知 op、正規化零總和、權重無法解析) => Warn
//   - ctx 取消或逾時 => Warn
//   - 核心 panic => Fatal
func (e *Engine) Run(ctx context.Context, ps *setting.PipelineSetting, prog Progress) (rep *stats.Report, err error) {
	if ps == nil {
		return nil, errs.NewWarn("nil pipeline setting")
	}
	if err := ps.Validate(); err != nil {
		return nil, err
	}
	for _, s := range ps.Steps {
		if _, err := e.reg.Get(s.Op); err != nil {
			return nil, errs.Wrap(err, "invalid step").With(fmt.Sprintf("pipeline=%s, step=%s", ps.Name, s.Name))
		}
	}

	defer func() {
		if r := recover(); r != nil {
			e.log.Error("pipeline panic", slog.String("pipeline", ps.Name), slog.Any("panic", r))
			rep = nil
			err = errs.NewFatal(fmt.Sprintf("pipeline %s panic : %v", ps.Name, r))
		}
	}()

	e.log.Debug("pipeline start",
		slog.String("pipeline", ps.Name),
		slog.String("weight", string(ps.Weight)),
		slog.Int("dists", len(ps.Distributions)),
		slog.Int("steps", len(ps.Steps)),
	)

	switch ps.Weight {
	case setting.WeightFloat:
		return run[float64](ctx, e, num.Float[float64]{}, ps, prog)
	case setting.WeightExact:
		return run[*big.Rat](ctx, e, num.Rat{}, ps, prog)
	default:
		return nil, errs.Warnf("pipeline %s: unknown weight %q", ps.Name, ps.Weight)
	}
}
