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

package svrcfg

import (
	"log/slog"
	"time"

	"github.com/zintix-labs/categorical/engine"
	"github.com/zintix-labs/categorical/errs"
	"github.com/zintix-labs/categorical/server/logger"
	"github.com/zintix-labs/categorical/setting"
)

const (
	DefaultEvalTimeout       = 5 * time.Second
	DefaultMaxBody     int64 = 1 << 20 // 1 MiB
)

type SvrCfg struct {
	Log         *slog.Logger
	Engine      *engine.Engine
	Demos       map[string]*setting.PipelineSetting
	Addr        string
	EvalTimeout time.Duration
	MaxBody     int64
}

// Vaild 補預設值並檢查必要依賴
func (sc *SvrCfg) Vaild() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		sc.Log, _ = logger.NewAsync(1024, logger.ModeDev)
	}
	if sc.Engine == nil {
		return errs.NewFatal("engine is required")
	}
	if sc.Demos == nil {
		sc.Demos = map[string]*setting.PipelineSetting{}
	}
	if sc.EvalTimeout <= 0 {
		sc.EvalTimeout = DefaultEvalTimeout
	}
	if sc.MaxBody <= 0 {
		sc.MaxBody = DefaultMaxBody
	}
	return nil
}
