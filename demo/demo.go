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

package demo

import (
	"log/slog"

	"github.com/zintix-labs/categorical/demo/demo_configs"
	"github.com/zintix-labs/categorical/engine"
	"github.com/zintix-labs/categorical/errs"
	"github.com/zintix-labs/categorical/sdk/combiner"
	"github.com/zintix-labs/categorical/server/svrcfg"
	"github.com/zintix-labs/categorical/setting"
)

// Pipelines 載入內嵌的 demo pipeline，key 為 pipeline 名稱
func Pipelines() (map[string]*setting.PipelineSetting, error) {
	return setting.LoadFS(demo_configs.FS)
}

// NewEngine 以內建 combine op 建立引擎
func NewEngine(log *slog.Logger) *engine.Engine {
	return engine.New(combiner.Default(), log)
}

// NewServerConfig 組出帶內建 demo 的服務設定，其餘欄位由 SvrCfg.Vaild 補預設
func NewServerConfig(log *slog.Logger) (*svrcfg.SvrCfg, error) {
	demos, err := Pipelines()
	if err != nil {
		return nil, errs.Wrap(err, "load demo pipelines failed")
	}
	return &svrcfg.SvrCfg{
		Log:    log,
		Engine: NewEngine(log),
		Demos:  demos,
	}, nil
}
