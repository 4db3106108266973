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

package api

import (
	"io"
	"log/slog"
	"net/http"

	v1 "github.com/zintix-labs/categorical/server/api/v1"
	"github.com/zintix-labs/categorical/server/netsvr"
	"github.com/zintix-labs/categorical/server/netsvr/middleware"
	"github.com/zintix-labs/categorical/server/svrcfg"
)

const banner = `categorical evaluator

GET  /v1/ops           available combine ops
GET  /v1/demo          embedded demo pipelines
GET  /v1/demo/{name}   evaluate a demo (?format=yaml)
POST /v1/eval          evaluate a pipeline (json or yaml body, ?format=yaml)
`

// RegisterRoutes 註冊 middleware 與所有路由。sCfg 需先經過 Vaild()。
func RegisterRoutes(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) error {
	registerMiddleware(svr, sCfg.Log) // 1. middleware
	registerIndex(svr)                // 2. 主頁
	return registerV1API(svr, sCfg)   // 3. v1 api
}

// 順序：RequestID → AccessLog → Recover → Compression
func registerMiddleware(svr netsvr.NetSvr, log *slog.Logger) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(log))
	svr.Use(middleware.Recover(log))
	svr.Use(middleware.Compression)
}

func registerIndex(svr netsvr.NetSvr) {
	svr.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, banner)
	})
}

func registerV1API(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) error {
	h, err := v1.NewEvalHandler(sCfg)
	if err != nil {
		return err
	}
	svr.Group("/v1", func(vOne netsvr.NetRouter) {
		vOne.Get("/ops", h.Ops)
		vOne.Get("/demo", h.Demos)
		vOne.Get("/demo/{name}", h.Demo)
		vOne.Post("/eval", h.Eval)
	})
	return nil
}
