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

package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"maps"
	"mime"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/zintix-labs/categorical/engine"
	"github.com/zintix-labs/categorical/errs"
	"github.com/zintix-labs/categorical/server/httperr"
	"github.com/zintix-labs/categorical/server/svrcfg"
	"github.com/zintix-labs/categorical/setting"
	"github.com/zintix-labs/categorical/stats"
)

type EvalHandler struct {
	eng     *engine.Engine
	demos   map[string]*setting.PipelineSetting
	names   []string
	timeout time.Duration
	maxBody int64
	log     *slog.Logger
}

// NewEvalHandler sCfg 需先經過 Vaild()
func NewEvalHandler(sCfg *svrcfg.SvrCfg) (*EvalHandler, error) {
	if sCfg == nil || sCfg.Engine == nil {
		return nil, errs.NewFatal("engine is required")
	}
	return &EvalHandler{
		eng:     sCfg.Engine,
		demos:   sCfg.Demos,
		names:   slices.Sorted(maps.Keys(sCfg.Demos)),
		timeout: sCfg.EvalTimeout,
		maxBody: sCfg.MaxBody,
		log:     sCfg.Log,
	}, nil
}

// Ops GET /v1/ops
func (h *EvalHandler) Ops(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string][]string{"ops": h.eng.Ops()})
}

// Demos GET /v1/demo
func (h *EvalHandler) Demos(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string][]string{"demos": h.names})
}

// Demo GET /v1/demo/{name}
func (h *EvalHandler) Demo(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ps, ok := h.demos[name]
	if !ok {
		httperr.NotFound(w, "demo not found: "+name)
		return
	}
	h.run(w, r, ps)
}

// Eval POST /v1/eval
//
// body 為 pipeline 設定；Content-Type 為 application/json 走 JSON，yaml 類型走 YAML，
// 未指定時以第一個非空白字元是否為 '{' 判斷。
func (h *EvalHandler) Eval(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		httperr.Errs(w, errs.Wrap(err, "read body failed"))
		return
	}

	var ps *setting.PipelineSetting
	switch bodyKind(r.Header.Get("Content-Type"), data) {
	case "json":
		ps, err = setting.FromJSON(data)
	case "yaml":
		ps, err = setting.FromYAML(data)
	default:
		err = errs.Warnf("unsupported content type %q (json|yaml)", r.Header.Get("Content-Type"))
	}
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	h.run(w, r, ps)
}

func (h *EvalHandler) run(w http.ResponseWriter, r *http.Request, ps *setting.PipelineSetting) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	rep, err := h.eng.Run(ctx, ps, nil)
	if err != nil {
		httperr.Log(h.log, "eval failed", err)
		httperr.Errs(w, err)
		return
	}
	writeReport(w, r, rep)
}

func bodyKind(contentType string, data []byte) string {
	if contentType == "" {
		if b := bytes.TrimSpace(data); len(b) > 0 && b[0] == '{' {
			return "json"
		}
		return "yaml"
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	switch mt {
	case "application/json":
		return "json"
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return "yaml"
	}
	return ""
}

// writeReport ?format=yaml 輸出 YAML，其餘 JSON。先寫到 buffer，渲染失敗才能回 500。
func writeReport(w http.ResponseWriter, r *http.Request, rep *stats.Report) {
	var (
		render stats.ReportRender = &stats.JsonReportRender{}
		ctype                     = "application/json"
	)
	if r.URL.Query().Get("format") == "yaml" {
		render, ctype = &stats.YAMLReportRender{}, "application/yaml"
	}
	var buf bytes.Buffer
	if err := render.Write(&buf, rep); err != nil {
		httperr.Errs(w, errs.Wrap(err, "render report failed"))
		return
	}
	w.Header().Set("Content-Type", ctype)
	_, _ = w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
