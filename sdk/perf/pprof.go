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

// Package perf 在執行一段工作時順便寫出 pprof 檔，給 CLI 的 -p 旗標使用。
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/categorical/errs"
)

const DefaultDir = "build/profiling"

// Modes 支援的 profiling 模式；空字串代表不做 profiling
var Modes = []string{"", "cpu", "heap", "allocs"}

// RunPProf 依 mode 執行 exe 並在 dir 寫出 <mode>.pprof。
//
// exe 的 error 原樣回傳；profiling 本身失敗時回傳 Fatal。未知 mode 回傳 Warn 且不執行 exe。
func RunPProf(dir, mode string, exe func() error) error {
	if dir == "" {
		dir = DefaultDir
	}
	switch mode {
	case "":
		return exe()
	case "cpu":
		return profileCPU(dir, exe)
	case "heap":
		return snapshot(dir, "heap", exe)
	case "allocs":
		return snapshot(dir, "allocs", exe)
	default:
		return errs.Warnf("unknown pprof mode %q (cpu|heap|allocs)", mode)
	}
}

func create(dir, mode string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.Wrap(err, "create profiling dir failed").With(dir)
	}
	f, err := os.Create(filepath.Join(dir, mode+".pprof"))
	if err != nil {
		return nil, errs.Wrap(err, "create profile failed").With(mode)
	}
	return f, nil
}

// CPU profile 涵蓋整段 exe，可作為 PGO 的輸入
func profileCPU(dir string, exe func() error) error {
	f, err := create(dir, "cpu")
	if err != nil {
		return err
	}
	defer f.Close()
	if err := pprof.StartCPUProfile(f); err != nil {
		return errs.Wrap(err, "start cpu profile failed")
	}
	defer pprof.StopCPUProfile()
	return exe()
}

// heap 為 exe 結束後的存活物件 (先 GC)；allocs 為累積配置
func snapshot(dir, mode string, exe func() error) error {
	runErr := exe()

	f, err := create(dir, mode)
	if err != nil {
		return err
	}
	defer f.Close()
	if mode == "heap" {
		runtime.GC()
	}
	prof := pprof.Lookup(mode)
	if prof == nil {
		return errs.Fatalf("profile %s not available", mode)
	}
	if err := prof.WriteTo(f, 0); err != nil {
		return errs.Wrap(err, "write profile failed").With(mode)
	}
	return runErr
}
