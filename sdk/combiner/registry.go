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

// Package combiner 提供以名稱註冊的二元類別運算，讓設定檔可以描述 Combine 的步驟。
//
// 設定檔層的類別一律是 int64；比較類運算以 1 / 0 表示真 / 假。
package combiner

import (
	"fmt"
	"slices"

	"github.com/zintix-labs/categorical/errs"
)

// Op 把兩個類別組合成一個新類別。
type Op func(a, b int64) int64

type Registry struct {
	ops map[string]Op
}

func NewRegistry() *Registry {
	return &Registry{ops: make(map[string]Op, 32)}
}

func (r *Registry) Register(name string, op Op) error {
	if name == "" || op == nil {
		return errs.NewFatal("combiner name and op are required")
	}
	if _, ok := r.ops[name]; ok {
		return errs.Fatalf("duplicate combiner %q", name)
	}
	r.ops[name] = op
	return nil
}

// Get 找不到時回傳 Warn，因為名稱多半來自使用者的設定檔。
func (r *Registry) Get(name string) (Op, error) {
	op, ok := r.ops[name]
	if !ok {
		return nil, errs.Warnf("unknown combiner %q", name)
	}
	return op, nil
}

func (r *Registry) IsExist(name string) bool {
	_, ok := r.ops[name]
	return ok
}

// Names 依字典序回傳所有已註冊名稱。
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.ops))
	for k := range r.ops {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Merge 合併多個 registry；重複名稱一律視為錯誤，避免「後者覆蓋前者」的不確定行為。
func Merge(regs ...*Registry) (*Registry, error) {
	out := NewRegistry()
	origin := make(map[string]int, 32)
	for i, r := range regs {
		if r == nil {
			continue
		}
		for name, op := range r.ops {
			if _, ok := out.ops[name]; ok {
				return nil, errs.NewFatal(fmt.Sprintf("duplicate combiner %s (registry #%d and #%d)", name, origin[name], i))
			}
			out.ops[name] = op
			origin[name] = i
		}
	}
	return out, nil
}
