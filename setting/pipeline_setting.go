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

// Package setting 定義以設定檔 (YAML / JSON) 描述的分布組合流程 (pipeline)。
//
// 一份 PipelineSetting 包含：
//   - Distributions：起始分布 (均勻或明確列出權重)。
//   - Steps：依序執行的 Combine 步驟，只能引用「之前已定義」的名稱。
//   - Queries：對結果查詢特定類別的機率。
//   - Outputs：要輸出的分布名稱。
//
// 所有檢查都在載入時完成 (init + valid)，引擎執行時不會再因設定內容而 panic。
package setting

import (
	"fmt"

	"github.com/zintix-labs/categorical/errs"
)

// WeightKind 權重型別
type WeightKind string

const (
	WeightExact WeightKind = "exact" // *big.Rat
	WeightFloat WeightKind = "float" // float64
)

// BackendKind 分布後端
type BackendKind string

const (
	BackendDense   BackendKind = "dense"
	BackendHash    BackendKind = "hash"
	BackendOrdered BackendKind = "ordered"
)

func (b BackendKind) valid() bool {
	switch b {
	case BackendDense, BackendHash, BackendOrdered:
		return true
	}
	return false
}

// PipelineSetting 一份完整的組合流程設定。
type PipelineSetting struct {
	Name          string        `yaml:"name"          json:"name"`
	Weight        WeightKind    `yaml:"weight"        json:"weight"`
	Distributions []DistSetting `yaml:"distributions" json:"distributions"`
	Steps         []StepSetting `yaml:"steps"         json:"steps"`
	Queries       []Query       `yaml:"queries"       json:"queries"`
	Outputs       []string      `yaml:"outputs"       json:"outputs"`
}

// Query 查詢 Dist 中 Category 的機率
type Query struct {
	Dist     string `yaml:"dist"     json:"dist"`
	Category int64  `yaml:"category" json:"category"`
}

// init 補預設值後執行檢查
func (ps *PipelineSetting) init() error {
	if ps.Weight == "" {
		ps.Weight = WeightExact
	}
	for i := range ps.Distributions {
		ps.Distributions[i].init()
	}
	for i := range ps.Steps {
		ps.Steps[i].init()
	}
	if len(ps.Outputs) == 0 {
		ps.Outputs = ps.defaultOutputs()
	}
	return ps.valid()
}

// 沒有指定輸出時：有步驟就輸出所有步驟，否則輸出所有起始分布
func (ps *PipelineSetting) defaultOutputs() []string {
	out := make([]string, 0, len(ps.Steps))
	for _, s := range ps.Steps {
		out = append(out, s.Name)
	}
	if len(out) > 0 {
		return out
	}
	for _, d := range ps.Distributions {
		out = append(out, d.Name)
	}
	return out
}

func (ps *PipelineSetting) valid() error {
	if ps.Name == "" {
		return errs.NewWarn("pipeline name is required")
	}
	if ps.Weight != WeightExact && ps.Weight != WeightFloat {
		return errs.Warnf("pipeline %s: unknown weight %q (exact|float)", ps.Name, ps.Weight)
	}
	if len(ps.Distributions) == 0 {
		return errs.Warnf("pipeline %s: empty distributions", ps.Name)
	}

	// 名稱唯一，且步驟只能引用前面出現過的名稱
	defined := make(map[string]bool, len(ps.Distributions)+len(ps.Steps))
	for i := range ps.Distributions {
		d := &ps.Distributions[i]
		if err := d.valid(); err != nil {
			return errs.Wrap(err, "invalid distribution").With(fmt.Sprintf("pipeline=%s", ps.Name))
		}
		if defined[d.Name] {
			return errs.Warnf("pipeline %s: duplicate name %q", ps.Name, d.Name)
		}
		defined[d.Name] = true
	}
	for i := range ps.Steps {
		s := &ps.Steps[i]
		if err := s.valid(); err != nil {
			return errs.Wrap(err, "invalid step").With(fmt.Sprintf("pipeline=%s", ps.Name))
		}
		if defined[s.Name] {
			return errs.Warnf("pipeline %s: duplicate name %q", ps.Name, s.Name)
		}
		for _, ref := range []string{s.Left, s.Right} {
			if !defined[ref] {
				return errs.Warnf("pipeline %s: step %s references undefined %q", ps.Name, s.Name, ref)
			}
		}
		defined[s.Name] = true
	}
	for _, q := range ps.Queries {
		if !defined[q.Dist] {
			return errs.Warnf("pipeline %s: query references undefined %q", ps.Name, q.Dist)
		}
	}
	for _, o := range ps.Outputs {
		if !defined[o] {
			return errs.Warnf("pipeline %s: output references undefined %q", ps.Name, o)
		}
	}
	return nil
}

// Validate 對外提供的檢查入口 (例如直接以程式碼組出 PipelineSetting 時)。
func (ps *PipelineSetting) Validate() error {
	return ps.init()
}
