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

package setting

import "github.com/zintix-labs/categorical/errs"

// StepSetting 一個 Combine 步驟：Name = Op(Left, Right)，輸出後端為 Backend。
//
// Op 是否存在由引擎依 combiner registry 檢查；這裡只檢查結構。
type StepSetting struct {
	Name      string      `yaml:"name"      json:"name"`
	Left      string      `yaml:"left"      json:"left"`
	Right     string      `yaml:"right"     json:"right"`
	Op        string      `yaml:"op"        json:"op"`
	Backend   BackendKind `yaml:"backend"   json:"backend"`
	Normalize bool        `yaml:"normalize" json:"normalize"`
}

func (s *StepSetting) init() {
	if s.Backend == "" {
		s.Backend = BackendHash
	}
}

func (s *StepSetting) valid() error {
	if s.Name == "" {
		return errs.NewWarn("step name is required")
	}
	if s.Left == "" || s.Right == "" {
		return errs.Warnf("step %s: left and right are required", s.Name)
	}
	if s.Op == "" {
		return errs.Warnf("step %s: op is required", s.Name)
	}
	if !s.Backend.valid() {
		return errs.Warnf("step %s: unknown backend %q (dense|hash|ordered)", s.Name, s.Backend)
	}
	return nil
}
