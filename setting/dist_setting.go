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

import (
	"encoding/json"
	"math/big"
	"strings"

	"github.com/zintix-labs/categorical/errs"
)

// DistSetting 一個起始分布。Uniform 與 Pairs 二擇一。
type DistSetting struct {
	Name      string        `yaml:"name"      json:"name"`
	Backend   BackendKind   `yaml:"backend"   json:"backend"`
	Uniform   []int64       `yaml:"uniform"   json:"uniform"`
	Pairs     []PairSetting `yaml:"pairs"     json:"pairs"`
	Normalize bool          `yaml:"normalize" json:"normalize"`
}

// PairSetting 權重以字串表示，"1/6"、"0.25"、"3" 皆可，解析交給引擎選定的權重型別。
type PairSetting struct {
	Category int64      `yaml:"category" json:"category"`
	Weight   WeightText `yaml:"weight"   json:"weight"`
}

// WeightText 權重原文。JSON 中可寫成字串 ("1/6") 或數字 (0.25)。
type WeightText string

func (w *WeightText) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*w = WeightText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errs.WrapWarn(err, "weight must be a string or a number")
	}
	*w = WeightText(n.String())
	return nil
}

func (d *DistSetting) init() {
	if d.Backend == "" {
		d.Backend = BackendHash
	}
}

func (d *DistSetting) valid() error {
	if d.Name == "" {
		return errs.NewWarn("distribution name is required")
	}
	if !d.Backend.valid() {
		return errs.Warnf("distribution %s: unknown backend %q (dense|hash|ordered)", d.Name, d.Backend)
	}
	hasU, hasP := len(d.Uniform) > 0, len(d.Pairs) > 0
	if hasU == hasP {
		return errs.Warnf("distribution %s: exactly one of uniform / pairs is required", d.Name)
	}
	if hasU {
		return nil
	}

	// 權重在此以有理數檢查，float 與 exact 共用同一套規則
	total := new(big.Rat)
	for _, p := range d.Pairs {
		r, ok := new(big.Rat).SetString(strings.TrimSpace(string(p.Weight)))
		if !ok {
			return errs.Warnf("distribution %s: invalid weight %q for category %d", d.Name, p.Weight, p.Category)
		}
		if r.Sign() < 0 {
			return errs.Warnf("distribution %s: negative weight %q for category %d", d.Name, p.Weight, p.Category)
		}
		total.Add(total, r)
	}
	if d.Normalize && total.Sign() == 0 {
		return errs.Warnf("distribution %s: cannot normalize, total weight is zero", d.Name)
	}
	return nil
}
