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

package num

import (
	"math/big"
	"strings"

	"github.com/zintix-labs/categorical/errs"
)

// Rat 以 *big.Rat 作為精確有理數權重。
//
// 每個運算都配置新的 *big.Rat，呼叫端持有的值不會被共用。
// Recip(0) 會 panic (big.Rat.Inv 的行為)。
type Rat struct{}

func (Rat) Zero() *big.Rat { return new(big.Rat) }
func (Rat) One() *big.Rat  { return big.NewRat(1, 1) }

func (Rat) Add(x, y *big.Rat) *big.Rat { return new(big.Rat).Add(x, y) }
func (Rat) Mul(x, y *big.Rat) *big.Rat { return new(big.Rat).Mul(x, y) }
func (Rat) Recip(x *big.Rat) *big.Rat  { return new(big.Rat).Inv(x) }

// AddAssign 就地累加；若 *dst 為 nil 則視為 0。
func (Rat) AddAssign(dst **big.Rat, x *big.Rat) {
	if *dst == nil {
		*dst = new(big.Rat)
	}
	(*dst).Add(*dst, x)
}

func (Rat) MulAssign(dst **big.Rat, x *big.Rat) {
	if *dst == nil {
		*dst = new(big.Rat)
		return
	}
	(*dst).Mul(*dst, x)
}

func (Rat) Clone(x *big.Rat) *big.Rat {
	if x == nil {
		return new(big.Rat)
	}
	return new(big.Rat).Set(x)
}

func (Rat) IsZero(x *big.Rat) bool { return x == nil || x.Sign() == 0 }

func (Rat) Float64(x *big.Rat) float64 {
	if x == nil {
		return 0
	}
	f, _ := x.Float64()
	return f
}

func (Rat) Name() string { return "exact" }

// Parse 接受 "1/6"、"0.25"、"3" 等 big.Rat.SetString 支援的格式。
func (Rat) Parse(s string) (*big.Rat, error) {
	r, ok := new(big.Rat).SetString(strings.TrimSpace(s))
	if !ok {
		return nil, parseErr(s)
	}
	return r, nil
}

// Format 輸出最簡分數；整數不帶分母。
func (Rat) Format(x *big.Rat) string {
	if x == nil {
		return "0"
	}
	return x.RatString()
}

func parseErr(s string) error {
	return errs.Warnf("invalid weight %q", s)
}
