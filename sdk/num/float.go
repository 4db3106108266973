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
	"strconv"
	"strings"
)

// Float 以浮點數作為權重。
//
// 零值即可使用：num.Float[float64]{}。
// Recip(0) 依 IEEE 754 回傳 +Inf，不會 panic。
type Float[F Floaters] struct{}

func (Float[F]) Zero() F { return 0 }
func (Float[F]) One() F { return 1 }
func (Float[F]) Add(x, y F) F { return x + y }
func (Float[F]) Mul(x, y F) F { return x * y }
func (Float[F]) Recip(x F) F { return 1 / x }
func (Float[F]) AddAssign(d *F, x F) { *d += x }
func (Float[F]) MulAssign(d *F, x F) { *d *= x }
func (Float[F]) Clone(x F) F { return x }
func (Float[F]) IsZero(x F) bool { return x == 0 }
func (Float[F]) Float64(x F) float64 { return float64(x) }
func (Float[F]) Name() string { return "float" }

// Parse 接受一般小數 ("0.25")、科學記號 ("1e-3") 與分數 ("1/6")。
func (Float[F]) Parse(s string) (F, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "/") {
		r, ok := new(big.Rat).SetString(s)
		if !ok {
			return 0, parseErr(s)
		}
		f, _ := r.Float64()
		return F(f), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, parseErr(s)
	}
	return F(f), nil
}

func (Float[F]) Format(x F) string {
	return strconv.FormatFloat(float64(x), 'g', -1, 64)
}
