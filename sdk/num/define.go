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

// Package num 定義機率權重 (weight) 所需的最小數值能力。
//
// 本檔案 (define.go) 定義了權重運算的合約與泛型約束。
//
// 目的：
//   - 分布本身不綁定任何具體數值型別，只依賴 Arith 合約。
//   - 呼叫端可自由選擇 float64、float32、*big.Rat 等實作。
package num

// Floaters 定義所有底層實現為浮點數型別的集合
type Floaters interface {
	~float32 | ~float64
}

// Arith 權重型別 P 的數值能力合約。
//
// 以策略物件 (strategy) 的形式提供，因為 Go 沒有運算子多載：
// 分布在建構時持有一個 Arith，之後所有加乘都透過它完成。
//
// 注意：
//   - Add / Mul / Recip 一律回傳新值，不得改動輸入。
//   - AddAssign / MulAssign 為就地 (in-place) 複合運算，只改動 dst 指向的值。
//   - 對指標型權重 (例如 *big.Rat)，Clone 必須是深拷貝。
type Arith[P any] interface {
	Zero() P               // 加法單位元
	One() P                // 乘法單位元
	Add(x, y P) P          // x + y
	Mul(x, y P) P          // x * y
	Recip(x P) P           // 1 / x，x 為零時行為由實作決定 (panic / Inf / NaN)
	AddAssign(dst *P, x P) // *dst += x
	MulAssign(dst *P, x P) // *dst *= x
	Clone(x P) P           // 複製
	IsZero(x P) bool       // x == 0
}

// Field 在 Arith 之上補足設定檔與報表層需要的編解碼能力。
type Field[P any] interface {
	Arith[P]
	Parse(s string) (P, error) // 由字串解析權重，例如 "0.25"、"1/6"
	Format(x P) string         // 權重轉字串 (可再被 Parse 還原)
	Float64(x P) float64       // 轉為 float64，供統計與顯示使用
	Name() string              // 型別名稱，例如 "float"、"exact"
}
