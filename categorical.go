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

// Package categorical 提供類別 (離散) 機率分布：一組類別 T，各自對應一個權重 P。
//
// 你可以：
//  1. 由 (類別, 權重) 序列建構分布 (Collector)。
//  2. 就地正規化，使權重總和為 1 (NormalizeInPlace)。
//  3. 查詢某類別的機率 (ProbabilityOf)。
//  4. 假設兩分布獨立，以任意函數組合成新分布 (Combine)。
//
// 三種後端共用同一份合約，差別只在「重複類別」的處理：
//   - Dense  ：兩條平行切片，不合併重複類別。
//   - Hash   ：以 map 索引，重複類別權重相加 (需 comparable)。
//   - Ordered：以 B-tree 索引，合併規則同 Hash，但只需全序且依類別遞增迭代。
//
// 權重型別不綁定：由 num.Arith[P] 提供加法/乘法等能力，float64 與 *big.Rat 皆可。
//
// 範例 (兩顆骰取大 vs 一顆骰)：
//
//	ar := num.Rat{}
//	die := categorical.Uniform(ar, slices.Values([]int{1, 2, 3, 4, 5, 6}), categorical.CollectHash[int, *big.Rat])
//	max2 := categorical.Combine(die, die, func(a, b int) int { return max(a, b) }, categorical.CollectHash[int, *big.Rat])
//	wins := categorical.Combine(max2, die, func(d, s int) bool { return d > s }, categorical.CollectHash[bool, *big.Rat])
//	wins.ProbabilityOf(true)  // 125/216
//	wins.ProbabilityOf(false) // 91/216
//
// 錯誤處理：本套件不回傳 error。所有前置條件都可由呼叫端檢查，違反時直接 panic
// (長度不符、查詢不存在的類別、對總和為零的分布正規化)。
package categorical

import (
	"fmt"
	"iter"

	"github.com/zintix-labs/categorical/sdk/num"
)

// Categorical 描述一個定義在 T 上、權重型別為 P 的類別分布。
//
// 理想上權重總和為 1，但不強制；可用 NormalizeInPlace 重新縮放。
// 實作不保證並行安全，同一個實例請勿跨 goroutine 同時讀寫。
type Categorical[T, P any] interface {
	// Arith 回傳建構時使用的權重運算。
	Arith() num.Arith[P]

	// Len 回傳條目數；Dense 會把重複類別分開計算。
	Len() int

	// All 依後端順序唯讀迭代 (類別, 權重)。
	// 權重若為指標型 (例如 *big.Rat)，呼叫端不可改動其內容。
	All() iter.Seq2[T, P]

	// Weights 迭代權重的指標，供就地縮放使用；類別不會經由此路徑暴露。
	Weights() iter.Seq[*P]

	// ProbabilityOf 回傳類別 x 的權重 (複本)。
	//
	// Hash / Ordered：直接以鍵查詢，x 不存在時 panic。
	// Dense：加總所有相等條目，沒有相符條目時回傳 Zero()，不會 panic。
	ProbabilityOf(x T) P
}

// Pair 一個 (類別, 權重) 條目。
type Pair[T, P any] struct {
	Category T
	Weight   P
}

// Collector 依後端的合併策略，把 (類別, 權重) 序列收斂成分布。
//
// 內建：CollectDense、CollectHash、CollectOrdered，以及可自帶比較函數的
// CollectDenseFunc、CollectOrderedFunc。
type Collector[T, P any, C Categorical[T, P]] func(ar num.Arith[P], seq iter.Seq2[T, P]) C

// Uniform 每個類別先給予 One()，再就地正規化。
//
// 重複類別是合法輸入，處理方式依 collect 的合併策略決定。
// cats 為空時正規化的總和為零，會 panic。
func Uniform[T, P any, C Categorical[T, P]](ar num.Arith[P], cats iter.Seq[T], collect Collector[T, P, C]) C {
	c := collect(ar, func(yield func(T, P) bool) {
		for t := range cats {
			if !yield(t, ar.One()) {
				return
			}
		}
	})
	NormalizeInPlace(c)
	return c
}

// Unit 建立只有單一類別 struct{}{}、權重為 One() 的分布。
// 作為 Combine 的單位元：Combine(Unit, d, func(_ struct{}, b T) T { return b }, ...) 會重現 d。
func Unit[P any, C Categorical[struct{}, P]](ar num.Arith[P], collect Collector[struct{}, P, C]) C {
	return collect(ar, func(yield func(struct{}, P) bool) {
		yield(struct{}{}, ar.One())
	})
}

// Total 以加法從 Zero() 開始折疊所有權重。
func Total[T, P any](c Categorical[T, P]) P {
	ar := c.Arith()
	sum := ar.Zero()
	for _, p := range c.All() {
		ar.AddAssign(&sum, p)
	}
	return sum
}

// NormalizeInPlace 把所有權重乘上 1/總和，使總和為 One()。
//
// 不處理浮點誤差。總和為零時直接 panic，而不是讓 Recip 產生 Inf/NaN 或在 big.Rat 內部 panic。
func NormalizeInPlace[T, P any](c Categorical[T, P]) {
	ar := c.Arith()
	total := Total(c)
	if ar.IsZero(total) {
		panic("categorical: cannot normalize, total weight is zero")
	}
	r := ar.Recip(total)
	for p := range c.Weights() {
		ar.MulAssign(p, r)
	}
}

// IntoPairs 依迭代順序把分布展開成 (類別, 權重) 切片，權重為複本。
func IntoPairs[T, P any](c Categorical[T, P]) []Pair[T, P] {
	ar := c.Arith()
	out := make([]Pair[T, P], 0, c.Len())
	for t, p := range c.All() {
		out = append(out, Pair[T, P]{Category: t, Weight: ar.Clone(p)})
	}
	return out
}

// FromPairs 把切片轉成 Collector 可吃的序列。
func FromPairs[T, P any](pairs []Pair[T, P]) iter.Seq2[T, P] {
	return func(yield func(T, P) bool) {
		for _, pr := range pairs {
			if !yield(pr.Category, pr.Weight) {
				return
			}
		}
	}
}

func missing[T any](x T) string {
	return fmt.Sprintf("categorical: category %v not found", x)
}
