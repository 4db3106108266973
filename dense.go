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

package categorical

import (
	"fmt"
	"iter"

	"github.com/zintix-labs/categorical/sdk/num"
)

// Dense 不做去重的分布：類別與權重存成兩條平行切片，保留輸入順序與重複。
//
// 若輸入可能含重複類別，且類別可雜湊或可排序，請考慮 Hash 或 Ordered。
type Dense[T, P any] struct {
	ar    num.Arith[P]
	eq    func(a, b T) bool
	cats  []T
	probs []P
}

// NewDense 直接以兩條切片建構；長度不同時 panic。切片內容會被複製。
func NewDense[T comparable, P any](ar num.Arith[P], cats []T, weights []P) *Dense[T, P] {
	if len(cats) != len(weights) {
		panic(fmt.Sprintf("categorical: %d categories but %d weights", len(cats), len(weights)))
	}
	d := &Dense[T, P]{
		ar:    ar,
		eq:    equal[T],
		cats:  make([]T, len(cats)),
		probs: make([]P, len(weights)),
	}
	copy(d.cats, cats)
	for i, w := range weights {
		d.probs[i] = ar.Clone(w)
	}
	return d
}

// CollectDense 直接拆成兩條切片 (unzip)，不合併。
func CollectDense[T comparable, P any](ar num.Arith[P], seq iter.Seq2[T, P]) *Dense[T, P] {
	return collectDense(ar, equal[T], seq)
}

// CollectDenseFunc 給不可比較的類別型別 (例如切片) 使用，由 eq 判斷相等。
func CollectDenseFunc[T, P any](eq func(a, b T) bool) Collector[T, P, *Dense[T, P]] {
	return func(ar num.Arith[P], seq iter.Seq2[T, P]) *Dense[T, P] {
		return collectDense(ar, eq, seq)
	}
}

func collectDense[T, P any](ar num.Arith[P], eq func(a, b T) bool, seq iter.Seq2[T, P]) *Dense[T, P] {
	d := &Dense[T, P]{ar: ar, eq: eq}
	for t, p := range seq {
		d.cats = append(d.cats, t)
		d.probs = append(d.probs, ar.Clone(p))
	}
	return d
}

func equal[T comparable](a, b T) bool { return a == b }

func (d *Dense[T, P]) Arith() num.Arith[P] { return d.ar }

func (d *Dense[T, P]) Len() int { return len(d.cats) }

// All 依插入順序迭代。
func (d *Dense[T, P]) All() iter.Seq2[T, P] {
	return func(yield func(T, P) bool) {
		for i, t := range d.cats {
			if !yield(t, d.probs[i]) {
				return
			}
		}
	}
}

func (d *Dense[T, P]) Weights() iter.Seq[*P] {
	return func(yield func(*P) bool) {
		for i := range d.probs {
			if !yield(&d.probs[i]) {
				return
			}
		}
	}
}

// ProbabilityOf 線性掃描並加總所有等於 x 的條目；沒有相符條目時回傳 Zero()。
//
// 這是與 Hash / Ordered 唯一可觀察到的行為差異：那兩者在 x 不存在時 panic。
func (d *Dense[T, P]) ProbabilityOf(x T) P {
	sum := d.ar.Zero()
	for i, t := range d.cats {
		if d.eq(t, x) {
			d.ar.AddAssign(&sum, d.probs[i])
		}
	}
	return sum
}

// NormalizeInPlace 見套件函數 NormalizeInPlace；回傳自身以便串接。
func (d *Dense[T, P]) NormalizeInPlace() *Dense[T, P] {
	NormalizeInPlace[T, P](d)
	return d
}
