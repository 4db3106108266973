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
	"cmp"
	"iter"

	"github.com/google/btree"
	"github.com/zintix-labs/categorical/sdk/num"
)

const btreeDegree = 16

// Ordered 以排序去重的分布，目前以 B-tree 實作。
//
// 合併與查詢語意同 Hash，但只需要類別具備全序 (不需雜湊)，
// 並保證依類別遞增順序迭代；需要可重現的輸出順序時請選它。
type Ordered[T, P any] struct {
	ar   num.Arith[P]
	tree *btree.BTreeG[*entry[T, P]]
}

// entry 為 B-tree 節點上的條目；以指標存放，權重才能就地修改。
type entry[T, P any] struct {
	cat T
	w   P
}

// CollectOrdered 用於 cmp.Ordered 的類別 (整數、浮點、字串...)。
func CollectOrdered[T cmp.Ordered, P any](ar num.Arith[P], seq iter.Seq2[T, P]) *Ordered[T, P] {
	return collectOrdered(ar, cmp.Compare[T], seq)
}

// CollectOrderedFunc 以自訂比較函數 (回傳 <0 / 0 / >0) 建構。
// compare 必須是全序，回傳 0 的兩個類別視為同一類別。
func CollectOrderedFunc[T, P any](compare func(a, b T) int) Collector[T, P, *Ordered[T, P]] {
	return func(ar num.Arith[P], seq iter.Seq2[T, P]) *Ordered[T, P] {
		return collectOrdered(ar, compare, seq)
	}
}

func collectOrdered[T, P any](ar num.Arith[P], compare func(a, b T) int, seq iter.Seq2[T, P]) *Ordered[T, P] {
	o := &Ordered[T, P]{
		ar: ar,
		tree: btree.NewG(btreeDegree, func(a, b *entry[T, P]) bool {
			return compare(a.cat, b.cat) < 0
		}),
	}
	for t, p := range seq {
		if e, ok := o.tree.Get(&entry[T, P]{cat: t}); ok {
			ar.AddAssign(&e.w, p)
			continue
		}
		o.tree.ReplaceOrInsert(&entry[T, P]{cat: t, w: ar.Clone(p)})
	}
	return o
}

func (o *Ordered[T, P]) Arith() num.Arith[P] { return o.ar }

func (o *Ordered[T, P]) Len() int { return o.tree.Len() }

// All 依類別遞增順序迭代。
func (o *Ordered[T, P]) All() iter.Seq2[T, P] {
	return func(yield func(T, P) bool) {
		o.tree.Ascend(func(e *entry[T, P]) bool {
			return yield(e.cat, e.w)
		})
	}
}

func (o *Ordered[T, P]) Weights() iter.Seq[*P] {
	return func(yield func(*P) bool) {
		o.tree.Ascend(func(e *entry[T, P]) bool {
			return yield(&e.w)
		})
	}
}

// ProbabilityOf 以鍵查詢；x 不存在時 panic。不想 panic 請用 Lookup。
func (o *Ordered[T, P]) ProbabilityOf(x T) P {
	e, ok := o.tree.Get(&entry[T, P]{cat: x})
	if !ok {
		panic(missing(x))
	}
	return o.ar.Clone(e.w)
}

// Lookup 與 ProbabilityOf 相同，但以 ok 回報是否存在。
func (o *Ordered[T, P]) Lookup(x T) (P, bool) {
	e, ok := o.tree.Get(&entry[T, P]{cat: x})
	if !ok {
		var zero P
		return zero, false
	}
	return o.ar.Clone(e.w), true
}

// NormalizeInPlace 見套件函數 NormalizeInPlace；回傳自身以便串接。
func (o *Ordered[T, P]) NormalizeInPlace() *Ordered[T, P] {
	NormalizeInPlace[T, P](o)
	return o
}
