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
	"iter"

	"github.com/zintix-labs/categorical/sdk/num"
)

// Hash 以雜湊表去重的分布。
//
// 結構：index 為 類別 -> 位置，cats / probs 為平行切片。
// 直接迭代 Go map 每次順序都不同，因此迭代改走切片：
// 順序為「類別第一次出現的順序」，在實例的生命週期內固定不變。
type Hash[T comparable, P any] struct {
	ar    num.Arith[P]
	index map[T]int
	cats  []T
	probs []P
}

// CollectHash 折疊輸入序列：
//   - 類別第一次出現：插入其權重 (複本)。
//   - 之後再出現：AddAssign 累加到既有權重。
func CollectHash[T comparable, P any](ar num.Arith[P], seq iter.Seq2[T, P]) *Hash[T, P] {
	h := &Hash[T, P]{ar: ar, index: make(map[T]int)}
	for t, p := range seq {
		if i, ok := h.index[t]; ok {
			ar.AddAssign(&h.probs[i], p)
			continue
		}
		h.index[t] = len(h.cats)
		h.cats = append(h.cats, t)
		h.probs = append(h.probs, ar.Clone(p))
	}
	return h
}

func (h *Hash[T, P]) Arith() num.Arith[P] { return h.ar }

func (h *Hash[T, P]) Len() int { return len(h.cats) }

func (h *Hash[T, P]) All() iter.Seq2[T, P] {
	return func(yield func(T, P) bool) {
		for i, t := range h.cats {
			if !yield(t, h.probs[i]) {
				return
			}
		}
	}
}

func (h *Hash[T, P]) Weights() iter.Seq[*P] {
	return func(yield func(*P) bool) {
		for i := range h.probs {
			if !yield(&h.probs[i]) {
				return
			}
		}
	}
}

// ProbabilityOf 以鍵查詢；x 不存在時 panic。不想 panic 請用 Lookup。
func (h *Hash[T, P]) ProbabilityOf(x T) P {
	i, ok := h.index[x]
	if !ok {
		panic(missing(x))
	}
	return h.ar.Clone(h.probs[i])
}

// Lookup 與 ProbabilityOf 相同，但以 ok 回報是否存在。
func (h *Hash[T, P]) Lookup(x T) (P, bool) {
	i, ok := h.index[x]
	if !ok {
		var zero P
		return zero, false
	}
	return h.ar.Clone(h.probs[i]), true
}

// NormalizeInPlace 見套件函數 NormalizeInPlace；回傳自身以便串接。
func (h *Hash[T, P]) NormalizeInPlace() *Hash[T, P] {
	NormalizeInPlace[T, P](h)
	return h
}
