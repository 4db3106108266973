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

// Combine 假設 a、b 獨立，以 f 組合兩者的類別，產生新分布。
//
// 演算法：
//  1. 走訪 a × b 的完整笛卡兒積：外層依 a.All() 順序，內層依 b.All() 順序。
//  2. 每一對 (ta, wa)、(tb, wb) 產生 (f(ta, tb), wa*wb)。
//  3. 全部交給 collect，依輸出後端的合併策略收斂。
//
// 合併前共有 |a|×|b| 筆；合併後為 f 的相異像的個數。
// 權重運算使用 a.Arith()。
//
// 注意：
//   - 獨立性只是假設，不會驗證。
//   - f 非單射時請選擇會合併的後端 (CollectHash / CollectOrdered)；
//     用 CollectDense 會留下重複類別，條目數與 ProbabilityOf 仍正確，但不再是一個類別一個權重。
//   - 記憶體為 O(|a|×|b|)，呼叫端需避免過大的乘積。
func Combine[T1, T2, T, P any, C Categorical[T, P]](
	a Categorical[T1, P],
	b Categorical[T2, P],
	f func(T1, T2) T,
	collect Collector[T, P, C],
) C {
	ar := a.Arith()
	return collect(ar, product(ar, a, b, f))
}

// product 惰性產生笛卡兒積，不先整批配置中間切片。
func product[T1, T2, T, P any](ar num.Arith[P], a Categorical[T1, P], b Categorical[T2, P], f func(T1, T2) T) iter.Seq2[T, P] {
	return func(yield func(T, P) bool) {
		for t1, p1 := range a.All() {
			for t2, p2 := range b.All() {
				if !yield(f(t1, t2), ar.Mul(p1, p2)) {
					return
				}
			}
		}
	}
}
