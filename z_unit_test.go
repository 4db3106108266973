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

package categorical_test

import (
	"cmp"
	"iter"
	"math"
	"math/big"
	"slices"
	"strings"
	"testing"

	"github.com/zintix-labs/categorical"
	"github.com/zintix-labs/categorical/sdk/num"
)

// -----------------------------------------------------------------------------
// Helper Functions
// -----------------------------------------------------------------------------

type f64 = num.Float[float64]

const eps = 1e-12

// assertPanic 驗證函數是否如預期觸發 panic
func assertPanic(t *testing.T, f func(), msg string) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic for %s, but got none", msg)
		}
	}()
	f()
}

func near(a, b float64) bool { return math.Abs(a-b) <= eps }

func dieSeq() iter.Seq[int] { return slices.Values([]int{1, 2, 3, 4, 5, 6}) }

func maxInt(a, b int) int { return max(a, b) }

// backends 讓同一組性質在三種後端上都跑一次
type builder func(pairs []categorical.Pair[int, float64]) categorical.Categorical[int, float64]

func backends() map[string]builder {
	return map[string]builder{
		"dense": func(p []categorical.Pair[int, float64]) categorical.Categorical[int, float64] {
			return categorical.CollectDense(f64{}, categorical.FromPairs(p))
		},
		"hash": func(p []categorical.Pair[int, float64]) categorical.Categorical[int, float64] {
			return categorical.CollectHash(f64{}, categorical.FromPairs(p))
		},
		"ordered": func(p []categorical.Pair[int, float64]) categorical.Categorical[int, float64] {
			return categorical.CollectOrdered(f64{}, categorical.FromPairs(p))
		},
	}
}

func pairs(ws ...float64) []categorical.Pair[int, float64] {
	out := make([]categorical.Pair[int, float64], len(ws))
	for i, w := range ws {
		out[i] = categorical.Pair[int, float64]{Category: i + 1, Weight: w}
	}
	return out
}

// -----------------------------------------------------------------------------
// Uniform / Normalize
// -----------------------------------------------------------------------------

// TestUniformSumsToOne 均勻建構後權重總和為 1
func TestUniformSumsToOne(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 100} {
		cats := make([]int, n)
		for i := range cats {
			cats[i] = i
		}
		d := categorical.Uniform(f64{}, slices.Values(cats), categorical.CollectDense[int, float64])
		h := categorical.Uniform(f64{}, slices.Values(cats), categorical.CollectHash[int, float64])
		o := categorical.Uniform(f64{}, slices.Values(cats), categorical.CollectOrdered[int, float64])
		for name, got := range map[string]float64{
			"dense":   categorical.Total[int, float64](d),
			"hash":    categorical.Total[int, float64](h),
			"ordered": categorical.Total[int, float64](o),
		} {
			if !near(got, 1) {
				t.Fatalf("[%s n=%d] uniform total want 1 got %.17g", name, n, got)
			}
		}
		if !near(h.ProbabilityOf(0), 1/float64(n)) {
			t.Fatalf("n=%d uniform weight want %v got %v", n, 1/float64(n), h.ProbabilityOf(0))
		}
	}
}

// TestUniformExact 以有理數建構時總和剛好為 1
func TestUniformExact(t *testing.T) {
	die := categorical.Uniform(num.Rat{}, dieSeq(), categorical.CollectHash[int, *big.Rat])
	if total := categorical.Total[int, *big.Rat](die); total.Cmp(big.NewRat(1, 1)) != 0 {
		t.Fatalf("exact uniform total want 1 got %s", total.RatString())
	}
	if p := die.ProbabilityOf(3); p.Cmp(big.NewRat(1, 6)) != 0 {
		t.Fatalf("want 1/6 got %s", p.RatString())
	}
}

// TestUniformDuplicatesFollowMergePolicy 重複類別交給合併策略處理
func TestUniformDuplicatesFollowMergePolicy(t *testing.T) {
	in := []string{"a", "b", "a", "c"}
	h := categorical.Uniform(f64{}, slices.Values(in), categorical.CollectHash[string, float64])
	if h.Len() != 3 {
		t.Fatalf("hash should merge duplicates, len=%d", h.Len())
	}
	if !near(h.ProbabilityOf("a"), 0.5) {
		t.Fatalf("hash a want 0.5 got %v", h.ProbabilityOf("a"))
	}
	d := categorical.Uniform(f64{}, slices.Values(in), categorical.CollectDense[string, float64])
	if d.Len() != 4 {
		t.Fatalf("dense should keep duplicates, len=%d", d.Len())
	}
	if !near(d.ProbabilityOf("a"), 0.5) {
		t.Fatalf("dense a want 0.5 got %v", d.ProbabilityOf("a"))
	}
}

// TestNormalizeIdempotent 正規化後總和為 1，再正規化一次結果不變
func TestNormalizeIdempotent(t *testing.T) {
	for name, build := range backends() {
		c := build(pairs(3, 1, 4, 1, 5))
		categorical.NormalizeInPlace(c)
		if got := categorical.Total(c); !near(got, 1) {
			t.Fatalf("[%s] normalized total want 1 got %v", name, got)
		}
		if !near(c.ProbabilityOf(3), 4.0/14.0) {
			t.Fatalf("[%s] ratio not preserved: %v", name, c.ProbabilityOf(3))
		}
		before := categorical.IntoPairs(c)
		categorical.NormalizeInPlace(c)
		after := categorical.IntoPairs(c)
		for i := range before {
			if !near(before[i].Weight, after[i].Weight) || before[i].Category != after[i].Category {
				t.Fatalf("[%s] second normalize changed entry %d: %v -> %v", name, i, before[i], after[i])
			}
		}
	}
}

// TestNormalizeChaining 各後端的方法版本回傳自身
func TestNormalizeChaining(t *testing.T) {
	h := categorical.CollectHash(f64{}, categorical.FromPairs(pairs(1, 1)))
	if h.NormalizeInPlace() != h {
		t.Fatalf("hash NormalizeInPlace should return itself")
	}
	o := categorical.CollectOrdered(f64{}, categorical.FromPairs(pairs(1, 3)))
	if got := o.NormalizeInPlace().ProbabilityOf(2); !near(got, 0.75) {
		t.Fatalf("ordered chained normalize want 0.75 got %v", got)
	}
	d := categorical.CollectDense(f64{}, categorical.FromPairs(pairs(2, 2)))
	if got := d.NormalizeInPlace().ProbabilityOf(1); !near(got, 0.5) {
		t.Fatalf("dense chained normalize want 0.5 got %v", got)
	}
}

// TestNormalizeZeroTotalPanics 總和為零時直接 panic
func TestNormalizeZeroTotalPanics(t *testing.T) {
	for name, build := range backends() {
		c := build(pairs(0, 0))
		assertPanic(t, func() { categorical.NormalizeInPlace(c) }, name+" zero total")
	}
	assertPanic(t, func() {
		categorical.Uniform(f64{}, slices.Values([]int{}), categorical.CollectHash[int, float64])
	}, "uniform over empty input")
	assertPanic(t, func() {
		empty := categorical.CollectHash(num.Rat{}, categorical.FromPairs([]categorical.Pair[int, *big.Rat]{}))
		empty.NormalizeInPlace()
	}, "exact zero total")
}

// -----------------------------------------------------------------------------
// Build / Lookup
// -----------------------------------------------------------------------------

// TestDuplicateMerge 同一類別出現兩次，去重後端回傳 p1+p2
func TestDuplicateMerge(t *testing.T) {
	in := []categorical.Pair[string, float64]{
		{Category: "x", Weight: 0.25},
		{Category: "y", Weight: 0.5},
		{Category: "x", Weight: 0.125},
	}
	h := categorical.CollectHash(f64{}, categorical.FromPairs(in))
	o := categorical.CollectOrdered(f64{}, categorical.FromPairs(in))
	if !near(h.ProbabilityOf("x"), 0.375) || !near(o.ProbabilityOf("x"), 0.375) {
		t.Fatalf("merged weight want 0.375 got hash=%v ordered=%v", h.ProbabilityOf("x"), o.ProbabilityOf("x"))
	}
	if h.Len() != 2 || o.Len() != 2 {
		t.Fatalf("dedup backends should hold 2 entries, got %d/%d", h.Len(), o.Len())
	}
	d := categorical.CollectDense(f64{}, categorical.FromPairs(in))
	if d.Len() != 3 {
		t.Fatalf("dense should hold 3 entries, got %d", d.Len())
	}
	if !near(d.ProbabilityOf("x"), 0.375) {
		t.Fatalf("dense sums matches, want 0.375 got %v", d.ProbabilityOf("x"))
	}
}

// TestMergeDoesNotAliasInput 收集時會複製權重，呼叫端的 *big.Rat 不被改動
func TestMergeDoesNotAliasInput(t *testing.T) {
	shared := big.NewRat(1, 4)
	in := []categorical.Pair[int, *big.Rat]{{Category: 1, Weight: shared}, {Category: 1, Weight: shared}}
	h := categorical.CollectHash(num.Rat{}, categorical.FromPairs(in))
	if h.ProbabilityOf(1).Cmp(big.NewRat(1, 2)) != 0 {
		t.Fatalf("want 1/2 got %s", h.ProbabilityOf(1).RatString())
	}
	if shared.Cmp(big.NewRat(1, 4)) != 0 {
		t.Fatalf("input weight mutated to %s", shared.RatString())
	}
	// 查詢結果是複本
	p := h.ProbabilityOf(1)
	p.SetInt64(9)
	if h.ProbabilityOf(1).Cmp(big.NewRat(1, 2)) != 0 {
		t.Fatalf("ProbabilityOf must return a copy")
	}
}

// TestAbsentCategory 不存在的類別：Dense 回 0，Hash/Ordered panic
func TestAbsentCategory(t *testing.T) {
	b := backends()
	d := b["dense"](pairs(1, 2))
	if got := d.ProbabilityOf(42); got != 0 {
		t.Fatalf("dense absent want 0 got %v", got)
	}
	assertPanic(t, func() { b["hash"](pairs(1, 2)).ProbabilityOf(42) }, "hash absent")
	assertPanic(t, func() { b["ordered"](pairs(1, 2)).ProbabilityOf(42) }, "ordered absent")

	h := categorical.CollectHash(f64{}, categorical.FromPairs(pairs(1, 2)))
	if _, ok := h.Lookup(42); ok {
		t.Fatalf("hash Lookup should report absence")
	}
	if w, ok := h.Lookup(2); !ok || w != 2 {
		t.Fatalf("hash Lookup(2) want (2,true) got (%v,%v)", w, ok)
	}
	o := categorical.CollectOrdered(f64{}, categorical.FromPairs(pairs(1, 2)))
	if _, ok := o.Lookup(42); ok {
		t.Fatalf("ordered Lookup should report absence")
	}
}

// TestNewDenseLengthMismatch 類別與權重長度不同時 panic
func TestNewDenseLengthMismatch(t *testing.T) {
	assertPanic(t, func() {
		categorical.NewDense(f64{}, []int{1, 2, 3}, []float64{0.5, 0.5})
	}, "length mismatch")
	d := categorical.NewDense(f64{}, []int{1, 2, 1}, []float64{0.25, 0.5, 0.25})
	if d.Len() != 3 || !near(d.ProbabilityOf(1), 0.5) {
		t.Fatalf("NewDense unexpected content")
	}
}

// TestIterationOrder 三種後端的迭代順序
func TestIterationOrder(t *testing.T) {
	in := []categorical.Pair[int, float64]{{Category: 5, Weight: 1}, {Category: 2, Weight: 1}, {Category: 9, Weight: 1}, {Category: 2, Weight: 1}}

	cats := func(c categorical.Categorical[int, float64]) []int {
		var out []int
		for k := range c.All() {
			out = append(out, k)
		}
		return out
	}
	if got := cats(categorical.CollectDense(f64{}, categorical.FromPairs(in))); !slices.Equal(got, []int{5, 2, 9, 2}) {
		t.Fatalf("dense order %v", got)
	}
	if got := cats(categorical.CollectOrdered(f64{}, categorical.FromPairs(in))); !slices.Equal(got, []int{2, 5, 9}) {
		t.Fatalf("ordered order %v", got)
	}
	h := categorical.CollectHash(f64{}, categorical.FromPairs(in))
	first := cats(h)
	for i := 0; i < 10; i++ {
		if again := cats(h); !slices.Equal(first, again) {
			t.Fatalf("hash order not stable: %v vs %v", first, again)
		}
	}
	if !slices.Equal(first, []int{5, 2, 9}) {
		t.Fatalf("hash order should follow first insertion, got %v", first)
	}

	// 提前中斷迭代
	n := 0
	for range h.All() {
		n++
		break
	}
	if n != 1 {
		t.Fatalf("early break failed")
	}
}

// TestOrderedFunc 自訂比較函數：不分大小寫視為同一類別
func TestOrderedFunc(t *testing.T) {
	fold := func(a, b string) int { return cmp.Compare(strings.ToLower(a), strings.ToLower(b)) }
	in := []categorical.Pair[string, float64]{{Category: "B", Weight: 1}, {Category: "a", Weight: 2}, {Category: "b", Weight: 3}}
	o := categorical.CollectOrderedFunc[string, float64](fold)(f64{}, categorical.FromPairs(in))
	if o.Len() != 2 {
		t.Fatalf("want 2 entries got %d", o.Len())
	}
	if got := o.ProbabilityOf("b"); got != 4 {
		t.Fatalf("case folded b want 4 got %v", got)
	}
	pairs := categorical.IntoPairs(o)
	if pairs[0].Category != "a" || pairs[1].Category != "B" {
		t.Fatalf("order want a, B got %s, %s", pairs[0].Category, pairs[1].Category)
	}
}

// TestDenseFunc 不可比較的類別型別 (切片)
func TestDenseFunc(t *testing.T) {
	in := []categorical.Pair[[]int, float64]{
		{Category: []int{1, 2}, Weight: 0.5},
		{Category: []int{3}, Weight: 0.25},
		{Category: []int{1, 2}, Weight: 0.25},
	}
	d := categorical.CollectDenseFunc[[]int, float64](func(a, b []int) bool { return slices.Equal(a, b) })(f64{}, categorical.FromPairs(in))
	if got := d.ProbabilityOf([]int{1, 2}); !near(got, 0.75) {
		t.Fatalf("want 0.75 got %v", got)
	}
}

// TestWeightsMutation Weights() 可就地修改權重
func TestWeightsMutation(t *testing.T) {
	for name, build := range backends() {
		c := build(pairs(1, 2, 3))
		for p := range c.Weights() {
			*p *= 10
		}
		if got := c.ProbabilityOf(2); got != 20 {
			t.Fatalf("[%s] want 20 got %v", name, got)
		}
	}
}

// -----------------------------------------------------------------------------
// Combine
// -----------------------------------------------------------------------------

// TestCombineInjectiveDense 單射組合 + Dense：|A|×|B| 筆，權重為乘積
func TestCombineInjectiveDense(t *testing.T) {
	a := categorical.CollectDense(f64{}, categorical.FromPairs(pairs(0.2, 0.3, 0.5)))
	b := categorical.CollectHash(f64{}, categorical.FromPairs(pairs(0.6, 0.4)))
	type ab struct{ x, y int }
	c := categorical.Combine(a, b, func(x, y int) ab { return ab{x, y} }, categorical.CollectDense[ab, float64])
	if c.Len() != a.Len()*b.Len() {
		t.Fatalf("want %d entries got %d", a.Len()*b.Len(), c.Len())
	}
	for x, px := range a.All() {
		for y, py := range b.All() {
			if got := c.ProbabilityOf(ab{x, y}); !near(got, px*py) {
				t.Fatalf("P(%d,%d) want %v got %v", x, y, px*py, got)
			}
		}
	}

	// 外層 a、內層 b 的走訪順序
	want := []ab{{1, 1}, {1, 2}, {2, 1}, {2, 2}, {3, 1}, {3, 2}}
	var got []ab
	for k := range c.All() {
		got = append(got, k)
	}
	if !slices.Equal(got, want) {
		t.Fatalf("traversal order want %v got %v", want, got)
	}
}

// TestCombineConstantMerges 所有組合映到同一類別：只剩一筆，權重為 total(A)*total(B)
func TestCombineConstantMerges(t *testing.T) {
	for name, build := range backends() {
		a := build(pairs(1, 2, 3))
		b := build(pairs(0.5, 4))
		want := categorical.Total(a) * categorical.Total(b)
		konst := func(int, int) string { return "same" }

		h := categorical.Combine(a, b, konst, categorical.CollectHash[string, float64])
		o := categorical.Combine(a, b, konst, categorical.CollectOrdered[string, float64])
		if h.Len() != 1 || o.Len() != 1 {
			t.Fatalf("[%s] want a single entry got %d/%d", name, h.Len(), o.Len())
		}
		if !near(h.ProbabilityOf("same"), want) || !near(o.ProbabilityOf("same"), want) {
			t.Fatalf("[%s] want %v got %v/%v", name, want, h.ProbabilityOf("same"), o.ProbabilityOf("same"))
		}
		d := categorical.Combine(a, b, konst, categorical.CollectDense[string, float64])
		if d.Len() != 6 {
			t.Fatalf("[%s] dense keeps %d duplicates, got %d", name, 6, d.Len())
		}
	}
}

// TestDiceGolden 兩顆骰取大 vs 一顆骰：一顆骰不輸 (false) 為 91/216，兩顆骰勝 (true) 為 125/216
func TestDiceGolden(t *testing.T) {
	ar := num.Rat{}
	die := categorical.Uniform(ar, dieSeq(), categorical.CollectHash[int, *big.Rat])
	max2 := categorical.Combine(die, die, maxInt, categorical.CollectHash[int, *big.Rat])
	wins := categorical.Combine(max2, die, func(d, s int) bool { return d > s }, categorical.CollectHash[bool, *big.Rat])

	if got := wins.ProbabilityOf(false); got.Cmp(big.NewRat(91, 216)) != 0 {
		t.Fatalf("exact golden want 91/216 got %s", got.RatString())
	}
	if got := wins.ProbabilityOf(true); got.Cmp(big.NewRat(125, 216)) != 0 {
		t.Fatalf("P(double wins) want 125/216 got %s", got.RatString())
	}
	if got := max2.ProbabilityOf(6); got.Cmp(big.NewRat(11, 36)) != 0 {
		t.Fatalf("P(max=6) want 11/36 got %s", got.RatString())
	}

	// 浮點 + Ordered 後端
	fd := categorical.Uniform(f64{}, dieSeq(), categorical.CollectOrdered[int, float64])
	fm := categorical.Combine(fd, fd, maxInt, categorical.CollectOrdered[int, float64])
	fw := categorical.Combine(fm, fd, func(d, s int) bool { return d > s }, categorical.CollectHash[bool, float64])
	if got := fw.ProbabilityOf(false); !near(got, 91.0/216.0) {
		t.Fatalf("float golden want %v got %v", 91.0/216.0, got)
	}
	if got := fw.ProbabilityOf(true); !near(got, 125.0/216.0) {
		t.Fatalf("float P(double wins) want %v got %v", 125.0/216.0, got)
	}
	if got := fw.ProbabilityOf(true) + fw.ProbabilityOf(false); !near(got, 1) {
		t.Fatalf("outcomes should sum to 1, got %v", got)
	}
}

// TestUnitIdentity Unit 與 D 以 (_, b) -> b 組合後重現 D
func TestUnitIdentity(t *testing.T) {
	d := categorical.CollectOrdered(num.Rat{}, categorical.FromPairs([]categorical.Pair[int, *big.Rat]{
		{Category: 1, Weight: big.NewRat(1, 3)},
		{Category: 4, Weight: big.NewRat(1, 2)},
		{Category: 9, Weight: big.NewRat(1, 6)},
	}))
	u := categorical.Unit(num.Rat{}, categorical.CollectHash[struct{}, *big.Rat])
	if u.Len() != 1 || u.ProbabilityOf(struct{}{}).Cmp(big.NewRat(1, 1)) != 0 {
		t.Fatalf("unit should hold one entry of weight 1")
	}
	got := categorical.Combine(u, d, func(_ struct{}, b int) int { return b }, categorical.CollectOrdered[int, *big.Rat])
	want := categorical.IntoPairs[int, *big.Rat](d)
	have := categorical.IntoPairs[int, *big.Rat](got)
	if len(want) != len(have) {
		t.Fatalf("len want %d got %d", len(want), len(have))
	}
	for i := range want {
		if want[i].Category != have[i].Category || want[i].Weight.Cmp(have[i].Weight) != 0 {
			t.Fatalf("entry %d want %v=%s got %v=%s", i, want[i].Category, want[i].Weight.RatString(), have[i].Category, have[i].Weight.RatString())
		}
	}

	// 換邊也成立，輸出用 Dense
	ud := categorical.Unit(f64{}, categorical.CollectDense[struct{}, float64])
	fd := categorical.CollectHash(f64{}, categorical.FromPairs(pairs(0.1, 0.9)))
	back := categorical.Combine(fd, ud, func(a int, _ struct{}) int { return a }, categorical.CollectDense[int, float64])
	if back.Len() != 2 || back.ProbabilityOf(2) != 0.9 {
		t.Fatalf("right identity failed")
	}
}

// TestCombineDoesNotMutateInputs 組合不改動輸入分布
func TestCombineDoesNotMutateInputs(t *testing.T) {
	a := categorical.Uniform(num.Rat{}, dieSeq(), categorical.CollectHash[int, *big.Rat])
	out := categorical.Combine(a, a, func(x, y int) int { return x + y }, categorical.CollectOrdered[int, *big.Rat])
	out.NormalizeInPlace()
	for p := range out.Weights() {
		(*p).Mul(*p, big.NewRat(100, 1))
	}
	if a.ProbabilityOf(1).Cmp(big.NewRat(1, 6)) != 0 {
		t.Fatalf("input weight changed to %s", a.ProbabilityOf(1).RatString())
	}
	if out.ProbabilityOf(7).Cmp(big.NewRat(600, 36)) != 0 {
		t.Fatalf("P(sum=7)*100 want 50/3 got %s", out.ProbabilityOf(7).RatString())
	}
}
