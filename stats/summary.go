package stats

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Summary 一個數值類別分布的摘要。權重不需事先正規化，全部以 Total 為分母。
type Summary struct {
	Total    float64 `json:"Total"`
	Mean     float64 `json:"Mean"`
	Variance float64 `json:"Variance"`
	Std      float64 `json:"Std"`
	Entropy  float64 `json:"Entropy"` // nats
	Median   float64 `json:"Median"`
	Mode     float64 `json:"Mode"`
	Support  int     `json:"Support"` // 權重 > 0 的類別數
}

// Summarize 以類別值 xs 與對應權重 ps 計算摘要。
//
// 注意：
//   - len(xs) != len(ps) 時 panic。
//   - ps 含負值時 panic (distuv.NewCategorical 的前置條件；設定層已拒絕負權重)。
//   - 總權重為零 (或空分布) 時只回傳 Total，其餘欄位為零。
//   - Mode 平手時取類別值最小者。
func Summarize(xs, ps []float64) Summary {
	if len(xs) != len(ps) {
		panic("stats: xs and ps length mismatch")
	}
	if len(ps) > 0 && floats.Min(ps) < 0 {
		panic("stats: negative weight")
	}
	total := floats.Sum(ps)
	s := Summary{Total: total}
	if len(xs) == 0 || total == 0 {
		return s
	}

	// Quantile 需要依 x 排序後的資料
	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		switch {
		case xs[a] < xs[b]:
			return -1
		case xs[a] > xs[b]:
			return 1
		}
		return 0
	})
	sx := make([]float64, len(xs))
	sp := make([]float64, len(ps))
	for i, j := range idx {
		sx[i], sp[i] = xs[j], ps[j]
		if ps[j] > 0 {
			s.Support++
		}
	}

	mean, std := stat.PopMeanStdDev(sx, sp)
	s.Mean = mean
	s.Std = std
	s.Variance = std * std
	s.Median = stat.Quantile(0.5, stat.Empirical, sx, sp)
	s.Mode = sx[floats.MaxIdx(sp)]
	s.Entropy = distuv.NewCategorical(sp, nil).Entropy()
	if math.IsNaN(s.Entropy) {
		s.Entropy = 0
	}
	return s
}
