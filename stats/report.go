package stats

// Report 一次 pipeline 執行的完整結果
type Report struct {
	Pipeline string        `json:"Pipeline"`
	Weight   string        `json:"Weight"`
	Steps    int           `json:"Steps"`
	Dists    []*DistReport `json:"Dists"`
	Queries  []QueryReport `json:"Queries,omitempty"`
}

// DistReport 單一輸出分布。Entries 依分布本身的迭代順序排列。
type DistReport struct {
	Name    string  `json:"Name"`
	Backend string  `json:"Backend"`
	Entries []Entry `json:"Entries"`
	Summary Summary `json:"Summary"`
}

// Entry 一個 (類別, 權重)。Weight 為權重原文 (exact 時為 "a/b")，Prob 為其 float64 值。
type Entry struct {
	Category int64   `json:"Category"`
	Weight   string  `json:"Weight"`
	Prob     float64 `json:"Prob"`
}

// QueryReport 查詢結果。Found=false 代表類別不在分布中，此時權重為零。
type QueryReport struct {
	Dist     string  `json:"Dist"`
	Category int64   `json:"Category"`
	Weight   string  `json:"Weight"`
	Prob     float64 `json:"Prob"`
	Found    bool    `json:"Found"`
}

// Dist 依名稱取得輸出分布，找不到回傳 nil
func (r *Report) Dist(name string) *DistReport {
	for _, d := range r.Dists {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// Entry 依類別取得項目
func (d *DistReport) Entry(category int64) (Entry, bool) {
	for _, e := range d.Entries {
		if e.Category == category {
			return e, true
		}
	}
	return Entry{}, false
}

// NewDistReport 由項目建立報告並計算摘要
func NewDistReport(name, backend string, entries []Entry) *DistReport {
	xs := make([]float64, len(entries))
	ps := make([]float64, len(entries))
	for i, e := range entries {
		xs[i] = float64(e.Category)
		ps[i] = e.Prob
	}
	return &DistReport{
		Name:    name,
		Backend: backend,
		Entries: entries,
		Summary: Summarize(xs, ps),
	}
}
