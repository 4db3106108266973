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

package engine

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"github.com/zintix-labs/categorical"
	"github.com/zintix-labs/categorical/errs"
	"github.com/zintix-labs/categorical/sdk/num"
	"github.com/zintix-labs/categorical/setting"
	"github.com/zintix-labs/categorical/stats"
)

// dist 以 int64 為類別的分布，引擎內一律以介面持有
type dist[P any] = categorical.Categorical[int64, P]

type node[P any] struct {
	backend setting.BackendKind
	dist    dist[P]
}

func run[P any](ctx context.Context, e *Engine, field num.Field[P], ps *setting.PipelineSetting, prog Progress) (*stats.Report, error) {
	nodes := make(map[string]*node[P], len(ps.Distributions)+len(ps.Steps))

	for i := range ps.Distributions {
		d := &ps.Distributions[i]
		n, err := buildDist(field, d)
		if err != nil {
			return nil, errs.Wrap(err, "build distribution failed").With(fmt.Sprintf("pipeline=%s, dist=%s", ps.Name, d.Name))
		}
		nodes[d.Name] = n
	}

	for i := range ps.Steps {
		s := &ps.Steps[i]
		if err := ctx.Err(); err != nil {
			return nil, errs.WrapWarn(err, "pipeline canceled/timeout").With(fmt.Sprintf("pipeline=%s, step=%s", ps.Name, s.Name))
		}
		op, err := e.reg.Get(s.Op)
		if err != nil {
			return nil, errs.Wrap(err, "invalid step").With(fmt.Sprintf("pipeline=%s, step=%s", ps.Name, s.Name))
		}
		l, r := nodes[s.Left], nodes[s.Right]
		c := categorical.Combine[int64, int64, int64, P, dist[P]](l.dist, r.dist, op, collector[P](s.Backend))
		if s.Normalize {
			if err := normalize(field, c); err != nil {
				return nil, errs.Wrap(err, "normalize step failed").With(fmt.Sprintf("pipeline=%s, step=%s", ps.Name, s.Name))
			}
		}
		nodes[s.Name] = &node[P]{backend: s.Backend, dist: c}

		e.log.Debug("step done",
			slog.String("pipeline", ps.Name),
			slog.String("step", s.Name),
			slog.String("op", s.Op),
			slog.Int("in", l.dist.Len()*r.dist.Len()),
			slog.Int("out", c.Len()),
		)
		if prog != nil {
			prog.Increment()
		}
	}

	rep := &stats.Report{
		Pipeline: ps.Name,
		Weight:   field.Name(),
		Steps:    len(ps.Steps),
		Dists:    make([]*stats.DistReport, 0, len(ps.Outputs)),
	}
	for _, name := range ps.Outputs {
		n := nodes[name]
		entries := make([]stats.Entry, 0, n.dist.Len())
		for cat, w := range n.dist.All() {
			entries = append(entries, stats.Entry{Category: cat, Weight: field.Format(w), Prob: field.Float64(w)})
		}
		rep.Dists = append(rep.Dists, stats.NewDistReport(name, string(n.backend), entries))
	}
	for _, q := range ps.Queries {
		w, found := lookup(nodes[q.Dist].dist, q.Category)
		if !found {
			w = field.Zero()
		}
		rep.Queries = append(rep.Queries, stats.QueryReport{
			Dist:     q.Dist,
			Category: q.Category,
			Weight:   field.Format(w),
			Prob:     field.Float64(w),
			Found:    found,
		})
	}
	return rep, nil
}

// collector 依後端選擇合併策略，回傳值統一抹成介面
func collector[P any](b setting.BackendKind) categorical.Collector[int64, P, dist[P]] {
	switch b {
	case setting.BackendDense:
		return func(ar num.Arith[P], seq iter.Seq2[int64, P]) dist[P] {
			return categorical.CollectDense(ar, seq)
		}
	case setting.BackendOrdered:
		return func(ar num.Arith[P], seq iter.Seq2[int64, P]) dist[P] {
			return categorical.CollectOrdered(ar, seq)
		}
	default:
		return func(ar num.Arith[P], seq iter.Seq2[int64, P]) dist[P] {
			return categorical.CollectHash(ar, seq)
		}
	}
}

func buildDist[P any](field num.Field[P], d *setting.DistSetting) (*node[P], error) {
	collect := collector[P](d.Backend)
	if len(d.Uniform) > 0 {
		c := categorical.Uniform[int64, P, dist[P]](field, slices.Values(d.Uniform), collect)
		return &node[P]{backend: d.Backend, dist: c}, nil
	}

	pairs := make([]categorical.Pair[int64, P], 0, len(d.Pairs))
	for _, p := range d.Pairs {
		w, err := field.Parse(string(p.Weight))
		if err != nil {
			return nil, errs.Wrap(err, "parse weight failed").With(fmt.Sprintf("category=%d", p.Category))
		}
		pairs = append(pairs, categorical.Pair[int64, P]{Category: p.Category, Weight: w})
	}
	c := collect(field, categorical.FromPairs(pairs))
	if d.Normalize {
		if err := normalize(field, c); err != nil {
			return nil, err
		}
	}
	return &node[P]{backend: d.Backend, dist: c}, nil
}

// normalize 先檢查零總和，避免核心 panic
func normalize[P any](ar num.Arith[P], c dist[P]) error {
	if ar.IsZero(categorical.Total(c)) {
		return errs.NewWarn("cannot normalize, total weight is zero")
	}
	categorical.NormalizeInPlace(c)
	return nil
}

// lookup Hash / Ordered 走 Lookup；Dense 沒有 Lookup，掃描判斷是否存在後以 ProbabilityOf 加總。
func lookup[P any](c dist[P], x int64) (P, bool) {
	if l, ok := c.(interface{ Lookup(int64) (P, bool) }); ok {
		return l.Lookup(x)
	}
	for cat := range c.All() {
		if cat == x {
			return c.ProbabilityOf(x), true
		}
	}
	var zero P
	return zero, false
}
