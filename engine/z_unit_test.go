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

package engine_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/zintix-labs/categorical/demo/demo_configs"
	"github.com/zintix-labs/categorical/engine"
	"github.com/zintix-labs/categorical/errs"
	"github.com/zintix-labs/categorical/sdk/combiner"
	"github.com/zintix-labs/categorical/setting"
	"github.com/zintix-labs/categorical/stats"
)

type counter struct{ n int }

func (c *counter) Increment() { c.n++ }

func newEngine() *engine.Engine {
	return engine.New(combiner.Default(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func demo(t *testing.T, name string) *setting.PipelineSetting {
	t.Helper()
	all, err := setting.LoadFS(demo_configs.FS)
	if err != nil {
		t.Fatalf("load demos: %v", err)
	}
	ps, ok := all[name]
	if !ok {
		t.Fatalf("demo %s missing", name)
	}
	return ps
}

func query(t *testing.T, r *stats.Report, dist string, cat int64) stats.QueryReport {
	t.Helper()
	for _, q := range r.Queries {
		if q.Dist == dist && q.Category == cat {
			return q
		}
	}
	t.Fatalf("query %s=%d missing", dist, cat)
	return stats.QueryReport{}
}

func TestRunDice(t *testing.T) {
	c := &counter{}
	rep, err := newEngine().Run(context.Background(), demo(t, "double_vs_single"), c)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if c.n != 2 {
		t.Fatalf("progress want 2 got %d", c.n)
	}
	if rep.Weight != "exact" || rep.Steps != 2 {
		t.Fatalf("unexpected header %+v", rep)
	}

	if q := query(t, rep, "double_wins", 0); q.Weight != "91/216" || !q.Found {
		t.Fatalf("P(single >= max of two) want 91/216 got %+v", q)
	}
	if q := query(t, rep, "double_wins", 1); q.Weight != "125/216" {
		t.Fatalf("P(max of two > single) want 125/216 got %+v", q)
	}

	max2 := rep.Dist("max2")
	if max2 == nil || max2.Backend != "ordered" || len(max2.Entries) != 6 {
		t.Fatalf("max2 report wrong: %+v", max2)
	}
	for i, e := range max2.Entries {
		if e.Category != int64(i+1) {
			t.Fatalf("ordered backend should ascend, got %v at %d", e.Category, i)
		}
	}
	if e, _ := max2.Entry(6); e.Weight != "11/36" {
		t.Fatalf("P(max=6) want 11/36 got %s", e.Weight)
	}
	if math.Abs(max2.Summary.Total-1) > 1e-12 {
		t.Fatalf("max2 total want 1 got %v", max2.Summary.Total)
	}
	// E[max] = 161/36
	if math.Abs(max2.Summary.Mean-161.0/36.0) > 1e-12 {
		t.Fatalf("E[max2] want 161/36 got %v", max2.Summary.Mean)
	}
}

func TestRunCoinsFloat(t *testing.T) {
	rep, err := newEngine().Run(context.Background(), demo(t, "three_coins"), nil)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if rep.Weight != "float" {
		t.Fatalf("weight want float got %s", rep.Weight)
	}
	if q := query(t, rep, "three", 2); !q.Found || q.Prob != 0.375 {
		t.Fatalf("P(2 heads) want 0.375 got %+v", q)
	}
	if q := query(t, rep, "three", 4); q.Found || q.Prob != 0 || q.Weight != "0" {
		t.Fatalf("absent category should report zero, got %+v", q)
	}
	three := rep.Dist("three")
	if len(three.Entries) != 4 || math.Abs(three.Summary.Mean-1.5) > 1e-12 || math.Abs(three.Summary.Variance-0.75) > 1e-12 {
		t.Fatalf("three coins summary wrong: %+v", three.Summary)
	}
}

func TestRunLoadedDie(t *testing.T) {
	rep, err := newEngine().Run(context.Background(), demo(t, "loaded_vs_fair"), nil)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if q := query(t, rep, "gap", 0); q.Weight != "1/6" {
		t.Fatalf("P(gap=0) want 1/6 got %+v", q)
	}
	if q := query(t, rep, "loaded_wins", 1); q.Weight != "25/48" {
		t.Fatalf("P(loaded > fair) want 25/48 got %+v", q)
	}
	// 沒有指定 outputs => 所有步驟
	if len(rep.Dists) != 2 || rep.Dists[0].Name != "gap" || rep.Dists[1].Backend != "hash" {
		t.Fatalf("default outputs wrong: %+v", rep.Dists)
	}
}

func TestRunDenseKeepsDuplicates(t *testing.T) {
	ps := &setting.PipelineSetting{
		Name: "dense_sum",
		Distributions: []setting.DistSetting{
			{Name: "coin", Backend: setting.BackendDense, Uniform: []int64{0, 1}},
		},
		Steps: []setting.StepSetting{
			{Name: "two", Left: "coin", Right: "coin", Op: "add", Backend: setting.BackendDense},
		},
		Queries: []setting.Query{{Dist: "two", Category: 1}, {Dist: "two", Category: 5}},
	}
	rep, err := newEngine().Run(context.Background(), ps, nil)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if n := len(rep.Dist("two").Entries); n != 4 {
		t.Fatalf("dense output should keep all 4 products, got %d", n)
	}
	if q := query(t, rep, "two", 1); q.Weight != "1/2" || !q.Found {
		t.Fatalf("dense query should sum duplicates, got %+v", q)
	}
	if q := query(t, rep, "two", 5); q.Found || q.Weight != "0" {
		t.Fatalf("dense absent should be zero, got %+v", q)
	}
}

func TestRunErrors(t *testing.T) {
	e := newEngine()

	if _, err := e.Run(context.Background(), nil, nil); errs.Level(err) != errs.Warn {
		t.Fatalf("nil setting should warn, got %v", err)
	}

	unknownOp := &setting.PipelineSetting{
		Name:          "bad_op",
		Distributions: []setting.DistSetting{{Name: "d", Uniform: []int64{1, 2}}},
		Steps:         []setting.StepSetting{{Name: "s", Left: "d", Right: "d", Op: "pow"}},
	}
	if _, err := e.Run(context.Background(), unknownOp, nil); errs.Level(err) != errs.Warn {
		t.Fatalf("unknown op should warn, got %v", err)
	}

	// 步驟結果總和為零時不可正規化
	zeroStep := &setting.PipelineSetting{
		Name: "zero_step",
		Distributions: []setting.DistSetting{
			{Name: "d", Pairs: []setting.PairSetting{{Category: 1, Weight: "0"}}},
		},
		Steps: []setting.StepSetting{{Name: "s", Left: "d", Right: "d", Op: "add", Normalize: true}},
	}
	if _, err := e.Run(context.Background(), zeroStep, nil); errs.Level(err) != errs.Warn {
		t.Fatalf("zero-total normalize should warn, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Run(ctx, demo(t, "double_vs_single"), nil)
	if errs.Level(err) != errs.Warn || !errors.Is(err, context.Canceled) {
		t.Fatalf("canceled ctx should warn and wrap context.Canceled, got %v", err)
	}
}

func TestRunRecoversPanic(t *testing.T) {
	reg := combiner.NewRegistry()
	if err := reg.Register("boom", func(a, b int64) int64 { panic("boom") }); err != nil {
		t.Fatalf("register: %v", err)
	}
	e := engine.New(reg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ps := &setting.PipelineSetting{
		Name:          "panics",
		Distributions: []setting.DistSetting{{Name: "d", Uniform: []int64{1}}},
		Steps:         []setting.StepSetting{{Name: "s", Left: "d", Right: "d", Op: "boom"}},
	}
	rep, err := e.Run(context.Background(), ps, nil)
	if rep != nil || errs.Level(err) != errs.Fatal {
		t.Fatalf("panic should become fatal, got %v %v", rep, err)
	}
	if got := e.Ops(); len(got) != 1 || got[0] != "boom" {
		t.Fatalf("ops want [boom] got %v", got)
	}
}
