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

package combiner

func b2i(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

var builtins = map[string]Op{
	"add": func(a, b int64) int64 { return a + b },
	"sub": func(a, b int64) int64 { return a - b },
	"mul": func(a, b int64) int64 { return a * b },
	"max": func(a, b int64) int64 { return max(a, b) },
	"min": func(a, b int64) int64 { return min(a, b) },
	"absdiff": func(a, b int64) int64 {
		if a > b {
			return a - b
		}
		return b - a
	},
	"gt": func(a, b int64) int64 { return b2i(a > b) },
	"ge": func(a, b int64) int64 { return b2i(a >= b) },
	"lt": func(a, b int64) int64 { return b2i(a < b) },
	"le": func(a, b int64) int64 { return b2i(a <= b) },
	"eq": func(a, b int64) int64 { return b2i(a == b) },
	"ne": func(a, b int64) int64 { return b2i(a != b) },
	// left / right 只保留一邊，等同邊際化另一邊
	"left":  func(a, _ int64) int64 { return a },
	"right": func(_, b int64) int64 { return b },
}

// Default 回傳包含所有內建運算的新 registry。
func Default() *Registry {
	r := NewRegistry()
	for name, op := range builtins {
		_ = r.Register(name, op)
	}
	return r
}
