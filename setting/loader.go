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

package setting

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/zintix-labs/categorical/errs"
	"gopkg.in/yaml.v3"
)

// FromYAML
// 會讀取 YAML 設定、補預設值並執行基本檢查後回傳
func FromYAML(data []byte) (*PipelineSetting, error) {
	ps := &PipelineSetting{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(ps); err != nil {
		return nil, errs.WrapWarn(err, "failed to unmarshal yaml")
	}
	if err := ps.init(); err != nil {
		return nil, errs.Wrap(err, "pipeline setting initialized err")
	}
	return ps, nil
}

// FromJSON
// 會讀取 JSON 設定、補預設值並執行基本檢查後回傳
func FromJSON(data []byte) (*PipelineSetting, error) {
	ps := &PipelineSetting{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(ps); err != nil {
		return nil, errs.WrapWarn(err, "failed to unmarshal json")
	}
	if err := ps.init(); err != nil {
		return nil, errs.Wrap(err, "pipeline setting initialized err")
	}
	return ps, nil
}

// FromBytes 依副檔名 (.yaml / .yml / .json) 選擇解析器
func FromBytes(name string, data []byte) (*PipelineSetting, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return nil, errs.Warnf("unsupported setting file %q (.yaml|.yml|.json)", name)
	}
}

// FromFile 讀取本機檔案
func FromFile(path string) (*PipelineSetting, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(err, "read setting file failed").With(path)
	}
	ps, err := FromBytes(path, data)
	if err != nil {
		return nil, errs.Wrap(err, "load setting file failed").With(path)
	}
	return ps, nil
}

// LoadFS 掃描 fsys 中所有設定檔並以 pipeline 名稱為鍵回傳。
//
// 行為特性：
//  1. Fail-fast：任一檔案讀取/解析/檢查失敗立即回傳 error。
//  2. 穩定性：依路徑排序後處理。
//  3. 名稱重複視為錯誤。
func LoadFS(fsys fs.FS) (map[string]*PipelineSetting, error) {
	var paths []string
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml", ".json":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, errs.Wrap(err, "walk setting fs failed")
	}
	slices.Sort(paths)

	out := make(map[string]*PipelineSetting, len(paths))
	origin := make(map[string]string, len(paths))
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, errs.Wrap(err, "read setting failed").With(p)
		}
		ps, err := FromBytes(p, data)
		if err != nil {
			return nil, errs.Wrap(err, "load setting failed").With(p)
		}
		if prev, ok := origin[ps.Name]; ok {
			return nil, errs.Fatalf("duplicate pipeline name %q (%s and %s)", ps.Name, prev, p)
		}
		origin[ps.Name] = p
		out[ps.Name] = ps
	}
	return out, nil
}
