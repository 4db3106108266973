package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

var lang language.Tag = language.English

type ReportRender interface {
	Write(w io.Writer, r *Report) error
}

// Json渲染
type JsonReportRender struct{}

func (jr *JsonReportRender) Write(w io.Writer, r *Report) error {
	return json.NewEncoder(w).Encode(r)
}

// YAML渲染
type YAMLReportRender struct{}

func (yr *YAMLReportRender) Write(w io.Writer, r *Report) error {
	// 只有「最內層的一維陣列」輸出成 flow style；Entries 內是 mapping，維持展開
	return forceReadableList(w, r)
}

// 表格渲染，給終端機看
type TableReportRender struct{}

func (tr *TableReportRender) Write(w io.Writer, r *Report) error {
	p := message.NewPrinter(lang)
	var sb strings.Builder
	sb.WriteString(fmtTable(p.Sprintf("%s (%s)", r.Pipeline, r.Weight), [][2]string{
		{"Pipeline", r.Pipeline},
		{"Weight", r.Weight},
		{"Steps", p.Sprintf("%d", r.Steps)},
		{"Outputs", p.Sprintf("%d", len(r.Dists))},
	}))
	for _, d := range r.Dists {
		rows := make([][2]string, 0, len(d.Entries))
		for _, e := range d.Entries {
			rows = append(rows, [2]string{p.Sprintf("%d", e.Category), p.Sprintf("%s (%.4f)", e.Weight, e.Prob)})
		}
		sb.WriteString(fmtTable(d.Name+" ["+d.Backend+"]", rows))
		sb.WriteString(fmtTable(d.Name+" summary", fmtSummary(p, d.Summary)))
	}
	if len(r.Queries) > 0 {
		rows := make([][2]string, 0, len(r.Queries))
		for _, q := range r.Queries {
			v := p.Sprintf("%s (%.4f)", q.Weight, q.Prob)
			if !q.Found {
				v += " not found"
			}
			rows = append(rows, [2]string{p.Sprintf("P(%s = %d)", q.Dist, q.Category), v})
		}
		sb.WriteString(fmtTable("queries", rows))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func fmtSummary(p *message.Printer, s Summary) [][2]string {
	return [][2]string{
		{"Total", p.Sprintf("%.6f", s.Total)},
		{"Mean", p.Sprintf("%.6f", s.Mean)},
		{"Variance", p.Sprintf("%.6f", s.Variance)},
		{"STD", p.Sprintf("%.6f", s.Std)},
		{"Entropy", p.Sprintf("%.6f", s.Entropy)},
		{"Median", p.Sprintf("%v", s.Median)},
		{"Mode", p.Sprintf("%v", s.Mode)},
		{"Support", p.Sprintf("%d", s.Support)},
	}
}

func fmtTable(title string, rows [][2]string) string {
	maxKeyLen := 0
	maxValLen := 0
	for _, r := range rows {
		if w := runewidth.StringWidth(r[0]); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(r[1]); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	// 標題比內容寬時撐開值欄
	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)
	if titleW+2 > totalInner {
		maxValLen += titleW + 2 - totalInner
		totalInner = titleW + 2
	}

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", totalInner) + "+\n"

	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	var sb strings.Builder
	sb.WriteString(top)
	fmt.Fprintf(&sb, "|%s%s%s|\n", blank(left), title, blank(right))
	sb.WriteString(divider)
	for _, r := range rows {
		fmt.Fprintf(&sb, "| %s%s | %s%s |\n", r[0], blank(maxKeyLen-2-runewidth.StringWidth(r[0])), r[1], blank(maxValLen-2-runewidth.StringWidth(r[1])))
	}
	sb.WriteString(divider)
	return sb.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}

// YAML 內層方法
func forceReadableList[T any](w io.Writer, t *T) error {
	var node yaml.Node
	if err := node.Encode(t); err != nil {
		return err
	}
	styleReadableSequences(&node)

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

// 自頂向下調整 sequence node 的 style：
// 內部沒有子 sequence 也沒有 mapping 的一維純量陣列 => flow style: [...]
func styleReadableSequences(n *yaml.Node) {
	if n == nil {
		return
	}

	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode:
		for _, c := range n.Content {
			styleReadableSequences(c)
		}
		return

	case yaml.SequenceNode:
		scalarOnly := true
		for _, c := range n.Content {
			if c != nil && c.Kind != yaml.ScalarNode {
				scalarOnly = false
			}
			styleReadableSequences(c)
		}
		if scalarOnly {
			n.Style = yaml.FlowStyle
		}
		return

	default:
		return
	}
}
