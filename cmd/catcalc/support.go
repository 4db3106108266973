package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"maps"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/categorical/demo"
	"github.com/zintix-labs/categorical/engine"
	"github.com/zintix-labs/categorical/errs"
	"github.com/zintix-labs/categorical/sdk/perf"
	"github.com/zintix-labs/categorical/server/logger"
	"github.com/zintix-labs/categorical/setting"
	"github.com/zintix-labs/categorical/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type config struct {
	config    string
	demo      string
	list      bool
	format    string
	weight    string
	progress  bool
	pprofmode string
	pprofdir  string
	logmode   string
}

var renders = map[string]stats.ReportRender{
	"table": &stats.TableReportRender{},
	"json":  &stats.JsonReportRender{},
	"yaml":  &stats.YAMLReportRender{},
}

// barProgress 讓 *pb.ProgressBar 滿足 engine.Progress
type barProgress struct{ bar *pb.ProgressBar }

func (b barProgress) Increment() { b.bar.Increment() }

func bindVar(args []string, stderr io.Writer) (*config, error) {
	cfg := new(config)
	fs := flag.NewFlagSet("catcalc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.config, "config", "", "pipeline setting file (.yaml|.yml|.json)")
	fs.StringVar(&cfg.demo, "demo", "", "embedded demo pipeline name")
	fs.BoolVar(&cfg.list, "list", false, "list embedded demos and combine ops")
	fs.StringVar(&cfg.format, "format", "table", "output: table|json|yaml")
	fs.StringVar(&cfg.weight, "weight", "", "override weight type: exact|float")
	fs.BoolVar(&cfg.progress, "progress", false, "show a progress bar over combine steps")
	fs.StringVar(&cfg.pprofmode, "p", "", "pprof: '', cpu, heap, allocs")
	fs.StringVar(&cfg.pprofdir, "pdir", perf.DefaultDir, "pprof output dir")
	fs.StringVar(&cfg.logmode, "log-mode", "silence", "log mode: dev|prod|silence")
	if err := fs.Parse(args); err != nil {
		return nil, errs.WrapWarn(err, "parse flags failed")
	}
	return cfg, cfg.valid()
}

func (cfg *config) valid() error {
	if cfg.list {
		return nil
	}
	if (cfg.config == "") == (cfg.demo == "") {
		return errs.NewWarn("exactly one of -config / -demo is required")
	}
	if _, ok := renders[cfg.format]; !ok {
		return errs.Warnf("unknown format %q (table|json|yaml)", cfg.format)
	}
	switch setting.WeightKind(cfg.weight) {
	case "", setting.WeightExact, setting.WeightFloat:
	default:
		return errs.Warnf("unknown weight %q (exact|float)", cfg.weight)
	}
	if !slices.Contains(perf.Modes, cfg.pprofmode) {
		return errs.Warnf("unknown pprof mode %q (cpu|heap|allocs)", cfg.pprofmode)
	}
	return nil
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := bindVar(args, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	mode, err := logger.ParseLogMode(cfg.logmode)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	log := logger.New(mode)
	eng := demo.NewEngine(log)

	demos, err := demo.Pipelines()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if cfg.list {
		p := message.NewPrinter(language.English)
		ops := eng.Ops()
		p.Fprintf(stdout, "demos (%d): %s\n", len(demos), strings.Join(slices.Sorted(maps.Keys(demos)), ", "))
		p.Fprintf(stdout, "ops   (%d): %s\n", len(ops), strings.Join(ops, ", "))
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = perf.RunPProf(cfg.pprofdir, cfg.pprofmode, func() error {
		return execute(ctx, cfg, eng, demos, stdout, stderr)
	})
	if err != nil {
		fmt.Fprintln(stderr, err)
		if errs.Level(err) == errs.Warn {
			return 2
		}
		return 1
	}
	return 0
}

func execute(ctx context.Context, cfg *config, eng *engine.Engine, demos map[string]*setting.PipelineSetting, stdout, stderr io.Writer) error {
	ps, err := load(cfg, demos)
	if err != nil {
		return err
	}
	if cfg.weight != "" {
		ps.Weight = setting.WeightKind(cfg.weight)
	}

	var prog engine.Progress
	if cfg.progress && len(ps.Steps) > 0 {
		bar := pb.New(len(ps.Steps)).SetWriter(stderr).Start()
		defer bar.Finish()
		prog = barProgress{bar: bar}
	}

	start := time.Now()
	rep, err := eng.Run(ctx, ps, prog)
	if err != nil {
		return err
	}
	if cfg.format == "table" {
		green, reset := "\033[1;32m", "\033[0m"
		p := message.NewPrinter(language.English)
		p.Fprintf(stdout, "%s[PIPELINE:%s] [WEIGHT:%s] [STEPS:%d] [USED:%v]%s\n",
			green, ps.Name, ps.Weight, len(ps.Steps), time.Since(start).Round(time.Microsecond), reset)
	}
	if err := renders[cfg.format].Write(stdout, rep); err != nil {
		return errs.Wrap(err, "render report failed")
	}
	return nil
}

func load(cfg *config, demos map[string]*setting.PipelineSetting) (*setting.PipelineSetting, error) {
	if cfg.config != "" {
		return setting.FromFile(cfg.config)
	}
	ps, ok := demos[cfg.demo]
	if !ok {
		return nil, errs.Warnf("unknown demo %q (%s)", cfg.demo, strings.Join(slices.Sorted(maps.Keys(demos)), "|"))
	}
	return ps, nil
}
