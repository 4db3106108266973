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

package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/zintix-labs/categorical/demo"
	"github.com/zintix-labs/categorical/server"
	"github.com/zintix-labs/categorical/server/logger"
	"github.com/zintix-labs/categorical/server/netsvr"
	"github.com/zintix-labs/categorical/server/svrcfg"
)

// HTTP 評估服務：內建 demo pipeline + POST /v1/eval
func main() {
	os.Exit(run())
}

type config struct {
	Addr    string
	LogMode string
	Timeout time.Duration
	MaxBody int64
}

func run() int {
	cfg := new(config)
	flag.StringVar(&cfg.Addr, "addr", netsvr.DefaultAddr, "listen address")
	flag.StringVar(&cfg.LogMode, "log-mode", "dev", "log mode: dev|prod|silence")
	flag.DurationVar(&cfg.Timeout, "timeout", svrcfg.DefaultEvalTimeout, "per-request evaluation timeout")
	flag.Int64Var(&cfg.MaxBody, "max-body", svrcfg.DefaultMaxBody, "max request body in bytes")
	flag.Parse()

	mode, err := logger.ParseLogMode(cfg.LogMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	log, ah := logger.NewAsync(4096, mode)
	defer ah.Close()

	sCfg, err := demo.NewServerConfig(log)
	if err != nil {
		log.Error("load demos failed", "err", err)
		return 1
	}
	sCfg.Addr = cfg.Addr
	sCfg.EvalTimeout = cfg.Timeout
	sCfg.MaxBody = cfg.MaxBody
	if err := server.Run(sCfg); err != nil {
		return 1
	}
	return 0
}
