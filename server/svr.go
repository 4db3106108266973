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

// Package server 組裝 HTTP 服務：驗證 SvrCfg、建立 chi server、註冊路由，交給 app 管理生命週期。
package server

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/zintix-labs/categorical/errs"
	"github.com/zintix-labs/categorical/server/api"
	"github.com/zintix-labs/categorical/server/app"
	"github.com/zintix-labs/categorical/server/netsvr"
	"github.com/zintix-labs/categorical/server/svrcfg"
)

// Build 驗證設定並回傳已註冊好路由、尚未啟動的 server
func Build(sCfg *svrcfg.SvrCfg) (*netsvr.ChiAdapter, error) {
	if sCfg == nil {
		return nil, errs.NewFatal("svr config is required")
	}
	if err := sCfg.Vaild(); err != nil {
		return nil, err
	}
	svr := netsvr.NewChiServer(sCfg.Addr)
	if err := api.RegisterRoutes(svr, sCfg); err != nil {
		return nil, errs.Wrap(err, "register routes failed")
	}
	return svr, nil
}

// Run 阻塞直到收到 SIGINT/SIGTERM 或 server 出錯
func Run(sCfg *svrcfg.SvrCfg) error {
	svr, err := Build(sCfg)
	if err != nil {
		// logger 可能尚未可用
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return serve(sCfg.Log, svr, svr.Address())
}

// RunWithSvr 與 Run 相同，但由呼叫端注入 NetSvr (自訂 listener、timeout、框架)
func RunWithSvr(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) error {
	if sCfg == nil {
		return errs.NewFatal("svr config is required")
	}
	if err := sCfg.Vaild(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	if svr == nil {
		return errs.NewFatal("svr is required")
	}
	if s, ok := svr.(*netsvr.ChiAdapter); ok && !s.Ready() {
		return errs.NewFatal("default server is not ready")
	}
	if err := api.RegisterRoutes(svr, sCfg); err != nil {
		return errs.Wrap(err, "register routes failed")
	}
	return serve(sCfg.Log, svr, "")
}

func serve(log *slog.Logger, svr netsvr.NetSvr, addr string) error {
	a := app.NewWith(svr)
	log.Info("[categorical] listening", slog.String("addr", addr))
	if err := a.Run(); err != nil {
		log.Error("app stopped:", slog.Any("err", err))
		return err
	}
	log.Info("[categorical] stopped")
	return nil
}
