package netsvr

import (
	"net/http"

	"github.com/zintix-labs/categorical/server/app"
)

// NetSvr 路由行為 + 服務啟停。只交給最外層組裝使用，其他層面向 NetRouter。
//
// 同時實作 http.Handler，測試可以直接丟給 httptest 而不必真的監聽。
type NetSvr interface {
	NetRouter
	app.Component
	http.Handler
}

// NetRouter 純路由行為。Group 回呼只拿得到 NetRouter，看不到 Run/Shutdown。
type NetRouter interface {
	Use(middleware func(http.Handler) http.Handler)

	Get(path string, h http.HandlerFunc)
	Post(path string, h http.HandlerFunc)

	Group(path string, fn func(NetRouter))
}
