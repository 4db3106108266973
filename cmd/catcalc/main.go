package main

import "os"

// catcalc 以設定檔或內建 demo 執行一份 pipeline，輸出 table / json / yaml 報表
func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
