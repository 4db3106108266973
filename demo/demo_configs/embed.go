package demo_configs

import (
	"embed"
)

// FS provides embedded demo pipeline YAMLs (dice, coins, loaded die).
//
//go:embed *.yaml
var FS embed.FS
