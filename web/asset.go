// Package web 内嵌习惯追踪器的前端静态资源
package web

import (
	"embed"
	"io/fs"
)

//go:embed all:dist
var dist embed.FS

// Assets 返回前端构建产物
func Assets() fs.FS {
	sub, _ := fs.Sub(dist, "dist")
	return sub
}
