// Package main 启动应用程序
package main

import "github.com/yeisme/objvault/pkg/cmd"

//	@title			ObjVault API
//	@version		1.0
//	@description	ObjVault 是一个可续传的对象上传服务，提供分片上传会话管理、单次直传与上传进度查询等功能。

//	@license.name	MIT
//	@license.url	https://opensource.org/license/mit/

func main() {
	if err := cmd.Execute(); err != nil {
		panic(err)
	}
}
