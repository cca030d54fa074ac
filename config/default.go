package config

import _ "embed"

// DefaultConfigYAML 嵌入的默认配置，外部配置文件缺失时保证服务可启动
//
//go:embed config.default.yaml
var DefaultConfigYAML []byte
