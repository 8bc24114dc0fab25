package configs

import "github.com/spf13/viper"

// EventsConfig 控制事件发布的开关（全局与分主题）。
type EventsConfig struct {
	Enabled bool               `mapstructure:"enabled"` // 总开关
	Object  ObjectEventsConfig `mapstructure:"object"`
	Upload  UploadEventsConfig `mapstructure:"upload"`
}

// ObjectEventsConfig 针对对象领域的事件开关。
type ObjectEventsConfig struct {
	Uploaded bool `mapstructure:"uploaded"`
	Aborted  bool `mapstructure:"aborted"`
}

// UploadEventsConfig 针对上传会话领域的事件开关。
type UploadEventsConfig struct {
	Expired bool `mapstructure:"expired"`
}

func (c *EventsConfig) setDefaults(v *viper.Viper) {
	// 总开关：默认启用事件系统
	v.SetDefault("events.enabled", true)

	// 对象领域的事件：uploaded 驱动下游后处理，默认开启
	v.SetDefault("events.object.uploaded", true)
	v.SetDefault("events.object.aborted", true)

	// 会话过期清理事件：默认开启，便于审计
	v.SetDefault("events.upload.expired", true)
}
