package core

import glog "github.com/goliatone/go-logger/glog"

var (
	_ ConfigProvider  = (*CfgxConfigProvider)(nil)
	_ OptionsResolver = GoOptionsResolver{}
	_ RawConfigLoader = StaticRawConfigLoader{}
	_ RawConfigLoader = EnvRawConfigLoader{}
	_ MetricsRecorder = NopMetricsRecorder{}

	_ Logger         = glog.Nop()
	_ LoggerProvider = glog.ProviderFromLogger(glog.Nop())
)
