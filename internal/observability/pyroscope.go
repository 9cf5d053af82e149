package observability

import (
	"github.com/grafana/pyroscope-go"

	"github.com/riskibarqy/pitchsync/internal/config"
)

var syncProfileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocObjects,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseSpace,
	pyroscope.ProfileGoroutines,
}

func profilerConfig(cfg config.Config) pyroscope.Config {
	appName := cfg.PyroscopeAppName
	if appName == "" {
		appName = cfg.ServiceName
	}
	return pyroscope.Config{
		ApplicationName:   appName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Tags: map[string]string{
			"env":     cfg.AppEnv,
			"service": cfg.ServiceName,
			"version": cfg.ServiceVersion,
		},
		ProfileTypes: syncProfileTypes,
	}
}

func startProfiler(cfg config.Config) (func() error, error) {
	profiler, err := pyroscope.Start(profilerConfig(cfg))
	if err != nil {
		return nil, err
	}
	return profiler.Stop, nil
}
