package ops

import (
	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
)

// profileLogger routes profiler output through logs, keeping only errors.
type profileLogger struct{}

func (profileLogger) Infof(_ string, _ ...interface{})  {}
func (profileLogger) Debugf(_ string, _ ...interface{}) {}
func (profileLogger) Errorf(format string, args ...interface{}) {
	logs.Errorf("pyroscope: "+format, args...)
}

// StartProfiler pushes continuous profiles to server. An empty server
// disables profiling and returns a no-op stop.
func StartProfiler(app, server string, tags map[string]string) (func(), error) {
	if server == "" {
		return func() {}, nil
	}
	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: app,
		ServerAddress:   server,
		Tags:            tags,
		Logger:          profileLogger{},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "start pyroscope")
	}
	logs.Infof("ops: profiling %s to %s", app, server)
	return func() { _ = profiler.Stop() }, nil
}
