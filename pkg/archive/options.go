package archive

import "go.uber.org/zap"

// Option is a functor to build archive backends
type Option func(*settings)

type settings struct {
	logger *zap.Logger
}

func defaultSettings() settings {
	return settings{logger: zap.NewNop()}
}

// Logger sets the logger for this backend
func Logger(l *zap.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}
