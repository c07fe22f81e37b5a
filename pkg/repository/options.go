package repository

import "go.uber.org/zap"

// Option is a functor to build repositories
type Option func(*settings)

type settings struct {
	permissive bool
	title      string
	logger     *zap.Logger
}

func defaultSettings() settings {
	return settings{logger: zap.NewNop()}
}

// Permissive accepts a plain directory which is not a git working copy.
func Permissive(enabled bool) Option {
	return func(s *settings) {
		s.permissive = enabled
	}
}

// Title sets the dc:title in the JSON-LD description of the repository
func Title(title string) Option {
	return func(s *settings) {
		s.title = title
	}
}

// Logger sets the logger for this repository
func Logger(l *zap.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}
