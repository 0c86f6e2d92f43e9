package logging

import (
	"os"

	"github.com/sirupsen/logrus"
	"go.uber.org/fx"
)

var Module = fx.Module("logging", fx.Provide(
	func() (*logrus.Logger, error) {
		return New(os.Stderr, Level())
	},
	func(l *logrus.Logger) logrus.FieldLogger { return l },
))
