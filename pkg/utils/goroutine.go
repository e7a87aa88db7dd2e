package utils

import (
	"runtime/debug"

	"golang-stock-sentinel/pkg/logger"
)

// GoSafe runs fn in a goroutine and logs a recovered panic instead of crashing the process.
func GoSafe(log *logger.Logger, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("Recovered from panic",
					logger.Field("panic", r),
					logger.StringField("stack", string(debug.Stack())))
			}
		}()
		fn()
	}()
}

// ToPointer returns a pointer to v.
func ToPointer[T any](v T) *T {
	return &v
}
