package log

import "fmt"

func Debugf(format string, args ...any) {
	logger.Debug().Msgf(format, args...)
}

func Infof(format string, args ...any) {
	logger.Info().Msgf(format, args...)
}

func Warnf(format string, args ...any) {
	logger.Warn().Msgf(format, args...)
}

func Errorf(format string, args ...any) {
	logger.Error().Msgf(format, args...)
}

// Panicf 记录日志后 panic
func Panicf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.Error().Msg(msg)
	panic(msg)
}

func PanicError(err error) {
	if err == nil {
		return
	}
	logger.Error().Err(err).Msg("panic")
	panic(err)
}
