package storage

import "fmt"

// engineLogger 把 badger 的 printf 风格日志转到组件 logger
//
// badger 的 Info 日志较多，降为 Debug。
type engineLogger struct{}

func (engineLogger) Errorf(format string, args ...interface{}) {
	logger.Error(fmt.Sprintf(format, args...))
}

func (engineLogger) Warningf(format string, args ...interface{}) {
	logger.Warn(fmt.Sprintf(format, args...))
}

func (engineLogger) Infof(format string, args ...interface{}) {
	logger.Debug(fmt.Sprintf(format, args...))
}

func (engineLogger) Debugf(format string, args ...interface{}) {
	logger.Debug(fmt.Sprintf(format, args...))
}
