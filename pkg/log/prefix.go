/*
Copyright 2025 the vpc-lattice-centralized-endpoints contributors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package log

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Prefix returns a logger that prepends the given prefix to every message.
// It is used to visually indent the output of sub-tasks.
func Prefix(logger logrus.FieldLogger, prefix string) logrus.FieldLogger {
	return prefixLogger{
		logger: logger,
		prefix: prefix,
	}
}

type prefixLogger struct {
	logger logrus.FieldLogger
	prefix string
}

var _ logrus.FieldLogger = prefixLogger{}

func (l prefixLogger) prefixed(args []interface{}) []interface{} {
	return append([]interface{}{l.prefix}, args...)
}

func (l prefixLogger) prefixedFormat(format string) string {
	return l.prefix + format
}

func (l prefixLogger) sprint(args ...interface{}) string {
	return l.prefix + fmt.Sprint(args...)
}

func (l prefixLogger) WithField(key string, value interface{}) *logrus.Entry {
	return l.logger.WithField(key, value)
}

func (l prefixLogger) WithFields(fields logrus.Fields) *logrus.Entry {
	return l.logger.WithFields(fields)
}

func (l prefixLogger) WithError(err error) *logrus.Entry {
	return l.logger.WithError(err)
}

func (l prefixLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debugf(l.prefixedFormat(format), args...)
}

func (l prefixLogger) Infof(format string, args ...interface{}) {
	l.logger.Infof(l.prefixedFormat(format), args...)
}

func (l prefixLogger) Printf(format string, args ...interface{}) {
	l.logger.Printf(l.prefixedFormat(format), args...)
}

func (l prefixLogger) Warnf(format string, args ...interface{}) {
	l.logger.Warnf(l.prefixedFormat(format), args...)
}

func (l prefixLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warningf(l.prefixedFormat(format), args...)
}

func (l prefixLogger) Errorf(format string, args ...interface{}) {
	l.logger.Errorf(l.prefixedFormat(format), args...)
}

func (l prefixLogger) Fatalf(format string, args ...interface{}) {
	l.logger.Fatalf(l.prefixedFormat(format), args...)
}

func (l prefixLogger) Panicf(format string, args ...interface{}) {
	l.logger.Panicf(l.prefixedFormat(format), args...)
}

func (l prefixLogger) Debug(args ...interface{}) {
	l.logger.Debug(l.sprint(args...))
}

func (l prefixLogger) Info(args ...interface{}) {
	l.logger.Info(l.sprint(args...))
}

func (l prefixLogger) Print(args ...interface{}) {
	l.logger.Print(l.sprint(args...))
}

func (l prefixLogger) Warn(args ...interface{}) {
	l.logger.Warn(l.sprint(args...))
}

func (l prefixLogger) Warning(args ...interface{}) {
	l.logger.Warning(l.sprint(args...))
}

func (l prefixLogger) Error(args ...interface{}) {
	l.logger.Error(l.sprint(args...))
}

func (l prefixLogger) Fatal(args ...interface{}) {
	l.logger.Fatal(l.sprint(args...))
}

func (l prefixLogger) Panic(args ...interface{}) {
	l.logger.Panic(l.sprint(args...))
}

func (l prefixLogger) Debugln(args ...interface{}) {
	l.logger.Debugln(l.prefixed(args)...)
}

func (l prefixLogger) Infoln(args ...interface{}) {
	l.logger.Infoln(l.prefixed(args)...)
}

func (l prefixLogger) Println(args ...interface{}) {
	l.logger.Println(l.prefixed(args)...)
}

func (l prefixLogger) Warnln(args ...interface{}) {
	l.logger.Warnln(l.prefixed(args)...)
}

func (l prefixLogger) Warningln(args ...interface{}) {
	l.logger.Warningln(l.prefixed(args)...)
}

func (l prefixLogger) Errorln(args ...interface{}) {
	l.logger.Errorln(l.prefixed(args)...)
}

func (l prefixLogger) Fatalln(args ...interface{}) {
	l.logger.Fatalln(l.prefixed(args)...)
}

func (l prefixLogger) Panicln(args ...interface{}) {
	l.logger.Panicln(l.prefixed(args)...)
}
