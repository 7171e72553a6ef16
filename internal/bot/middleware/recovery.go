package middleware

import (
	"fmt"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
)

// RecoverFromPanic вызывается через defer в обработчике апдейта.
// Паника одного апдейта не должна ронять весь бот.
func RecoverFromPanic(fields log.Fields) {
	if r := recover(); r != nil {
		log.WithFields(fields).WithFields(log.Fields{
			"component": "panic_recovery",
			"panic":     fmt.Sprintf("%v", r),
			"stack":     string(debug.Stack()),
		}).Error("Паника в обработчике — восстановлено")
	}
}
