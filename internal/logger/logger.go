// Package logger — единый вывод логов taas-node с префиксом и учётом quiet.
package logger

import "log"

// Quiet при true отключает информационные сообщения (Info); Error выводится всегда.
var Quiet bool

// Info выводит сообщение с префиксом "taas: ", если Quiet == false.
func Info(format string, args ...interface{}) {
	if Quiet {
		return
	}
	log.Printf("taas: "+format, args...)
}

// Error выводит сообщение об ошибке с префиксом "taas: " всегда.
func Error(format string, args ...interface{}) {
	log.Printf("taas: "+format, args...)
}
