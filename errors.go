/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

func logf(cfg *Config, format string, args ...any) {
	cfg.logger.WithOptions(zap.AddCallerSkip(1)).Infof(format, args...)
}

func errorf(cfg *Config, format string, args ...any) {
	cfg.logger.WithOptions(zap.AddCallerSkip(1)).Errorf(format, args...)
}

// drainErrors logs write failures reported by handlers.
func drainErrors(cfg *Config, errs <-chan error) {
	for err := range errs {
		errorf(cfg, "SERVE: %v", err)
	}
}

func newPage(prefix, title, body string) string {
	var htmlBody strings.Builder

	htmlBody.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	htmlBody.WriteString(getFavicon(prefix))
	htmlBody.WriteString(`<style>`)
	htmlBody.WriteString(`html,body,a{display:block;height:100%;width:100%;text-decoration:none;color:inherit;cursor:auto;}</style>`)
	htmlBody.WriteString(fmt.Sprintf("<title>%s</title></head>", title))
	htmlBody.WriteString(fmt.Sprintf("<body><a href=\"%s/\">%s</a></body></html>", prefix, body))

	return htmlBody.String()
}
