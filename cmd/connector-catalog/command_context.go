package main

import (
	"sync"

	"github.com/spf13/cobra"
)

// structuredLogAnnotation marks commands whose output is structured logs.
// Commands without it print plain text for humans.
const structuredLogAnnotation = "connector-catalog/structured-log"

type commandExecutionContext struct {
	CommandPath       string
	UsesStructuredLog bool
}

var (
	commandContextMu      sync.RWMutex
	commandContextCurrent commandExecutionContext
)

func setCommandExecutionContext(ctx commandExecutionContext) {
	commandContextMu.Lock()
	defer commandContextMu.Unlock()
	commandContextCurrent = ctx
}

func resetCommandExecutionContext() {
	setCommandExecutionContext(commandExecutionContext{})
}

func currentCommandExecutionContext() commandExecutionContext {
	commandContextMu.RLock()
	defer commandContextMu.RUnlock()
	return commandContextCurrent
}

func structuredLogging() map[string]string {
	return map[string]string{structuredLogAnnotation: "true"}
}

func commandUsesStructuredLogging(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[structuredLogAnnotation] == "true" {
			return true
		}
	}
	return false
}
