package main

import (
	"fmt"

	"github.com/cortexdev/cortex/internal/cli"
	"github.com/cortexdev/cortex/internal/utils"
)

const (
	loggerInitializationFailedFormat  = "failed to initialize logger: %v"
	applicationExecutionFailedMessage = "application failed"
)

// main is the entry point for the cortex command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger(false)
	if loggerInitializationError != nil {
		panic(fmt.Errorf(loggerInitializationFailedFormat, loggerInitializationError))
	}
	defer loggerInstance.Sync()
	if applicationExecutionError := cli.Execute(loggerInstance); applicationExecutionError != nil {
		loggerInstance.Fatal(applicationExecutionFailedMessage + ": " + applicationExecutionError.Error())
	}
}
