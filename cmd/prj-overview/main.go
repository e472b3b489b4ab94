package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/temirov/prjoverview/internal/cli"
	"github.com/temirov/prjoverview/internal/utils"
)

const exitCodeFailure = 1

// main is the entry point for the prj-overview command.
func main() {
	atomicLevel := zap.NewAtomicLevelAt(zap.ErrorLevel)
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger(atomicLevel)
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	applicationExecutionError := cli.Execute(loggerInstance, atomicLevel)
	_ = loggerInstance.Sync()
	if applicationExecutionError != nil {
		fmt.Fprintln(os.Stderr, applicationExecutionError.Error())
		os.Exit(exitCodeFailure)
	}
}
