// Package cli provides the command line interface of the cortex analyzer.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cortexdev/cortex/internal/classify"
	"github.com/cortexdev/cortex/internal/commands"
	"github.com/cortexdev/cortex/internal/config"
	"github.com/cortexdev/cortex/internal/notify"
	"github.com/cortexdev/cortex/internal/output"
	"github.com/cortexdev/cortex/internal/services/clipboard"
	"github.com/cortexdev/cortex/internal/tokenizer"
	"github.com/cortexdev/cortex/internal/types"
	"github.com/cortexdev/cortex/internal/utils"
)

const (
	rootFlagName         = "root"
	outputFlagName       = "output"
	decodePolicyFlagName = "decode-policy"
	desktopFlagName      = "desktop"
	copyFlagName         = "copy"
	tokensFlagName       = "tokens"
	modelFlagName        = "model"
	verboseFlagName      = "verbose"
	versionFlagName      = "version"
	configFlagName       = "config"
	globalFlagName       = "global"
	forceFlagName        = "force"

	versionTemplate      = "cortex version: %s\n"
	rootUse              = "cortex"
	rootShortDescription = "CortexDev local project analyzer"
	rootLongDescription  = `cortex scans the working directory and writes cortex-snapshot.json,
a single document combining the full file tree of the project with the
verbatim content of every text file. Load the snapshot into the CortexDev
web interface to browse the project without filesystem access.`
	rootUsageExample = `  # Scan the current directory
  cortex

  # Scan another project and copy the snapshot to the clipboard
  cortex --root ../service --copy`

	configUse              = "config"
	configShortDescription = "manage analyzer configuration"
	configInitUse          = "init"
	configInitShort        = "write the default cortex.yaml"

	rootFlagDescription         = "project directory to scan (defaults to the working directory)"
	outputFlagDescription       = "snapshot file name written into the scan root"
	decodePolicyFlagDescription = "handling of invalid UTF-8 in text files: strict, replace, or drop"
	desktopFlagDescription      = "raise a desktop notification with the scan outcome"
	copyFlagDescription         = "copy the serialized snapshot to the system clipboard"
	tokensFlagDescription       = "estimate the token count of captured text content"
	modelFlagDescription        = "tokenizer model used for token estimation"
	verboseFlagDescription      = "enable debug logging"
	versionFlagDescription      = "display application version"
	configFlagDescription       = "path to an explicit configuration file"
	globalFlagDescription       = "write configuration into the home directory instead of the working directory"
	forceFlagDescription        = "overwrite an existing configuration file"

	completedTitle         = "Analysis complete"
	completedMessageFormat = "Done! File %q created successfully.\n\nYou can now load it into the CortexDev web interface."
	emptyTitle             = "Analysis complete"
	emptyMessage           = "No files found to analyze. Snapshot not created."
	fatalTitle             = "Fatal error"
	fatalMessageFormat     = "The scan could not be completed:\n\n%v"

	warningTokenCountFormat = "Warning: token estimation failed: %v"
	warningClipboardFormat  = "Warning: could not copy snapshot to clipboard: %v"
	scanStartedFormat       = "Scanning %s"
	scanFinishedFormat      = "Scan finished: %d files discovered, %d text files captured"
	snapshotWrittenFormat   = "Snapshot written to %s (%s, digest %016x)"
	tokenEstimateFormat     = "Captured content is roughly %d tokens (%s)"
)

// scanOptions carries the effective settings of one scan run after flag and
// configuration merging.
type scanOptions struct {
	rootDirectory  string
	outputFileName string
	decodePolicy   classify.DecodePolicy
	desktopEnabled bool
	copyEnabled    bool
	tokensEnabled  bool
	tokenModel     string
}

// Execute runs the cortex application using the provided logger.
func Execute(logger *zap.Logger) error {
	rootCommand := createRootCommand(logger)
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command. Running the root command
// without a subcommand performs the scan, matching the analyzer's
// double-click heritage.
func createRootCommand(logger *zap.Logger) *cobra.Command {
	var showVersion bool
	var verbose bool
	var rootDirectory string
	var outputFileName string
	var decodePolicyValue string
	var desktopEnabled bool
	var copyEnabled bool
	var tokensEnabled bool
	var tokenModel string
	var explicitConfigPath string

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			scanLogger := logger
			if verbose {
				verboseLogger, loggerError := utils.NewApplicationLogger(true)
				if loggerError == nil {
					scanLogger = verboseLogger
				}
			}

			options, optionsError := resolveScanOptions(command, scanOptionInputs{
				rootDirectory:      rootDirectory,
				outputFileName:     outputFileName,
				decodePolicyValue:  decodePolicyValue,
				desktopEnabled:     desktopEnabled,
				copyEnabled:        copyEnabled,
				tokensEnabled:      tokensEnabled,
				tokenModel:         tokenModel,
				explicitConfigPath: explicitConfigPath,
			})
			if optionsError != nil {
				return optionsError
			}

			notifier := buildNotifier(options.desktopEnabled)
			runError := runScan(options, scanLogger, notifier)
			if runError != nil {
				notifier.Notify(fatalTitle, fmt.Sprintf(fatalMessageFormat, runError), true)
			}
			return runError
		},
	}

	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.Flags().StringVar(&rootDirectory, rootFlagName, "", rootFlagDescription)
	rootCommand.Flags().StringVar(&outputFileName, outputFlagName, "", outputFlagDescription)
	rootCommand.Flags().StringVar(&decodePolicyValue, decodePolicyFlagName, "", decodePolicyFlagDescription)
	rootCommand.Flags().BoolVar(&desktopEnabled, desktopFlagName, true, desktopFlagDescription)
	rootCommand.Flags().BoolVar(&copyEnabled, copyFlagName, false, copyFlagDescription)
	rootCommand.Flags().BoolVar(&tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	rootCommand.Flags().StringVar(&tokenModel, modelFlagName, "", modelFlagDescription)
	rootCommand.Flags().BoolVar(&verbose, verboseFlagName, false, verboseFlagDescription)
	rootCommand.Flags().StringVar(&explicitConfigPath, configFlagName, "", configFlagDescription)

	rootCommand.AddCommand(createConfigCommand())
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// scanOptionInputs holds raw flag values before configuration merging.
type scanOptionInputs struct {
	rootDirectory      string
	outputFileName     string
	decodePolicyValue  string
	desktopEnabled     bool
	copyEnabled        bool
	tokensEnabled      bool
	tokenModel         string
	explicitConfigPath string
}

// resolveScanOptions merges flag values over cortex.yaml defaults. A flag the
// user set explicitly always wins over the configuration file.
func resolveScanOptions(command *cobra.Command, inputs scanOptionInputs) (scanOptions, error) {
	rootDirectory := inputs.rootDirectory
	if rootDirectory == "" {
		workingDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return scanOptions{}, fmt.Errorf("unable to determine working directory: %w", workingDirectoryError)
		}
		rootDirectory = workingDirectory
	}

	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: rootDirectory,
		ExplicitFilePath: inputs.explicitConfigPath,
	})
	if configurationError != nil {
		return scanOptions{}, configurationError
	}
	scanConfiguration := applicationConfiguration.Scan

	options := scanOptions{
		rootDirectory:  rootDirectory,
		outputFileName: types.DefaultOutputFileName,
		decodePolicy:   classify.DecodeDrop,
		desktopEnabled: inputs.desktopEnabled,
		copyEnabled:    inputs.copyEnabled,
		tokensEnabled:  inputs.tokensEnabled,
		tokenModel:     inputs.tokenModel,
	}

	if scanConfiguration.Output != "" {
		options.outputFileName = scanConfiguration.Output
	}
	if inputs.outputFileName != "" {
		options.outputFileName = inputs.outputFileName
	}

	configuredPolicy := inputs.decodePolicyValue
	if configuredPolicy == "" {
		configuredPolicy = scanConfiguration.DecodePolicy
	}
	if configuredPolicy != "" {
		parsedPolicy, parseError := classify.ParseDecodePolicy(configuredPolicy)
		if parseError != nil {
			return scanOptions{}, parseError
		}
		options.decodePolicy = parsedPolicy
	}

	if scanConfiguration.Desktop != nil && !command.Flags().Changed(desktopFlagName) {
		options.desktopEnabled = *scanConfiguration.Desktop
	}
	if scanConfiguration.Clipboard != nil && !command.Flags().Changed(copyFlagName) {
		options.copyEnabled = *scanConfiguration.Clipboard
	}
	if scanConfiguration.Tokens.Enabled != nil && !command.Flags().Changed(tokensFlagName) {
		options.tokensEnabled = *scanConfiguration.Tokens.Enabled
	}
	if options.tokenModel == "" {
		options.tokenModel = scanConfiguration.Tokens.Model
	}

	return options, nil
}

// buildNotifier assembles the outcome notifier: console always, desktop as an
// optional decorator that swallows its own failures.
func buildNotifier(desktopEnabled bool) notify.Notifier {
	consoleNotifier := notify.NewConsoleNotifier(os.Stderr)
	if desktopEnabled {
		return notify.NewDesktopNotifier(consoleNotifier)
	}
	return consoleNotifier
}

// runScan performs the full analysis pass: walk, classify, build the tree,
// and write the snapshot. Only orchestration-level failures are returned;
// per-file problems degrade to warnings on the logger.
func runScan(options scanOptions, logger *zap.Logger, notifier notify.Notifier) error {
	logger.Info(fmt.Sprintf(scanStartedFormat, options.rootDirectory))

	classifier := classify.NewClassifier(classify.Config{DecodePolicy: options.decodePolicy})
	scanner := commands.NewScanner(classifier, excludedFileNames(options.outputFileName), func(message string) {
		logger.Warn(message)
	})

	scanResult, scanError := scanner.Scan(options.rootDirectory)
	if scanError != nil {
		return scanError
	}
	logger.Info(fmt.Sprintf(scanFinishedFormat, len(scanResult.Paths), len(scanResult.TextContents)))

	if len(scanResult.Paths) == 0 {
		notifier.Notify(emptyTitle, emptyMessage, false)
		return nil
	}

	fileTree := commands.BuildTree(scanResult.Paths)
	snapshot := output.BuildSnapshot(fileTree, scanResult.TextContents, time.Now())

	outputPath := filepath.Join(options.rootDirectory, options.outputFileName)
	writeResult, writeError := output.WriteSnapshot(outputPath, snapshot)
	if writeError != nil {
		return writeError
	}
	logger.Info(fmt.Sprintf(snapshotWrittenFormat, writeResult.Path, utils.FormatFileSize(writeResult.SizeBytes), writeResult.Digest))

	if options.tokensEnabled {
		reportTokenEstimate(scanResult.TextContents, options.tokenModel, logger)
	}
	if options.copyEnabled {
		copySnapshotToClipboard(snapshot, logger)
	}

	notifier.Notify(completedTitle, fmt.Sprintf(completedMessageFormat, options.outputFileName), false)
	return nil
}

// excludedFileNames lists exact file names the walker must never capture:
// the snapshot itself and the running binary.
func excludedFileNames(outputFileName string) []string {
	excluded := []string{filepath.Base(outputFileName)}
	if executablePath, executableError := os.Executable(); executableError == nil {
		excluded = append(excluded, filepath.Base(executablePath))
	}
	return excluded
}

// reportTokenEstimate logs an approximate token count of the captured text.
// Estimation failures never affect the scan outcome.
func reportTokenEstimate(textContents map[string]string, tokenModel string, logger *zap.Logger) {
	counter, effectiveModel, counterError := tokenizer.NewCounter(tokenizer.Config{Model: tokenModel})
	if counterError != nil {
		logger.Warn(fmt.Sprintf(warningTokenCountFormat, counterError))
		return
	}
	totalTokens, countError := tokenizer.CountContents(counter, textContents)
	if countError != nil {
		logger.Warn(fmt.Sprintf(warningTokenCountFormat, countError))
		return
	}
	logger.Info(fmt.Sprintf(tokenEstimateFormat, totalTokens, effectiveModel))
}

// copySnapshotToClipboard places the serialized snapshot on the system
// clipboard. Clipboard failures degrade to a warning.
func copySnapshotToClipboard(snapshot *types.Snapshot, logger *zap.Logger) {
	encodedSnapshot, encodeError := output.EncodeSnapshot(snapshot)
	if encodeError != nil {
		logger.Warn(fmt.Sprintf(warningClipboardFormat, encodeError))
		return
	}
	copier := clipboard.NewService()
	if copyError := copier.Copy(string(encodedSnapshot)); copyError != nil {
		logger.Warn(fmt.Sprintf(warningClipboardFormat, copyError))
	}
}

// createConfigCommand builds the config subcommand with its init child.
func createConfigCommand() *cobra.Command {
	configCommand := &cobra.Command{
		Use:   configUse,
		Short: configShortDescription,
	}

	var writeGlobal bool
	var force bool
	initCommand := &cobra.Command{
		Use:   configInitUse,
		Short: configInitShort,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if writeGlobal {
				target = config.InitTargetGlobal
			}
			destinationPath, initializeError := config.InitializeConfiguration(config.InitOptions{
				Target: target,
				Force:  force,
			})
			if initializeError != nil {
				return initializeError
			}
			fmt.Printf("Configuration written to %s\n", destinationPath)
			return nil
		},
	}
	initCommand.Flags().BoolVar(&writeGlobal, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&force, forceFlagName, false, forceFlagDescription)

	configCommand.AddCommand(initCommand)
	return configCommand
}
