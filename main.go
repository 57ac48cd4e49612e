package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"time"

	"regionfinder/imageprocessor"
	"regionfinder/logging"
	"regionfinder/scanner"
	"regionfinder/selection"
	"regionfinder/signalhandler"
	"regionfinder/types"
	"regionfinder/utils"
	"regionfinder/viewer"
)

const progressInterval = 500 * time.Millisecond

func main() {
	program := filepath.Base(os.Args[0])

	// Parse command line arguments into a map
	args := utils.ParseArguments(os.Args[1:])

	command, hasCommand := args["command"]

	showUsage := !hasCommand || args["image"] == ""
	if hasCommand && command == "search" && args["folder"] == "" {
		showUsage = true
	}
	if showUsage {
		utils.PrintUsage(os.Stderr, program)
		os.Exit(1)
	}

	// Setup debug logging if enabled
	debugMode := false
	if _, ok := args["debug"]; ok {
		debugMode = true
		logPath := "regionfinder.log"
		if customLogPath, ok := args["logfile"]; ok && customLogPath != "" {
			logPath = customLogPath
		}
		if err := logging.SetupLogger(logPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to setup logging: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Debug mode enabled. Logging to: %s\n", logPath)
		}
	}

	ctx, cancel := signalhandler.NotifyContext(context.Background())

	var err error
	switch command {
	case "search":
		err = handleSearchCommand(ctx, args, debugMode)
	case "select":
		err = handleSelectCommand(args)
	default:
		err = fmt.Errorf("unknown command: %s", command)
	}

	cancel()

	if err != nil {
		logging.LogError("%s failed: %v", command, err)
		logging.CloseLogger()
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
	logging.CloseLogger()
}

func handleSelectCommand(args map[string]string) error {
	imagePath := args["image"]
	if _, err := os.Stat(imagePath); err != nil {
		return fmt.Errorf("source image does not exist: %s", imagePath)
	}

	sel, err := viewer.SelectRegion(imagePath)
	if err != nil {
		return err
	}

	fmt.Println(selection.FormatRect(sel.Normalize()))
	return nil
}

func handleSearchCommand(ctx context.Context, args map[string]string, debugMode bool) error {
	imagePath := args["image"]
	folderPath := args["folder"]

	cfg, err := utils.LoadConfig(args, signalhandler.GetOptimalProcs())
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	registry := imageprocessor.NewImageLoaderRegistry()
	switch loader := args["loader"]; loader {
	case "", "standard":
	case "opencv":
		viewer.Register(registry)
	default:
		return fmt.Errorf("unknown loader %q, expected standard or opencv", loader)
	}

	// Selection source: an explicit rectangle, or an interactive drag
	var sel types.Selection
	switch {
	case args["rect"] != "":
		sel, err = selection.ParseRect(args["rect"])
	case args["select"] == "true":
		sel, err = viewer.SelectRegion(imagePath)
	default:
		err = errors.New("a region is required: use --rect=X0,Y0,X1,Y1 or --select")
	}
	if err != nil {
		return err
	}

	source, err := registry.LoadImage(imagePath, cfg.Channels)
	if err != nil {
		return err
	}

	reference, err := selection.ExtractReference(source, sel)
	if err != nil {
		return err
	}

	if path := args["save-config"]; path != "" {
		if err := cfg.SaveToFile(path); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Configuration saved to %s\n", path)
	}

	results := make(chan scanner.CandidateResult, 64)

	engine, err := scanner.NewEngine(cfg,
		scanner.WithRegistry(registry),
		scanner.WithObserver(func(r scanner.CandidateResult) { results <- r }),
	)
	if err != nil {
		return err
	}

	effective := engine.Config()
	fmt.Fprintf(os.Stderr, "Searching %s for region %s of %s (%s)\n",
		folderPath, selection.FormatRect(sel.Normalize()), imagePath, reference)
	fmt.Fprintf(os.Stderr, "Threshold: %.2f, extensions: %v, workers: %d\n",
		effective.Threshold, effective.FileExtensions, effective.Workers)

	tracker := scanner.NewProgressTracker(results, os.Stderr, progressInterval)

	result, err := engine.FindMatches(ctx, types.SearchRequest{
		Reference:     reference,
		RootDirectory: folderPath,
	})
	close(results)
	tracker.Stop()

	if err != nil {
		if result == nil || !errors.Is(err, context.Canceled) {
			return err
		}
		fmt.Fprintln(os.Stderr, "Search interrupted, showing matches found so far.")
	}

	if len(result.Matches) == 0 {
		fmt.Fprintln(os.Stderr, "No matches found.")
	}
	for _, match := range result.Matches {
		fmt.Println(match.Path)
		logging.DebugLog("Match %s at %v, SSIM %.4f, MSE %.2f, hash distance %d",
			match.Path, match.Offset, match.SSIMScore, match.MSE, match.HashDistance)
	}

	scanner.PrintCompletionStats(os.Stderr, result.Stats, debugMode)

	if args["show"] == "true" {
		size := image.Pt(reference.Width, reference.Height)
		for _, match := range result.Matches {
			if err := viewer.ShowMatch(match, size); err != nil {
				logging.LogError("Could not display %s: %v", match.Path, err)
			}
		}
	}

	return nil
}
