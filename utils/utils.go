package utils

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"regionfinder/config"
)

// Commands understood by the CLI
var commands = map[string]bool{
	"search": true,
	"select": true,
}

// ParseArguments converts command-line arguments (without the program name)
// into a map of flags and values. The command, if any, is stored under "command".
func ParseArguments(argv []string) map[string]string {
	args := make(map[string]string)

	// First, identify the command
	commandIndex := -1
	for i, arg := range argv {
		if commands[arg] {
			args["command"] = arg
			commandIndex = i
			break
		}
	}

	for i := 0; i < len(argv); i++ {
		if i == commandIndex {
			continue
		}

		arg := argv[i]

		// Handle flags with equals sign (--key=value)
		if strings.HasPrefix(arg, "--") && strings.Contains(arg, "=") {
			parts := strings.SplitN(arg, "=", 2)
			args[strings.TrimPrefix(parts[0], "--")] = parts[1]
			continue
		}

		// Handle flags without equals sign (--key value)
		if strings.HasPrefix(arg, "--") {
			flagName := strings.TrimPrefix(arg, "--")

			// Boolean flag when no value follows
			if i+1 >= len(argv) || strings.HasPrefix(argv[i+1], "--") || i+1 == commandIndex {
				args[flagName] = "true"
			} else {
				args[flagName] = argv[i+1]
				i++
			}
		}
	}

	return args
}

// PrintUsage outputs the command-line usage instructions
func PrintUsage(w io.Writer, program string) {
	fmt.Fprintf(w, "Usage:\n")
	fmt.Fprintf(w, "  %s search --image=PATH --folder=PATH (--rect=X0,Y0,X1,Y1 | --select) [options]\n", program)
	fmt.Fprintf(w, "  %s select --image=PATH\n", program)
	fmt.Fprintf(w, "\nParameters:\n")
	fmt.Fprintf(w, "  --image          : Image the reference region is taken from\n")
	fmt.Fprintf(w, "  --folder         : Folder searched recursively for the region\n")
	fmt.Fprintf(w, "  --rect           : Reference region as two corners in pixels\n")
	fmt.Fprintf(w, "  --select         : Drag the reference region in a window instead of --rect\n")
	fmt.Fprintf(w, "  --threshold      : SSIM a window must exceed (-1.0 to 1.0, default: 0.8)\n")
	fmt.Fprintf(w, "  --extensions     : Comma separated candidate extensions (default: .png,.jpeg)\n")
	fmt.Fprintf(w, "  --case-sensitive : Match extensions case-sensitively\n")
	fmt.Fprintf(w, "  --workers        : Number of parallel workers, or \"auto\" (default: 1)\n")
	fmt.Fprintf(w, "  --config         : JSON configuration file\n")
	fmt.Fprintf(w, "  --save-config    : Write the effective configuration to a JSON file\n")
	fmt.Fprintf(w, "  --loader         : Image decoder, standard or opencv (default: standard)\n")
	fmt.Fprintf(w, "  --show           : Display each match with the matching window outlined\n")
	fmt.Fprintf(w, "  --debug          : Enable debug mode (logs detailed information)\n")
	fmt.Fprintf(w, "  --logfile        : Specify custom log file path (default: regionfinder.log)\n")
	fmt.Fprintf(w, "\nEnvironment:\n")
	fmt.Fprintf(w, "  REGIONFINDER_THRESHOLD, REGIONFINDER_EXTENSIONS, REGIONFINDER_CASE_SENSITIVE,\n")
	fmt.Fprintf(w, "  REGIONFINDER_CHANNELS, REGIONFINDER_WORKERS override the configuration file\n")
	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintf(w, "  %s select --image=/path/to/screen.png\n", program)
	fmt.Fprintf(w, "  %s search --image=/path/to/screen.png --rect=10,20,74,52 --folder=/path/to/shots\n", program)
	fmt.Fprintf(w, "  %s search --image=/path/to/screen.png --select --folder=/path/to/shots --threshold=0.9 --workers=auto\n", program)
}

// ParseThreshold parses and validates the threshold value from string
func ParseThreshold(thresholdStr string) (float64, error) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(thresholdStr), 64)
	if err != nil || parsed < -1 || parsed > 1 {
		return 0, fmt.Errorf("invalid threshold value '%s', expected a number between -1 and 1", thresholdStr)
	}
	return parsed, nil
}

// ParseExtensions splits a comma separated list, adding the leading dot where missing
func ParseExtensions(list string) ([]string, error) {
	var extensions []string
	for _, ext := range strings.Split(list, ",") {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions = append(extensions, ext)
	}
	if len(extensions) == 0 {
		return nil, fmt.Errorf("invalid extension list '%s'", list)
	}
	return extensions, nil
}

// ParseWorkers parses a worker count. "auto" returns autoValue.
func ParseWorkers(workersStr string, autoValue int) (int, error) {
	if strings.EqualFold(strings.TrimSpace(workersStr), "auto") {
		return autoValue, nil
	}
	workers, err := strconv.Atoi(strings.TrimSpace(workersStr))
	if err != nil || workers < 1 {
		return 0, fmt.Errorf("invalid worker count '%s'", workersStr)
	}
	return workers, nil
}

// ApplyArguments overrides cfg with the search flags present in args.
// autoWorkers is used for --workers=auto.
func ApplyArguments(cfg *config.Config, args map[string]string, autoWorkers int) error {
	if v, ok := args["threshold"]; ok {
		threshold, err := ParseThreshold(v)
		if err != nil {
			return err
		}
		cfg.Threshold = threshold
	}

	if v, ok := args["extensions"]; ok {
		extensions, err := ParseExtensions(v)
		if err != nil {
			return err
		}
		cfg.FileExtensions = extensions
	}

	if v, ok := args["case-sensitive"]; ok {
		cfg.CaseSensitiveExtensions = v != "false"
	}

	if v, ok := args["workers"]; ok {
		workers, err := ParseWorkers(v, autoWorkers)
		if err != nil {
			return err
		}
		cfg.Workers = workers
	}

	return nil
}

// LoadConfig layers the configuration sources: defaults, the JSON file named by
// --config (or the default config path when it exists), REGIONFINDER_*
// environment variables and finally the command-line flags.
func LoadConfig(args map[string]string, autoWorkers int) (*config.Config, error) {
	cfg := config.Default()

	if path, ok := args["config"]; ok && path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else if _, err := os.Stat(config.GetConfigPath()); err == nil {
		loaded, err := config.LoadFromFile(config.GetConfigPath())
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	cfg.ApplyEnv()

	if err := ApplyArguments(cfg, args, autoWorkers); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
