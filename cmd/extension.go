package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
)

// Environment variables passed to extensions.
const (
	EnvConfigFile = "PCS_CONFIG"
	EnvStore      = "PCS_STORE"
	EnvStorePath  = "PCS_PATH"
	EnvCurrency   = "PCS_CURRENCY"
	EnvVerbose    = "PCS_VERBOSE"
)

// extensionCommand returns the command running the external pcs-<subcommand>
// binary, with the global flags passed as environment variables.
func extensionCommand(subcommand string, args []string) (*exec.Cmd, error) {
	lp, err := exec.LookPath("pcs-" + subcommand)
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(),
		EnvConfigFile+"="+*configFile,
		EnvStore+"="+*storeKind,
		EnvStorePath+"="+*storePath,
		EnvCurrency+"="+*currency,
		EnvVerbose+"="+strconv.FormatBool(*verbose),
	)
	return cmd, nil
}

// RunExtension attempts to find and execute an external pcs-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(subcommand string, args []string) (bool, int) {
	cmd, err := extensionCommand(subcommand, args)
	if err != nil {
		log.Printf("External command %q not found in PATH: %v", "pcs-"+subcommand, err)
		return false, 0
	}

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", cmd.Path, err)
		return true, 1
	}
	return true, 0
}
