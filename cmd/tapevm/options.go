package main

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tapevm/tapevm"
	"github.com/tapevm/tapevm/vm"
)

// initConfig layers the config file and TAPEVM_* environment variables
// under the command line flags.
func initConfig(cmd *cobra.Command, args []string) error {
	viper.SetEnvPrefix("tapevm")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	cfgFile := viper.GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := homedir.Dir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".tapevm")
		viper.SetConfigType("yaml")
	}
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return err
		}
	}
	processGlobalFlags()
	return nil
}

// Returns the tapevm options selected by flags, environment and config.
func getOptions() ([]tapevm.Option, error) {
	eof, err := vm.ParseEOFPolicy(viper.GetString("eof"))
	if err != nil {
		return nil, err
	}
	opts := []tapevm.Option{
		tapevm.WithEOF(eof),
		tapevm.WithLogger(newLogger(os.Stderr)),
	}
	if n := viper.GetInt("min-cells"); n > 0 {
		opts = append(opts, tapevm.WithMinCells(n))
	}
	if n := viper.GetInt("max-cells"); n > 0 {
		opts = append(opts, tapevm.WithMaxCells(n))
	}
	if n := viper.GetInt("max-instructions"); n > 0 {
		opts = append(opts, tapevm.WithMaxInstructions(n))
	}
	return opts, nil
}

// Determine what code is to be compiled. There are three possibilities:
// 1. --code <code>
// 2. --stdin (read code from stdin)
// 3. path as args[0]
// The returned name is the file path, if any.
func getCode(cmd *cobra.Command, args []string) (code, name string, err error) {
	var codeFlagSet bool
	if f := cmd.Flags().Lookup("code"); f != nil && f.Changed {
		codeFlagSet = true
	}
	var stdinFlagSet bool
	if f := cmd.Flags().Lookup("stdin"); f != nil && f.Changed {
		stdinFlagSet = true
	}
	pathSupplied := len(args) > 0
	if pathSupplied && (codeFlagSet || stdinFlagSet) {
		return "", "", errors.New("multiple input sources specified")
	} else if codeFlagSet && stdinFlagSet {
		return "", "", errors.New("multiple input sources specified")
	}
	switch {
	case stdinFlagSet:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", err
		}
		return string(data), "", nil
	case pathSupplied:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", err
		}
		return string(data), args[0], nil
	case codeFlagSet:
		code, _ := cmd.Flags().GetString("code")
		return code, "", nil
	}
	return "", "", errNoSource
}

var errNoSource = errors.New("no program given: pass a file, --code or --stdin")

// getInput returns the program's input source. Code read from stdin leaves
// the program with empty input unless --input names a file.
func getInput(cmd *cobra.Command) (io.Reader, func() error, error) {
	noop := func() error { return nil }
	path, _ := cmd.Flags().GetString("input")
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, noop, err
		}
		return f, f.Close, nil
	}
	if stdin, _ := cmd.Flags().GetBool("stdin"); stdin {
		return strings.NewReader(""), noop, nil
	}
	return cmd.InOrStdin(), noop, nil
}
