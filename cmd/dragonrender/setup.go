package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/tauraamui/dragonrender/internal/config"
	"github.com/tauraamui/dragonrender/pkg/configdef"
	"github.com/tauraamui/dragonrender/pkg/ffmpeg"
	"github.com/tauraamui/dragonrender/pkg/log"
)

func runSetup(args []string) int {
	flags := pflag.NewFlagSet("setup", pflag.ContinueOnError)
	reset := flags.Bool("reset", false, "replace an existing config with the defaults")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	if *reset {
		if err := config.DefaultDestroyer().Destroy(); err != nil {
			log.Error("unable to remove existing config: %v", err)
			return 1
		}
	}

	err := config.DefaultCreator().Create()
	if err != nil {
		if !errors.Is(err, configdef.ErrConfigAlreadyExists) {
			log.Error("unable to create config: %v", err)
			return 1
		}
		log.Error(err.Error())
	}

	path, err := config.Path()
	if err != nil {
		log.Error(err.Error())
		return 1
	}
	fmt.Printf("Setup successful, config at %s\n", path)
	return 0
}

func runProbe(args []string) int {
	flags := pflag.NewFlagSet("probe", pflag.ContinueOnError)
	configPath := flags.StringP("config", "c", "", "config file location")
	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: dragonrender probe [--config path] <input>")
		return 2
	}

	values, err := resolveConfig(*configPath)
	if err != nil {
		log.Error("unable to load config: %v", err)
		return 1
	}

	info, err := ffmpeg.Probe(values.FFprobePath, flags.Arg(0))
	if err != nil {
		log.Error(err.Error())
		return 1
	}

	out, err := json.MarshalIndent(info, "", " ")
	if err != nil {
		log.Error(err.Error())
		return 1
	}
	fmt.Println(string(out))
	return 0
}

// resolveConfig loads the config, from path when one is given.
func resolveConfig(path string) (configdef.Values, error) {
	if len(path) > 0 {
		if err := os.Setenv("DRAGON_RENDER_CONFIG", path); err != nil {
			return configdef.Values{}, err
		}
	}
	return config.DefaultResolver().Resolve()
}
