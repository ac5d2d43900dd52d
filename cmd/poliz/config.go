package main

import (
	"bufio"
	"fmt"
	"os"
	"reflect"

	"github.com/naoina/toml"
)

// fileConfig holds run options that are awkward as flags. Flags passed
// on the command line always win over a loaded config file.
type fileConfig struct {
	ShowTokens   bool
	ShowAST      bool
	ShowBytecode bool
	NoRun        bool
	InputFile    string
}

// tomlSettings makes struct field names and TOML keys match exactly,
// and rejects unknown keys instead of silently ignoring typos.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string { return key },
	FieldToKey:    func(rt reflect.Type, field string) string { return field },
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field %q is not defined in %s", field, rt.String())
	},
}

func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()
	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(&cfg)
	return cfg, err
}
