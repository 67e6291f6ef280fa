package main

import (
	"fmt"
	"strings"

	"github.com/magiconair/properties"
)

// config holds the pass settings read from a properties file:
//
//	entry_point = MainPS
//	used = SV_Target0, SV_Target1
//	exceptions = SV_
//	builtin_types = Platform::Handle
//
// Flags given on the command line win over the file.
type config struct {
	EntryPoint   string
	Used         []string
	Exceptions   []string
	BuiltinTypes []string
}

func loadConfig(path string) (config, error) {
	if path == "" {
		return config{}, nil
	}
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return config{}, fmt.Errorf("loading config: %w", err)
	}
	return configFromProperties(p), nil
}

func configFromProperties(p *properties.Properties) config {
	return config{
		EntryPoint:   strings.TrimSpace(p.GetString("entry_point", "")),
		Used:         splitList(p.GetString("used", "")),
		Exceptions:   splitList(p.GetString("exceptions", "")),
		BuiltinTypes: splitList(p.GetString("builtin_types", "")),
	}
}

// override replaces file settings with the ones given as flags.
func (c *config) override(entryPoint string, used, exceptions []string) {
	if entryPoint != "" {
		c.EntryPoint = entryPoint
	}
	if len(used) > 0 {
		c.Used = used
	}
	if len(exceptions) > 0 {
		c.Exceptions = exceptions
	}
}

// splitList splits a comma or whitespace separated list.
func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}
