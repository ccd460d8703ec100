package config

import (
	"errors"
	"strings"
)

var errMultiStringSetEmptyValue = errors.New("value cannot be empty")

const defaultSeparator = ","

// MultiStringFlag implements the flag.Value interface and allows a string flag
// to be specified multiple times on the command line.
//
// e.g.: -header "Cache-Control: no-cache" -header "X-Frame-Options: DENY"
type MultiStringFlag struct {
	value     []string
	separator string
}

// String returns the list of parameters joined with the separator
func (s *MultiStringFlag) String() string {
	return strings.Join(s.value, s.sep())
}

// Set appends the value to the list of parameters
func (s *MultiStringFlag) Set(value string) error {
	if value == "" {
		return errMultiStringSetEmptyValue
	}

	s.value = append(s.value, value)
	return nil
}

// Split each flag by the separator, dropping blank parts
func (s *MultiStringFlag) Split() (result []string) {
	for _, str := range s.value {
		for _, part := range strings.Split(str, s.sep()) {
			if part = strings.TrimSpace(part); part != "" {
				result = append(result, part)
			}
		}
	}

	return
}

func (s *MultiStringFlag) sep() string {
	if s.separator == "" {
		return defaultSeparator
	}

	return s.separator
}
