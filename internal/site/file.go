// SPDX-License-Identifier: MIT

package site

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownField classifies strict parse failures caused by unknown keys.
// Use errors.Is(err, ErrUnknownField) instead of string matching.
var ErrUnknownField = errors.New("unknown descriptor field")

// copyrightLine matches the footer line Copyright renders and captures the holder.
var copyrightLine = regexp.MustCompile(`^Copyright © \d{4} (.+)\.$`)

// fileDescriptor is the on-disk form of a descriptor override. Fields present
// in the file replace the built-in values; sequences are replaced wholesale.
type fileDescriptor struct {
	Descriptor      `yaml:",inline"`
	CopyrightHolder string `yaml:"copyrightHolder"`
}

// loadFile overlays the YAML file at path onto base and returns the result
// together with the copyright holder to use. A footer copyright in the file is
// kept on the returned descriptor for the caller to replace; when the file has
// no copyrightHolder, the holder is taken from that line.
func loadFile(path string, base Descriptor) (Descriptor, string, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" && ext != ".json" {
		return base, "", fmt.Errorf("unsupported descriptor format: %s (YAML or JSON)", ext)
	}

	// #nosec G304 -- descriptor paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return base, "", fmt.Errorf("read file: %w", err)
	}
	return decodeFile(data, base)
}

func decodeFile(data []byte, base Descriptor) (Descriptor, string, error) {
	fd := fileDescriptor{Descriptor: base}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fd); err != nil {
		if err == io.EOF {
			return base, DefaultCopyrightHolder, nil
		}
		if strings.Contains(err.Error(), "not found in type") {
			return base, "", fmt.Errorf("strict parse error: %w: %v", ErrUnknownField, err)
		}
		return base, "", fmt.Errorf("strict parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return base, "", fmt.Errorf("descriptor file contains multiple documents or trailing content")
	}

	holder := strings.TrimSpace(fd.CopyrightHolder)
	if holder == "" {
		if m := copyrightLine.FindStringSubmatch(fd.ThemeConfig.Footer.Copyright); m != nil {
			holder = m[1]
		}
	}
	if holder == "" {
		holder = DefaultCopyrightHolder
	}
	return fd.Descriptor, holder, nil
}
