// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package buildvars loads the build variables the build writes as
// build_vars.txt in the output directory.
package buildvars

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Well-known keys. The generated project files need these; other keys
// are carried as is.
const (
	AndroidSDKRoot              = "android_sdk_root"
	AndroidSDKVersion           = "android_sdk_version"
	AndroidSDKBuildToolsVersion = "android_sdk_build_tools_version"
)

// Vars holds the key-value pairs of one build_vars.txt.
type Vars struct {
	entries map[string]string
}

// Load reads build variables from the file at fname.
func Load(fname string) (Vars, error) {
	f, err := os.Open(fname)
	if err != nil {
		return Vars{}, err
	}
	defer f.Close()
	v, err := Parse(f)
	if err != nil {
		return Vars{}, fmt.Errorf("%s: %w", fname, err)
	}
	return v, nil
}

// Parse reads build variables from r. Each line is "key=value"; the
// value may contain further '=' characters. Blank lines are ignored.
func Parse(r io.Reader) (Vars, error) {
	v := Vars{entries: make(map[string]string)}
	s := bufio.NewScanner(r)
	n := 0
	for s.Scan() {
		n++
		line := strings.TrimRight(s.Text(), " \t\r\n")
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return Vars{}, fmt.Errorf("malformed line %d: %q", n, line)
		}
		v.entries[key] = value
	}
	err := s.Err()
	if err != nil {
		return Vars{}, err
	}
	return v, nil
}

// Get returns the value for the given key. If the key is not set, it
// returns the empty string.
func (v Vars) Get(key string) string {
	return v.entries[key]
}

// Lookup returns the value for the given key and whether it is set.
func (v Vars) Lookup(key string) (string, bool) {
	value, ok := v.entries[key]
	return value, ok
}

// SortedKeys returns a sorted list of all keys.
func (v Vars) SortedKeys() []string {
	keys := make([]string, 0, len(v.entries))
	for k := range v.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Size returns the number of key-value pairs.
func (v Vars) Size() int {
	return len(v.entries)
}
