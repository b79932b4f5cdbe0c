// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"runtime/debug"
	"testing"
)

func TestGetApplication(t *testing.T) {
	app := getApplication()
	got := make(map[string]bool)
	for _, cmd := range app.GetCommands() {
		got[cmd.Name()] = true
	}
	for _, name := range []string{"gen", "targets", "version", "help"} {
		if !got[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestModuleInfo(t *testing.T) {
	for _, tc := range []struct {
		name string
		m    *debug.Module
		want string
	}{
		{
			name: "nil",
			m:    nil,
			want: "<nil>",
		},
		{
			name: "module",
			m: &debug.Module{
				Path:    "github.com/xvmoon/proto-quic",
				Version: "(devel)",
			},
			want: "path:github.com/xvmoon/proto-quic version:(devel) sum: replace:<nil>",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := moduleInfo(tc.m)
			if got != tc.want {
				t.Errorf("moduleInfo=%q; want %q", got, tc.want)
			}
		})
	}
}

func TestVCSInfo(t *testing.T) {
	buildinfo := &debug.BuildInfo{
		Settings: []debug.BuildSetting{
			{Key: "-buildmode", Value: "exe"},
			{Key: "vcs.revision", Value: "abcdef"},
			{Key: "vcs.time", Value: "2025-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "false"},
		},
	}
	got := vcsInfo(buildinfo)
	want := "vcs[revision=abcdef time=2025-01-02T03:04:05Z modified=false]"
	if got != want {
		t.Errorf("vcsInfo=%q; want %q", got, want)
	}
}
