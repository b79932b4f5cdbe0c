// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package gradle

import (
	"sort"
	"strings"
)

// CombineTestEntries folds instrumentation test apks into the
// androidTest source set of the apk they instrument, so Android Studio
// sees one project with both source sets instead of two projects.
//
// A test entry is an entry whose label ends in "_test_apk__apk" and
// whose descriptor declares apk_under_test. It is matched against the
// declared name of the remaining entries. Entries are processed in
// label order and the first test entry claiming a name wins; later
// claimants and test entries matching nothing stay standalone, so no
// target is dropped.
//
// Folding junit test binaries this way does not work: their support
// libraries would form dependency cycles through the library under
// test, so they keep their own projects.
func CombineTestEntries(entries []*Entry) ([]*Entry, error) {
	sorted := make([]*Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].GNTarget() < sorted[j].GNTarget() })

	combined := make([]*Entry, 0, len(sorted))
	testEntries := make(map[string]*Entry)
	for _, e := range sorted {
		config, err := e.BuildConfig()
		if err != nil {
			return nil, err
		}
		apkName := config.Gradle.ApkUnderTest
		if strings.HasSuffix(e.GNTarget(), "_test_apk__apk") && apkName != "" {
			if _, ok := testEntries[apkName]; ok {
				combined = append(combined, e)
				continue
			}
			testEntries[apkName] = e
			continue
		}
		combined = append(combined, e)
	}
	for _, e := range combined {
		config, err := e.BuildConfig()
		if err != nil {
			return nil, err
		}
		t, ok := testEntries[config.DepsInfo.Name]
		if !ok {
			continue
		}
		e.AndroidTest = t
		delete(testEntries, config.DepsInfo.Name)
	}
	// Unmatched test entries become individual projects.
	unmatched := make([]*Entry, 0, len(testEntries))
	for _, e := range testEntries {
		unmatched = append(unmatched, e)
	}
	sort.Slice(unmatched, func(i, j int) bool { return unmatched[i].GNTarget() < unmatched[j].GNTarget() })
	combined = append(combined, unmatched...)
	return combined, nil
}
