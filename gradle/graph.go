// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package gradle

// Expand walks deps_configs from the given roots and returns every
// reachable entry, each exactly once, with its descriptor loaded.
// Dependency cycles terminate because an entry is marked found before
// its deps are scanned. The result order follows the walk.
func (g *Graph) Expand(roots []*Entry) ([]*Entry, error) {
	found := make(map[*Entry]bool)
	var entries []*Entry
	toScan := make([]*Entry, len(roots))
	copy(toScan, roots)
	for len(toScan) > 0 {
		e := toScan[len(toScan)-1]
		toScan = toScan[:len(toScan)-1]
		if found[e] {
			continue
		}
		found[e] = true
		entries = append(entries, e)
		config, err := e.BuildConfig()
		if err != nil {
			return nil, err
		}
		for _, fname := range config.DepsInfo.DepsConfigs {
			dep, err := g.EntryFromConfigPath(fname)
			if err != nil {
				return nil, err
			}
			toScan = append(toScan, dep)
		}
	}
	return entries, nil
}
