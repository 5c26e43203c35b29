// Copyright (C) 2022 Synchrony Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package efile

import (
	"os"
	"path/filepath"

	"github.com/synchrony-db/synchrony/config"
)

// newSpillFile creates a fresh, exclusively-owned spill file under
// tuning's temp root using the Settings prefix/suffix convention;
// uniqueness is delegated to os.CreateTemp's own random suffix.
func newSpillFile(tuning config.Tuning) (*os.File, error) {
	root, err := config.DefaultTempRoot()
	if err != nil {
		return nil, err
	}
	pattern := tuning.Prefix + "*" + tuning.SuffixTmp
	return os.CreateTemp(root.TmpDir(), pattern)
}

// resolveFolder returns folder if non-empty, else the process temp
// root's tmp directory.
func resolveFolder(folder string) (string, error) {
	if folder != "" {
		return folder, nil
	}
	root, err := config.DefaultTempRoot()
	if err != nil {
		return "", err
	}
	return root.TmpDir(), nil
}

// savedPath appends SuffixSav to name if it isn't already present,
// then joins it to folder (or the process ans/ directory when
// folder is empty).
func savedPath(name, folder string, tuning config.Tuning) (string, error) {
	if folder == "" {
		root, err := config.DefaultTempRoot()
		if err != nil {
			return "", err
		}
		folder = root.AnsDir()
	}
	if filepath.Ext(name) != tuning.SuffixSav && tuning.SuffixSav != "" {
		if len(name) < len(tuning.SuffixSav) || name[len(name)-len(tuning.SuffixSav):] != tuning.SuffixSav {
			name += tuning.SuffixSav
		}
	}
	return filepath.Join(folder, name), nil
}
