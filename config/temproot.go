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

package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// TempRoot is the process-wide spill/persist directory layout:
//
//	<os tmp>/synchrony-<uuid>/tmp/   spill files from sort/serialize
//	<os tmp>/synchrony-<uuid>/ans/   files saved by SavedAs with no folder
//
// It is created lazily, once, the first time DefaultTempRoot is
// called, and is never recreated afterwards even if the directory
// is later removed out from under the process.
type TempRoot struct {
	root string
	tmp  string
	ans  string
}

var (
	tempRootOnce sync.Once
	tempRoot     TempRoot
	tempRootErr  error
)

func initTempRoot() {
	root := filepath.Join(os.TempDir(), "synchrony-"+uuid.New().String())
	tmp := filepath.Join(root, "tmp")
	ans := filepath.Join(root, "ans")
	if err := os.MkdirAll(tmp, 0750); err != nil {
		tempRootErr = err
		return
	}
	if err := os.MkdirAll(ans, 0750); err != nil {
		tempRootErr = err
		return
	}
	tempRoot = TempRoot{root: root, tmp: tmp, ans: ans}
}

// DefaultTempRoot returns the lazily-initialized process-wide TempRoot.
func DefaultTempRoot() (TempRoot, error) {
	tempRootOnce.Do(initTempRoot)
	return tempRoot, tempRootErr
}

// TmpDir is where spill files from sort/serialize operations live.
func (r TempRoot) TmpDir() string { return r.tmp }

// AnsDir is where SavedAs writes when given no explicit folder.
func (r TempRoot) AnsDir() string { return r.ans }
