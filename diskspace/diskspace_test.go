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

package diskspace

import "testing"

func TestFreeReportsNonzeroOnTempDir(t *testing.T) {
	avail, err := Free(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if avail == 0 {
		t.Fatal("expected nonzero free space on a writable temp dir")
	}
}

func TestSufficientFalseForImpossibleDemand(t *testing.T) {
	if Sufficient(t.TempDir(), ^uint64(0)) {
		t.Fatal("expected Sufficient to report false for an unsatisfiable request")
	}
}

func TestSufficientFalseOnLookupFailure(t *testing.T) {
	if Sufficient("/path/that/does/not/exist/at/all", 1) {
		t.Fatal("expected Sufficient to report false when the lookup itself fails")
	}
}
