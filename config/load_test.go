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
	"testing"
)

func TestLoadOverridesOnlyNamedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "synchrony.yaml")
	contents := "cardCap: 500\nalwaysOnDisk: true\ncompression: s2\n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}
	tuning, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	if tuning.CardCap != 500 {
		t.Fatalf("CardCap = %d, want 500", tuning.CardCap)
	}
	if !tuning.AlwaysOnDisk {
		t.Fatal("AlwaysOnDisk = false, want true")
	}
	if tuning.Compression != "s2" {
		t.Fatalf("Compression = %q, want s2", tuning.Compression)
	}
	if tuning.Cap != want.Cap {
		t.Fatalf("Cap should be untouched: got %d, want %d", tuning.Cap, want.Cap)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := Load("/path/does/not/exist.yaml"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
