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

	"sigs.k8s.io/yaml"

	"github.com/synchrony-db/synchrony/compr"
)

// fileOverrides is the subset of Tuning a caller may override from a
// YAML file, rather than in Go code — e.g. tuning a long-running
// pipeline's spill behavior without a rebuild. Fields absent from the
// file leave Default()'s value untouched.
type fileOverrides struct {
	CardCap      *int    `json:"cardCap,omitempty"`
	RamCap       *int64  `json:"ramCap,omitempty"`
	Cap          *int    `json:"cap,omitempty"`
	AlwaysOnDisk *bool   `json:"alwaysOnDisk,omitempty"`
	Compression  *string `json:"compression,omitempty"`
}

// Load reads a YAML tuning override file at path and applies it on
// top of Default() via sigs.k8s.io/yaml: unknown and absent keys are
// simply ignored, never an error, so a Settings file can be upgraded
// independently of the binary reading it.
func Load(path string) (Tuning, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, err
	}
	var ov fileOverrides
	if err := yaml.Unmarshal(raw, &ov); err != nil {
		return Tuning{}, err
	}
	t := Default()
	if ov.CardCap != nil {
		t.CardCap = *ov.CardCap
	}
	if ov.RamCap != nil {
		t.RamCap = *ov.RamCap
	}
	if ov.Cap != nil {
		t = t.WithCap(*ov.Cap)
	}
	if ov.AlwaysOnDisk != nil {
		t.AlwaysOnDisk = *ov.AlwaysOnDisk
	}
	if ov.Compression != nil {
		t.Compression = compr.Name(*ov.Compression)
	}
	return t, nil
}
