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
	"fmt"
	"sync/atomic"
)

// globalConfig holds the process-wide tuning knobs DEBUG, SZLIMIT and
// AUTOSLURP. They are read-mostly: set
// once at startup via SetGlobal, then frozen the first time
// Debug, SZLimit or AutoSlurp reads them. Mutating them after
// that point is a programming error, not a runtime condition, so
// SetGlobal panics instead of returning an error.
type globalConfig struct {
	// Debug enables extsort's verbose log.Printf output.
	Debug bool
	// SZLimit is the byte size below which OnDisk.Slurped()
	// reads a whole file into memory rather than identity.
	SZLimit int64
	// AutoSlurp, when true, makes Slurped() ignore SZLimit
	// and always read the file into memory.
	AutoSlurp bool
}

var (
	global       = globalConfig{SZLimit: 64 << 20}
	globalFrozen atomic.Bool
)

// SetGlobal replaces the process-wide configuration. It panics
// if any EFile operation has already frozen the configuration.
func SetGlobal(g globalConfig) {
	if globalFrozen.Load() {
		panic(fmt.Sprintf("config: SetGlobal called after freeze (attempted %+v)", g))
	}
	global = g
}

// Debug reports the current Debug flag and freezes the global
// configuration against further SetGlobal calls.
func Debug() bool {
	globalFrozen.Store(true)
	return global.Debug
}

// SZLimit reports the current SZLimit and freezes the global
// configuration against further SetGlobal calls.
func SZLimit() int64 {
	globalFrozen.Store(true)
	return global.SZLimit
}

// AutoSlurp reports the current AutoSlurp flag and freezes the
// global configuration against further SetGlobal calls.
func AutoSlurp() bool {
	globalFrozen.Store(true)
	return global.AutoSlurp
}

// GlobalConfig is the exported type for SetGlobal's argument;
// globalConfig stays unexported so call sites must go through
// this named type instead of depending on field layout.
type GlobalConfig = globalConfig
