// Copyright 2023 Synchrony Authors
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

package config

import (
	"fmt"
	"os"
	"runtime"
	"sync"
)

// memTotal is the total usable DRAM in bytes, as reported by
// /proc/meminfo. On non-Linux hosts, or if the read fails, it
// stays zero and callers fall back to a fixed default.
var (
	memTotalOnce sync.Once
	memTotal     int64
)

// systemMemory returns the detected total system RAM in bytes, or 0
// if it could not be determined. Failure here is never fatal: a
// library embedded in someone else's process must not panic just
// because /proc/meminfo is unreadable (e.g. inside a minimal
// container, or on a non-Linux host).
func systemMemory() int64 {
	memTotalOnce.Do(probeMemory)
	return memTotal
}

func probeMemory() {
	if runtime.GOOS != "linux" {
		return
	}
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return
	}
	defer f.Close()
	var kb int64
	for {
		n, err := fmt.Fscanf(f, "MemTotal: %d kB\n", &kb)
		if err != nil {
			return
		}
		if n > 0 {
			memTotal = kb * 1024
			return
		}
	}
}
