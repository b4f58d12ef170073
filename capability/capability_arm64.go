// Copyright (C) 2022 Sneller, Inc.
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

//go:build arm64

package capability

import "golang.org/x/sys/cpu"

const builtBackend = BackendNEON

// ASIMD is mandatory in the AArch64 base architecture (it's what NEON is
// called there), but some restricted environments still hide the bit, so
// this is checked rather than assumed.
func hostSupportsBuiltBackend() bool { return cpu.ARM64.HasASIMD }
