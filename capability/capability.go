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

// Package capability reports which SIMD backend the running binary was
// built for and whether the host CPU actually advertises the matching
// feature bit. This is informational only: the core kernels in package
// speck and package simon are selected at build time by GOARCH (through
// the per-GOARCH files of internal/simd); the runtime dispatch framework
// this package feeds is an external collaborator, not part of the core.
package capability

// Backend names a built SIMD instruction family.
type Backend int

const (
	BackendGeneric Backend = iota
	BackendSSSE3
	BackendNEON
	BackendAltiVec
)

func (b Backend) String() string {
	switch b {
	case BackendSSSE3:
		return "ssse3"
	case BackendNEON:
		return "neon"
	case BackendAltiVec:
		return "altivec"
	default:
		return "generic"
	}
}

// Report is the result of Detect: which backend was compiled in, and
// whether the host CPU actually advertises the instruction set it needs.
type Report struct {
	Backend     Backend
	HostSupport bool
}

// Detect reports the build-time backend and, where this package can check,
// whether the running CPU actually has the matching feature bit set.
func Detect() Report {
	return Report{Backend: builtBackend, HostSupport: hostSupportsBuiltBackend()}
}
