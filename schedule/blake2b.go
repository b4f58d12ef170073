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

package schedule

import "golang.org/x/crypto/blake2b"

// blake2bSum derives n bytes of key material from passphrase using BLAKE2b
// configured for an n-byte digest.
func blake2bSum(passphrase []byte, n int) ([]byte, error) {
	h, err := blake2b.New(n, nil)
	if err != nil {
		return nil, err
	}
	if _, err := h.Write(passphrase); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}
