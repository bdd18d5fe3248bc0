/*
 * mapped.go, part of biofiles.
 *
 * Copyright 2025 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package ccp4

import (
	"bytes"
	"os"
	"strings"

	"github.com/edsrzf/mmap-go"
)

/*ReadFileMapped reads the named map through a memory mapping instead
of buffered reads, which is faster for the multi-hundred-MB maps
cryo-EM produces. The mapping only lives for the duration of the call;
the returned Map owns plain memory, like one from ReadFile. Compressed
files can't be mapped usefully, so .gz and .zst names are handed to
ReadFile, as is any file the OS refuses to map.*/
func ReadFileMapped(name string) (*Map, error) {
	if strings.HasSuffix(name, ".gz") || strings.HasSuffix(name, ".zst") {
		return ReadFile(name)
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return ReadFile(name)
	}
	defer mm.Unmap()
	m, err := Read(bytes.NewReader(mm))
	if err != nil {
		if e, ok := err.(*Error); ok {
			e.filename = name
		}
		return nil, errDecorate(err, "ReadFileMapped")
	}
	return m, nil
}
