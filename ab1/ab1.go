/*
 * ab1.go, part of biofiles.
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

//Package ab1 reads and writes ABIF (.ab1) capillary-sequencing trace
//files, the processed side of them: the four dye channels, the base
//calls with their qualities, and where in the trace each call was
//made. ABIF is a tagged container with many more records than these;
//the rest are ignored on read and absent on write.
package ab1

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

//ABIF stores everything big-endian.
var order = binary.BigEndian

const (
	magic       = "ABIF"
	version     = 101
	entryBytes  = 28
	headerBytes = 128 //magic, version and the directory locator, zero-padded
)

/*Trace is one sequencing run. Channels holds the processed
fluorescence of the G, A, T and C dyes, in that order, all the same
length. Sequence is the base calls; Quality has one phred value per
call and PeakLocations the sample index each call was made at, so both
match Sequence in length when present.*/
type Trace struct {
	Channels      [4][]uint16 //G, A, T, C
	Sequence      []byte
	Quality       []uint8
	PeakLocations []uint16
	SampleName    string
}

//bases orders the channels; Channels[i] is the dye for bases[i].
var bases = [4]byte{'G', 'A', 'T', 'C'}

//Samples returns the number of samples per channel.
func (tr *Trace) Samples() int {
	return len(tr.Channels[0])
}

//Channel returns the trace of the dye for the given base, which must
//be one of G, A, T, C (or their lowercase).
func (tr *Trace) Channel(base byte) ([]uint16, error) {
	for i, b := range bases {
		if base == b || base == b+'a'-'A' {
			return tr.Channels[i], nil
		}
	}
	return nil, &Error{kind: KMalformedRecord, message: fmt.Sprintf("no channel for base %q", base), deco: []string{"Channel"}}
}

//Copy returns a deep copy of the trace.
func (tr *Trace) Copy() *Trace {
	out := new(Trace)
	for i, ch := range tr.Channels {
		out.Channels[i] = append([]uint16{}, ch...)
	}
	out.Sequence = append([]byte{}, tr.Sequence...)
	out.Quality = append([]uint8{}, tr.Quality...)
	out.PeakLocations = append([]uint16{}, tr.PeakLocations...)
	out.SampleName = tr.SampleName
	return out
}

//dirEntry is one 28-byte ABIF directory entry. When datasize is 4
//bytes or fewer the payload lives in the offset field itself, which
//inline keeps verbatim for that case.
type dirEntry struct {
	name     string
	number   int32
	elemtype int16
	elemsize int16
	nelem    int32
	datasize int32
	offset   int32
	inline   [4]byte
}

func parseEntry(raw []byte) dirEntry {
	var e dirEntry
	e.name = string(raw[0:4])
	e.number = int32(order.Uint32(raw[4:8]))
	e.elemtype = int16(order.Uint16(raw[8:10]))
	e.elemsize = int16(order.Uint16(raw[10:12]))
	e.nelem = int32(order.Uint32(raw[12:16]))
	e.datasize = int32(order.Uint32(raw[16:20]))
	e.offset = int32(order.Uint32(raw[20:24]))
	copy(e.inline[:], raw[20:24])
	return e
}

func (e *dirEntry) String() string {
	return fmt.Sprintf("%s%d", e.name, e.number)
}

//payload returns the entry's data, whether inline or pointed to.
func (e *dirEntry) payload(raw []byte) ([]byte, error) {
	if e.datasize < 0 {
		return nil, &Error{kind: KMalformedRecord, message: fmt.Sprintf("entry %s declares a negative size", e)}
	}
	if e.datasize <= 4 {
		return e.inline[:e.datasize], nil
	}
	off, size := int64(e.offset), int64(e.datasize)
	if off < 0 || off+size > int64(len(raw)) {
		return nil, &Error{kind: KTruncatedInput,
			message: fmt.Sprintf("entry %s wants bytes %d-%d of a %d-byte file", e, off, off+size, len(raw))}
	}
	return raw[off : off+size], nil
}

//uint16s decodes the entry as the big-endian 16-bit array it declares
//itself to be.
func (e *dirEntry) uint16s(raw []byte) ([]uint16, error) {
	p, err := e.payload(raw)
	if err != nil {
		return nil, err
	}
	if int(e.nelem)*2 != len(p) {
		return nil, &Error{kind: KMalformedRecord,
			message: fmt.Sprintf("entry %s declares %d elements but carries %d bytes", e, e.nelem, len(p))}
	}
	out := make([]uint16, e.nelem)
	for i := range out {
		out[i] = order.Uint16(p[2*i:])
	}
	return out, nil
}

//ReadFile reads the ABIF trace in the named file.
func ReadFile(name string) (*Trace, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tr, err := Read(f)
	if err != nil {
		if e, ok := err.(*Error); ok {
			e.filename = name
		}
		return nil, errDecorate(err, "ReadFile")
	}
	return tr, nil
}

/*Read reads an ABIF trace from r. The four processed channels
(DATA9-DATA12) must be present and equally long. Base calls (PBAS2)
and, when present, their qualities (PCON2) and peak locations (PLOC2)
must agree in length. The sample name (SMPL1) is optional. Directory
entries for anything else are skipped.*/
func Read(r io.Reader) (*Trace, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &Error{kind: KTruncatedInput, message: "can't slurp input: " + err.Error(), deco: []string{"Read"}}
	}
	if len(raw) < 6+entryBytes {
		return nil, &Error{kind: KTruncatedInput, message: fmt.Sprintf("%d bytes can't hold an ABIF header", len(raw)), deco: []string{"Read"}}
	}
	if string(raw[0:4]) != magic {
		return nil, &Error{kind: KInvalidHeader, message: fmt.Sprintf("magic is %q, want %q", raw[0:4], magic), deco: []string{"Read"}}
	}
	tdir := parseEntry(raw[6 : 6+entryBytes])
	n := int64(tdir.nelem)
	dirOff := int64(tdir.offset)
	if n <= 0 {
		return nil, &Error{kind: KInvalidHeader, message: fmt.Sprintf("directory with %d entries", n), deco: []string{"Read"}}
	}
	if dirOff < 0 || dirOff+n*entryBytes > int64(len(raw)) {
		return nil, &Error{kind: KTruncatedInput,
			message: fmt.Sprintf("directory of %d entries at offset %d runs past the %d-byte file", n, dirOff, len(raw)), deco: []string{"Read"}}
	}
	entries := make(map[string]dirEntry, n)
	for i := int64(0); i < n; i++ {
		e := parseEntry(raw[dirOff+i*entryBytes:])
		entries[e.String()] = e
	}
	tr := new(Trace)
	for i := range tr.Channels {
		e, ok := entries[fmt.Sprintf("DATA%d", 9+i)]
		if !ok {
			return nil, &Error{kind: KMalformedRecord,
				message: fmt.Sprintf("no DATA%d record, the %c channel is missing", 9+i, bases[i]), deco: []string{"Read"}}
		}
		if tr.Channels[i], err = e.uint16s(raw); err != nil {
			return nil, errDecorate(err, "Read")
		}
	}
	for i := 1; i < 4; i++ {
		if len(tr.Channels[i]) != len(tr.Channels[0]) {
			return nil, &Error{kind: KMalformedRecord,
				message: fmt.Sprintf("channel %c has %d samples, channel %c has %d",
					bases[i], len(tr.Channels[i]), bases[0], len(tr.Channels[0])), deco: []string{"Read"}}
		}
	}
	if e, ok := entries["PBAS2"]; ok {
		p, err := e.payload(raw)
		if err != nil {
			return nil, errDecorate(err, "Read")
		}
		tr.Sequence = append([]byte{}, p...)
	}
	if e, ok := entries["PCON2"]; ok {
		p, err := e.payload(raw)
		if err != nil {
			return nil, errDecorate(err, "Read")
		}
		if len(p) != len(tr.Sequence) {
			return nil, &Error{kind: KMalformedRecord,
				message: fmt.Sprintf("%d quality values for %d base calls", len(p), len(tr.Sequence)), deco: []string{"Read"}}
		}
		tr.Quality = append([]uint8{}, p...)
	}
	if e, ok := entries["PLOC2"]; ok {
		if tr.PeakLocations, err = e.uint16s(raw); err != nil {
			return nil, errDecorate(err, "Read")
		}
		if len(tr.PeakLocations) != len(tr.Sequence) {
			return nil, &Error{kind: KMalformedRecord,
				message: fmt.Sprintf("%d peak locations for %d base calls", len(tr.PeakLocations), len(tr.Sequence)), deco: []string{"Read"}}
		}
	}
	if e, ok := entries["SMPL1"]; ok {
		p, err := e.payload(raw)
		if err != nil {
			return nil, errDecorate(err, "Read")
		}
		//a pString: the first byte is the length
		if len(p) > 0 && int(p[0]) <= len(p)-1 {
			tr.SampleName = string(p[1 : 1+p[0]])
		}
	}
	return tr, nil
}
