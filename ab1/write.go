/*
 * write.go, part of biofiles.
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

package ab1

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

//a directory entry plus the payload it will point at.
type wEntry struct {
	dirEntry
	data []byte
}

func entryU16(name string, number int32, vals []uint16) wEntry {
	data := make([]byte, 2*len(vals))
	for i, v := range vals {
		order.PutUint16(data[2*i:], v)
	}
	return wEntry{dirEntry{name: name, number: number, elemtype: 4, elemsize: 2,
		nelem: int32(len(vals)), datasize: int32(len(data))}, data}
}

func entryRaw(name string, number int32, elemtype int16, data []byte) wEntry {
	return wEntry{dirEntry{name: name, number: number, elemtype: elemtype, elemsize: 1,
		nelem: int32(len(data)), datasize: int32(len(data))}, data}
}

func putEntry(buf *bytes.Buffer, e *dirEntry) {
	b := make([]byte, entryBytes)
	copy(b[0:4], e.name)
	order.PutUint32(b[4:8], uint32(e.number))
	order.PutUint16(b[8:10], uint16(e.elemtype))
	order.PutUint16(b[10:12], uint16(e.elemsize))
	order.PutUint32(b[12:16], uint32(e.nelem))
	order.PutUint32(b[16:20], uint32(e.datasize))
	if e.datasize <= 4 {
		copy(b[20:24], e.inline[:])
	} else {
		order.PutUint32(b[20:24], uint32(e.offset))
	}
	//bytes 24-27 are the data handle, reserved, zero
	buf.Write(b)
}

//WriteFile writes the trace to the named file. See Write.
func WriteFile(name string, tr *Trace) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := Write(f, tr); err != nil {
		if e, ok := err.(*Error); ok {
			e.filename = name
		}
		return errDecorate(err, "WriteFile")
	}
	return nil
}

/*Write writes the trace to out as an ABIF file carrying exactly the
records this package reads: the four channels, and whichever of the
base calls, qualities, peak locations and sample name the trace has.
The same consistency rules Read enforces apply here, before anything
is written: empty or unequal channels, or qualities or peaks that
don't match the base calls, abort the write.*/
func Write(out io.Writer, tr *Trace) error {
	if tr == nil {
		return &Error{kind: KMalformedRecord, message: EmptyPayload, deco: []string{"Write"}}
	}
	for i, ch := range tr.Channels {
		if len(ch) == 0 {
			return &Error{kind: KMalformedRecord, message: fmt.Sprintf("channel %c is empty", bases[i]), deco: []string{"Write"}}
		}
		if len(ch) != len(tr.Channels[0]) {
			return &Error{kind: KMalformedRecord,
				message: fmt.Sprintf("channel %c has %d samples, channel %c has %d",
					bases[i], len(ch), bases[0], len(tr.Channels[0])), deco: []string{"Write"}}
		}
	}
	if tr.Quality != nil && len(tr.Quality) != len(tr.Sequence) {
		return &Error{kind: KMalformedRecord,
			message: fmt.Sprintf("%d quality values for %d base calls", len(tr.Quality), len(tr.Sequence)), deco: []string{"Write"}}
	}
	if tr.PeakLocations != nil && len(tr.PeakLocations) != len(tr.Sequence) {
		return &Error{kind: KMalformedRecord,
			message: fmt.Sprintf("%d peak locations for %d base calls", len(tr.PeakLocations), len(tr.Sequence)), deco: []string{"Write"}}
	}
	if len(tr.SampleName) > 255 {
		return &Error{kind: KMalformedRecord,
			message: fmt.Sprintf("sample name of %d bytes doesn't fit a pString", len(tr.SampleName)), deco: []string{"Write"}}
	}
	es := make([]wEntry, 0, 8)
	for i, ch := range tr.Channels {
		es = append(es, entryU16("DATA", int32(9+i), ch))
	}
	if len(tr.Sequence) > 0 {
		es = append(es, entryRaw("PBAS", 2, 2, tr.Sequence))
	}
	if len(tr.Quality) > 0 {
		es = append(es, entryRaw("PCON", 2, 1, tr.Quality))
	}
	if len(tr.PeakLocations) > 0 {
		es = append(es, entryU16("PLOC", 2, tr.PeakLocations))
	}
	if tr.SampleName != "" {
		p := append([]byte{byte(len(tr.SampleName))}, tr.SampleName...)
		es = append(es, entryRaw("SMPL", 1, 18, p))
	}
	off := int32(headerBytes)
	for i := range es {
		if es[i].datasize <= 4 {
			copy(es[i].inline[:], es[i].data)
		} else {
			es[i].offset = off
			off += es[i].datasize
		}
	}
	tdir := dirEntry{name: "tdir", number: 1, elemtype: 1023, elemsize: entryBytes,
		nelem: int32(len(es)), datasize: int32(len(es) * entryBytes), offset: off}
	buf := new(bytes.Buffer)
	buf.WriteString(magic)
	var v [2]byte
	order.PutUint16(v[:], version)
	buf.Write(v[:])
	putEntry(buf, &tdir)
	buf.Write(make([]byte, headerBytes-buf.Len()))
	for _, e := range es {
		if e.datasize > 4 {
			buf.Write(e.data)
		}
	}
	for i := range es {
		putEntry(buf, &es[i].dirEntry)
	}
	if _, err := out.Write(buf.Bytes()); err != nil {
		return &Error{kind: KMalformedRecord, message: "can't write trace: " + err.Error(), deco: []string{"Write"}}
	}
	return nil
}
