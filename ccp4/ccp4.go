/*
 * ccp4.go, part of biofiles.
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

//Package ccp4 reads and writes CCP4/MRC electron-density maps, and
//answers density queries at arbitrary cartesian points. Only mode-2
//maps (one float32 per voxel, the overwhelmingly common case) are
//supported. Samples are rearranged at load into crystallographic order
//(x fastest), whatever axis permutation the file declares, and
//rearranged back on save, so files round-trip.
package ccp4

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Header is the 1024-byte CCP4/MRC header, word by word. The field
// types match the file exactly; nothing is converted. NC/NR/NS and the
// starts are in file (column, row, section) order; MX/MY/MZ, the cell
// and the origin are in crystallographic order; MapC/MapR/MapS say
// which crystallographic axis (1=x, 2=y, 3=z) each file axis runs
// along.
type Header struct {
	NC, NR, NS                int32
	Mode                      int32
	NCStart, NRStart, NSStart int32
	MX, MY, MZ                int32
	CellA, CellB, CellC       float32
	Alpha, Beta, Gamma        float32 //degrees
	MapC, MapR, MapS          int32
	DMin, DMax, DMean         float32
	ISpg, NSymBT              int32
	Extra1                    [2]int32
	ExtTyp                    [4]byte
	Version                   int32
	Extra2                    [21]int32
	OriginX, OriginY, OriginZ float32
	MapTag                    [4]byte //"MAP "
	MachSt                    [4]byte
	RMS                       float32
	NLabl                     int32
	Labels                    [10][80]byte
}

//the size of Header on disk; the struct has no padding at any of the
//field boundaries, so binary.Read fills it in one go.
const headerBytes = 1024

// Label returns the i-th header label as a string, trimmed.
func (H *Header) Label(i int) string {
	if i < 0 || i >= int(H.NLabl) || i >= len(H.Labels) {
		return ""
	}
	return strings.TrimRight(string(H.Labels[i][:]), " \x00")
}

// Map is one density map: its header and its samples. The samples are
// in crystallographic order, x fastest, y next, z slowest, regardless
// of the order the file stored them in; Nx/Ny/Nz give the dimensions
// in that same order.
type Map struct {
	Header  Header
	Samples []float32
	order   binary.ByteOrder //how the file was stored, kept for the writer
}

//permutation returns, for each crystallographic axis, the file axis
//that runs along it (both 0-based), and the reverse.
func (H *Header) permutation() (fileOf, crystOf [3]int, err error) {
	axes := [3]int32{H.MapC, H.MapR, H.MapS}
	seen := [3]bool{}
	for f, a := range axes {
		if a < 1 || a > 3 || seen[a-1] {
			return fileOf, crystOf, &Error{kind: KInvalidHeader,
				message: fmt.Sprintf("MAPC/MAPR/MAPS = %d/%d/%d is not an axis permutation", H.MapC, H.MapR, H.MapS)}
		}
		seen[a-1] = true
		crystOf[f] = int(a - 1)
		fileOf[a-1] = f
	}
	return fileOf, crystOf, nil
}

// Dim returns the map dimensions in crystallographic (x, y, z) order.
func (M *Map) Dim() (nx, ny, nz int) {
	dims := M.crystDims()
	return dims[0], dims[1], dims[2]
}

func (M *Map) crystDims() [3]int {
	fileDims := [3]int{int(M.Header.NC), int(M.Header.NR), int(M.Header.NS)}
	fileOf, _, err := M.Header.permutation()
	if err != nil {
		//a Map we built has been through the check already; one the
		//caller assembled by hand hasn't, but zero dims just make every
		//query fail with KOutOfBounds, which is the right answer.
		return [3]int{}
	}
	var dims [3]int
	for a := 0; a < 3; a++ {
		dims[a] = fileDims[fileOf[a]]
	}
	return dims
}

//start returns the grid start (unit-cell offset) per crystallographic
//axis.
func (M *Map) start() [3]int {
	fileStarts := [3]int{int(M.Header.NCStart), int(M.Header.NRStart), int(M.Header.NSStart)}
	fileOf, _, err := M.Header.permutation()
	if err != nil {
		return [3]int{}
	}
	var st [3]int
	for a := 0; a < 3; a++ {
		st[a] = fileStarts[fileOf[a]]
	}
	return st
}

// ReadFile reads the CCP4/MRC map in the named file. Files ending in
// .gz or .zst are transparently decompressed. See Read.
func ReadFile(name string) (*Map, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var r io.Reader = f
	switch {
	case strings.HasSuffix(name, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, &Error{kind: KInvalidHeader, message: "bad gzip stream: " + err.Error(), filename: name}
		}
		defer gz.Close()
		r = gz
	case strings.HasSuffix(name, ".zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, &Error{kind: KInvalidHeader, message: "bad zstd stream: " + err.Error(), filename: name}
		}
		defer zr.Close()
		r = zr
	}
	m, err := Read(r)
	if err != nil {
		if e, ok := err.(*Error); ok {
			e.filename = name
		}
		return nil, errDecorate(err, "ReadFile")
	}
	return m, nil
}

/*Read reads a CCP4/MRC density map from r. Both byte orders are
handled: the machine stamp decides when it is present and sane, and a
plausibility check on the first header word decides otherwise. The
symmetry records announced by NSymBT are skipped. The sample block must
carry exactly NC*NR*NS values or the map is rejected as truncated.*/
func Read(r io.Reader) (*Map, error) {
	raw := make([]byte, headerBytes)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, &Error{kind: KTruncatedInput, message: "input ended inside the header", deco: []string{"Read"}}
	}
	if string(raw[208:212]) != "MAP " {
		return nil, &Error{kind: KInvalidHeader, message: fmt.Sprintf("magic tag is %q, want \"MAP \"", raw[208:212]), deco: []string{"Read"}}
	}
	var order binary.ByteOrder = binary.LittleEndian
	switch raw[212] {
	case 0x44:
		//little endian, the usual case
	case 0x11:
		order = binary.BigEndian
	default:
		//no trustworthy stamp. If the first word is absurd as little
		//endian, the file is big endian.
		nc := int32(binary.LittleEndian.Uint32(raw[0:4]))
		if nc <= 0 || nc > 1<<24 {
			order = binary.BigEndian
		}
	}
	m := new(Map)
	m.order = order
	if err := binary.Read(bytes.NewReader(raw), order, &m.Header); err != nil {
		return nil, &Error{kind: KInvalidHeader, message: "undecodable header: " + err.Error(), deco: []string{"Read"}}
	}
	H := &m.Header
	if H.Mode != 2 {
		return nil, &Error{kind: KInvalidHeader, message: fmt.Sprintf("mode %d map; only mode 2 (float32) is supported", H.Mode), deco: []string{"Read"}}
	}
	if H.NC <= 0 || H.NR <= 0 || H.NS <= 0 {
		return nil, &Error{kind: KInvalidHeader, message: fmt.Sprintf("non-positive dimensions %dx%dx%d", H.NC, H.NR, H.NS), deco: []string{"Read"}}
	}
	if _, _, err := H.permutation(); err != nil {
		return nil, errDecorate(err, "Read")
	}
	if H.NSymBT < 0 {
		return nil, &Error{kind: KInvalidHeader, message: fmt.Sprintf("negative symmetry block size %d", H.NSymBT), deco: []string{"Read"}}
	}
	if H.NSymBT > 0 {
		if _, err := io.CopyN(io.Discard, r, int64(H.NSymBT)); err != nil {
			return nil, &Error{kind: KTruncatedInput, message: "input ended inside the symmetry records", deco: []string{"Read"}}
		}
	}
	n := int(H.NC) * int(H.NR) * int(H.NS)
	fileSamples := make([]float32, n)
	if err := binary.Read(r, order, fileSamples); err != nil {
		return nil, &Error{kind: KTruncatedInput,
			message: fmt.Sprintf("density payload ended early, want %d samples", n), deco: []string{"Read"}}
	}
	m.Samples = crystOrder(fileSamples, H)
	return m, nil
}

//crystOrder rearranges samples from file (column-fastest) order into
//crystallographic (x-fastest) order.
func crystOrder(file []float32, H *Header) []float32 {
	fileOf, crystOf, _ := H.permutation()
	if crystOf == [3]int{0, 1, 2} { //already in order
		return file
	}
	fileDims := [3]int{int(H.NC), int(H.NR), int(H.NS)}
	var dims [3]int
	for a := 0; a < 3; a++ {
		dims[a] = fileDims[fileOf[a]]
	}
	out := make([]float32, len(file))
	i := 0
	var g [3]int //crystallographic x,y,z of the current file position
	for s := 0; s < fileDims[2]; s++ {
		g[crystOf[2]] = s
		for r := 0; r < fileDims[1]; r++ {
			g[crystOf[1]] = r
			for c := 0; c < fileDims[0]; c++ {
				g[crystOf[0]] = c
				out[(g[2]*dims[1]+g[1])*dims[0]+g[0]] = file[i]
				i++
			}
		}
	}
	return out
}

//fileOrder is the inverse of crystOrder, used on save.
func fileOrder(cryst []float32, H *Header) []float32 {
	fileOf, crystOf, _ := H.permutation()
	if crystOf == [3]int{0, 1, 2} {
		return cryst
	}
	fileDims := [3]int{int(H.NC), int(H.NR), int(H.NS)}
	var dims [3]int
	for a := 0; a < 3; a++ {
		dims[a] = fileDims[fileOf[a]]
	}
	out := make([]float32, len(cryst))
	i := 0
	var g [3]int
	for s := 0; s < fileDims[2]; s++ {
		g[crystOf[2]] = s
		for r := 0; r < fileDims[1]; r++ {
			g[crystOf[1]] = r
			for c := 0; c < fileDims[0]; c++ {
				g[crystOf[0]] = c
				out[i] = cryst[(g[2]*dims[1]+g[1])*dims[0]+g[0]]
				i++
			}
		}
	}
	return out
}

// WriteFile writes m to the named file. Files ending in .gz or .zst
// are transparently compressed. See Write.
func WriteFile(name string, m *Map) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	var w io.Writer = f
	switch {
	case strings.HasSuffix(name, ".gz"):
		gz := gzip.NewWriter(f)
		defer gz.Close()
		w = gz
	case strings.HasSuffix(name, ".zst"):
		zw, err := zstd.NewWriter(f)
		if err != nil {
			return &Error{kind: KMalformedRecord, message: "can't start zstd stream: " + err.Error(), filename: name}
		}
		defer zw.Close()
		w = zw
	}
	if err := Write(w, m); err != nil {
		if e, ok := err.(*Error); ok {
			e.filename = name
		}
		return errDecorate(err, "WriteFile")
	}
	return nil
}

/*Write writes m to out in CCP4/MRC format, in the byte order the map
was read with (little endian for maps built in memory). The symmetry
records are not kept by Read, so NSymBT is written as zero. A map with
no samples, or whose sample count disagrees with its header, is
rejected before anything is written.*/
func Write(out io.Writer, m *Map) error {
	if m == nil || len(m.Samples) == 0 {
		return &Error{kind: KMalformedRecord, message: EmptyPayload, deco: []string{"Write"}}
	}
	H := m.Header //copied: the caller's header is not touched
	n := int(H.NC) * int(H.NR) * int(H.NS)
	if len(m.Samples) != n {
		return &Error{kind: KMalformedRecord,
			message: fmt.Sprintf("header says %d samples, map carries %d", n, len(m.Samples)), deco: []string{"Write"}}
	}
	if _, _, err := H.permutation(); err != nil {
		return errDecorate(err, "Write")
	}
	order := m.order
	if order == nil {
		order = binary.LittleEndian
	}
	H.Mode = 2
	H.NSymBT = 0
	copy(H.MapTag[:], "MAP ")
	if order == binary.ByteOrder(binary.BigEndian) {
		H.MachSt = [4]byte{0x11, 0x11, 0x00, 0x00}
	} else {
		H.MachSt = [4]byte{0x44, 0x44, 0x00, 0x00}
	}
	if err := binary.Write(out, order, &H); err != nil {
		return &Error{kind: KMalformedRecord, message: "can't write header: " + err.Error(), deco: []string{"Write"}}
	}
	if err := binary.Write(out, order, fileOrder(m.Samples, &H)); err != nil {
		return &Error{kind: KMalformedRecord, message: "can't write samples: " + err.Error(), deco: []string{"Write"}}
	}
	return nil
}
