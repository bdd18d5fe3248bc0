/*
 * ccp4_test.go, part of biofiles.
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
	"encoding/binary"
	"path/filepath"
	"reflect"
	"testing"

	biofiles "github.com/rmera/biofiles"
)

//gradientMap builds a 4x3x2 map over an orthogonal 4x3x2 Å cell, one
//node per Å, with density x+10y+100z at node (x,y,z). The density is
//linear, so trilinear interpolation anywhere in the grid has a known
//exact value.
func gradientMap() *Map {
	m := new(Map)
	H := &m.Header
	H.NC, H.NR, H.NS = 4, 3, 2
	H.Mode = 2
	H.MX, H.MY, H.MZ = 4, 3, 2
	H.CellA, H.CellB, H.CellC = 4, 3, 2
	H.Alpha, H.Beta, H.Gamma = 90, 90, 90
	H.MapC, H.MapR, H.MapS = 1, 2, 3
	H.ISpg = 1
	copy(H.MapTag[:], "MAP ")
	H.MachSt = [4]byte{0x44, 0x44, 0x00, 0x00}
	H.NLabl = 1
	copy(H.Labels[0][:], "gradient test map")
	for z := 0; z < 2; z++ {
		for y := 0; y < 3; y++ {
			for x := 0; x < 4; x++ {
				m.Samples = append(m.Samples, float32(x+10*y+100*z))
			}
		}
	}
	return m
}

func TestRoundTrip(Te *testing.T) {
	m := gradientMap()
	var b bytes.Buffer
	if err := Write(&b, m); err != nil {
		Te.Fatal(err)
	}
	back, err := Read(bytes.NewReader(b.Bytes()))
	if err != nil {
		Te.Fatal(err)
	}
	if !reflect.DeepEqual(back.Header, m.Header) {
		Te.Error("header changed in the round trip")
	}
	if !reflect.DeepEqual(back.Samples, m.Samples) {
		Te.Error("samples changed in the round trip")
	}
	if back.Header.Label(0) != "gradient test map" {
		Te.Error("label mangled:", back.Header.Label(0))
	}
}

//A file declaring a scrambled axis order still loads with its samples
//in crystallographic order, and saves back to the scrambled order.
func TestAxisPermutation(Te *testing.T) {
	m := gradientMap()
	//file columns along y, rows along z, sections along x
	m.Header.MapC, m.Header.MapR, m.Header.MapS = 2, 3, 1
	m.Header.NC, m.Header.NR, m.Header.NS = 3, 2, 4
	var b bytes.Buffer
	if err := Write(&b, m); err != nil {
		Te.Fatal(err)
	}
	back, err := Read(bytes.NewReader(b.Bytes()))
	if err != nil {
		Te.Fatal(err)
	}
	nx, ny, nz := back.Dim()
	if nx != 4 || ny != 3 || nz != 2 {
		Te.Error("permuted dimensions wrong:", nx, ny, nz)
	}
	if !reflect.DeepEqual(back.Samples, m.Samples) {
		Te.Error("samples not restored to crystallographic order")
	}
	v, err := back.Sample(3, 2, 1)
	if err != nil {
		Te.Error(err)
	}
	if v != 123 {
		Te.Error("corner sample should be 123, got", v)
	}
}

func TestBigEndian(Te *testing.T) {
	m := gradientMap()
	m.order = binary.BigEndian
	var b bytes.Buffer
	if err := Write(&b, m); err != nil {
		Te.Fatal(err)
	}
	raw := b.Bytes()
	if raw[212] != 0x11 {
		Te.Error("machine stamp should mark big endian, got", raw[212])
	}
	back, err := Read(bytes.NewReader(raw))
	if err != nil {
		Te.Fatal(err)
	}
	if back.order != binary.ByteOrder(binary.BigEndian) {
		Te.Error("byte order not detected")
	}
	if !reflect.DeepEqual(back.Samples, m.Samples) {
		Te.Error("samples changed crossing byte orders")
	}
}

func TestBadMaps(Te *testing.T) {
	m := gradientMap()
	var b bytes.Buffer
	if err := Write(&b, m); err != nil {
		Te.Fatal(err)
	}
	raw := b.Bytes()
	//the payload stops 10 bytes short
	_, err := Read(bytes.NewReader(raw[:len(raw)-10]))
	if biofiles.ErrorKind(err) != KTruncatedInput {
		Te.Error("short payload should be truncated input, got:", err)
	}
	//the header itself stops short
	_, err = Read(bytes.NewReader(raw[:100]))
	if biofiles.ErrorKind(err) != KTruncatedInput {
		Te.Error("short header should be truncated input, got:", err)
	}
	//a wrong magic tag
	bad := append([]byte(nil), raw...)
	bad[208] = 'X'
	_, err = Read(bytes.NewReader(bad))
	if biofiles.ErrorKind(err) != KInvalidHeader {
		Te.Error("bad magic should be an invalid header, got:", err)
	}
	//an unsupported mode
	bad = append([]byte(nil), raw...)
	bad[12] = 1
	_, err = Read(bytes.NewReader(bad))
	if biofiles.ErrorKind(err) != KInvalidHeader {
		Te.Error("mode 1 should be refused, got:", err)
	}
	//writing a map whose sample count lies
	m = gradientMap()
	m.Samples = m.Samples[:10]
	var discard bytes.Buffer
	if err := Write(&discard, m); biofiles.ErrorKind(err) != KMalformedRecord {
		Te.Error("sample count mismatch accepted on write:", err)
	}
	if err := Write(&discard, &Map{}); biofiles.ErrorKind(err) != KMalformedRecord {
		Te.Error("empty map accepted on write:", err)
	}
}

func TestMapFiles(Te *testing.T) {
	m := gradientMap()
	dir := Te.TempDir()
	plain := filepath.Join(dir, "grad.ccp4")
	if err := WriteFile(plain, m); err != nil {
		Te.Fatal(err)
	}
	back, err := ReadFileMapped(plain)
	if err != nil {
		Te.Fatal(err)
	}
	if !reflect.DeepEqual(back.Samples, m.Samples) {
		Te.Error("mapped read changed the samples")
	}
	for _, name := range []string{"grad.ccp4.gz", "grad.ccp4.zst"} {
		comp := filepath.Join(dir, name)
		if err := WriteFile(comp, m); err != nil {
			Te.Fatal(err)
		}
		back, err = ReadFile(comp)
		if err != nil {
			Te.Fatal(err)
		}
		if !reflect.DeepEqual(back.Samples, m.Samples) {
			Te.Error("samples changed through", name)
		}
	}
}
