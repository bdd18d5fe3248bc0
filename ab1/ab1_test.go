/*
 * ab1_test.go, part of biofiles.
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
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	biofiles "github.com/rmera/biofiles"
)

//testTrace builds a synthetic run: four channels of the given length,
//with one base call, quality and peak every ten samples.
func testTrace(samples int) *Trace {
	tr := new(Trace)
	for i := range tr.Channels {
		tr.Channels[i] = make([]uint16, samples)
		for j := range tr.Channels[i] {
			tr.Channels[i][j] = uint16(1000*i + j)
		}
	}
	for i := 0; i < samples/10; i++ {
		tr.Sequence = append(tr.Sequence, "GATC"[i%4])
		tr.Quality = append(tr.Quality, uint8(20+i))
		tr.PeakLocations = append(tr.PeakLocations, uint16(10*i+5))
	}
	tr.SampleName = "sample 01"
	return tr
}

//dirFirst assembles an ABIF file with the directory right after the
//header and the channel payloads at the end of the file. Write puts
//the directory last, so this covers the other arrangement, which is
//what sequencers actually produce.
func dirFirst(chans [][]uint16) []byte {
	es := make([]wEntry, len(chans))
	off := int32(headerBytes + len(chans)*entryBytes)
	for i, ch := range chans {
		es[i] = entryU16("DATA", int32(9+i), ch)
		es[i].offset = off
		off += es[i].datasize
	}
	tdir := dirEntry{name: "tdir", number: 1, elemtype: 1023, elemsize: entryBytes,
		nelem: int32(len(es)), datasize: int32(len(es) * entryBytes), offset: headerBytes}
	buf := new(bytes.Buffer)
	buf.WriteString(magic)
	var v [2]byte
	order.PutUint16(v[:], version)
	buf.Write(v[:])
	putEntry(buf, &tdir)
	buf.Write(make([]byte, headerBytes-buf.Len()))
	for i := range es {
		putEntry(buf, &es[i].dirEntry)
	}
	for _, e := range es {
		buf.Write(e.data)
	}
	return buf.Bytes()
}

func TestRoundTrip(Te *testing.T) {
	tr := testTrace(40)
	buf := new(bytes.Buffer)
	if err := Write(buf, tr); err != nil {
		Te.Fatal(err)
	}
	back, err := Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		Te.Fatal(err)
	}
	if !reflect.DeepEqual(tr, back) {
		Te.Error("the trace didn't survive the round trip")
	}
	if string(back.Sequence) != "GATC" || back.SampleName != "sample 01" {
		Te.Error("calls or sample name read back wrong:", string(back.Sequence), back.SampleName)
	}
	name := filepath.Join(Te.TempDir(), "run.ab1")
	if err := WriteFile(name, tr); err != nil {
		Te.Fatal(err)
	}
	back, err = ReadFile(name)
	if err != nil {
		Te.Fatal(err)
	}
	if !reflect.DeepEqual(tr, back) {
		Te.Error("the trace didn't survive the file round trip")
	}
}

//The reader has to follow the directory locator rather than assume the
//layout Write happens to produce.
func TestDirectoryFirst(Te *testing.T) {
	tr := testTrace(100)
	back, err := Read(bytes.NewReader(dirFirst(tr.Channels[:])))
	if err != nil {
		Te.Fatal(err)
	}
	if back.Samples() != 100 {
		Te.Error("expected 100 samples per channel, got", back.Samples())
	}
	if !reflect.DeepEqual(back.Channels, tr.Channels) {
		Te.Error("the channels read back wrong")
	}
	if len(back.Sequence) != 0 {
		Te.Error("base calls appeared out of nowhere:", string(back.Sequence))
	}
}

//A four-channel, 100-samples-per-channel trace cut off at sample 90 of
//the first channel: the directory still parses, but the payload it
//points at is partly gone.
func TestTruncation(Te *testing.T) {
	tr := testTrace(100)
	raw := dirFirst(tr.Channels[:])
	cut := raw[:headerBytes+4*entryBytes+90*2]
	_, err := Read(bytes.NewReader(cut))
	if err == nil {
		Te.Fatal("a truncated trace was read without complaint")
	}
	if biofiles.ErrorKind(err) != KTruncatedInput {
		Te.Error("wrong error kind:", err)
	}
	buf := new(bytes.Buffer)
	if err := Write(buf, tr); err != nil {
		Te.Fatal(err)
	}
	whole := buf.Bytes()
	//Write puts the directory at the end, so here the truncation takes
	//out the directory itself
	if _, err = Read(bytes.NewReader(whole[:len(whole)-10])); biofiles.ErrorKind(err) != KTruncatedInput {
		Te.Error("a cut-off directory should read as truncation:", err)
	}
}

func TestBadHeaders(Te *testing.T) {
	if _, err := Read(bytes.NewReader([]byte("ABIF"))); biofiles.ErrorKind(err) != KTruncatedInput {
		Te.Error("4 bytes accepted as a trace:", err)
	}
	raw := dirFirst(testTrace(10).Channels[:])
	bad := append([]byte{}, raw...)
	copy(bad, "FIBA")
	if _, err := Read(bytes.NewReader(bad)); biofiles.ErrorKind(err) != KInvalidHeader {
		Te.Error("wrong magic accepted:", err)
	}
	bad = append([]byte{}, raw...)
	order.PutUint32(bad[6+12:], 0) //the locator now declares an empty directory
	if _, err := Read(bytes.NewReader(bad)); biofiles.ErrorKind(err) != KInvalidHeader {
		Te.Error("empty directory accepted:", err)
	}
}

func TestMissingChannel(Te *testing.T) {
	tr := testTrace(10)
	_, err := Read(bytes.NewReader(dirFirst(tr.Channels[:3])))
	if biofiles.ErrorKind(err) != KMalformedRecord {
		Te.Fatal("three channels accepted:", err)
	}
	if !strings.Contains(err.Error(), "DATA12") {
		Te.Error("the missing record is not named:", err)
	}
	uneven := [][]uint16{tr.Channels[0], tr.Channels[1], tr.Channels[2], tr.Channels[3][:8]}
	if _, err = Read(bytes.NewReader(dirFirst(uneven))); biofiles.ErrorKind(err) != KMalformedRecord {
		Te.Error("unequal channels accepted:", err)
	}
}

func TestChannel(Te *testing.T) {
	tr := testTrace(10)
	g, err := tr.Channel('G')
	if err != nil {
		Te.Error(err)
	}
	if !reflect.DeepEqual(g, tr.Channels[0]) {
		Te.Error("the G channel came back wrong")
	}
	c, err := tr.Channel('c')
	if err != nil {
		Te.Error(err)
	}
	if !reflect.DeepEqual(c, tr.Channels[3]) {
		Te.Error("the lowercase c lookup came back wrong")
	}
	if _, err = tr.Channel('N'); err == nil {
		Te.Error("there is no N channel to return")
	}
}

func TestTraceCopy(Te *testing.T) {
	tr := testTrace(10)
	cp := tr.Copy()
	cp.Channels[0][0] = 9999
	cp.Sequence[0] = 'N'
	cp.SampleName = "other"
	if tr.Channels[0][0] == 9999 || tr.Sequence[0] == 'N' || tr.SampleName == "other" {
		Te.Error("the copy shares memory with the original")
	}
}

//Write checks the trace before touching the output, so a refused write
//leaves the destination empty.
func TestWriteRefusals(Te *testing.T) {
	bad := []*Trace{nil}
	tr := testTrace(20)
	tr.Channels[2] = nil
	bad = append(bad, tr)
	tr = testTrace(20)
	tr.Channels[1] = tr.Channels[1][:15]
	bad = append(bad, tr)
	tr = testTrace(20)
	tr.Quality = tr.Quality[:1]
	bad = append(bad, tr)
	tr = testTrace(20)
	tr.PeakLocations = append(tr.PeakLocations, 400)
	bad = append(bad, tr)
	tr = testTrace(20)
	tr.SampleName = strings.Repeat("n", 300)
	bad = append(bad, tr)
	buf := new(bytes.Buffer)
	for i, tr := range bad {
		if err := Write(buf, tr); biofiles.ErrorKind(err) != KMalformedRecord {
			Te.Error("bad trace", i, "was written anyway:", err)
		}
	}
	if buf.Len() > 0 {
		Te.Error("a refused write still produced", buf.Len(), "bytes")
	}
}
