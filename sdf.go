/*
 * sdf.go, part of biofiles.
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

package biofiles

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

//sdfLines hands out the lines of an SDF file one at a time, keeping
//count so errors can say where they happened.
type sdfLines struct {
	r        *bufio.Reader
	n        int
	filename string
}

func (s *sdfLines) next() (string, error) {
	line, err := s.r.ReadString('\n')
	if err != nil && line == "" {
		return "", &CError{kind: KTruncatedInput, message: fmt.Sprintf("%s at line %d", UnexpectedEOF, s.n+1), filename: s.filename}
	}
	s.n++
	return strings.TrimRight(line, "\r\n"), nil
}

// SDFFileRead reads the SDF/MOL file with the given name. See SDFRead.
func SDFFileRead(name string) (*Molecule, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	mol, err := sdfBufIORead(bufio.NewReader(f), name)
	if err != nil {
		return nil, errDecorate(err, "SDFFileRead")
	}
	return mol, nil
}

/*SDFRead reads the first record of an MDL SDF (or a plain MOL file) from
r: the V2000 connection table plus the data items, which land in the
molecule's Metadata. Atoms get serial numbers 1..N, matching the 1-based
indices the bond block uses. V3000 tables are not supported.*/
func SDFRead(r io.Reader) (*Molecule, error) {
	mol, err := sdfBufIORead(bufio.NewReader(r), "")
	if err != nil {
		return nil, errDecorate(err, "SDFRead")
	}
	return mol, nil
}

func sdfBufIORead(r *bufio.Reader, filename string) (*Molecule, error) {
	lines := &sdfLines{r: r, filename: filename}
	mol := new(Molecule)
	mol.Metadata = make(map[string]string)
	header := make([]string, 4)
	for i := range header {
		var err error
		header[i], err = lines.next()
		if err != nil {
			return nil, err
		}
	}
	mol.Ident = strings.TrimSpace(header[0])
	if v := strings.TrimSpace(header[1]); v != "" {
		mol.Metadata["program"] = v
	}
	if v := strings.TrimSpace(header[2]); v != "" {
		mol.Metadata["comment"] = v
	}
	counts := header[3]
	if strings.Contains(counts, "V3000") {
		return nil, &CError{kind: KInvalidHeader, message: "V3000 connection tables are not supported", filename: filename}
	}
	if len(counts) < 6 {
		return nil, &CError{kind: KInvalidHeader, message: fmt.Sprintf("counts line too short: %q", counts), filename: filename}
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(counts[0:3]))
	if err != nil {
		return nil, &CError{kind: KInvalidHeader, message: fmt.Sprintf("bad atom count in %q", counts), filename: filename}
	}
	nbonds, err := strconv.Atoi(strings.TrimSpace(counts[3:6]))
	if err != nil {
		return nil, &CError{kind: KInvalidHeader, message: fmt.Sprintf("bad bond count in %q", counts), filename: filename}
	}
	for i := 0; i < natoms; i++ {
		line, err := lines.next()
		if err != nil {
			return nil, err
		}
		at, err := sdfAtomLine(line, i+1, filename)
		if err != nil {
			return nil, err
		}
		mol.Atoms = append(mol.Atoms, at)
	}
	for i := 0; i < nbonds; i++ {
		line, err := lines.next()
		if err != nil {
			return nil, err
		}
		b, err := sdfBondLine(line, i+1, natoms, filename)
		if err != nil {
			return nil, err
		}
		mol.Bonds = append(mol.Bonds, b)
	}
	//properties block, up to M  END
	for {
		line, err := lines.next()
		if err != nil {
			return nil, err
		}
		if strings.HasPrefix(line, "M  END") {
			break
		}
	}
	if err := sdfDataItems(lines, mol); err != nil {
		return nil, err
	}
	return mol, nil
}

func sdfAtomLine(line string, serial int, filename string) (Atom, error) {
	at := Atom{SerialNumber: serial}
	if len(line) < 31 {
		return at, &CError{kind: KMalformedRecord, message: fmt.Sprintf("atom line %d too short: %q", serial, line), filename: filename}
	}
	var err error
	for i, span := range [][2]int{{0, 10}, {10, 20}, {20, 30}} {
		at.Position[i], err = strconv.ParseFloat(strings.TrimSpace(line[span[0]:span[1]]), 64)
		if err != nil {
			return at, &CError{kind: KMalformedRecord, message: fmt.Sprintf("atom %d: bad coordinate in %q", serial, line), filename: filename}
		}
	}
	end := len(line)
	if end > 34 {
		end = 34
	}
	at.Symbol = NormalizeSymbol(line[31:end])
	if at.Symbol == "" {
		return at, &CError{kind: KMalformedRecord, message: fmt.Sprintf("atom %d has no element symbol", serial), filename: filename}
	}
	at.Name = at.Symbol + strconv.Itoa(serial)
	return at, nil
}

func sdfBondLine(line string, serial, natoms int, filename string) (Bond, error) {
	b := Bond{SerialNumber: serial}
	if len(line) < 9 {
		return b, &CError{kind: KMalformedRecord, message: fmt.Sprintf("bond line %d too short: %q", serial, line), filename: filename}
	}
	cols := make([]int, 3)
	for i := 0; i < 3; i++ {
		var err error
		cols[i], err = strconv.Atoi(strings.TrimSpace(line[i*3 : i*3+3]))
		if err != nil {
			return b, &CError{kind: KMalformedRecord, message: fmt.Sprintf("bond %d: bad field in %q", serial, line), filename: filename}
		}
	}
	//the reference check proper happens in Resolve; this one just keeps
	//the 1-based index convention honest
	b.At1, b.At2 = cols[0], cols[1]
	var err error
	b.Kind, err = BondKindFromSDF(cols[2])
	if err != nil {
		return b, err
	}
	return b, nil
}

func sdfDataItems(lines *sdfLines, mol *Molecule) error {
	key := ""
	var val []string
	flush := func() {
		if key != "" {
			mol.Metadata[key] = strings.Join(val, "\n")
		}
		key = ""
		val = nil
	}
	for {
		line, err := lines.next()
		if err != nil {
			flush() //a record that just ends, with no $$$$, is fine
			return nil
		}
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "$$$$"):
			flush()
			return nil
		case strings.HasPrefix(trimmed, ">"):
			flush()
			if open := strings.Index(trimmed, "<"); open >= 0 {
				if end := strings.Index(trimmed[open:], ">"); end > 0 {
					key = trimmed[open+1 : open+end]
				}
			}
		case trimmed == "":
			flush()
		default:
			if key != "" {
				val = append(val, trimmed)
			}
		}
	}
}

// SDFFileWrite writes mol to the named file in SDF format. See SDFWrite.
func SDFFileWrite(name string, mol *Molecule) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := SDFWrite(f, mol); err != nil {
		return errDecorate(err, "SDFFileWrite")
	}
	return nil
}

/*SDFWrite writes mol to out as a single-record SDF file: V2000
connection table, then one data item per Metadata entry (except the
header entries "program" and "comment", which go in the header, and
keys from other formats, which have no SDF spelling), then the record
terminator. The bond block wants 1-based atom indices, so the
molecule's serial-number references are resolved first; validation
failure, or a molecule with no atoms, writes nothing.*/
func SDFWrite(out io.Writer, mol *Molecule) error {
	if mol == nil || len(mol.Atoms) == 0 {
		return &CError{kind: KMalformedRecord, message: EmptyPayload, deco: []string{"SDFWrite"}}
	}
	in, err := Resolve(mol)
	if err != nil {
		return errDecorate(err, "SDFWrite")
	}
	out.Write([]byte(mol.Ident + "\n"))
	out.Write([]byte(mol.Metadata["program"] + "\n"))
	out.Write([]byte(mol.Metadata["comment"] + "\n"))
	out.Write([]byte(fmt.Sprintf("%3d%3d  0  0  0  0  0  0  0  0999 V2000\n", len(mol.Atoms), len(mol.Bonds))))
	for i := range mol.Atoms {
		a := &mol.Atoms[i]
		sym := a.Symbol
		if sym == "" {
			sym = "*"
		}
		out.Write([]byte(fmt.Sprintf("%10.4f%10.4f%10.4f %-3s 0  0  0  0  0  0  0  0  0  0  0  0\n",
			a.Position[0], a.Position[1], a.Position[2], sym)))
	}
	for i, b := range mol.Bonds {
		out.Write([]byte(fmt.Sprintf("%3d%3d%3d  0\n", in.BondAt1[i]+1, in.BondAt2[i]+1, b.Kind.SDFCode())))
	}
	out.Write([]byte("M  END\n"))
	keys := make([]string, 0, len(mol.Metadata))
	for k := range mol.Metadata {
		if k == "program" || k == "comment" || strings.HasPrefix(k, "_") || strings.Contains(k, ".") {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out.Write([]byte("> <" + k + ">\n"))
		out.Write([]byte(mol.Metadata[k] + "\n\n"))
	}
	out.Write([]byte("$$$$\n"))
	return nil
}
