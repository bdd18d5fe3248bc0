/*
 * dat.go, part of biofiles.
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

package amber

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	biofiles "github.com/rmera/biofiles"
)

//DatFileRead reads the Amber main-field parameter file with the given
//name. See DatRead.
func DatFileRead(name string) (*Params, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	P, err := DatRead(f)
	if err != nil {
		if e, ok := err.(*Error); ok {
			e.filename = name
		}
		return nil, errDecorate(err, "DatFileRead")
	}
	return P, nil
}

/*DatRead reads an Amber .dat parameter table from r. The format has
no section labels, but it doesn't need any: the number of dash-joined
atom types opening a line says what the line is (one type is a mass,
two a bond, three an angle, four a torsion), the MOD4 label opens the
van der Waals block and blank lines close it, and a line whose first
data field isn't a number is no parameter record at all. Those last
ones, like the hydrophilic-type list and the type equivalences, are
kept in Remarks. Reading stops at END, or at the end of the input.*/
func DatRead(r io.Reader) (*Params, error) {
	P := new(Params)
	buf := bufio.NewReader(r)
	lineno := 0
	inMod4 := false
	for {
		line, rerr := buf.ReadString('\n')
		if rerr != nil && line == "" {
			break
		}
		lineno++
		if lineno == 1 {
			P.Title = strings.TrimSpace(line)
			if rerr != nil {
				break
			}
			continue
		}
		trim := strings.TrimSpace(line)
		if strings.HasPrefix(trim, "END") {
			break
		}
		if trim == "" {
			inMod4 = false
		} else if strings.HasPrefix(trim, "MOD4") {
			inMod4 = true
		} else if err := datLine(P, trim, inMod4); err != nil {
			if e, ok := err.(*Error); ok {
				e.line = lineno
			}
			return nil, errDecorate(err, "DatRead")
		}
		if rerr != nil {
			break
		}
	}
	if lineno == 0 {
		return nil, &Error{kind: KInvalidHeader, message: "empty input", deco: []string{"DatRead"}}
	}
	return P, nil
}

func datLine(P *Params, trim string, inMod4 bool) error {
	cols := strings.Fields(trim)
	types, next := ffTypes(cols)
	if next >= len(cols) {
		P.Remarks = append(P.Remarks, trim)
		return nil
	}
	if _, err := strconv.ParseFloat(cols[next], 64); err != nil {
		P.Remarks = append(P.Remarks, trim)
		return nil
	}
	switch len(types) {
	case 1:
		if inMod4 {
			v, err := vdwFromLine(cols)
			if err != nil {
				return err
			}
			P.VdW = append(P.VdW, *v)
		} else {
			m, err := massFromLine(cols)
			if err != nil {
				return err
			}
			P.Masses = append(P.Masses, *m)
		}
	case 2:
		b, err := bondFromLine(cols)
		if err != nil {
			return err
		}
		P.Bonds = append(P.Bonds, *b)
	case 3:
		a, err := angleFromLine(cols)
		if err != nil {
			return err
		}
		P.Angles = append(P.Angles, *a)
	case 4:
		d, err := dihedralFromLine(cols, false)
		if err != nil {
			return err
		}
		P.Dihedrals = append(P.Dihedrals, *d)
	default:
		P.Remarks = append(P.Remarks, trim)
	}
	return nil
}

//DatFileWrite writes P as an Amber main-field parameter file with the
//given name. See DatWrite.
func DatFileWrite(name string, P *Params) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := DatWrite(f, P); err != nil {
		if e, ok := err.(*Error); ok {
			e.filename = name
		}
		return errDecorate(err, "DatFileWrite")
	}
	return nil
}

func datComment(c string) string {
	if c == "" {
		return ""
	}
	return "    " + c
}

/*DatWrite writes P to out in Amber .dat layout: title, masses, the
carried remark lines, then bonds, angles, proper torsions, improper
torsions, the MOD4 van der Waals block and END. Angles and phases go
out in degrees and sigmas as radii, as the format wants them. A set
with no parameters at all is refused before anything is written.*/
func DatWrite(out io.Writer, P *Params) error {
	if P == nil || P.Len() == 0 {
		return &Error{kind: KMalformedRecord, message: EmptyPayload, deco: []string{"DatWrite"}}
	}
	out.Write([]byte(P.Title + "\n"))
	for _, m := range P.Masses {
		line := fmt.Sprintf("%-2s %10.4f", m.Type, m.Mass)
		if m.Polarizability != nil {
			line += fmt.Sprintf(" %12.4f", *m.Polarizability)
		}
		out.Write([]byte(line + datComment(m.Comment) + "\n"))
	}
	out.Write([]byte("\n"))
	for _, rem := range P.Remarks {
		out.Write([]byte(rem + "\n"))
	}
	for _, b := range P.Bonds {
		out.Write([]byte(fmt.Sprintf("%-2s-%-2s %9.4f %10.4f%s\n",
			b.Types[0], b.Types[1], b.K, b.R0, datComment(b.Comment))))
	}
	out.Write([]byte("\n"))
	for _, a := range P.Angles {
		out.Write([]byte(fmt.Sprintf("%-2s-%-2s-%-2s %9.4f %11.4f%s\n",
			a.Types[0], a.Types[1], a.Types[2], a.K, biofiles.RadToDeg(a.Theta0), datComment(a.Comment))))
	}
	out.Write([]byte("\n"))
	for _, d := range P.Dihedrals {
		if d.Improper {
			continue
		}
		out.Write([]byte(fmt.Sprintf("%-2s-%-2s-%-2s-%-2s %4d %9.4f %9.4f %6.1f%s\n",
			d.Types[0], d.Types[1], d.Types[2], d.Types[3],
			d.Divider, d.Barrier, biofiles.RadToDeg(d.Phase), float64(d.Periodicity), datComment(d.Comment))))
	}
	out.Write([]byte("\n"))
	for _, d := range P.Dihedrals {
		if !d.Improper {
			continue
		}
		out.Write([]byte(fmt.Sprintf("%-2s-%-2s-%-2s-%-2s %9.4f %9.4f %6.1f%s\n",
			d.Types[0], d.Types[1], d.Types[2], d.Types[3],
			d.Barrier, biofiles.RadToDeg(d.Phase), float64(d.Periodicity), datComment(d.Comment))))
	}
	out.Write([]byte("\n"))
	out.Write([]byte("MOD4      RE\n"))
	for _, v := range P.VdW {
		out.Write([]byte(fmt.Sprintf("  %-2s %16.4f %8.4f%s\n",
			v.Type, biofiles.SigmaToRmin(v.Sigma), v.Eps, datComment(v.Comment))))
	}
	out.Write([]byte("\n"))
	out.Write([]byte("END\n"))
	return nil
}
