/*
 * frcmod.go, part of biofiles.
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
	"strings"

	biofiles "github.com/rmera/biofiles"
)

//the sections an frcmod can carry, by the 4 characters that matter.
//Files spell some of them longer (ANGLE, IMPROPER, NONBON); only the
//prefix counts.
var frcmodSections = []string{"MASS", "BOND", "ANGL", "DIHE", "IMPR", "NONB", "HBON"}

//frcmodLabel reports whether a line opens a section, and which. A
//one-word line that is no known label still opens a section, an
//unknown one, whose content is carried as remarks.
func frcmodLabel(trim string) (string, bool) {
	if strings.ContainsAny(trim, " \t") {
		return "", false
	}
	up := strings.ToUpper(trim)
	for _, lab := range frcmodSections {
		if strings.HasPrefix(up, lab) {
			return lab, true
		}
	}
	return "?", true
}

//FrcmodFileRead reads the frcmod parameter patch with the given name.
//See FrcmodRead.
func FrcmodFileRead(name string) (*Params, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	P, err := FrcmodRead(f)
	if err != nil {
		if e, ok := err.(*Error); ok {
			e.filename = name
		}
		return nil, errDecorate(err, "FrcmodFileRead")
	}
	return P, nil
}

/*FrcmodRead reads an frcmod parameter patch from r. Unlike the main
.dat tables, frcmods label their sections (MASS, BOND, ANGLE, DIHE,
IMPROPER, NONBON), so no guessing is needed; the labels also settle
what the .dat format infers from decimal points, whether a torsion is
proper. The first line is the remark line antechamber always writes,
kept as the Title. HBON and unknown sections are carried verbatim in
Remarks.*/
func FrcmodRead(r io.Reader) (*Params, error) {
	P := new(Params)
	buf := bufio.NewReader(r)
	lineno := 0
	section := ""
	titleSet := false
	for {
		line, rerr := buf.ReadString('\n')
		if rerr != nil && line == "" {
			break
		}
		lineno++
		trim := strings.TrimSpace(line)
		if trim == "" {
			if rerr != nil {
				break
			}
			continue
		}
		if lab, ok := frcmodLabel(trim); ok {
			section = lab
			if rerr != nil {
				break
			}
			continue
		}
		if err := frcmodLine(P, trim, section, &titleSet); err != nil {
			if e, ok := err.(*Error); ok {
				e.line = lineno
			}
			return nil, errDecorate(err, "FrcmodRead")
		}
		if rerr != nil {
			break
		}
	}
	if lineno == 0 {
		return nil, &Error{kind: KInvalidHeader, message: "empty input", deco: []string{"FrcmodRead"}}
	}
	return P, nil
}

func frcmodLine(P *Params, trim, section string, titleSet *bool) error {
	cols := strings.Fields(trim)
	switch section {
	case "MASS":
		m, err := massFromLine(cols)
		if err != nil {
			return err
		}
		P.Masses = append(P.Masses, *m)
	case "BOND":
		b, err := bondFromLine(cols)
		if err != nil {
			return err
		}
		P.Bonds = append(P.Bonds, *b)
	case "ANGL":
		a, err := angleFromLine(cols)
		if err != nil {
			return err
		}
		P.Angles = append(P.Angles, *a)
	case "DIHE":
		d, err := dihedralFromLine(cols, false)
		if err != nil {
			return err
		}
		P.Dihedrals = append(P.Dihedrals, *d)
	case "IMPR":
		d, err := dihedralFromLine(cols, true)
		if err != nil {
			return err
		}
		P.Dihedrals = append(P.Dihedrals, *d)
	case "NONB":
		v, err := vdwFromLine(cols)
		if err != nil {
			return err
		}
		P.VdW = append(P.VdW, *v)
	case "":
		if !*titleSet {
			P.Title = trim
			*titleSet = true
		} else {
			P.Remarks = append(P.Remarks, trim)
		}
	default: //HBON and sections this package doesn't model
		P.Remarks = append(P.Remarks, trim)
	}
	return nil
}

//FrcmodFileWrite writes P as an frcmod patch with the given name. See
//FrcmodWrite.
func FrcmodFileWrite(name string, P *Params) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := FrcmodWrite(f, P); err != nil {
		if e, ok := err.(*Error); ok {
			e.filename = name
		}
		return errDecorate(err, "FrcmodFileWrite")
	}
	return nil
}

/*FrcmodWrite writes P to out in frcmod layout: the remark line, then
the MASS, BOND, ANGLE, DIHE, IMPROPER and NONBON sections, each
however empty it comes. Units convert back the way FrcmodRead expects
them. An empty set is refused before anything is written.*/
func FrcmodWrite(out io.Writer, P *Params) error {
	if P == nil || P.Len() == 0 {
		return &Error{kind: KMalformedRecord, message: EmptyPayload, deco: []string{"FrcmodWrite"}}
	}
	out.Write([]byte(P.Title + "\n"))
	for _, rem := range P.Remarks {
		out.Write([]byte(rem + "\n"))
	}
	out.Write([]byte("\nMASS\n"))
	for _, m := range P.Masses {
		line := fmt.Sprintf("%-2s %10.4f", m.Type, m.Mass)
		if m.Polarizability != nil {
			line += fmt.Sprintf(" %12.4f", *m.Polarizability)
		}
		out.Write([]byte(line + datComment(m.Comment) + "\n"))
	}
	out.Write([]byte("\nBOND\n"))
	for _, b := range P.Bonds {
		out.Write([]byte(fmt.Sprintf("%-2s-%-2s %9.4f %10.4f%s\n",
			b.Types[0], b.Types[1], b.K, b.R0, datComment(b.Comment))))
	}
	out.Write([]byte("\nANGLE\n"))
	for _, a := range P.Angles {
		out.Write([]byte(fmt.Sprintf("%-2s-%-2s-%-2s %9.4f %11.4f%s\n",
			a.Types[0], a.Types[1], a.Types[2], a.K, biofiles.RadToDeg(a.Theta0), datComment(a.Comment))))
	}
	out.Write([]byte("\nDIHE\n"))
	for _, d := range P.Dihedrals {
		if d.Improper {
			continue
		}
		out.Write([]byte(fmt.Sprintf("%-2s-%-2s-%-2s-%-2s %4d %9.4f %9.4f %6.1f%s\n",
			d.Types[0], d.Types[1], d.Types[2], d.Types[3],
			d.Divider, d.Barrier, biofiles.RadToDeg(d.Phase), float64(d.Periodicity), datComment(d.Comment))))
	}
	out.Write([]byte("\nIMPROPER\n"))
	for _, d := range P.Dihedrals {
		if !d.Improper {
			continue
		}
		out.Write([]byte(fmt.Sprintf("%-2s-%-2s-%-2s-%-2s %9.4f %9.4f %6.1f%s\n",
			d.Types[0], d.Types[1], d.Types[2], d.Types[3],
			d.Barrier, biofiles.RadToDeg(d.Phase), float64(d.Periodicity), datComment(d.Comment))))
	}
	out.Write([]byte("\nNONBON\n"))
	for _, v := range P.VdW {
		out.Write([]byte(fmt.Sprintf("  %-2s %16.4f %8.4f%s\n",
			v.Type, biofiles.SigmaToRmin(v.Sigma), v.Eps, datComment(v.Comment))))
	}
	out.Write([]byte("\n"))
	return nil
}
