/*
 * lines.go, part of biofiles.
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
	"fmt"
	"strconv"
	"strings"

	biofiles "github.com/rmera/biofiles"
)

//Both formats separate columns with whitespace, but the type column
//itself may contain whitespace: two-character types are padded, so
//"X -CT-CT-X" splits into two fields. ffTypes glues the type column
//back together (a field starting with "-" is a continuation of it,
//a field that parses as a number is data) and splits it at the
//dashes. It returns the types and the index of the first data field.
func ffTypes(cols []string) ([]string, int) {
	joined := cols[0]
	next := 1
	for _, c := range cols[1:] {
		if _, err := strconv.ParseFloat(c, 64); err == nil || next >= 4 || !strings.HasPrefix(c, "-") {
			break
		}
		joined += c
		next++
	}
	return strings.Split(joined, "-"), next
}

func parseFloat(s, what string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &Error{kind: KMalformedRecord, message: fmt.Sprintf("%q is no %s", s, what)}
	}
	return v, nil
}

//rest joins the fields from i on into a comment, empty when there are
//none. A leading "!" marker is dropped.
func rest(cols []string, i int) string {
	if i >= len(cols) {
		return ""
	}
	c := strings.Join(cols[i:], " ")
	return strings.TrimSpace(strings.TrimPrefix(c, "!"))
}

//massFromLine parses "CT 12.011 [polarizability] [comment]".
func massFromLine(cols []string) (*MassParam, error) {
	if len(cols) < 2 {
		return nil, &Error{kind: KMalformedRecord, message: NotEnough + " in a mass record"}
	}
	m := &MassParam{Type: cols[0]}
	var err error
	if m.Mass, err = parseFloat(cols[1], "mass"); err != nil {
		return nil, err
	}
	next := 2
	//the polarizability column is optional, and old files leave it out
	if len(cols) > 2 {
		if pol, err := strconv.ParseFloat(cols[2], 64); err == nil {
			m.Polarizability = &pol
			next = 3
		}
	}
	m.Comment = rest(cols, next)
	return m, nil
}

//bondFromLine parses "CT-CT 310.0 1.526 [comment]".
func bondFromLine(cols []string) (*BondParam, error) {
	types, next := ffTypes(cols)
	if len(types) != 2 || len(cols) < next+2 {
		return nil, &Error{kind: KMalformedRecord, message: NotEnough + " in a bond record"}
	}
	b := &BondParam{Types: [2]string{types[0], types[1]}}
	var err error
	if b.K, err = parseFloat(cols[next], "force constant"); err != nil {
		return nil, err
	}
	if b.R0, err = parseFloat(cols[next+1], "bond length"); err != nil {
		return nil, err
	}
	b.Comment = rest(cols, next+2)
	return b, nil
}

//angleFromLine parses "CT-CT-CT 63.0 109.5 [comment]", converting the
//angle to radians.
func angleFromLine(cols []string) (*AngleParam, error) {
	types, next := ffTypes(cols)
	if len(types) != 3 || len(cols) < next+2 {
		return nil, &Error{kind: KMalformedRecord, message: NotEnough + " in an angle record"}
	}
	a := &AngleParam{Types: [3]string{types[0], types[1], types[2]}}
	var err error
	if a.K, err = parseFloat(cols[next], "force constant"); err != nil {
		return nil, err
	}
	deg, err := parseFloat(cols[next+1], "angle")
	if err != nil {
		return nil, err
	}
	a.Theta0 = biofiles.DegToRad(deg)
	a.Comment = rest(cols, next+2)
	return a, nil
}

/*dihedralFromLine parses a torsion record, proper or improper. The
two look alike except that propers carry an integer divider before the
barrier and impropers don't, so a first data field without a decimal
point means a proper. Labeled files know the answer from the section
they are in and pass it in improper; unlabeled ones pass false and
rely on the detection. The phase converts to radians.*/
func dihedralFromLine(cols []string, improper bool) (*DihedralParam, error) {
	types, next := ffTypes(cols)
	if len(types) != 4 || len(cols) < next+3 {
		return nil, &Error{kind: KMalformedRecord, message: NotEnough + " in a torsion record"}
	}
	d := &DihedralParam{Types: [4]string{types[0], types[1], types[2], types[3]}, Divider: 1, Improper: improper}
	if !improper && !strings.Contains(cols[next], ".") {
		div, err := strconv.Atoi(cols[next])
		if err != nil {
			return nil, &Error{kind: KMalformedRecord, message: fmt.Sprintf("%q is no divider", cols[next])}
		}
		d.Divider = div
		next++
		if len(cols) < next+3 {
			return nil, &Error{kind: KMalformedRecord, message: NotEnough + " in a torsion record"}
		}
	} else if !improper {
		d.Improper = true
	}
	var err error
	if d.Barrier, err = parseFloat(cols[next], "barrier height"); err != nil {
		return nil, err
	}
	deg, err := parseFloat(cols[next+1], "phase")
	if err != nil {
		return nil, err
	}
	d.Phase = biofiles.DegToRad(deg)
	per, err := parseFloat(cols[next+2], "periodicity")
	if err != nil {
		return nil, err
	}
	d.Periodicity = int(per)
	d.Comment = rest(cols, next+3)
	return d, nil
}

//vdwFromLine parses "OW 1.7683 0.1520 [comment]", converting the
//radius to a Lennard-Jones sigma.
func vdwFromLine(cols []string) (*VdWParam, error) {
	if len(cols) < 3 {
		return nil, &Error{kind: KMalformedRecord, message: NotEnough + " in a van der Waals record"}
	}
	v := &VdWParam{Type: cols[0]}
	r, err := parseFloat(cols[1], "radius")
	if err != nil {
		return nil, err
	}
	v.Sigma = biofiles.RminToSigma(r)
	if v.Eps, err = parseFloat(cols[2], "well depth"); err != nil {
		return nil, err
	}
	v.Comment = rest(cols, 3)
	return v, nil
}
