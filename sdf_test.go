/*
 * sdf_test.go, part of biofiles.
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
	"bytes"
	"reflect"
	"strings"
	"testing"
)

const formaldehydeSDF = `formaldehyde
biofiles-test
a comment
  4  3  0  0  0  0  0  0  0  0999 V2000
    0.0000    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    1.2050    0.0000    0.0000 O   0  0  0  0  0  0  0  0  0  0  0  0
   -0.5430    0.9380    0.0000 H   0  0  0  0  0  0  0  0  0  0  0  0
   -0.5430   -0.9380    0.0000 H   0  0  0  0  0  0  0  0  0  0  0  0
  1  2  2  0
  1  3  1  0
  1  4  1  0
M  END
> <origin>
synthetic

$$$$
`

func TestSDFRead(Te *testing.T) {
	mol, err := SDFRead(strings.NewReader(formaldehydeSDF))
	if err != nil {
		Te.Fatal(err)
	}
	if mol.Ident != "formaldehyde" {
		Te.Error("ident wrong:", mol.Ident)
	}
	if mol.Metadata["program"] != "biofiles-test" || mol.Metadata["comment"] != "a comment" {
		Te.Error("header lines not read:", mol.Metadata)
	}
	if len(mol.Atoms) != 4 || len(mol.Bonds) != 3 {
		Te.Fatal("wanted 4 atoms and 3 bonds, got", len(mol.Atoms), len(mol.Bonds))
	}
	if mol.Atoms[1].Symbol != "O" || mol.Atoms[1].Name != "O2" || mol.Atoms[1].SerialNumber != 2 {
		Te.Error("second atom wrong:", mol.Atoms[1])
	}
	if mol.Atoms[1].Position[0] != 1.2050 {
		Te.Error("coordinate wrong:", mol.Atoms[1].Position)
	}
	if mol.Bonds[0].Kind != Double || mol.Bonds[0].At1 != 1 || mol.Bonds[0].At2 != 2 {
		Te.Error("the C=O bond came out wrong:", mol.Bonds[0])
	}
	if mol.Metadata["origin"] != "synthetic" {
		Te.Error("data item not read:", mol.Metadata)
	}
}

func TestSDFRoundTrip(Te *testing.T) {
	mol, err := SDFRead(strings.NewReader(formaldehydeSDF))
	if err != nil {
		Te.Fatal(err)
	}
	var b bytes.Buffer
	if err := SDFWrite(&b, mol); err != nil {
		Te.Fatal(err)
	}
	back, err := SDFRead(bytes.NewReader(b.Bytes()))
	if err != nil {
		Te.Fatal(err)
	}
	if back.Ident != mol.Ident {
		Te.Error("ident changed in the round trip")
	}
	if !reflect.DeepEqual(back.Atoms, mol.Atoms) {
		Te.Error("atoms changed in the round trip")
	}
	if !reflect.DeepEqual(back.Bonds, mol.Bonds) {
		Te.Error("bonds changed in the round trip")
	}
	if back.Metadata["origin"] != "synthetic" {
		Te.Error("data items changed in the round trip:", back.Metadata)
	}
}

func TestSDFBadInput(Te *testing.T) {
	cut := formaldehydeSDF[:strings.Index(formaldehydeSDF, "   -0.5430    0.9380")]
	_, err := SDFRead(strings.NewReader(cut))
	if ErrorKind(err) != KTruncatedInput {
		Te.Error("a connection table cut short should be truncated input, got:", err)
	}
	v3k := strings.Replace(formaldehydeSDF, "0999 V2000", "0999 V3000", 1)
	_, err = SDFRead(strings.NewReader(v3k))
	if ErrorKind(err) != KInvalidHeader {
		Te.Error("V3000 should be refused as an invalid header, got:", err)
	}
}

//A record that ends without its $$$$ terminator is still readable.
func TestSDFNoTerminator(Te *testing.T) {
	const oneAtom = `one atom
prog
c
  1  0  0  0  0  0  0  0  0  0999 V2000
    0.0000    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
M  END
> <note>
no terminator
`
	mol, err := SDFRead(strings.NewReader(oneAtom))
	if err != nil {
		Te.Fatal(err)
	}
	if mol.Metadata["note"] != "no terminator" {
		Te.Error("trailing data item lost:", mol.Metadata)
	}
}
