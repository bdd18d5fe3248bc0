/*
 * records_test.go, part of biofiles.
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
	"math"
	"testing"
)

//A copy has to share nothing with the original, optional fields
//included.
func TestCopyIsolation(Te *testing.T) {
	mol := waterDimer()
	ff := "OW"
	mol.Atoms[0].FFType = &ff
	q := -0.834
	mol.Atoms[0].PartialCharge = &q
	m := XRayDiffraction
	mol.Method = &m
	dup := mol.Copy()
	*dup.Atoms[0].FFType = "HW"
	*dup.Atoms[0].PartialCharge = 0
	dup.Residues[0].AtomSNs[0] = 99
	dup.Chains[0].ID = "X"
	*dup.Method = SolutionNMR
	if *mol.Atoms[0].FFType != "OW" || *mol.Atoms[0].PartialCharge != -0.834 {
		Te.Error("atom optionals shared between copy and original")
	}
	if mol.Residues[0].AtomSNs[0] != 1 {
		Te.Error("residue members shared between copy and original")
	}
	if mol.Chains[0].ID != "W" {
		Te.Error("chains shared between copy and original")
	}
	if *mol.Method != XRayDiffraction {
		Te.Error("method shared between copy and original")
	}
}

func TestMasses(Te *testing.T) {
	mol := waterDimer()
	masses, err := mol.Masses()
	if err != nil {
		Te.Fatal(err)
	}
	total := 0.0
	for _, mass := range masses {
		total += mass
	}
	if math.Abs(total-36.0) > 0.2 {
		Te.Error("two waters should weigh about 36 amu, got", total)
	}
	mol.Atoms[0].Symbol = "Xx"
	if _, err = mol.Masses(); err == nil {
		Te.Error("an unknown element got a mass")
	}
}

func TestBondKindSpellings(Te *testing.T) {
	all := []BondKind{Single, Double, Triple, Aromatic, Amide, Dummy, UnknownBond, NotConnected}
	for _, k := range all {
		got, err := BondKindFromMol2(k.Mol2String())
		if err != nil {
			Te.Error(err)
		}
		if got != k {
			Te.Error("bond kind", k, "respelled as", got)
		}
	}
	if _, err := BondKindFromMol2("zz"); ErrorKind(err) != KMalformedRecord {
		Te.Error("bond kind zz accepted:", err)
	}
	if k, err := BondKindFromSDF(4); err != nil || k != Aromatic {
		Te.Error("ctab code 4 should be an aromatic bond:", k, err)
	}
	if k, err := BondKindFromSDF(8); err != nil || k != UnknownBond {
		Te.Error("ctab query codes should map to the unknown kind:", k, err)
	}
	if _, err := BondKindFromSDF(9); err == nil {
		Te.Error("ctab bond code 9 accepted")
	}
}

func TestSymbolGuess(Te *testing.T) {
	cases := [][2]string{
		{"CA", "C"}, //an alpha carbon, not calcium
		{"CL", "Cl"},
		{"HG21", "H"},
		{"N.ar", "N"},
		{"NA", "Na"},
		{"OW", "O"},
		{"FE", "Fe"},
		{"qq", ""},
	}
	for _, c := range cases {
		if got := symbolFromName(c[0]); got != c[1] {
			Te.Error("name", c[0], "guessed as", got, "wanted", c[1])
		}
	}
	if NormalizeSymbol(" fe ") != "Fe" || NormalizeSymbol("C") != "C" {
		Te.Error("symbol normalization broken")
	}
}

func TestMethodFromString(Te *testing.T) {
	if MethodFromString("X-RAY DIFFRACTION") != XRayDiffraction {
		Te.Error("x-ray not recognized")
	}
	if MethodFromString("SOLID-STATE NMR") != SolutionNMR {
		Te.Error("solid-state NMR should land with the NMR methods")
	}
	if MethodFromString("TEA LEAVES") != OtherMethod {
		Te.Error("an unknown method should be OtherMethod")
	}
}
