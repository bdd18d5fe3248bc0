/*
 * keyed_test.go, part of biofiles.
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
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestKeyed(Te *testing.T) {
	P, err := DatRead(strings.NewReader(tinyDat))
	if err != nil {
		Te.Fatal(err)
	}
	K := P.Index()
	if m := K.Mass("OW"); m == nil || math.Abs(m.Mass-16.0) > 1e-9 {
		Te.Error("the OW mass lookup failed:", m)
	}
	if K.Mass("ZZ") != nil {
		Te.Error("a mass appeared for a type the set doesn't have")
	}
	//the file spells it OW-HW; both readings have to find it
	b := K.Bond("HW", "OW")
	if b == nil || math.Abs(b.K-553.0) > 1e-9 {
		Te.Fatal("the reversed bond lookup failed:", b)
	}
	if K.Angle("N", "CT", "CT") == nil {
		Te.Error("the reversed angle lookup failed")
	}
	if v := K.VdW("CT"); v == nil || math.Abs(v.Sigma-1.6998347) > 1e-6 {
		Te.Error("the CT Lennard-Jones lookup failed:", v)
	}
	if terms := K.Dihedral("CT", "CT", "N", "C"); len(terms) != 3 {
		Te.Error("expected the full 3-term expansion, got", len(terms))
	}
	if terms := K.Dihedral("C", "N", "CT", "CT"); len(terms) != 3 {
		Te.Error("the reversed torsion lookup failed, got", len(terms), "terms")
	}
	//no exact HC-CT-N-O2 entry, so the X-CT-N-X wildcard serves
	wild := K.Dihedral("HC", "CT", "N", "O2")
	if len(wild) != 1 || wild[0].Divider != 6 {
		Te.Error("the wildcard fallback failed:", wild)
	}
	if K.Dihedral("HC", "CA", "CA", "HC") != nil {
		Te.Error("a torsion appeared for types the set doesn't cover")
	}
	if imp := K.Improper("X", "X", "C", "O"); len(imp) != 1 || math.Abs(imp[0].Barrier-10.5) > 1e-9 {
		Te.Error("the improper lookup failed:", imp)
	}
	if imp := K.Improper("O", "C", "X", "X"); len(imp) != 1 {
		Te.Error("the reversed improper lookup failed:", imp)
	}
	if K.Improper("CT", "CT", "N", "C") != nil {
		Te.Error("a proper torsion answered an improper lookup")
	}
	//the view points into the set, it doesn't copy it
	K.Bond("OW", "HW").K = 999.0
	if P.Bonds[0].K != 999.0 {
		Te.Error("an edit through the view didn't reach the set")
	}
}

func TestMerge(Te *testing.T) {
	base, err := DatRead(strings.NewReader(tinyDat))
	if err != nil {
		Te.Fatal(err)
	}
	patch, err := FrcmodRead(strings.NewReader(tinyFrcmod))
	if err != nil {
		Te.Fatal(err)
	}
	merged := base.Merge(patch)
	if base.Len() != 17 || math.Abs(base.Bonds[0].K-553.0) > 1e-9 {
		Te.Error("merging changed the base set")
	}
	if len(merged.Bonds) != 3 {
		Te.Fatal("expected 3 bonds after the merge, got", len(merged.Bonds))
	}
	//the patched OW-HW keeps its slot, the novel nc-cd goes at the end
	if math.Abs(merged.Bonds[0].K-600.0) > 1e-9 || merged.Bonds[0].Comment != "" {
		Te.Error("the patch should replace the water bond wholesale:", merged.Bonds[0])
	}
	if merged.Bonds[2].Types != [2]string{"nc", "cd"} {
		Te.Error("the novel bond should be appended:", merged.Bonds[2])
	}
	if len(merged.Masses) != 5 || merged.Masses[4].Type != "nc" {
		Te.Error("masses merged wrong:", merged.Masses)
	}
	if len(merged.Angles) != 4 || len(merged.VdW) != 4 {
		Te.Error("angles or van der Waals merged wrong")
	}
	if len(merged.Dihedrals) != 5 {
		Te.Fatal("expected 5 torsion records after the merge, got", len(merged.Dihedrals))
	}
	//the 3-term CT-CT-N-C expansion gives way to the patch's single
	//term, in the same spot
	if math.Abs(merged.Dihedrals[0].Barrier-0.8) > 1e-9 || merged.Dihedrals[0].Periodicity != 2 {
		Te.Error("the torsion series wasn't replaced whole:", merged.Dihedrals[0])
	}
	n := 0
	for _, d := range merged.Dihedrals {
		if d.Types == [4]string{"CT", "CT", "N", "C"} {
			n++
		}
	}
	if n != 1 {
		Te.Error("expected one CT-CT-N-C term after the merge, found", n)
	}
	if merged.Dihedrals[3].Types != [4]string{"X", "nc", "cd", "X"} || !merged.Dihedrals[4].Improper {
		Te.Error("the novel torsions should be appended in patch order")
	}
	if len(merged.Remarks) != 2 {
		Te.Error("remarks should accumulate, got", merged.Remarks)
	}
	//the merged set owns its memory
	*merged.Masses[4].Polarizability = 7.0
	if *patch.Masses[0].Polarizability == 7.0 {
		Te.Error("the merged set shares memory with the patch")
	}
	if got := base.Merge(nil); !reflect.DeepEqual(got, base) {
		Te.Error("merging nothing should just copy the base")
	}
}
