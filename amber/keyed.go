/*
 * keyed.go, part of biofiles.
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

//A bond parameter for CT-HC serves HC-CT too, and the same goes for
//the longer tuples read either way around. The key functions pick one
//of the two spellings, so both find the same entry.

func bondKey(t [2]string) [2]string {
	if t[1] < t[0] {
		return [2]string{t[1], t[0]}
	}
	return t
}

func angleKey(t [3]string) [3]string {
	if t[2] < t[0] {
		return [3]string{t[2], t[1], t[0]}
	}
	return t
}

func dihedralKey(t [4]string) [4]string {
	rev := [4]string{t[3], t[2], t[1], t[0]}
	for i := range t {
		if rev[i] != t[i] {
			if rev[i] < t[i] {
				return rev
			}
			return t
		}
	}
	return t
}

/*Keyed is a lookup view over a Params: the same entries, reachable by
atom types instead of by position. The view points into the Params it
was built from, so edits through one show through the other; rebuild
it after appending to the Params. Tuples match read in either
direction.*/
type Keyed struct {
	masses    map[string]*MassParam
	bonds     map[[2]string]*BondParam
	angles    map[[3]string]*AngleParam
	dihedrals map[[4]string][]*DihedralParam
	impropers map[[4]string][]*DihedralParam
	vdw       map[string]*VdWParam
}

//Index builds the lookup view. When the set lists the same key twice
//the last entry wins, except for torsions, where all the terms of a
//key are kept together, in order.
func (P *Params) Index() *Keyed {
	K := &Keyed{
		masses:    make(map[string]*MassParam, len(P.Masses)),
		bonds:     make(map[[2]string]*BondParam, len(P.Bonds)),
		angles:    make(map[[3]string]*AngleParam, len(P.Angles)),
		dihedrals: make(map[[4]string][]*DihedralParam),
		impropers: make(map[[4]string][]*DihedralParam),
		vdw:       make(map[string]*VdWParam, len(P.VdW)),
	}
	for i := range P.Masses {
		K.masses[P.Masses[i].Type] = &P.Masses[i]
	}
	for i := range P.Bonds {
		K.bonds[bondKey(P.Bonds[i].Types)] = &P.Bonds[i]
	}
	for i := range P.Angles {
		K.angles[angleKey(P.Angles[i].Types)] = &P.Angles[i]
	}
	for i := range P.Dihedrals {
		d := &P.Dihedrals[i]
		k := dihedralKey(d.Types)
		if d.Improper {
			K.impropers[k] = append(K.impropers[k], d)
		} else {
			K.dihedrals[k] = append(K.dihedrals[k], d)
		}
	}
	for i := range P.VdW {
		K.vdw[P.VdW[i].Type] = &P.VdW[i]
	}
	return K
}

//Mass returns the mass entry for an atom type, or nil.
func (K *Keyed) Mass(t string) *MassParam { return K.masses[t] }

//VdW returns the Lennard-Jones entry for an atom type, or nil.
func (K *Keyed) VdW(t string) *VdWParam { return K.vdw[t] }

//Bond returns the stretching entry for a type pair, read either way
//around, or nil.
func (K *Keyed) Bond(a, b string) *BondParam {
	return K.bonds[bondKey([2]string{a, b})]
}

//Angle returns the bending entry for a type triple, read either way
//around, or nil.
func (K *Keyed) Angle(a, b, c string) *AngleParam {
	return K.angles[angleKey([3]string{a, b, c})]
}

/*Dihedral returns all the terms for a proper torsion: the exact match
when the set has one, otherwise the X-b-c-X wildcard entry, the way
Amber resolves torsions. Nil when neither exists.*/
func (K *Keyed) Dihedral(a, b, c, d string) []*DihedralParam {
	if terms, ok := K.dihedrals[dihedralKey([4]string{a, b, c, d})]; ok {
		return terms
	}
	return K.dihedrals[dihedralKey([4]string{"X", b, c, "X"})]
}

//Improper returns all the terms for an improper torsion, exact
//matches only, or nil.
func (K *Keyed) Improper(a, b, c, d string) []*DihedralParam {
	return K.impropers[dihedralKey([4]string{a, b, c, d})]
}

type dihedralSeries struct {
	types    [4]string
	improper bool
}

/*Merge applies a patch, normally an frcmod, to P, normally a main
field, and returns the result as a new set; neither input is touched.
A patch entry whose key the base already has replaces the base entry
in place; for torsions the whole term series of that key is replaced
at once, since a patch rewrites the full expansion, not one term of
it. Novel keys are appended in patch order. Remarks accumulate.*/
func (P *Params) Merge(patch *Params) *Params {
	out := P.Copy()
	if patch == nil {
		return out
	}
	out.Remarks = append(out.Remarks, patch.Remarks...)
	midx := make(map[string]int, len(out.Masses))
	for i := range out.Masses {
		midx[out.Masses[i].Type] = i
	}
	for _, m := range patch.Masses {
		if m.Polarizability != nil {
			pol := *m.Polarizability
			m.Polarizability = &pol
		}
		if i, ok := midx[m.Type]; ok {
			out.Masses[i] = m
		} else {
			out.Masses = append(out.Masses, m)
			midx[m.Type] = len(out.Masses) - 1
		}
	}
	bidx := make(map[[2]string]int, len(out.Bonds))
	for i := range out.Bonds {
		bidx[bondKey(out.Bonds[i].Types)] = i
	}
	for _, b := range patch.Bonds {
		k := bondKey(b.Types)
		if i, ok := bidx[k]; ok {
			out.Bonds[i] = b
		} else {
			out.Bonds = append(out.Bonds, b)
			bidx[k] = len(out.Bonds) - 1
		}
	}
	aidx := make(map[[3]string]int, len(out.Angles))
	for i := range out.Angles {
		aidx[angleKey(out.Angles[i].Types)] = i
	}
	for _, a := range patch.Angles {
		k := angleKey(a.Types)
		if i, ok := aidx[k]; ok {
			out.Angles[i] = a
		} else {
			out.Angles = append(out.Angles, a)
			aidx[k] = len(out.Angles) - 1
		}
	}
	vidx := make(map[string]int, len(out.VdW))
	for i := range out.VdW {
		vidx[out.VdW[i].Type] = i
	}
	for _, v := range patch.VdW {
		if i, ok := vidx[v.Type]; ok {
			out.VdW[i] = v
		} else {
			out.VdW = append(out.VdW, v)
			vidx[v.Type] = len(out.VdW) - 1
		}
	}
	out.Dihedrals = mergeDihedrals(out.Dihedrals, patch.Dihedrals)
	return out
}

func mergeDihedrals(base, patch []DihedralParam) []DihedralParam {
	terms := make(map[dihedralSeries][]DihedralParam)
	var order []dihedralSeries
	for _, d := range patch {
		k := dihedralSeries{dihedralKey(d.Types), d.Improper}
		if _, seen := terms[k]; !seen {
			order = append(order, k)
		}
		terms[k] = append(terms[k], d)
	}
	done := make(map[dihedralSeries]bool, len(terms))
	merged := make([]DihedralParam, 0, len(base)+len(patch))
	for _, d := range base {
		k := dihedralSeries{dihedralKey(d.Types), d.Improper}
		if tt, ok := terms[k]; ok {
			if !done[k] {
				merged = append(merged, tt...)
				done[k] = true
			}
			continue
		}
		merged = append(merged, d)
	}
	for _, k := range order {
		if !done[k] {
			merged = append(merged, terms[k]...)
		}
	}
	return merged
}
