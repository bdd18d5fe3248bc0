/*
 * amber.go, part of biofiles.
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

/*Package amber reads and writes Amber force-field parameter tables:
the big main-field .dat files (parm10.dat, gaff2.dat) and the small
.frcmod patches antechamber writes for one molecule. Both formats
carry the same records, so both load into the same Params; an frcmod
is applied to its main field with Merge.

Angles arrive in memory in radians and van der Waals radii as
Lennard-Jones sigmas; the file units (degrees, radii) are restored on
write.*/
package amber

//MassParam is one MASS record: an atom type, its mass in Daltons and,
//when the file carries one, its atomic polarizability in Å^3.
type MassParam struct {
	Type           string
	Mass           float64
	Polarizability *float64
	Comment        string
}

//BondParam is one bond-stretching record.
type BondParam struct {
	Types   [2]string
	K       float64 //kcal/mol/Å^2
	R0      float64 //Å
	Comment string
}

//AngleParam is one angle-bending record. The file stores the
//equilibrium angle in degrees; here it is in radians.
type AngleParam struct {
	Types   [3]string
	K       float64 //kcal/mol/rad^2
	Theta0  float64 //radians
	Comment string
}

/*DihedralParam is one torsion term, proper or improper. The file
stores the phase in degrees; here it is in radians. A negative
Periodicity means the file lists another term for the same four types
on the next line; the sign is kept so a parameter set writes back the
way it came. Impropers carry no divider column in the file; their
Divider is 1.*/
type DihedralParam struct {
	Types       [4]string
	Divider     int     //IDIVF, the barrier is used divided by this
	Barrier     float64 //kcal/mol
	Phase       float64 //radians
	Periodicity int
	Improper    bool
	Comment     string
}

//VdWParam is one Lennard-Jones record. The file stores the van der
//Waals radius; Sigma is that radius divided by 2^(1/6), and is turned
//back into a radius on write.
type VdWParam struct {
	Type    string
	Sigma   float64 //Å
	Eps     float64 //kcal/mol, the well depth
	Comment string
}

/*Params is one parameter set: everything a .dat main field or an
.frcmod patch carries. Dihedrals holds proper and improper torsions
together, told apart by their Improper flag. Lines that aren't
parameter records (the hydrophilic-type list, atom-type equivalences,
the 10-12 hydrogen-bond table) are carried through verbatim in
Remarks, so nothing is silently dropped. Record order is kept as
read.*/
type Params struct {
	Title     string
	Remarks   []string
	Masses    []MassParam
	Bonds     []BondParam
	Angles    []AngleParam
	Dihedrals []DihedralParam
	VdW       []VdWParam
}

//Copy returns a deep copy of P.
func (P *Params) Copy() *Params {
	out := new(Params)
	out.Title = P.Title
	out.Remarks = append([]string{}, P.Remarks...)
	out.Masses = append([]MassParam{}, P.Masses...)
	for i, m := range out.Masses {
		if m.Polarizability != nil {
			pol := *m.Polarizability
			out.Masses[i].Polarizability = &pol
		}
	}
	out.Bonds = append([]BondParam{}, P.Bonds...)
	out.Angles = append([]AngleParam{}, P.Angles...)
	out.Dihedrals = append([]DihedralParam{}, P.Dihedrals...)
	out.VdW = append([]VdWParam{}, P.VdW...)
	return out
}

//Len returns the total number of parameter records in the set.
func (P *Params) Len() int {
	return len(P.Masses) + len(P.Bonds) + len(P.Angles) + len(P.Dihedrals) + len(P.VdW)
}
