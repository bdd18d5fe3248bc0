/*
 * resolve.go, part of biofiles.
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

import "fmt"

// Indexed is the index-based view of the serial-number cross references
// in a Molecule. It holds plain indices into the record slices of the
// Molecule it was built from, never pointers, so it can be copied freely
// and the records stay value data.
type Indexed struct {
	//AtomIndex maps an atom serial number to its index in Atoms.
	AtomIndex map[int]int
	//ResidueIndex maps a residue serial number to its index in Residues.
	//With duplicated residue serials (chains restarting their numbering)
	//it keeps the first occurrence.
	ResidueIndex map[int]int
	//BondAt1 and BondAt2 give, per bond, the indices of its two atoms.
	BondAt1, BondAt2 []int
	//ResidueOf gives, per atom, the index of the residue owning it, or -1.
	ResidueOf []int
	//ChainOf gives, per residue, the index of the chain owning it, or -1.
	ChainOf []int
}

/*Resolve checks the referential integrity of mol and returns its Indexed
view. Every serial-number reference is required to point to a record that
exists: a bond, residue or chain naming a serial number nothing carries
makes Resolve fail with a KDanglingReference error. Duplicated atom serial
numbers, self bonds and repeated bonds fail with KInvalidTopology.

When two residues claim the same atom, or two chains the same residue,
the first claimant in file order wins and the later claim is ignored;
some real-world files do this and are still usable. Use ResolveStrict to
reject them instead.*/
func Resolve(mol *Molecule) (*Indexed, error) {
	in, err := resolve(mol, false)
	if err != nil {
		return nil, errDecorate(err, "Resolve")
	}
	return in, nil
}

// ResolveStrict works as Resolve, but double claims of an atom or a
// residue, and duplicated residue serial numbers, are KInvalidTopology
// errors instead of being resolved first-match.
func ResolveStrict(mol *Molecule) (*Indexed, error) {
	in, err := resolve(mol, true)
	if err != nil {
		return nil, errDecorate(err, "ResolveStrict")
	}
	return in, nil
}

func resolve(mol *Molecule, strict bool) (*Indexed, error) {
	in := new(Indexed)
	in.AtomIndex = make(map[int]int, len(mol.Atoms))
	for i, at := range mol.Atoms {
		if prev, dup := in.AtomIndex[at.SerialNumber]; dup {
			return nil, &CError{kind: KInvalidTopology,
				message: fmt.Sprintf("atom serial number %d used twice (atoms %d and %d)", at.SerialNumber, prev, i)}
		}
		in.AtomIndex[at.SerialNumber] = i
	}
	if err := resolveBonds(mol, in); err != nil {
		return nil, err
	}
	if err := resolveResidues(mol, in, strict); err != nil {
		return nil, err
	}
	if err := resolveChains(mol, in, strict); err != nil {
		return nil, err
	}
	return in, nil
}

func resolveBonds(mol *Molecule, in *Indexed) error {
	in.BondAt1 = make([]int, len(mol.Bonds))
	in.BondAt2 = make([]int, len(mol.Bonds))
	seen := make(map[[2]int]int, len(mol.Bonds))
	for i, b := range mol.Bonds {
		a1, ok := in.AtomIndex[b.At1]
		if !ok {
			return &CError{kind: KDanglingReference,
				message: fmt.Sprintf("bond %d refers to atom serial number %d, which is not present", b.SerialNumber, b.At1)}
		}
		a2, ok := in.AtomIndex[b.At2]
		if !ok {
			return &CError{kind: KDanglingReference,
				message: fmt.Sprintf("bond %d refers to atom serial number %d, which is not present", b.SerialNumber, b.At2)}
		}
		if a1 == a2 {
			return &CError{kind: KInvalidTopology,
				message: fmt.Sprintf("bond %d joins atom serial number %d to itself", b.SerialNumber, b.At1)}
		}
		pair := [2]int{a1, a2}
		if a2 < a1 {
			pair = [2]int{a2, a1}
		}
		if prev, dup := seen[pair]; dup {
			return &CError{kind: KInvalidTopology,
				message: fmt.Sprintf("bonds %d and %d join the same pair of atoms (%d, %d)", mol.Bonds[prev].SerialNumber, b.SerialNumber, b.At1, b.At2)}
		}
		seen[pair] = i
		in.BondAt1[i] = a1
		in.BondAt2[i] = a2
	}
	return nil
}

func resolveResidues(mol *Molecule, in *Indexed, strict bool) error {
	in.ResidueIndex = make(map[int]int, len(mol.Residues))
	in.ResidueOf = make([]int, len(mol.Atoms))
	for i := range in.ResidueOf {
		in.ResidueOf[i] = -1
	}
	for i, r := range mol.Residues {
		if prev, dup := in.ResidueIndex[r.SerialNumber]; dup {
			if strict {
				return &CError{kind: KInvalidTopology,
					message: fmt.Sprintf("residue serial number %d used twice (residues %d and %d)", r.SerialNumber, prev, i)}
			}
			//first occurrence stays in the map
		} else {
			in.ResidueIndex[r.SerialNumber] = i
		}
		for _, sn := range r.AtomSNs {
			ai, ok := in.AtomIndex[sn]
			if !ok {
				return &CError{kind: KDanglingReference,
					message: fmt.Sprintf("residue %d (%s) refers to atom serial number %d, which is not present", r.SerialNumber, r.Name, sn)}
			}
			if owner := in.ResidueOf[ai]; owner >= 0 && owner != i {
				if strict {
					return &CError{kind: KInvalidTopology,
						message: fmt.Sprintf("atom serial number %d claimed by residues %d and %d", sn, mol.Residues[owner].SerialNumber, r.SerialNumber)}
				}
				continue //first claimant keeps it
			}
			in.ResidueOf[ai] = i
		}
	}
	return nil
}

func resolveChains(mol *Molecule, in *Indexed, strict bool) error {
	in.ChainOf = make([]int, len(mol.Residues))
	for i := range in.ChainOf {
		in.ChainOf[i] = -1
	}
	seen := make(map[string]int, len(mol.Chains))
	for i, c := range mol.Chains {
		if prev, dup := seen[c.ID]; dup && strict {
			return &CError{kind: KInvalidTopology,
				message: fmt.Sprintf("chain ID %q used twice (chains %d and %d)", c.ID, prev, i)}
		}
		seen[c.ID] = i
		for _, sn := range c.ResidueSNs {
			ri, ok := in.ResidueIndex[sn]
			if !ok {
				return &CError{kind: KDanglingReference,
					message: fmt.Sprintf("chain %s refers to residue serial number %d, which is not present", c.ID, sn)}
			}
			if owner := in.ChainOf[ri]; owner >= 0 && owner != i {
				if strict {
					return &CError{kind: KInvalidTopology,
						message: fmt.Sprintf("residue serial number %d claimed by chains %s and %s", sn, mol.Chains[owner].ID, c.ID)}
				}
				continue
			}
			in.ChainOf[ri] = i
		}
		for _, sn := range c.AtomSNs {
			if _, ok := in.AtomIndex[sn]; !ok {
				return &CError{kind: KDanglingReference,
					message: fmt.Sprintf("chain %s refers to atom serial number %d, which is not present", c.ID, sn)}
			}
		}
	}
	return nil
}
