/*
 * mmcif_test.go, part of biofiles.
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
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

//Two protein residues in chain A, an ATP fragment in chain B and a
//water in chain C, which gets no residue. The title sits in a
//semicolon block and one atom name needs quoting.
const tinyCIF = `data_TST
#
_entry.id TST1
_struct.title
;A tiny test
 structure
;
_exptl.method 'X-RAY DIFFRACTION'
#
loop_
_atom_site.group_PDB
_atom_site.id
_atom_site.type_symbol
_atom_site.label_atom_id
_atom_site.label_comp_id
_atom_site.label_asym_id
_atom_site.label_seq_id
_atom_site.Cartn_x
_atom_site.Cartn_y
_atom_site.Cartn_z
_atom_site.occupancy
ATOM 1 N N ALA A 1 11.104 6.134 -6.504 1.00
ATOM 2 C CA ALA A 1 11.639 6.071 -5.147 1.00
ATOM 3 C C ALA A 1 10.908 6.990 -4.163 1.00
ATOM 4 O O ALA A 1 9.685 7.070 -4.224 1.00
ATOM 5 N N GLY A 2 11.617 7.701 -3.286 1.00
ATOM 6 C CA GLY A 2 11.029 8.608 -2.313 1.00
HETATM 7 P P ATP B 1 2.300 1.200 0.500 0.90
HETATM 8 O "O5'" ATP B 1 3.100 0.200 1.400 0.90
HETATM 9 O O HOH C . 5.000 5.000 5.000 0.80
#
loop_
_struct_conf.id
_struct_conf.conf_type_id
_struct_conf.beg_label_asym_id
_struct_conf.beg_label_seq_id
_struct_conf.end_label_seq_id
1 HELX_P A 1 2
#
`

func TestMmcifRead(Te *testing.T) {
	mol, err := MmcifRead(strings.NewReader(tinyCIF))
	if err != nil {
		Te.Fatal(err)
	}
	if mol.Ident != "TST" {
		Te.Error("ident should come from the data_ block, got", mol.Ident)
	}
	if mol.Metadata["_entry.id"] != "TST1" {
		Te.Error("entry id not read:", mol.Metadata["_entry.id"])
	}
	if mol.Metadata["_struct.title"] != "A tiny test structure" {
		Te.Error("title block not read:", mol.Metadata["_struct.title"])
	}
	if mol.Method == nil || *mol.Method != XRayDiffraction {
		Te.Error("method not read")
	}
	if len(mol.Atoms) != 9 {
		Te.Fatal("wanted 9 atoms, got", len(mol.Atoms))
	}
	if mol.Atoms[7].Name != "O5'" {
		Te.Error("quoted atom name mangled:", mol.Atoms[7].Name)
	}
	if !mol.Atoms[6].Hetero || mol.Atoms[0].Hetero {
		Te.Error("HETATM flags wrong")
	}
	if mol.Atoms[8].Occupancy == nil || *mol.Atoms[8].Occupancy != 0.80 {
		Te.Error("water occupancy not read")
	}
	if len(mol.Residues) != 3 {
		Te.Fatal("wanted 3 residues (the water gets none), got", len(mol.Residues))
	}
	if mol.Residues[2].Name != "ATP" || len(mol.Residues[2].AtomSNs) != 2 {
		Te.Error("ATP residue wrong:", mol.Residues[2])
	}
	if len(mol.Chains) != 3 || mol.Chains[2].ID != "C" {
		Te.Fatal("wanted chains A, B and C, got", mol.Chains)
	}
	if len(mol.Chains[2].AtomSNs) != 1 || len(mol.Chains[2].ResidueSNs) != 0 {
		Te.Error("the water should be a chain atom with no residue:", mol.Chains[2])
	}
	if len(mol.SS) != 1 || mol.SS[0].Kind != Helix || mol.SS[0].EndSN != 2 {
		Te.Error("secondary structure wrong:", mol.SS)
	}
	in, err := Resolve(mol)
	if err != nil {
		Te.Fatal(err)
	}
	if in.ResidueOf[8] != -1 {
		Te.Error("the water atom should belong to no residue")
	}
}

func TestMmcifRoundTrip(Te *testing.T) {
	mol, err := MmcifRead(strings.NewReader(tinyCIF))
	if err != nil {
		Te.Fatal(err)
	}
	mol.SS = append(mol.SS, SecondaryStructure{Kind: Sheet, StartSN: 1, EndSN: 1, Chain: "B"})
	var b bytes.Buffer
	if err := MmcifWrite(&b, mol); err != nil {
		Te.Fatal(err)
	}
	back, err := MmcifRead(bytes.NewReader(b.Bytes()))
	if err != nil {
		Te.Fatal(err)
	}
	if back.Ident != mol.Ident {
		Te.Error("ident changed in the round trip:", back.Ident)
	}
	if back.Metadata["_entry.id"] != mol.Metadata["_entry.id"] {
		Te.Error("entry id changed in the round trip")
	}
	if back.Method == nil || *back.Method != *mol.Method {
		Te.Error("method lost in the round trip")
	}
	if !reflect.DeepEqual(back.Atoms, mol.Atoms) {
		Te.Error("atoms changed in the round trip")
	}
	if !reflect.DeepEqual(back.Residues, mol.Residues) {
		Te.Error("residues changed in the round trip")
	}
	if !reflect.DeepEqual(back.Chains, mol.Chains) {
		Te.Error("chains changed in the round trip")
	}
	if !reflect.DeepEqual(back.SS, mol.SS) {
		Te.Error("secondary structure changed in the round trip")
	}
	name := filepath.Join(Te.TempDir(), "tst.cif")
	if err := MmcifFileWrite(name, mol); err != nil {
		Te.Fatal(err)
	}
	back, err = MmcifFileRead(name)
	if err != nil {
		Te.Fatal(err)
	}
	if len(back.Atoms) != len(mol.Atoms) {
		Te.Error("file round trip lost atoms")
	}
}

//Only the first model of a multi-model file is read.
func TestMmcifModels(Te *testing.T) {
	const nmr = `data_NMR
loop_
_atom_site.group_PDB
_atom_site.id
_atom_site.type_symbol
_atom_site.label_atom_id
_atom_site.label_comp_id
_atom_site.label_asym_id
_atom_site.label_seq_id
_atom_site.Cartn_x
_atom_site.Cartn_y
_atom_site.Cartn_z
_atom_site.pdbx_PDB_model_num
ATOM 1 N N ALA A 1 0.000 0.000 0.000 1
ATOM 2 C CA ALA A 1 1.500 0.000 0.000 1
ATOM 3 N N ALA A 1 0.100 0.000 0.000 2
ATOM 4 C CA ALA A 1 1.600 0.100 0.000 2
`
	mol, err := MmcifRead(strings.NewReader(nmr))
	if err != nil {
		Te.Fatal(err)
	}
	if len(mol.Atoms) != 2 || mol.Atoms[1].SerialNumber != 2 {
		Te.Error("model filtering broken, got", len(mol.Atoms), "atoms")
	}
}

func TestMmcifBadInput(Te *testing.T) {
	cut := tinyCIF[:strings.Index(tinyCIF, "HETATM 9")+len("HETATM 9 O O")]
	_, err := MmcifRead(strings.NewReader(cut))
	if ErrorKind(err) != KTruncatedInput {
		Te.Error("a loop cut mid-row should be truncated input, got:", err)
	}
	_, err = MmcifRead(strings.NewReader("data_EMPTY\n_entry.id EMPTY\n"))
	if ErrorKind(err) != KInvalidHeader {
		Te.Error("a file with no atom_site loop should be an invalid header, got:", err)
	}
}
