/*
 * records.go, part of biofiles.
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
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package biofiles

import "fmt"

// Vec3 is a cartesian position, in Angstroms.
type Vec3 [3]float64

// Atom is one atom record as read from a file. The coordinates are part of
// the record itself. Fields that a format may simply not have are pointers,
// and nil when absent; no value doubles as "not there".
type Atom struct {
	SerialNumber  int
	Name          string
	Symbol        string //element symbol, empty if the file didn't say and it couldn't be guessed
	Position      Vec3
	FFType        *string  //force-field atom type (Mol2, Amber)
	Occupancy     *float64 //mmCIF
	PartialCharge *float64
	Hetero        bool //HETATM in mmCIF
}

// Copy returns a copy of the Atom, including fresh copies of the optional
// fields, so the original and the copy share nothing.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	Newat := new(Atom)
	*Newat = *A
	if A.FFType != nil {
		f := *A.FFType
		Newat.FFType = &f
	}
	if A.Occupancy != nil {
		o := *A.Occupancy
		Newat.Occupancy = &o
	}
	if A.PartialCharge != nil {
		c := *A.PartialCharge
		Newat.PartialCharge = &c
	}
	return Newat
}

// BondKind is the order/type of a bond, with the values the Mol2 format
// distinguishes. SDF files only know the first four.
type BondKind int

const (
	Single BondKind = iota + 1
	Double
	Triple
	Aromatic
	Amide
	Dummy
	UnknownBond
	NotConnected
)

// Mol2String returns the Tripos spelling of the bond kind.
func (k BondKind) Mol2String() string {
	switch k {
	case Single:
		return "1"
	case Double:
		return "2"
	case Triple:
		return "3"
	case Aromatic:
		return "ar"
	case Amide:
		return "am"
	case Dummy:
		return "du"
	case NotConnected:
		return "nc"
	}
	return "un"
}

// BondKindFromMol2 parses a Tripos bond-kind field.
func BondKindFromMol2(s string) (BondKind, error) {
	switch s {
	case "1":
		return Single, nil
	case "2":
		return Double, nil
	case "3":
		return Triple, nil
	case "ar":
		return Aromatic, nil
	case "am":
		return Amide, nil
	case "du":
		return Dummy, nil
	case "un":
		return UnknownBond, nil
	case "nc":
		return NotConnected, nil
	}
	return 0, &CError{kind: KMalformedRecord, message: fmt.Sprintf("unknown bond kind %q", s)}
}

// SDFCode returns the numeric bond code of the ctab bond block. Kinds the
// format can't express become 8 ("any").
func (k BondKind) SDFCode() int {
	switch k {
	case Single, Amide:
		return 1
	case Double:
		return 2
	case Triple:
		return 3
	case Aromatic:
		return 4
	}
	return 8
}

// BondKindFromSDF parses a ctab bond code. Codes 5-8 (the query codes) all
// map to UnknownBond.
func BondKindFromSDF(code int) (BondKind, error) {
	switch code {
	case 1:
		return Single, nil
	case 2:
		return Double, nil
	case 3:
		return Triple, nil
	case 4:
		return Aromatic, nil
	case 5, 6, 7, 8:
		return UnknownBond, nil
	}
	return 0, &CError{kind: KMalformedRecord, message: fmt.Sprintf("unknown bond code %d", code)}
}

// Bond joins two atoms, named by their serial numbers exactly as the file
// gave them. Use Resolve to turn the serial numbers into indices.
type Bond struct {
	SerialNumber int
	At1, At2     int //atom serial numbers
	Kind         BondKind
}

// Residue is a group of atoms, again naming its members by serial number.
type Residue struct {
	SerialNumber int
	Name         string
	AtomSNs      []int
	End          bool //this residue record is a chain terminator
}

// Copy returns a copy of the residue with its own member slice.
func (R *Residue) Copy() *Residue {
	n := new(Residue)
	*n = *R
	n.AtomSNs = append([]int(nil), R.AtomSNs...)
	return n
}

// Chain is a named sequence of residues. Both the residues and, for
// formats that give them, the chain's atoms are kept by serial number.
type Chain struct {
	ID         string
	ResidueSNs []int
	AtomSNs    []int
}

// Copy returns a copy of the chain with its own member slices.
func (C *Chain) Copy() *Chain {
	n := new(Chain)
	n.ID = C.ID
	n.ResidueSNs = append([]int(nil), C.ResidueSNs...)
	n.AtomSNs = append([]int(nil), C.AtomSNs...)
	return n
}

// SSKind is a secondary-structure class.
type SSKind int

const (
	Helix SSKind = iota + 1
	Sheet
	Coil
)

func (k SSKind) String() string {
	switch k {
	case Helix:
		return "helix"
	case Sheet:
		return "sheet"
	case Coil:
		return "coil"
	}
	return "unknown"
}

// SecondaryStructure is one span of secondary structure, given as a
// residue serial-number range within a chain.
type SecondaryStructure struct {
	Kind           SSKind
	StartSN, EndSN int //residue serial numbers, inclusive
	Chain          string
}

// ExperimentalMethod is how the structure was determined, from
// _exptl.method in mmCIF files.
type ExperimentalMethod int

const (
	XRayDiffraction ExperimentalMethod = iota + 1
	ElectronMicroscopy
	SolutionNMR
	NeutronDiffraction
	OtherMethod
)

func (m ExperimentalMethod) String() string {
	switch m {
	case XRayDiffraction:
		return "X-RAY DIFFRACTION"
	case ElectronMicroscopy:
		return "ELECTRON MICROSCOPY"
	case SolutionNMR:
		return "SOLUTION NMR"
	case NeutronDiffraction:
		return "NEUTRON DIFFRACTION"
	}
	return "OTHER"
}

// MethodFromString parses an _exptl.method value. Anything it doesn't
// recognize becomes OtherMethod; the formats are too inconsistent here for
// strictness to pay off.
func MethodFromString(s string) ExperimentalMethod {
	switch s {
	case "X-RAY DIFFRACTION":
		return XRayDiffraction
	case "ELECTRON MICROSCOPY":
		return ElectronMicroscopy
	case "SOLUTION NMR", "SOLID-STATE NMR":
		return SolutionNMR
	case "NEUTRON DIFFRACTION":
		return NeutronDiffraction
	}
	return OtherMethod
}

// Mol2MolKind is the molecule-type line of a Tripos MOLECULE block.
type Mol2MolKind int

const (
	MolSmall Mol2MolKind = iota + 1
	MolBiopolymer
	MolProtein
	MolNucleicAcid
	MolSaccharide
)

func (k Mol2MolKind) String() string {
	switch k {
	case MolBiopolymer:
		return "BIOPOLYMER"
	case MolProtein:
		return "PROTEIN"
	case MolNucleicAcid:
		return "NUCLEIC_ACID"
	case MolSaccharide:
		return "SACCHARIDE"
	}
	return "SMALL"
}

// Mol2MolKindFromString parses the molecule-type line.
func Mol2MolKindFromString(s string) (Mol2MolKind, error) {
	switch s {
	case "SMALL":
		return MolSmall, nil
	case "BIOPOLYMER":
		return MolBiopolymer, nil
	case "PROTEIN":
		return MolProtein, nil
	case "NUCLEIC_ACID":
		return MolNucleicAcid, nil
	case "SACCHARIDE":
		return MolSaccharide, nil
	}
	return 0, &CError{kind: KMalformedRecord, message: fmt.Sprintf("unknown molecule type %q", s)}
}

// Mol2ChargeKind is the charge-type line of a Tripos MOLECULE block. The
// exact spelling is kept so files round-trip.
type Mol2ChargeKind int

const (
	ChargeNone Mol2ChargeKind = iota + 1
	ChargeDelRe
	ChargeGasteiger
	ChargeGastHuck
	ChargeHuckel
	ChargePullman
	ChargeGauss80
	ChargeAmpac
	ChargeMulliken
	ChargeDict
	ChargeMMFF94
	ChargeUser
)

var mol2ChargeNames = map[Mol2ChargeKind]string{
	ChargeNone:      "NO_CHARGES",
	ChargeDelRe:     "DEL_RE",
	ChargeGasteiger: "GASTEIGER",
	ChargeGastHuck:  "GAST_HUCK",
	ChargeHuckel:    "HUCKEL",
	ChargePullman:   "PULLMAN",
	ChargeGauss80:   "GAUSS80_CHARGES",
	ChargeAmpac:     "AMPAC_CHARGES",
	ChargeMulliken:  "MULLIKEN_CHARGES",
	ChargeDict:      "DICT_CHARGES",
	ChargeMMFF94:    "MMFF94_CHARGES",
	ChargeUser:      "USER_CHARGES",
}

func (k Mol2ChargeKind) String() string {
	if s, ok := mol2ChargeNames[k]; ok {
		return s
	}
	return "NO_CHARGES"
}

// Mol2ChargeKindFromString parses the charge-type line.
func Mol2ChargeKindFromString(s string) (Mol2ChargeKind, error) {
	for k, v := range mol2ChargeNames {
		if v == s {
			return k, nil
		}
	}
	return 0, &CError{kind: KMalformedRecord, message: fmt.Sprintf("unknown charge type %q", s)}
}

// Molecule is what the text-format readers return: the full set of records
// of one structure. Which fields are filled depends on the format read;
// the zero value of the enum fields means the file didn't say.
type Molecule struct {
	Ident    string
	Metadata map[string]string //free-form data items (SDF data blocks, mmCIF entry tags)
	Atoms    []Atom
	Bonds    []Bond
	Residues []Residue
	Chains   []Chain
	SS       []SecondaryStructure
	Method   *ExperimentalMethod
	//Mol2 only
	MolKind    Mol2MolKind
	ChargeKind Mol2ChargeKind
}

// Len returns the number of atoms, so a Molecule can stand in anywhere a
// length-able atom collection is wanted.
func (M *Molecule) Len() int {
	return len(M.Atoms)
}

// Atom returns a pointer to the i-th atom. It panics if i is out of
// range, like a slice access would.
func (M *Molecule) Atom(i int) *Atom {
	return &M.Atoms[i]
}

// Masses returns the slice of atomic masses for the molecule, looked up
// by element symbol.
func (M *Molecule) Masses() ([]float64, error) {
	masses := make([]float64, len(M.Atoms))
	for i := range M.Atoms {
		m, ok := symbolMass[M.Atoms[i].Symbol]
		if !ok {
			return nil, &CError{kind: KMalformedRecord, message: fmt.Sprintf("%s: %q (atom %d)", UnknownElement, M.Atoms[i].Symbol, M.Atoms[i].SerialNumber), deco: []string{"Masses"}}
		}
		masses[i] = m
	}
	return masses, nil
}

// Copy returns a deep copy of the molecule. Nothing is shared with the
// original.
func (M *Molecule) Copy() *Molecule {
	n := new(Molecule)
	n.Ident = M.Ident
	n.MolKind = M.MolKind
	n.ChargeKind = M.ChargeKind
	if M.Metadata != nil {
		n.Metadata = make(map[string]string, len(M.Metadata))
		for k, v := range M.Metadata {
			n.Metadata[k] = v
		}
	}
	n.Atoms = make([]Atom, len(M.Atoms))
	for i := range M.Atoms {
		n.Atoms[i] = *M.Atoms[i].Copy()
	}
	n.Bonds = append([]Bond(nil), M.Bonds...)
	n.Residues = make([]Residue, len(M.Residues))
	for i := range M.Residues {
		n.Residues[i] = *M.Residues[i].Copy()
	}
	n.Chains = make([]Chain, len(M.Chains))
	for i := range M.Chains {
		n.Chains[i] = *M.Chains[i].Copy()
	}
	n.SS = append([]SecondaryStructure(nil), M.SS...)
	if M.Method != nil {
		m := *M.Method
		n.Method = &m
	}
	return n
}
