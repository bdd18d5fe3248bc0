/*
 * mol2.go, part of biofiles.
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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const triposMark = "@<TRIPOS>"

// Mol2FileRead reads the Tripos Mol2 file with the given name. See
// Mol2Read.
func Mol2FileRead(name string) (*Molecule, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	mol, err := mol2BufIORead(bufio.NewReader(f), name)
	if err != nil {
		return nil, errDecorate(err, "Mol2FileRead")
	}
	return mol, nil
}

/*Mol2Read reads a molecule in Tripos Mol2 format from r. The MOLECULE,
ATOM, BOND and SUBSTRUCTURE sections are consumed; other sections are
skipped. Substructure columns on the atom records become residues. The
atom and bond counts announced in the MOLECULE block are checked against
what the file actually contains.*/
func Mol2Read(r io.Reader) (*Molecule, error) {
	mol, err := mol2BufIORead(bufio.NewReader(r), "")
	if err != nil {
		return nil, errDecorate(err, "Mol2Read")
	}
	return mol, nil
}

func mol2BufIORead(r *bufio.Reader, filename string) (*Molecule, error) {
	mol := new(Molecule)
	mol.Metadata = make(map[string]string)
	section := ""
	molLine := 0
	wantAtoms, wantBonds := -1, -1
	resIdx := make(map[int]int)
	for {
		line, rerr := r.ReadString('\n')
		if rerr != nil && line == "" {
			break
		}
		trimmed := strings.TrimSpace(strings.TrimRight(line, "\r\n"))
		if strings.HasPrefix(trimmed, "#") {
			continue
		}
		if strings.HasPrefix(trimmed, triposMark) {
			section = strings.TrimSpace(trimmed[len(triposMark):])
			molLine = 0
			continue
		}
		if trimmed == "" {
			continue
		}
		var err error
		switch section {
		case "MOLECULE":
			molLine++
			err = mol2MoleculeLine(mol, trimmed, molLine, &wantAtoms, &wantBonds)
		case "ATOM":
			err = mol2AtomLine(mol, trimmed, resIdx)
		case "BOND":
			err = mol2BondLine(mol, trimmed)
		case "SUBSTRUCTURE":
			err = mol2SubstLine(mol, trimmed, resIdx)
		}
		if err != nil {
			if e, ok := err.(*CError); ok {
				e.filename = filename
			}
			return nil, err
		}
	}
	if wantAtoms < 0 {
		return nil, &CError{kind: KInvalidHeader, message: "no MOLECULE section found", filename: filename}
	}
	if len(mol.Atoms) != wantAtoms {
		kind := KMalformedRecord
		if len(mol.Atoms) < wantAtoms && (section == "ATOM" || section == "MOLECULE") {
			kind = KTruncatedInput //the file just stopped
		}
		return nil, &CError{kind: kind, filename: filename,
			message: fmt.Sprintf("MOLECULE announces %d atoms, file carries %d", wantAtoms, len(mol.Atoms))}
	}
	if wantBonds >= 0 && len(mol.Bonds) != wantBonds {
		kind := KMalformedRecord
		if len(mol.Bonds) < wantBonds && section == "BOND" {
			kind = KTruncatedInput
		}
		return nil, &CError{kind: kind, filename: filename,
			message: fmt.Sprintf("MOLECULE announces %d bonds, file carries %d", wantBonds, len(mol.Bonds))}
	}
	return mol, nil
}

func mol2MoleculeLine(mol *Molecule, line string, n int, wantAtoms, wantBonds *int) error {
	switch n {
	case 1:
		mol.Ident = line
	case 2:
		fields := strings.Fields(line)
		if len(fields) == 0 {
			return &CError{kind: KMalformedRecord, message: "empty counts line in MOLECULE"}
		}
		var err error
		*wantAtoms, err = strconv.Atoi(fields[0])
		if err != nil {
			return &CError{kind: KMalformedRecord, message: fmt.Sprintf("bad atom count %q", fields[0])}
		}
		if len(fields) > 1 {
			*wantBonds, err = strconv.Atoi(fields[1])
			if err != nil {
				return &CError{kind: KMalformedRecord, message: fmt.Sprintf("bad bond count %q", fields[1])}
			}
		}
	case 3:
		k, err := Mol2MolKindFromString(line)
		if err != nil {
			return err
		}
		mol.MolKind = k
	case 4:
		k, err := Mol2ChargeKindFromString(line)
		if err != nil {
			return err
		}
		mol.ChargeKind = k
	case 5:
		if line != "****" {
			mol.Metadata["mol2.status_bits"] = line
		}
	case 6:
		if line != "****" {
			mol.Metadata["comment"] = line
		}
	}
	return nil
}

func mol2AtomLine(mol *Molecule, line string, resIdx map[int]int) error {
	fields := strings.Fields(line)
	if len(fields) < 6 {
		return &CError{kind: KMalformedRecord, message: fmt.Sprintf("%s in ATOM record %q", NotEnough, line)}
	}
	at := Atom{}
	var err error
	at.SerialNumber, err = strconv.Atoi(fields[0])
	if err != nil {
		return &CError{kind: KMalformedRecord, message: fmt.Sprintf("bad atom serial number %q", fields[0])}
	}
	at.Name = fields[1]
	for i := 0; i < 3; i++ {
		at.Position[i], err = strconv.ParseFloat(fields[2+i], 64)
		if err != nil {
			return &CError{kind: KMalformedRecord, message: fmt.Sprintf("atom %d: bad coordinate %q", at.SerialNumber, fields[2+i])}
		}
	}
	fftype := fields[5]
	at.FFType = &fftype
	at.Symbol = symbolFromName(fftype)
	if at.Symbol == "" {
		at.Symbol = symbolFromName(at.Name)
	}
	if len(fields) >= 8 {
		substID, err := strconv.Atoi(fields[6])
		if err != nil {
			return &CError{kind: KMalformedRecord, message: fmt.Sprintf("atom %d: bad substructure id %q", at.SerialNumber, fields[6])}
		}
		ri, ok := resIdx[substID]
		if !ok {
			mol.Residues = append(mol.Residues, Residue{SerialNumber: substID, Name: fields[7]})
			ri = len(mol.Residues) - 1
			resIdx[substID] = ri
		}
		mol.Residues[ri].AtomSNs = append(mol.Residues[ri].AtomSNs, at.SerialNumber)
	}
	if len(fields) >= 9 {
		ch, err := strconv.ParseFloat(fields[8], 64)
		if err != nil {
			return &CError{kind: KMalformedRecord, message: fmt.Sprintf("atom %d: bad charge %q", at.SerialNumber, fields[8])}
		}
		at.PartialCharge = &ch
	}
	mol.Atoms = append(mol.Atoms, at)
	return nil
}

func mol2BondLine(mol *Molecule, line string) error {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return &CError{kind: KMalformedRecord, message: fmt.Sprintf("%s in BOND record %q", NotEnough, line)}
	}
	b := Bond{}
	var err error
	b.SerialNumber, err = strconv.Atoi(fields[0])
	if err != nil {
		return &CError{kind: KMalformedRecord, message: fmt.Sprintf("bad bond serial number %q", fields[0])}
	}
	b.At1, err = strconv.Atoi(fields[1])
	if err != nil {
		return &CError{kind: KMalformedRecord, message: fmt.Sprintf("bond %d: bad atom reference %q", b.SerialNumber, fields[1])}
	}
	b.At2, err = strconv.Atoi(fields[2])
	if err != nil {
		return &CError{kind: KMalformedRecord, message: fmt.Sprintf("bond %d: bad atom reference %q", b.SerialNumber, fields[2])}
	}
	b.Kind, err = BondKindFromMol2(fields[3])
	if err != nil {
		return err
	}
	mol.Bonds = append(mol.Bonds, b)
	return nil
}

func mol2SubstLine(mol *Molecule, line string, resIdx map[int]int) error {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return &CError{kind: KMalformedRecord, message: fmt.Sprintf("%s in SUBSTRUCTURE record %q", NotEnough, line)}
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return &CError{kind: KMalformedRecord, message: fmt.Sprintf("bad substructure id %q", fields[0])}
	}
	if ri, ok := resIdx[id]; ok {
		if mol.Residues[ri].Name == "" {
			mol.Residues[ri].Name = fields[1]
		}
		return nil
	}
	mol.Residues = append(mol.Residues, Residue{SerialNumber: id, Name: fields[1]})
	resIdx[id] = len(mol.Residues) - 1
	return nil
}

// Mol2FileWrite writes mol to the named file in Tripos Mol2 format. See
// Mol2Write.
func Mol2FileWrite(name string, mol *Molecule) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := Mol2Write(f, mol); err != nil {
		return errDecorate(err, "Mol2FileWrite")
	}
	return nil
}

/*Mol2Write writes mol to out in Tripos Mol2 format: MOLECULE, ATOM and
BOND sections, plus a SUBSTRUCTURE section when the molecule has
residues. The substructure and charge columns of the atom records are
written only when the molecule carries residues, or partial charges on
every atom; the columns are positional, so a per-atom mix can't be
expressed. The molecule is validated first (see Resolve) and nothing is
written if validation fails or there are no atoms.*/
func Mol2Write(out io.Writer, mol *Molecule) error {
	if mol == nil || len(mol.Atoms) == 0 {
		return &CError{kind: KMalformedRecord, message: EmptyPayload, deco: []string{"Mol2Write"}}
	}
	in, err := Resolve(mol)
	if err != nil {
		return errDecorate(err, "Mol2Write")
	}
	writeCharge := true
	for i := range mol.Atoms {
		if mol.Atoms[i].PartialCharge == nil {
			writeCharge = false
			break
		}
	}
	writeSubst := writeCharge || len(mol.Residues) > 0
	ident := mol.Ident
	if ident == "" {
		ident = "****"
	}
	out.Write([]byte("@<TRIPOS>MOLECULE\n"))
	out.Write([]byte(ident + "\n"))
	out.Write([]byte(fmt.Sprintf("%5d %5d %5d 0 0\n", len(mol.Atoms), len(mol.Bonds), len(mol.Residues))))
	out.Write([]byte(mol.MolKind.String() + "\n"))
	out.Write([]byte(mol.ChargeKind.String() + "\n"))
	status := mol.Metadata["mol2.status_bits"]
	if c, ok := mol.Metadata["comment"]; ok && c != "" {
		if status == "" {
			status = "****"
		}
		out.Write([]byte(status + "\n" + c + "\n"))
	} else if status != "" {
		out.Write([]byte(status + "\n"))
	}
	out.Write([]byte("@<TRIPOS>ATOM\n"))
	for i := range mol.Atoms {
		a := &mol.Atoms[i]
		fftype := a.Symbol
		if a.FFType != nil {
			fftype = *a.FFType
		}
		if fftype == "" {
			fftype = "Du"
		}
		line := fmt.Sprintf("%7d %-8s %9.4f %9.4f %9.4f %-7s",
			a.SerialNumber, a.Name, a.Position[0], a.Position[1], a.Position[2], fftype)
		if writeSubst {
			rsn, rname := 1, "UNL"
			if ri := in.ResidueOf[i]; ri >= 0 {
				rsn = mol.Residues[ri].SerialNumber
				rname = mol.Residues[ri].Name
			}
			line += fmt.Sprintf(" %3d %-8s", rsn, rname)
		}
		if writeCharge {
			line += fmt.Sprintf(" %9.4f", *a.PartialCharge)
		}
		out.Write([]byte(line + "\n"))
	}
	out.Write([]byte("@<TRIPOS>BOND\n"))
	for _, b := range mol.Bonds {
		out.Write([]byte(fmt.Sprintf("%6d %5d %5d %4s\n", b.SerialNumber, b.At1, b.At2, b.Kind.Mol2String())))
	}
	if len(mol.Residues) > 0 {
		out.Write([]byte("@<TRIPOS>SUBSTRUCTURE\n"))
		for _, res := range mol.Residues {
			root := 1
			if len(res.AtomSNs) > 0 {
				root = res.AtomSNs[0]
			}
			out.Write([]byte(fmt.Sprintf("%6d %-8s %6d\n", res.SerialNumber, res.Name, root)))
		}
	}
	return nil
}
