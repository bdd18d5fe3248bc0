/*
 * mmcif.go, part of biofiles.
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

//cifmap maps a data tag to its column position in the current loop_.
type cifmap map[string]int

func (m cifmap) add(s string, i int) {
	m[strings.TrimSpace(s)] = i
}

func (m cifmap) get(s string) int {
	i, ok := m[s]
	if !ok {
		return -1
	}
	return i
}

// MmcifFileRead reads the mmCIF file with the given name. See MmcifRead.
func MmcifFileRead(name string) (*Molecule, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	mol, err := mmcifBufIORead(bufio.NewReader(f), name)
	if err != nil {
		return nil, errDecorate(err, "MmcifFileRead")
	}
	return mol, nil
}

/*MmcifRead reads a structure in PDBx/mmCIF format from r. It consumes the
_atom_site loop (first model only, if the file has several), the
_struct_conf and _struct_sheet_range loops for secondary structure, and
the _entry.id and _exptl.method items. Residues and chains are rebuilt
from the atom records' label_comp_id/label_seq_id/label_asym_id columns
(auth_* columns are used where the label_* ones are missing). Unknown
loops and items are skipped.*/
func MmcifRead(r io.Reader) (*Molecule, error) {
	mol, err := mmcifBufIORead(bufio.NewReader(r), "")
	if err != nil {
		return nil, errDecorate(err, "MmcifRead")
	}
	return mol, nil
}

//cifFields splits a data line into values, honoring single and double
//quotes. A quote only closes when followed by whitespace or the end of
//the line, as the format prescribes, so "O5'" style names survive.
func cifFields(line string) ([]string, error) {
	var fields []string
	i := 0
	n := len(line)
	for i < n {
		for i < n && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
		if i >= n {
			break
		}
		if line[i] == '\'' || line[i] == '"' {
			q := line[i]
			i++
			start := i
			for i < n {
				if line[i] == q && (i+1 >= n || line[i+1] == ' ' || line[i+1] == '\t') {
					break
				}
				i++
			}
			if i >= n {
				return nil, &CError{kind: KMalformedRecord, message: fmt.Sprintf("unterminated quote in %q", strings.TrimSpace(line))}
			}
			fields = append(fields, line[start:i])
			i++ //the closing quote
			continue
		}
		start := i
		for i < n && line[i] != ' ' && line[i] != '\t' {
			i++
		}
		fields = append(fields, line[start:i])
	}
	return fields, nil
}

//cifAbsent is true for the two "no value" markers of the format.
func cifAbsent(s string) bool {
	return s == "?" || s == "."
}

//mmcifLoop carries one loop_ while it is being read.
type mmcifLoop struct {
	m      cifmap
	ncol   int
	tokens []string //accumulated values, rows can span lines
	rows   [][]string
}

func (l *mmcifLoop) feed(line string) error {
	fields, err := cifFields(line)
	if err != nil {
		return err
	}
	l.push(fields...)
	return nil
}

func (l *mmcifLoop) push(values ...string) {
	l.tokens = append(l.tokens, values...)
	for len(l.tokens) >= l.ncol {
		row := l.tokens[:l.ncol]
		l.tokens = l.tokens[l.ncol:]
		l.rows = append(l.rows, append([]string(nil), row...))
	}
}

func (l *mmcifLoop) leftover() error {
	if len(l.tokens) != 0 {
		return &CError{kind: KTruncatedInput, message: fmt.Sprintf("loop_ ended with %d values of a %d-column row", len(l.tokens), l.ncol)}
	}
	return nil
}

func mmcifBufIORead(r *bufio.Reader, filename string) (*Molecule, error) {
	mol := new(Molecule)
	mol.Metadata = make(map[string]string)
	hp := strings.HasPrefix
	var pending string
	for {
		var line string
		if pending != "" {
			line, pending = pending, ""
		} else {
			var err error
			line, err = r.ReadString('\n')
			if err != nil && line == "" {
				break
			}
		}
		line = strings.TrimRight(line, "\r\n")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || hp(trimmed, "#") {
			continue
		}
		switch {
		case hp(trimmed, "data_"):
			if mol.Ident == "" {
				mol.Ident = trimmed[len("data_"):]
			}
		case trimmed == "loop_":
			var err error
			pending, err = mmcifReadLoop(r, mol, filename)
			if err != nil {
				return nil, err
			}
		case hp(trimmed, ";"):
			if _, err := readSemicolonBlock(r, trimmed); err != nil {
				return nil, err
			}
		case hp(trimmed, "_"):
			if err := mmcifItem(r, mol, trimmed); err != nil {
				return nil, err
			}
		default:
			//a data value outside any loop or item; files from some
			//programs pad with these, nothing to do with them
		}
	}
	if len(mol.Atoms) == 0 {
		return nil, &CError{kind: KInvalidHeader, message: "no _atom_site loop found", filename: filename}
	}
	return mol, nil
}

//readSemicolonBlock consumes a ";"-delimited text block whose first line
//is first, and returns its text with the newlines replaced by spaces.
func readSemicolonBlock(r *bufio.Reader, first string) (string, error) {
	parts := []string{strings.TrimSpace(first[1:])}
	for {
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			return "", &CError{kind: KTruncatedInput, message: "unterminated text block"}
		}
		trimmed := strings.TrimSpace(strings.TrimRight(line, "\r\n"))
		if strings.HasPrefix(trimmed, ";") {
			break
		}
		parts = append(parts, trimmed)
	}
	return strings.TrimSpace(strings.Join(parts, " ")), nil
}

//mmcifItem handles a non-loop "_tag value" item. The value may sit on
//the following line.
func mmcifItem(r *bufio.Reader, mol *Molecule, line string) error {
	tag := line
	value := ""
	if i := strings.IndexAny(line, " \t"); i > 0 {
		tag = line[:i]
		value = strings.TrimSpace(line[i+1:])
	}
	var v string
	if value == "" {
		next, err := r.ReadString('\n')
		if err != nil && next == "" {
			return nil //a tag with no value at EOF; nothing we consume, so let it go
		}
		value = strings.TrimSpace(strings.TrimRight(next, "\r\n"))
		if strings.HasPrefix(value, ";") {
			text, err := readSemicolonBlock(r, value)
			if err != nil {
				return err
			}
			v = text
		}
	}
	if v == "" {
		fields, err := cifFields(value)
		if err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		v = fields[0]
	}
	switch tag {
	case "_entry.id":
		if !cifAbsent(v) {
			mol.Metadata["_entry.id"] = v
			if mol.Ident == "" {
				mol.Ident = v
			}
		}
	case "_struct.title":
		if !cifAbsent(v) {
			mol.Metadata["_struct.title"] = v
		}
	case "_exptl.method":
		if !cifAbsent(v) {
			m := MethodFromString(v)
			mol.Method = &m
		}
	}
	return nil
}

//mmcifReadLoop reads one whole loop_ block: header tags, then rows. It
//returns the line that ended the loop so the caller can process it.
func mmcifReadLoop(r *bufio.Reader, mol *Molecule, filename string) (string, error) {
	loop := &mmcifLoop{m: cifmap{}}
	inHeader := true
	terminator := ""
	hp := strings.HasPrefix
	for {
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			break
		}
		trimmed := strings.TrimSpace(strings.TrimRight(line, "\r\n"))
		if trimmed == "" || hp(trimmed, "#") {
			continue
		}
		if inHeader {
			if hp(trimmed, "_") {
				loop.m.add(trimmed, loop.ncol)
				loop.ncol++
				continue
			}
			inHeader = false
			if loop.ncol == 0 {
				return "", &CError{kind: KMalformedRecord, message: "loop_ with no header tags", filename: filename}
			}
		}
		if hp(trimmed, "_") || hp(trimmed, "loop_") || hp(trimmed, "data_") {
			terminator = trimmed
			break
		}
		if hp(trimmed, ";") {
			text, err := readSemicolonBlock(r, trimmed)
			if err != nil {
				return "", err
			}
			loop.push(text)
			continue
		}
		if err := loop.feed(trimmed); err != nil {
			return "", err
		}
	}
	if err := loop.leftover(); err != nil {
		return "", err
	}
	return terminator, mmcifDispatchLoop(loop, mol, filename)
}

func mmcifDispatchLoop(loop *mmcifLoop, mol *Molecule, filename string) error {
	switch {
	case loop.m.get("_atom_site.id") >= 0 && loop.m.get("_atom_site.Cartn_x") >= 0:
		return mmcifFillAtoms(loop, mol, filename)
	case loop.m.get("_struct_conf.conf_type_id") >= 0:
		return mmcifFillConf(loop, mol)
	case loop.m.get("_struct_sheet_range.id") >= 0 || loop.m.get("_struct_sheet_range.sheet_id") >= 0:
		return mmcifFillSheet(loop, mol)
	}
	return nil //a loop we don't consume
}

//col returns the value of the tag for the given row, preferring the
//label_* column and falling back to its auth_* twin. Absent markers
//come back as "".
func mmcifCol(loop *mmcifLoop, row []string, label, auth string) string {
	i := loop.m.get(label)
	if i < 0 && auth != "" {
		i = loop.m.get(auth)
	}
	if i < 0 || i >= len(row) {
		return ""
	}
	if cifAbsent(row[i]) {
		return ""
	}
	return row[i]
}

func mmcifFillAtoms(loop *mmcifLoop, mol *Molecule, filename string) error {
	type chainAcc struct {
		index   int
		lastRes int //serial of the last residue appended, to avoid re-appending
	}
	chainIdx := make(map[string]*chainAcc)
	resIdx := make(map[string]int)
	firstModel := ""
	for nr, row := range loop.rows {
		if mod := mmcifCol(loop, row, "_atom_site.pdbx_PDB_model_num", ""); mod != "" {
			if firstModel == "" {
				firstModel = mod
			} else if mod != firstModel {
				continue //only the first model is read
			}
		}
		at := Atom{}
		sn := mmcifCol(loop, row, "_atom_site.id", "")
		if sn == "" {
			return &CError{kind: KMalformedRecord, message: fmt.Sprintf("atom_site row %d has no id", nr+1), filename: filename}
		}
		var err error
		at.SerialNumber, err = strconv.Atoi(sn)
		if err != nil {
			return &CError{kind: KMalformedRecord, message: fmt.Sprintf("atom_site row %d: bad id %q", nr+1, sn), filename: filename}
		}
		at.Hetero = mmcifCol(loop, row, "_atom_site.group_PDB", "") == "HETATM"
		at.Symbol = NormalizeSymbol(mmcifCol(loop, row, "_atom_site.type_symbol", ""))
		at.Name = mmcifCol(loop, row, "_atom_site.label_atom_id", "_atom_site.auth_atom_id")
		for c, tag := range []string{"_atom_site.Cartn_x", "_atom_site.Cartn_y", "_atom_site.Cartn_z"} {
			v := mmcifCol(loop, row, tag, "")
			if v == "" {
				return &CError{kind: KMalformedRecord, message: fmt.Sprintf("atom %d has no %s", at.SerialNumber, tag), filename: filename}
			}
			at.Position[c], err = strconv.ParseFloat(v, 64)
			if err != nil {
				return &CError{kind: KMalformedRecord, message: fmt.Sprintf("atom %d: bad coordinate %q", at.SerialNumber, v), filename: filename}
			}
		}
		if v := mmcifCol(loop, row, "_atom_site.occupancy", ""); v != "" {
			occ, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return &CError{kind: KMalformedRecord, message: fmt.Sprintf("atom %d: bad occupancy %q", at.SerialNumber, v), filename: filename}
			}
			at.Occupancy = &occ
		}
		mol.Atoms = append(mol.Atoms, at)

		asym := mmcifCol(loop, row, "_atom_site.label_asym_id", "_atom_site.auth_asym_id")
		seq := mmcifCol(loop, row, "_atom_site.label_seq_id", "_atom_site.auth_seq_id")
		comp := mmcifCol(loop, row, "_atom_site.label_comp_id", "_atom_site.auth_comp_id")
		var ch *chainAcc
		if asym != "" {
			var ok bool
			ch, ok = chainIdx[asym]
			if !ok {
				mol.Chains = append(mol.Chains, Chain{ID: asym})
				ch = &chainAcc{index: len(mol.Chains) - 1, lastRes: -1 << 30}
				chainIdx[asym] = ch
			}
			mol.Chains[ch.index].AtomSNs = append(mol.Chains[ch.index].AtomSNs, at.SerialNumber)
		}
		if seq == "" {
			continue //water and such: a chain atom with no residue
		}
		resSN, err := strconv.Atoi(seq)
		if err != nil {
			return &CError{kind: KMalformedRecord, message: fmt.Sprintf("atom %d: bad seq id %q", at.SerialNumber, seq), filename: filename}
		}
		rkey := asym + "|" + seq
		ri, ok := resIdx[rkey]
		if !ok {
			mol.Residues = append(mol.Residues, Residue{SerialNumber: resSN, Name: comp})
			ri = len(mol.Residues) - 1
			resIdx[rkey] = ri
			if ch != nil && ch.lastRes != resSN {
				mol.Chains[ch.index].ResidueSNs = append(mol.Chains[ch.index].ResidueSNs, resSN)
				ch.lastRes = resSN
			}
		}
		mol.Residues[ri].AtomSNs = append(mol.Residues[ri].AtomSNs, at.SerialNumber)
	}
	return nil
}

func mmcifSSKind(confType string) SSKind {
	switch {
	case strings.HasPrefix(confType, "HELX"):
		return Helix
	case strings.HasPrefix(confType, "STRN"):
		return Sheet
	}
	return Coil
}

func mmcifFillConf(loop *mmcifLoop, mol *Molecule) error {
	for _, row := range loop.rows {
		kind := mmcifSSKind(mmcifCol(loop, row, "_struct_conf.conf_type_id", ""))
		beg := mmcifCol(loop, row, "_struct_conf.beg_label_seq_id", "_struct_conf.beg_auth_seq_id")
		end := mmcifCol(loop, row, "_struct_conf.end_label_seq_id", "_struct_conf.end_auth_seq_id")
		chain := mmcifCol(loop, row, "_struct_conf.beg_label_asym_id", "_struct_conf.beg_auth_asym_id")
		b, err := strconv.Atoi(beg)
		if err != nil {
			return &CError{kind: KMalformedRecord, message: fmt.Sprintf("struct_conf: bad beg seq id %q", beg)}
		}
		e, err := strconv.Atoi(end)
		if err != nil {
			return &CError{kind: KMalformedRecord, message: fmt.Sprintf("struct_conf: bad end seq id %q", end)}
		}
		mol.SS = append(mol.SS, SecondaryStructure{Kind: kind, StartSN: b, EndSN: e, Chain: chain})
	}
	return nil
}

func mmcifFillSheet(loop *mmcifLoop, mol *Molecule) error {
	for _, row := range loop.rows {
		beg := mmcifCol(loop, row, "_struct_sheet_range.beg_label_seq_id", "_struct_sheet_range.beg_auth_seq_id")
		end := mmcifCol(loop, row, "_struct_sheet_range.end_label_seq_id", "_struct_sheet_range.end_auth_seq_id")
		chain := mmcifCol(loop, row, "_struct_sheet_range.beg_label_asym_id", "_struct_sheet_range.beg_auth_asym_id")
		b, err := strconv.Atoi(beg)
		if err != nil {
			return &CError{kind: KMalformedRecord, message: fmt.Sprintf("struct_sheet_range: bad beg seq id %q", beg)}
		}
		e, err := strconv.Atoi(end)
		if err != nil {
			return &CError{kind: KMalformedRecord, message: fmt.Sprintf("struct_sheet_range: bad end seq id %q", end)}
		}
		mol.SS = append(mol.SS, SecondaryStructure{Kind: Sheet, StartSN: b, EndSN: e, Chain: chain})
	}
	return nil
}

//cifQuote makes a value safe to put in a data row: empty values become
//".", values with blanks or quotes get quoted.
func cifQuote(s string) string {
	if s == "" {
		return "."
	}
	if !strings.ContainsAny(s, " \t'\"") {
		return s
	}
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	return "\"" + s + "\""
}

// MmcifFileWrite writes mol to the named file in mmCIF format. See
// MmcifWrite.
func MmcifFileWrite(name string, mol *Molecule) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := MmcifWrite(f, mol); err != nil {
		return errDecorate(err, "MmcifFileWrite")
	}
	return nil
}

/*MmcifWrite writes mol to out in mmCIF format: the _entry and _exptl
items when present, one _atom_site loop, and the secondary-structure
loops when the molecule has secondary structure. The molecule is
validated first (see Resolve); nothing is written if validation fails,
or if the molecule has no atoms.*/
func MmcifWrite(out io.Writer, mol *Molecule) error {
	if mol == nil || len(mol.Atoms) == 0 {
		return &CError{kind: KMalformedRecord, message: EmptyPayload, deco: []string{"MmcifWrite"}}
	}
	in, err := Resolve(mol)
	if err != nil {
		return errDecorate(err, "MmcifWrite")
	}
	name := mol.Ident
	if name == "" {
		name = "biofiles"
	}
	out.Write([]byte(fmt.Sprintf("data_%s\n#\n", name)))
	if id, ok := mol.Metadata["_entry.id"]; ok {
		out.Write([]byte(fmt.Sprintf("_entry.id %s\n#\n", cifQuote(id))))
	}
	if mol.Method != nil {
		out.Write([]byte(fmt.Sprintf("_exptl.method %s\n#\n", cifQuote(mol.Method.String()))))
	}
	out.Write([]byte("loop_\n"))
	for _, tag := range []string{"group_PDB", "id", "type_symbol", "label_atom_id",
		"label_comp_id", "label_asym_id", "label_seq_id",
		"Cartn_x", "Cartn_y", "Cartn_z", "occupancy"} {
		out.Write([]byte("_atom_site." + tag + "\n"))
	}
	for i := range mol.Atoms {
		a := &mol.Atoms[i]
		het := "ATOM"
		if a.Hetero {
			het = "HETATM"
		}
		comp, seq, asym := ".", ".", "."
		if ri := in.ResidueOf[i]; ri >= 0 {
			comp = cifQuote(mol.Residues[ri].Name)
			seq = strconv.Itoa(mol.Residues[ri].SerialNumber)
			if ci := in.ChainOf[ri]; ci >= 0 {
				asym = cifQuote(mol.Chains[ci].ID)
			}
		}
		if asym == "." {
			//the atom may still belong to a chain directly (waters do)
			for ci := range mol.Chains {
				if intInSlice(a.SerialNumber, mol.Chains[ci].AtomSNs) {
					asym = cifQuote(mol.Chains[ci].ID)
					break
				}
			}
		}
		occ := "?"
		if a.Occupancy != nil {
			occ = strconv.FormatFloat(*a.Occupancy, 'f', 2, 64)
		}
		sym := a.Symbol
		if sym == "" {
			sym = "?"
		}
		out.Write([]byte(fmt.Sprintf("%s %d %s %s %s %s %s %.3f %.3f %.3f %s\n",
			het, a.SerialNumber, sym, cifQuote(a.Name), comp, asym, seq,
			a.Position[0], a.Position[1], a.Position[2], occ)))
	}
	out.Write([]byte("#\n"))
	mmcifWriteSS(out, mol)
	return nil
}

func mmcifWriteSS(out io.Writer, mol *Molecule) {
	var conf, sheet []SecondaryStructure
	for _, ss := range mol.SS {
		if ss.Kind == Sheet {
			sheet = append(sheet, ss)
		} else {
			conf = append(conf, ss)
		}
	}
	if len(conf) > 0 {
		out.Write([]byte("loop_\n_struct_conf.id\n_struct_conf.conf_type_id\n_struct_conf.beg_label_asym_id\n_struct_conf.beg_label_seq_id\n_struct_conf.end_label_seq_id\n"))
		for i, ss := range conf {
			kind := "HELX_P"
			if ss.Kind == Coil {
				kind = "TURN_P"
			}
			out.Write([]byte(fmt.Sprintf("%d %s %s %d %d\n", i+1, kind, cifQuote(ss.Chain), ss.StartSN, ss.EndSN)))
		}
		out.Write([]byte("#\n"))
	}
	if len(sheet) > 0 {
		out.Write([]byte("loop_\n_struct_sheet_range.id\n_struct_sheet_range.beg_label_asym_id\n_struct_sheet_range.beg_label_seq_id\n_struct_sheet_range.end_label_seq_id\n"))
		for i, ss := range sheet {
			out.Write([]byte(fmt.Sprintf("%d %s %d %d\n", i+1, cifQuote(ss.Chain), ss.StartSN, ss.EndSN)))
		}
		out.Write([]byte("#\n"))
	}
}

func intInSlice(x int, s []int) bool {
	for _, v := range s {
		if v == x {
			return true
		}
	}
	return false
}
