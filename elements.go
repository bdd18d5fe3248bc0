/*
 * elements.go, part of biofiles.
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
	"strings"
	"unicode"
)

//A map for assigning mass to elements.
//Note that just common "bio-elements" are present
var symbolMass = map[string]float64{
	"H":  1.0,
	"C":  12.01,
	"O":  16.00,
	"N":  14.01,
	"P":  30.97,
	"S":  32.06,
	"Se": 78.96,
	"K":  39.1,
	"Ca": 40.08,
	"Mg": 24.30,
	"Cl": 35.45,
	"Na": 22.99,
	"Cu": 63.55,
	"Zn": 65.38,
	"Co": 58.93,
	"Fe": 55.84,
	"Mn": 54.94,
	"Cr": 51.996,
	"Si": 28.08,
	"Be": 9.012,
	"F":  18.998,
	"Br": 79.904,
	"I":  126.90,
}

//A map for assigning van der Waals radii, in A, to elements.
//Values from 10.1021/jp8111556, except H, from 10.1002/chem.201602949
var symbolVdwrad = map[string]float64{
	"H":  1.20,
	"C":  1.77,
	"O":  1.50,
	"N":  1.66,
	"P":  1.90,
	"S":  1.89,
	"Se": 1.82,
	"K":  2.73,
	"Ca": 2.62,
	"Mg": 2.51,
	"Cl": 1.82,
	"Na": 2.27,
	"Cu": 2.38,
	"Zn": 2.39,
	"Co": 2.44,
	"Fe": 2.44,
	"Mn": 2.45,
	"Cr": 2.45,
	"Si": 2.19,
	"Be": 1.98,
	"F":  1.46,
	"Br": 1.86,
	"I":  2.04,
}

// SymbolMass returns the atomic mass for an element symbol, or false if
// the element is not in the (bio-centric) internal table.
func SymbolMass(symbol string) (float64, bool) {
	m, ok := symbolMass[symbol]
	return m, ok
}

// SymbolVdW returns the van der Waals radius, in A, for an element
// symbol, or false if the element is not in the internal table.
func SymbolVdW(symbol string) (float64, bool) {
	r, ok := symbolVdwrad[symbol]
	return r, ok
}

// NormalizeSymbol brings an element symbol to its canonical spelling:
// first letter upper case, the rest lower ("FE" and "fe" both become
// "Fe"). It doesn't check that the element exists.
func NormalizeSymbol(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if len(s) == 1 {
		return strings.ToUpper(s)
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

//This tries to guess a chemical element symbol from an atom name or a
//force-field atom type. Mostly based on AMBER and Tripos names.
//It only deals with some common bio-elements. Returns "" when it can't tell.
func symbolFromName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.IndexFunc(name, func(r rune) bool { return !unicode.IsLetter(r) }); i > 0 {
		name = name[:i] //Tripos types are Element.hybridization
	}
	if name == "" {
		return ""
	}
	if _, ok := symbolMass[name]; ok { //already a canonical symbol
		return name
	}
	up := strings.ToUpper(name)
	symbol := ""
	switch {
	case len(name) == 4 || name[0] == 'H': //I thiiink only Hs can have 4-char names in amber.
		symbol = "H"
	case name[0] == 'C':
		switch up {
		case "CU":
			symbol = "Cu"
		case "CO":
			symbol = "Co"
		case "CL":
			symbol = "Cl"
		case "CR":
			symbol = "Cr"
		default:
			symbol = "C" //CA is an alpha carbon here, not calcium
		}
	case name[0] == 'N':
		if up == "NA" {
			symbol = "Na"
		} else {
			symbol = "N"
		}
	case name[0] == 'O':
		symbol = "O"
	case name[0] == 'P':
		symbol = "P"
	case name[0] == 'S':
		switch up {
		case "SE":
			symbol = "Se"
		case "SI":
			symbol = "Si"
		default:
			symbol = "S"
		}
	case up == "ZN":
		symbol = "Zn"
	case up == "FE":
		symbol = "Fe"
	case up == "MG":
		symbol = "Mg"
	case up == "BR":
		symbol = "Br"
	case name[0] == 'K':
		symbol = "K"
	case name[0] == 'F':
		symbol = "F"
	case name[0] == 'I':
		symbol = "I"
	}
	return symbol
}
