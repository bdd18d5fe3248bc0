/*
 * doc.go, part of biofiles.
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

/*Package biofiles reads and writes the file formats of structural biology
and computational chemistry, and resolves the serial-number cross references
those formats use into index-based lookups.


	**Capabilities**

    Reads/writes mmCIF, Mol2 and SDF files into one shared set of
	record types (Atom, Bond, Residue, Chain).

    Resolves serial-number references (bonds to atoms, residues to
	atoms, chains to residues) into plain indices, validating that
	every reference points somewhere.

    Reads/writes CCP4/MRC electron-density maps, including the axis
	permutation and unit-cell handling needed to query the density at
	an arbitrary cartesian point (subpackage ccp4).

    Reads/writes ABIF sequencing traces (subpackage ab1) and renders
	their chromatograms (subpackage chromat).

    Reads/writes Amber force-field parameter tables, both the main DAT
	dialect and frcmod modification files, normalizing units on the way
	in and restoring them on the way out (subpackage amber).

All the readers return plain value data owned by the caller. The library
keeps no global state and never mutates what it has returned, so any number
of goroutines can use it at the same time as long as they don't share the
returned structures.

Errors implement the biofiles.Error interface, which classifies them
(truncated input, malformed record, invalid header, dangling reference,
invalid topology, out of bounds) and carries a decoration trail of the
calls the error went through.
*/
package biofiles
