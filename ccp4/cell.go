/*
 * cell.go, part of biofiles.
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

package ccp4

import (
	"fmt"
	"math"

	biofiles "github.com/rmera/biofiles"
	"gonum.org/v1/gonum/mat"
)

/*UnitCell is a crystallographic unit cell: edge lengths in Å, angles
in radians, and the orthogonalization matrix built from them (a along
cartesian x, b in the xy plane). It converts between fractional and
cartesian coordinates.*/
type UnitCell struct {
	A, B, C            float64
	Alpha, Beta, Gamma float64 //radians
	orth, inv          *mat.Dense
}

/*NewUnitCell builds a unit cell from edge lengths (Å) and angles
(radians). Degenerate cells (non-positive edges, angles outside (0,π),
or angle combinations no 3D cell can have) are rejected.*/
func NewUnitCell(a, b, c, alpha, beta, gamma float64) (*UnitCell, error) {
	if a <= 0 || b <= 0 || c <= 0 {
		return nil, &Error{kind: KInvalidHeader,
			message: fmt.Sprintf("cell lengths %.3f %.3f %.3f, want all positive", a, b, c)}
	}
	for _, ang := range []float64{alpha, beta, gamma} {
		if ang <= 0 || ang >= math.Pi {
			return nil, &Error{kind: KInvalidHeader,
				message: fmt.Sprintf("cell angle %.4f rad outside (0,pi)", ang)}
		}
	}
	ca, cb, cg := math.Cos(alpha), math.Cos(beta), math.Cos(gamma)
	sg := math.Sin(gamma)
	cz := (ca - cb*cg) / sg
	szSq := 1 - cb*cb - cz*cz
	if szSq <= 0 {
		return nil, &Error{kind: KInvalidHeader,
			message: fmt.Sprintf("cell angles %.4f %.4f %.4f rad don't close a cell", alpha, beta, gamma)}
	}
	sz := math.Sqrt(szSq)
	orth := mat.NewDense(3, 3, []float64{
		a, b * cg, c * cb,
		0, b * sg, c * cz,
		0, 0, c * sz,
	})
	inv := mat.NewDense(3, 3, nil)
	if err := inv.Inverse(orth); err != nil {
		return nil, &Error{kind: KInvalidHeader, message: "cell matrix is singular: " + err.Error()}
	}
	return &UnitCell{A: a, B: b, C: c, Alpha: alpha, Beta: beta, Gamma: gamma, orth: orth, inv: inv}, nil
}

//Volume returns the cell volume in Å^3.
func (cell *UnitCell) Volume() float64 {
	return mat.Det(cell.orth)
}

//FracToCart converts a fractional coordinate to cartesian Å.
func (cell *UnitCell) FracToCart(f biofiles.Vec3) biofiles.Vec3 {
	return mulVec(cell.orth, f)
}

//CartToFrac converts a cartesian coordinate (Å) to fractional.
func (cell *UnitCell) CartToFrac(p biofiles.Vec3) biofiles.Vec3 {
	return mulVec(cell.inv, p)
}

func mulVec(m *mat.Dense, v biofiles.Vec3) biofiles.Vec3 {
	var out mat.VecDense
	out.MulVec(m, mat.NewVecDense(3, []float64{v[0], v[1], v[2]}))
	return biofiles.Vec3{out.AtVec(0), out.AtVec(1), out.AtVec(2)}
}

/*Cell builds the unit cell declared in the map header. The header
keeps its angles in degrees, as the format wants them; the returned
cell has them in radians like the rest of the library. The cell is
rebuilt on every call, so a caller that edits the header gets the
edited geometry.*/
func (M *Map) Cell() (*UnitCell, error) {
	H := &M.Header
	cell, err := NewUnitCell(float64(H.CellA), float64(H.CellB), float64(H.CellC),
		float64(H.Alpha)*biofiles.Deg2Rad, float64(H.Beta)*biofiles.Deg2Rad, float64(H.Gamma)*biofiles.Deg2Rad)
	if err != nil {
		return nil, errDecorate(err, "Cell")
	}
	return cell, nil
}
