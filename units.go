/*
 * units.go, part of biofiles.
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

import "math"

//This provides useful conversion factors and other constants

//Conversions
const (
	Deg2Rad = math.Pi / 180
	Rad2Deg = 180 / math.Pi
	KJ2Kcal = 1 / 4.184
	Kcal2KJ = 4.184
	A2Bohr  = 1.889725989
	Bohr2A  = 1 / 1.889725989
	//2^(1/6), the factor between the Lennard-Jones minimum R_min and sigma.
	SixthRootOf2 = 1.122462048309373
)

// DegToRad converts an angle in degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * Deg2Rad
}

// RadToDeg converts an angle in radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * Rad2Deg
}

// RminToSigma converts a Lennard-Jones R_min (the location of the
// potential minimum, as Amber tables store it) to the corresponding
// sigma (the zero crossing): sigma = R_min / 2^(1/6).
func RminToSigma(rmin float64) float64 {
	return rmin / SixthRootOf2
}

// SigmaToRmin is the inverse of RminToSigma.
func SigmaToRmin(sigma float64) float64 {
	return sigma * SixthRootOf2
}
