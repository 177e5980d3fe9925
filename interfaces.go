/*
 * interfaces.go, part of rmsdcv.
 *
 * Copyright 2024 The rmsdcv authors.
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

package rmsd

import v3 "github.com/rmera/rmsdcv/v3"

//Structure is anything that can provide a reference structure, together with
//per-atom occupancies and b-factors, such as a parsed PDB file.
//See RMSD.SetFromStructure for how those are used.
type Structure interface {

	//Coords returns the coordinates of the structure, one atom per row.
	Coords() *v3.Matrix

	//Occupancies returns one value per atom.
	Occupancies() []float64

	//Bfactors returns one value per atom.
	Bfactors() []float64
}

//Logger is an optional sink for diagnostic messages. *log.Logger implements it.
type Logger interface {
	Printf(format string, v ...interface{})
}

//Errors

//Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
//error, without changing it's type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Each call also returns the decoration slice resulting from the current call. If passed an empty string, it just returns the current value.
	Critical() bool
}
