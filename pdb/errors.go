/*
 * errors.go, part of rmsdcv.
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

package pdb

import "fmt"

//Error is the error returned by this package.
type Error struct {
	message  string
	filename string //the file with problems, or an empty string if none.
	deco     []string
	critical bool
}

func (err *Error) Error() string {
	if err.filename == "" {
		return fmt.Sprintf("pdb error: %s", err.message)
	}
	return fmt.Sprintf("pdb file %s error: %s", err.filename, err.message)
}

//Decorate adds dec to the decoration of the error, and returns the decoration.
func (err *Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//FileName returns the file associated to the error.
func (err *Error) FileName() string { return err.filename }

//Critical returns true if the error is critical, false otherwise.
func (err *Error) Critical() bool { return err.critical }

const (
	UnableToOpen = "Unable to open file"
	ReadError    = "Error reading file"
	NoAtoms      = "No ATOM or HETATM records found"
)

func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if err2, ok := err.(interface{ Decorate(string) []string }); ok {
		err2.Decorate(caller)
	}
	return err
}
