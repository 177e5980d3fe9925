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

package rmsd

import (
	"fmt"
	"strings"
)

//ConfigurationError is returned when the reference, the weights or the method
//are missing or inconsistent, or when the positions given don't match them.
type ConfigurationError struct {
	message string
	deco    []string
}

func newConfigurationError(caller, format string, a ...interface{}) *ConfigurationError {
	return &ConfigurationError{message: fmt.Sprintf(format, a...), deco: []string{caller}}
}

func (err *ConfigurationError) Error() string {
	return fmt.Sprintf("rmsd: configuration error in %s: %s", strings.Join(err.deco, " <- "), err.message)
}

//Decorate adds dec to the decoration slice of the error and returns the result.
func (err *ConfigurationError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical always returns true, no result is produced when this error occurs.
func (err *ConfigurationError) Critical() bool { return true }

//DegenerateAlignmentError is returned when the optimal rotation is not uniquely
//determined: fewer than 3 atoms carry alignment weight, the weighted atoms are
//collinear, or the largest eigenvalue of the quaternion key matrix is degenerate.
type DegenerateAlignmentError struct {
	message string
	deco    []string
	//Gap is the difference between the two largest eigenvalues of the key matrix,
	//or 0 when the eigenproblem was not reached.
	Gap float64
}

func newDegenerateAlignmentError(caller string, gap float64, format string, a ...interface{}) *DegenerateAlignmentError {
	return &DegenerateAlignmentError{message: fmt.Sprintf(format, a...), deco: []string{caller}, Gap: gap}
}

func (err *DegenerateAlignmentError) Error() string {
	return fmt.Sprintf("rmsd: degenerate alignment in %s: %s", strings.Join(err.deco, " <- "), err.message)
}

//Decorate adds dec to the decoration slice of the error and returns the result.
func (err *DegenerateAlignmentError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical always returns true.
func (err *DegenerateAlignmentError) Critical() bool { return true }

//errDecorate decorates err with the caller's name before returning it, if err
//implements Error. Other errors are returned unchanged.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if err2, ok := err.(Error); ok {
		err2.Decorate(caller)
	}
	return err
}
