/*
 * method.go, part of rmsdcv.
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

import "strings"

//Method selects how positions are compared with the reference.
type Method int

const (
	//Unset is the zero value; an RMSD object with no method can't calculate.
	Unset Method = iota
	//Simple compares positions and reference directly, without any fitting.
	Simple
	//Optimal superimposes the positions onto the reference with the rigid-body
	//transformation that minimizes the align-weighted deviation before comparing them.
	Optimal
)

//String returns "SIMPLE" or "OPTIMAL", or the empty string for Unset.
func (m Method) String() string {
	switch m {
	case Simple:
		return "SIMPLE"
	case Optimal:
		return "OPTIMAL"
	}
	return ""
}

//ParseMethod returns the Method named by s, case-insensitively.
func ParseMethod(s string) (Method, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SIMPLE":
		return Simple, nil
	case "OPTIMAL":
		return Optimal, nil
	}
	return Unset, newConfigurationError("ParseMethod", "unknown alignment method %q, use SIMPLE or OPTIMAL", s)
}
