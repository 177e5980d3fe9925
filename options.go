/*
 * options.go, part of rmsdcv.
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

//Options contains the numerical settings and the optional diagnostic sink
//used by RMSD and Superposition objects.
type Options struct {
	tolerance     float64
	zeroThreshold float64
	logger        Logger
}

//DefaultOptions returns reasonable options: a relative eigenvalue gap tolerance of 1e-8,
//RMSD values of 1e-12 or less treated as zero, and no logging.
func DefaultOptions() *Options {
	r := new(Options)
	r.tolerance = 1e-8
	r.zeroThreshold = 1e-12
	return r
}

//Tolerance returns the relative tolerance under which the two largest eigenvalues
//of the quaternion key matrix are considered degenerate, and sets it to a new
//value, if a positive one is given. The gap is compared against
//sqrt(sum(w|x|^2)*sum(w|r|^2)) for the centered positions x and reference r,
//which bounds the eigenvalues.
func (O *Options) Tolerance(tol ...float64) float64 {
	if len(tol) > 0 && tol[0] > 0 {
		O.tolerance = tol[0]
	}
	return O.tolerance
}

//ZeroThreshold returns the RMSD value at or under which derivatives are
//set to zero instead of dividing by the RMSD, and sets it to a new value,
//if a non-negative one is given.
func (O *Options) ZeroThreshold(z ...float64) float64 {
	if len(z) > 0 && z[0] >= 0 {
		O.zeroThreshold = z[0]
	}
	return O.zeroThreshold
}

//Logger returns the diagnostic sink, and sets it to a new value, if given.
//A nil Logger disables diagnostics.
func (O *Options) Logger(l ...Logger) Logger {
	if len(l) > 0 {
		O.logger = l[0]
	}
	return O.logger
}

func (O *Options) logf(format string, v ...interface{}) {
	if O == nil || O.logger == nil {
		return
	}
	O.logger.Printf(format, v...)
}

//copy returns a copy of O, so later changes by the caller don't reach
//objects already built with it.
func (O *Options) copy() *Options {
	if O == nil {
		return DefaultOptions()
	}
	r := *O
	return &r
}
