/*
 * rmsd.go, part of rmsdcv.
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
	v3 "github.com/rmera/rmsdcv/v3"
)

//RMSD computes the RMSD between sets of positions and a reference structure, and its
//derivatives with respect to the positions, with one of two methods: Simple, which
//compares positions and reference directly, and Optimal, which superimposes them first.
//
//An RMSD is configured once, with SetReference, SetAlign, SetDisplace and SetMethod (or
//SetFromStructure), and then Calculate can be called as many times as needed. Calculate
//doesn't modify the object, so concurrent calls are safe, but the setters and Clear must
//not run concurrently with anything else on the same object.
type RMSD struct {
	set    WeightedPointSet
	method Method
	o      *Options
	//At most one of these is non-nil, and only while the configuration is
	//complete and valid for the method. They are rebuilt after every change.
	smp *simple
	opt *Superposition
}

//New returns an empty RMSD object that will use the given options, or DefaultOptions
//if o is nil. Changes to o after this call have no effect on the object.
func New(o *Options) *RMSD {
	return &RMSD{o: o.copy()}
}

//SetReference sets a copy of ref as the reference. The number of vectors in ref
//becomes the number of atoms expected from then on.
func (R *RMSD) SetReference(ref *v3.Matrix) error {
	if err := R.set.SetReference(ref); err != nil {
		return errDecorate(err, "RMSD.SetReference")
	}
	R.reconfigure()
	return nil
}

//SetAlign sets a copy of w as the alignment weights. If their number doesn't match the
//reference, the error is returned by the next Calculate.
func (R *RMSD) SetAlign(w []float64) error {
	if err := R.set.SetAlign(w); err != nil {
		return errDecorate(err, "RMSD.SetAlign")
	}
	R.reconfigure()
	return nil
}

//SetDisplace sets a copy of w as the displacement weights. If their number doesn't match
//the reference, the error is returned by the next Calculate.
func (R *RMSD) SetDisplace(w []float64) error {
	if err := R.set.SetDisplace(w); err != nil {
		return errDecorate(err, "RMSD.SetDisplace")
	}
	R.reconfigure()
	return nil
}

//SetMethod sets the method used by Calculate, replacing the previous one.
func (R *RMSD) SetMethod(m Method) error {
	if m != Simple && m != Optimal {
		return newConfigurationError("RMSD.SetMethod", "invalid method %d", int(m))
	}
	R.method = m
	R.reconfigure()
	return nil
}

//SetMethodString sets the method from its name, "SIMPLE" or "OPTIMAL", case-insensitively.
func (R *RMSD) SetMethodString(s string) error {
	m, err := ParseMethod(s)
	if err != nil {
		return errDecorate(err, "RMSD.SetMethodString")
	}
	return R.SetMethod(m)
}

//SetFromStructure configures the object from a structure: its coordinates become the
//reference, its occupancies the alignment weights and its b-factors the displacement
//weights. method is parsed as in SetMethodString. Weights derived any other way should
//be given with SetAlign and SetDisplace.
func (R *RMSD) SetFromStructure(s Structure, method string) error {
	const caller = "RMSD.SetFromStructure"
	if s == nil {
		return newConfigurationError(caller, "nil structure")
	}
	m, err := ParseMethod(method)
	if err != nil {
		return errDecorate(err, caller)
	}
	W := new(WeightedPointSet)
	if err := W.SetReference(s.Coords()); err != nil {
		return errDecorate(err, caller)
	}
	if err := W.SetAlign(s.Occupancies()); err != nil {
		return errDecorate(err, caller)
	}
	if err := W.SetDisplace(s.Bfactors()); err != nil {
		return errDecorate(err, caller)
	}
	R.set = *W
	R.method = m
	R.reconfigure()
	return nil
}

//Method returns "SIMPLE" or "OPTIMAL", or an empty string if no method has been set.
func (R *RMSD) Method() string {
	return R.method.String()
}

//N returns the number of atoms in the reference, 0 if there is none.
func (R *RMSD) N() int {
	return R.set.N()
}

//Clear returns the object to its empty state. It has to be configured again before
//Calculate can be used.
func (R *RMSD) Clear() {
	R.set.Clear()
	R.method = Unset
	R.smp = nil
	R.opt = nil
}

//reconfigure rebuilds the object that performs the calculation for the current method,
//or leaves none if the configuration is not complete and valid.
func (R *RMSD) reconfigure() {
	R.smp = nil
	R.opt = nil
	if R.method == Unset || R.set.Validate(R.method) != nil {
		return
	}
	switch R.method {
	case Simple:
		R.smp = newSimple(&R.set, R.o)
	case Optimal:
		opt, err := newSuperposition(&R.set, R.o)
		if err != nil {
			R.o.logf("rmsd: %s", err.Error())
			return
		}
		R.opt = opt
	}
	R.o.logf("rmsd: %d atoms, method %s", R.set.N(), R.method)
}

//configError returns the reason why the current configuration can't be used.
//It builds a new error each time, so the stored state is never decorated.
func (R *RMSD) configError() error {
	if R.method == Unset {
		return newConfigurationError("RMSD.configError", "alignment method not set")
	}
	if err := R.set.Validate(R.method); err != nil {
		return err
	}
	if R.method == Optimal {
		if _, err := newSuperposition(&R.set, R.o); err != nil {
			return err
		}
	}
	return newConfigurationError("RMSD.configError", "incomplete configuration")
}

//Calculate returns the RMSD between positions and the reference, and its derivatives
//with respect to each position. positions must have as many vectors as the reference.
//Under Optimal, the error can be a *DegenerateAlignmentError; all other errors are
//*ConfigurationError. No partial result is returned on error.
func (R *RMSD) Calculate(positions *v3.Matrix) (*Result, error) {
	const caller = "RMSD.Calculate"
	if R.smp == nil && R.opt == nil {
		return nil, errDecorate(R.configError(), caller)
	}
	if positions == nil {
		return nil, newConfigurationError(caller, "nil positions")
	}
	if p := positions.NVecs(); p != R.set.N() {
		return nil, newConfigurationError(caller, "%d positions given for %d reference atoms", p, R.set.N())
	}
	switch R.method {
	case Simple:
		return R.smp.calculate(positions), nil
	case Optimal:
		res, err := R.opt.Calculate(positions)
		return res, errDecorate(err, caller)
	}
	panic("rmsd: unreachable method")
}

//Superpose returns a copy of positions moved onto the reference with the optimal
//rigid-body transformation. With the Simple method, it just returns a copy of positions.
func (R *RMSD) Superpose(positions *v3.Matrix) (*v3.Matrix, error) {
	const caller = "RMSD.Superpose"
	if R.smp == nil && R.opt == nil {
		return nil, errDecorate(R.configError(), caller)
	}
	if positions == nil {
		return nil, newConfigurationError(caller, "nil positions")
	}
	if R.method == Simple {
		if p := positions.NVecs(); p != R.set.N() {
			return nil, newConfigurationError(caller, "%d positions given for %d reference atoms", p, R.set.N())
		}
		return positions.Clone(), nil
	}
	ret, err := R.opt.Superpose(positions)
	return ret, errDecorate(err, caller)
}
