/*
 * pointset.go, part of rmsdcv.
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
	"math"

	v3 "github.com/rmera/rmsdcv/v3"
	"gonum.org/v1/gonum/floats"
)

//WeightedPointSet holds a reference structure and the two per-atom weight sets
//used to compare positions with it. The alignment weights control the centering
//and the rotational fit, the displacement weights control the deviation measured
//afterwards.
//The setters copy their arguments. A WeightedPointSet must not be modified while
//it is being used for a calculation.
type WeightedPointSet struct {
	reference *v3.Matrix
	align     []float64
	displace  []float64
}

//N returns the number of atoms in the reference, or 0 if there is none.
func (W *WeightedPointSet) N() int {
	if W.reference == nil {
		return 0
	}
	return W.reference.NVecs()
}

//Reference returns the reference coordinates. They should not be modified.
func (W *WeightedPointSet) Reference() *v3.Matrix { return W.reference }

//Align returns the alignment weights. They should not be modified.
func (W *WeightedPointSet) Align() []float64 { return W.align }

//Displace returns the displacement weights. They should not be modified.
func (W *WeightedPointSet) Displace() []float64 { return W.displace }

//SetReference sets a copy of ref as the reference.
func (W *WeightedPointSet) SetReference(ref *v3.Matrix) error {
	if ref == nil || ref.NVecs() == 0 {
		return newConfigurationError("SetReference", "empty reference")
	}
	W.reference = ref.Clone()
	return nil
}

//SetAlign sets a copy of w as the alignment weights.
func (W *WeightedPointSet) SetAlign(w []float64) error {
	if err := checkWeights(w); err != nil {
		return errDecorate(err, "SetAlign")
	}
	W.align = append([]float64(nil), w...)
	return nil
}

//SetDisplace sets a copy of w as the displacement weights.
func (W *WeightedPointSet) SetDisplace(w []float64) error {
	if err := checkWeights(w); err != nil {
		return errDecorate(err, "SetDisplace")
	}
	W.displace = append([]float64(nil), w...)
	return nil
}

//Clear empties the set.
func (W *WeightedPointSet) Clear() {
	W.reference = nil
	W.align = nil
	W.displace = nil
}

//Validate checks that the set can be used with the method m: the reference and
//the weights the method needs are present, all of them have the same length and
//the weights needed add up to more than zero. The alignment weights are only
//needed by Optimal.
func (W *WeightedPointSet) Validate(m Method) error {
	const caller = "WeightedPointSet.Validate"
	n := W.N()
	switch {
	case n == 0:
		return newConfigurationError(caller, "reference not set")
	case W.displace == nil:
		return newConfigurationError(caller, "displacement weights not set")
	case W.align == nil:
		return newConfigurationError(caller, "alignment weights not set")
	case len(W.displace) != n:
		return newConfigurationError(caller, "%d displacement weights for %d reference atoms", len(W.displace), n)
	case len(W.align) != n:
		return newConfigurationError(caller, "%d alignment weights for %d reference atoms", len(W.align), n)
	}
	if floats.Sum(W.displace) <= 0 {
		return newConfigurationError(caller, "displacement weights add up to zero")
	}
	if m == Optimal && floats.Sum(W.align) <= 0 {
		return newConfigurationError(caller, "alignment weights add up to zero")
	}
	return nil
}

//checkWeights returns an error if w is empty or has negative or non-finite elements.
func checkWeights(w []float64) error {
	if len(w) == 0 {
		return newConfigurationError("checkWeights", "empty weight set")
	}
	for i, v := range w {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return newConfigurationError("checkWeights", "weight %d is not a finite number", i)
		}
	}
	if floats.Min(w) < 0 {
		return newConfigurationError("checkWeights", "negative weight %d", floats.MinIdx(w))
	}
	return nil
}

//normalized returns a copy of w scaled so its elements add up to 1.
//w must add up to more than zero.
func normalized(w []float64) []float64 {
	r := make([]float64, len(w))
	return floats.ScaleTo(r, 1/floats.Sum(w), w)
}
