/*
 * pdb.go, part of rmsdcv.
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

//Package pdb reads and writes the atom records of PDB files, with one or more
//models, as coordinates plus the occupancy and temperature factor columns. Files
//ending in .gz or .zst (.zstd) are decompressed on the fly.
//
//Only the columns that matter for structural comparisons are interpreted. The
//first 30 columns of each atom line (record name, serial, atom and residue names,
//chain, residue number) are kept verbatim and written back unchanged.
package pdb

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	v3 "github.com/rmera/rmsdcv/v3"
)

//Structure contains the atoms of a PDB file. All models have the same atoms,
//occupancies and b-factors are taken from the first one.
type Structure struct {
	records []string //columns 1-30 of each atom line
	frames  []*v3.Matrix
	occ     []float64
	bfac    []float64
}

//Len returns the number of atoms.
func (S *Structure) Len() int { return len(S.records) }

//NFrames returns the number of models read.
func (S *Structure) NFrames() int { return len(S.frames) }

//Coords returns the coordinates of the first model.
func (S *Structure) Coords() *v3.Matrix { return S.frames[0] }

//Frame returns the coordinates of the ith model, or nil if there is no such model.
func (S *Structure) Frame(i int) *v3.Matrix {
	if i < 0 || i >= len(S.frames) {
		return nil
	}
	return S.frames[i]
}

//Occupancies returns the occupancy column. Atoms without it get 1.0.
func (S *Structure) Occupancies() []float64 { return S.occ }

//Bfactors returns the temperature factor column. Atoms without it get 1.0.
func (S *Structure) Bfactors() []float64 { return S.bfac }

//ReadFile reads the PDB file name, decompressing it if the extension is
//.gz, .zst or .zstd.
func ReadFile(name string) (*Structure, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, &Error{fmt.Sprintf("%s: %s", UnableToOpen, err.Error()), name, []string{"ReadFile"}, true}
	}
	defer f.Close()
	r, err := decompressor(name, bufio.NewReader(f))
	if err != nil {
		return nil, &Error{"Can't start decompression: " + err.Error(), name, []string{"ReadFile"}, true}
	}
	defer r.Close()
	S, err := read(r, name)
	if err != nil {
		return nil, errDecorate(err, "ReadFile")
	}
	return S, nil
}

//Read reads an uncompressed PDB from r.
func Read(r io.Reader) (*Structure, error) {
	S, err := read(r, "")
	if err != nil {
		return nil, errDecorate(err, "Read")
	}
	return S, nil
}

func read(r io.Reader, filename string) (*Structure, error) {
	S := new(Structure)
	var current []float64 //coordinates of the model being read
	first := true
	inmodel := false
	endframe := func(lineno int) error {
		if len(current) == 0 {
			return nil
		}
		if !first && len(current) != 3*len(S.records) {
			return &Error{fmt.Sprintf("model ending at line %d has %d atoms, the first one has %d", lineno, len(current)/3, len(S.records)), filename, []string{"read"}, true}
		}
		M, _ := v3.NewMatrix(current)
		S.frames = append(S.frames, M)
		current = nil
		first = false
		return nil
	}
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "MODEL"):
			if inmodel {
				return nil, &Error{fmt.Sprintf("MODEL without ENDMDL before line %d", lineno), filename, []string{"read"}, true}
			}
			if err := endframe(lineno); err != nil {
				return nil, err
			}
			inmodel = true
		case strings.HasPrefix(line, "ENDMDL"):
			if err := endframe(lineno); err != nil {
				return nil, err
			}
			inmodel = false
		case strings.HasPrefix(line, "ATOM") || strings.HasPrefix(line, "HETATM"):
			coords, occ, bfac, err := readAtomLine(line)
			if err != nil {
				return nil, &Error{fmt.Sprintf("line %d: %s", lineno, err.Error()), filename, []string{"read"}, true}
			}
			current = append(current, coords[:]...)
			if first {
				S.records = append(S.records, line[:30])
				S.occ = append(S.occ, occ)
				S.bfac = append(S.bfac, bfac)
			} else if len(current) > 3*len(S.records) {
				return nil, &Error{fmt.Sprintf("line %d: model has more atoms than the first one (%d)", lineno, len(S.records)), filename, []string{"read"}, true}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &Error{fmt.Sprintf("%s: %s", ReadError, err.Error()), filename, []string{"read"}, true}
	}
	if err := endframe(lineno); err != nil {
		return nil, err
	}
	if len(S.frames) == 0 {
		return nil, &Error{NoAtoms, filename, []string{"read"}, true}
	}
	return S, nil
}

//readAtomLine parses the coordinates, occupancy and b-factor of an ATOM or HETATM line.
//Missing or blank occupancy and b-factor fields are read as 1.0.
func readAtomLine(line string) ([3]float64, float64, float64, error) {
	var coords [3]float64
	if len(line) < 54 {
		return coords, 0, 0, fmt.Errorf("atom line too short (%d columns)", len(line))
	}
	var err error
	for i := 0; i < 3; i++ {
		field := line[30+8*i : 38+8*i]
		coords[i], err = strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return coords, 0, 0, fmt.Errorf("can't read coordinate %q: %w", field, err)
		}
	}
	occ, err := optionalField(line, 54, 60)
	if err != nil {
		return coords, 0, 0, fmt.Errorf("can't read occupancy: %w", err)
	}
	bfac, err := optionalField(line, 60, 66)
	if err != nil {
		return coords, 0, 0, fmt.Errorf("can't read b-factor: %w", err)
	}
	return coords, occ, bfac, nil
}

func optionalField(line string, from, to int) (float64, error) {
	if len(line) <= from {
		return 1.0, nil
	}
	if len(line) < to {
		to = len(line)
	}
	f := strings.TrimSpace(line[from:to])
	if f == "" {
		return 1.0, nil
	}
	return strconv.ParseFloat(f, 64)
}

//WriteFile writes S to the file name, with the given frames as coordinates
//(one model each), or the coordinates of all the models in S if no frame is given.
//The file is compressed if its extension is .gz, .zst or .zstd.
func (S *Structure) WriteFile(name string, frames ...*v3.Matrix) error {
	f, err := os.Create(name)
	if err != nil {
		return &Error{fmt.Sprintf("%s: %s", UnableToOpen, err.Error()), name, []string{"WriteFile"}, true}
	}
	defer f.Close()
	w, err := compressor(name, f)
	if err != nil {
		return &Error{"Can't start compression: " + err.Error(), name, []string{"WriteFile"}, true}
	}
	if err := S.Write(w, frames...); err != nil {
		w.Close()
		if e, ok := err.(*Error); ok {
			e.filename = name
		}
		return errDecorate(err, "WriteFile")
	}
	if err := w.Close(); err != nil {
		return &Error{err.Error(), name, []string{"WriteFile"}, true}
	}
	return nil
}

//Write writes S to w, uncompressed, as WriteFile does.
func (S *Structure) Write(w io.Writer, frames ...*v3.Matrix) error {
	if len(frames) == 0 {
		frames = S.frames
	}
	out := bufio.NewWriter(w)
	for i, coords := range frames {
		if coords == nil || coords.NVecs() != S.Len() {
			return &Error{fmt.Sprintf("frame %d doesn't have %d atoms", i, S.Len()), "", []string{"Write"}, true}
		}
		if len(frames) > 1 {
			fmt.Fprintf(out, "MODEL     %4d\n", i+1)
		}
		for j, rec := range S.records {
			fmt.Fprintf(out, "%-30s%8.3f%8.3f%8.3f%6.2f%6.2f\n", rec, coords.At(j, 0), coords.At(j, 1), coords.At(j, 2), S.occ[j], S.bfac[j])
		}
		if len(frames) > 1 {
			fmt.Fprint(out, "ENDMDL\n")
		}
	}
	fmt.Fprint(out, "END\n")
	if err := out.Flush(); err != nil {
		return &Error{err.Error(), "", []string{"Write"}, true}
	}
	return nil
}

//zstdReadCloser gives the zstd decoder the Close method of an io.ReadCloser.
type zstdReadCloser struct {
	*zstd.Decoder
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

func decompressor(name string, r io.Reader) (io.ReadCloser, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		return gzip.NewReader(r)
	case ".zst", ".zstd":
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zstdReadCloser{d}, nil
	}
	return io.NopCloser(r), nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func compressor(name string, w io.Writer) (io.WriteCloser, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		return gzip.NewWriter(w), nil
	case ".zst", ".zstd":
		return zstd.NewWriter(w)
	}
	return nopWriteCloser{w}, nil
}
