// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package relation

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dolthub/go-acyclic-query/relerr"
)

// FromReader reads a MultisetRelation named name from r. The first line
// is a whitespace-separated attribute header; each subsequent line is a
// whitespace-separated data row of the same arity, whose multiplicity
// accumulates with every repeated occurrence. This is the shape of the
// loader's contract fixed by the external interface; callers choose how
// to obtain the io.Reader (file, embedded fixture, network body, ...).
func FromReader(name string, r io.Reader) (*MultisetRelation, error) {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		return NewMultisetRelation(name, NewVarSet()), scanner.Err()
	}
	header := strings.Fields(scanner.Text())
	vars := make([]Variable, len(header))
	varSet := make(VarSet, len(header))
	for i, h := range header {
		vars[i] = Variable(h)
		varSet[Variable(h)] = struct{}{}
	}

	rel := NewMultisetRelation(name, varSet)

	lineNo := 1
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != len(header) {
			return nil, relerr.ErrArityMismatch.New(lineNo, len(header), len(fields))
		}

		attrs := make(map[Variable]string, len(vars))
		for i, v := range vars {
			attrs[v] = fields[i]
		}
		t := NewTuple(attrs)
		rel.SetMultiplicity(t, rel.GetMultiplicity(t)+1)
	}

	return rel, scanner.Err()
}

// LoadDirectory populates c with one relation per file matching ext in
// dir, naming each relation after its file's base name with ext
// stripped. It is additive sugar over FromReader for the common case of
// a directory of relation files; it does not change the file format.
func LoadDirectory(c *Catalog, dir, ext string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ext {
			continue
		}

		name := strings.TrimSuffix(e.Name(), ext)
		f, err := os.Open(filepath.Join(dir, e.Name()))
		if err != nil {
			return err
		}

		rel, err := FromReader(name, f)
		closeErr := f.Close()
		if err != nil {
			return err
		}
		if closeErr != nil {
			return closeErr
		}

		c.Put(rel)
	}

	return nil
}
