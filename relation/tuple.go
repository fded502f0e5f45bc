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
	"sort"
	"strings"

	"github.com/dolthub/go-acyclic-query/relerr"
)

// Tuple is an immutable mapping from Variables to atomic string values.
// Equality and hashing are by value of the mapping; key order never
// matters. The fingerprint computed at construction doubles as the map
// key used by MultisetRelation and as the lexicographic sort key §5
// requires for deterministic output.
type Tuple struct {
	attrs       map[Variable]string
	fingerprint string
}

// EmptyTuple returns the tuple over the empty variable set.
func EmptyTuple() Tuple {
	return NewTuple(nil)
}

// NewTuple builds a Tuple from the given attribute map. The map is copied;
// callers may reuse or mutate the argument afterwards.
func NewTuple(attrs map[Variable]string) Tuple {
	cp := make(map[Variable]string, len(attrs))
	for k, v := range attrs {
		cp[k] = v
	}
	return Tuple{attrs: cp, fingerprint: fingerprint(cp)}
}

func fingerprint(attrs map[Variable]string) string {
	vars := make([]string, 0, len(attrs))
	for v := range attrs {
		vars = append(vars, string(v))
	}
	sort.Strings(vars)

	var b strings.Builder
	for _, v := range vars {
		b.WriteString(v)
		b.WriteByte('=')
		b.WriteString(attrs[Variable(v)])
		b.WriteByte(';')
	}
	return b.String()
}

// Get returns the value bound to v, and whether v is in the tuple's domain.
func (t Tuple) Get(v Variable) (string, bool) {
	val, ok := t.attrs[v]
	return val, ok
}

// Domain returns the set of variables bound by the tuple.
func (t Tuple) Domain() VarSet {
	vars := make(VarSet, len(t.attrs))
	for v := range t.attrs {
		vars[v] = struct{}{}
	}
	return vars
}

// Fingerprint returns the tuple's canonical string key.
func (t Tuple) Fingerprint() string {
	return t.fingerprint
}

// Project returns the tuple restricted to vars. It fails with
// relerr.ErrAttributeMismatch if some variable in vars is not in the
// tuple's domain.
func (t Tuple) Project(vars VarSet) (Tuple, error) {
	proj := make(map[Variable]string, len(vars))
	for v := range vars {
		val, ok := t.attrs[v]
		if !ok {
			return Tuple{}, relerr.ErrAttributeMismatch.New(v)
		}
		proj[v] = val
	}
	return NewTuple(proj), nil
}

// Join returns the disjoint union of t and other. Callers guarantee the
// two domains are disjoint or agree on any overlap.
func (t Tuple) Join(other Tuple) Tuple {
	merged := make(map[Variable]string, len(t.attrs)+len(other.attrs))
	for k, v := range t.attrs {
		merged[k] = v
	}
	for k, v := range other.attrs {
		merged[k] = v
	}
	return NewTuple(merged)
}

// Equal reports whether t and other have the same domain and values.
func (t Tuple) Equal(other Tuple) bool {
	return t.fingerprint == other.fingerprint
}

func (t Tuple) String() string {
	vars := make([]string, 0, len(t.attrs))
	for v := range t.attrs {
		vars = append(vars, string(v))
	}
	sort.Strings(vars)

	parts := make([]string, len(vars))
	for i, v := range vars {
		parts[i] = v + "=" + t.attrs[Variable(v)]
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
