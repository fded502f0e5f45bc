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

	"github.com/dolthub/go-acyclic-query/relerr"
)

// Catalog is a name-keyed registry of MultisetRelations. The same type
// serves as the base-relation catalog consumed by Engine.Initialize and as
// the batched delta catalog consumed by Engine.Update.
type Catalog struct {
	relations map[string]*MultisetRelation
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{relations: make(map[string]*MultisetRelation)}
}

// Put registers rel under its own name, replacing any prior entry.
func (c *Catalog) Put(rel *MultisetRelation) {
	c.relations[rel.Name()] = rel
}

// Get returns the relation registered under name, or
// relerr.ErrUnknownRelation if none was registered.
func (c *Catalog) Get(name string) (*MultisetRelation, error) {
	rel, ok := c.relations[name]
	if !ok {
		return nil, relerr.ErrUnknownRelation.New(name)
	}
	return rel, nil
}

// Has reports whether name is registered.
func (c *Catalog) Has(name string) bool {
	_, ok := c.relations[name]
	return ok
}

// Names returns the registered relation names, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.relations))
	for n := range c.relations {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
