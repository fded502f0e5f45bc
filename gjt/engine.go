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

package gjt

import (
	"context"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"github.com/dolthub/go-acyclic-query/relation"
)

// Engine drives a GJT through initialization, semi-join reduction,
// enumeration and incremental delta maintenance (spec §4.5-§4.6).
type Engine struct {
	tree *GJT
	log  *logrus.Entry
}

// NewEngine binds an engine to tree. log may be nil, in which case a
// discarding entry is used.
func NewEngine(tree *GJT, log *logrus.Entry) *Engine {
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}
	return &Engine{tree: tree, log: log}
}

func (eng *Engine) nodeLog(n *GJTNode) *logrus.Entry {
	label := n.Label.Label
	if !n.Label.IsAtom {
		label = n.Label.String()
	}
	return eng.log.WithFields(logrus.Fields{"node": n.ID(), "label": label})
}

// Initialize populates every node's λ, ψ and (for representatives) γ from
// catalog, post-order. Atom leaves pull a copy of their named relation
// from catalog; representatives project their guard's λ onto their own
// attribute set, seed γ as a copy of the guard's ψ, and build one index
// on γ per non-guard child's pvar.
func (eng *Engine) Initialize(catalog *relation.Catalog) error {
	span, _ := opentracing.StartSpanFromContext(context.Background(), "gjt.Initialize")
	defer span.Finish()

	if eng.tree.Root == nil {
		return nil
	}
	return eng.initialize(eng.tree.Root, catalog)
}

func (eng *Engine) initialize(n *GJTNode, catalog *relation.Catalog) error {
	for _, c := range n.Children {
		if err := eng.initialize(c, catalog); err != nil {
			return err
		}
	}

	if n.Label.IsAtom {
		rel, err := catalog.Get(n.Label.Label)
		if err != nil {
			return err
		}
		n.Lambda = rel.Copy()
	} else {
		proj, err := n.Guard.Lambda.Project(n.Label.Vars)
		if err != nil {
			return err
		}
		n.Lambda = proj
		n.Gamma = n.Guard.Psi.Copy()
		for _, nonGuard := range n.NonGuards() {
			n.Gamma.CreateIndex(nonGuard.PVar())
		}
	}

	psi, err := n.Lambda.Project(n.PVar())
	if err != nil {
		return err
	}
	n.Psi = psi

	eng.nodeLog(n).WithFields(logrus.Fields{"lambda_size": n.Lambda.Len()}).Debug("initialized")
	return nil
}

// SemiJoinReduction performs the generalized join tree's full reducer
// (spec §4.5.2) as a single post-order pass: every node, guard included,
// folds its own λ up into its parent's λ with one SemiJoin, then indexes
// its own λ on its own pvar. There is no second top-down pass.
//
// Folding a guard into its representative this way looks dangerous at
// first glance: at the moment it runs, the representative's λ and the
// guard's λ still hold identical tuples (Initialize seeds one as a
// projection of the other), so the semi-join scales every surviving
// tuple's multiplicity by its own matching multiplicity rather than
// merely filtering it. That inflation is real but harmless, because
// Enumerate never reads a representative's own retrieved multiplicity as
// an output factor (see enumerateNode) — its rows only select which
// tuple bindings to recurse into. Every output multiplicity is
// assembled exclusively from the leaves' own λ values, reached through
// each child's (guard included) own recursive retrieval.
func (eng *Engine) SemiJoinReduction() error {
	span, _ := opentracing.StartSpanFromContext(context.Background(), "gjt.SemiJoinReduction")
	defer span.Finish()

	if eng.tree.Root == nil {
		return nil
	}
	return eng.semiJoinReduction(eng.tree.Root)
}

func (eng *Engine) semiJoinReduction(n *GJTNode) error {
	for _, c := range n.Children {
		if err := eng.semiJoinReduction(c); err != nil {
			return err
		}
	}

	if n.Parent != nil {
		reduced, err := n.Parent.Lambda.SemiJoin(n.Lambda)
		if err != nil {
			return err
		}
		n.Parent.Lambda = reduced
	}
	n.Lambda.CreateIndex(n.PVar())

	eng.nodeLog(n).WithFields(logrus.Fields{"reduced_size": n.Lambda.Len()}).Debug("semi-join reduced")
	return nil
}

// Enumerate produces the full, fully-reduced join result (spec §4.5),
// evaluated top-down from the root with no binding fixed yet.
func (eng *Engine) Enumerate() (*relation.MultisetRelation, error) {
	span, _ := opentracing.StartSpanFromContext(context.Background(), "gjt.Enumerate")
	defer span.Finish()

	if eng.tree.Root == nil {
		return relation.NewMultisetRelation("", relation.NewVarSet()), nil
	}
	return eng.enumerateNode(eng.tree.Root, relation.EmptyTuple())
}

// enumerateNode returns the join result restricted to the subtree rooted
// at n, for the binding tup imposes on n's own pvar (tup is the
// enclosing row that produced this call; it is the empty tuple only at
// the root). A leaf's contribution is exactly the rows of its own λ
// matching that binding. A representative's contribution folds, for each
// of its own matching rows, every child's contribution for that row's
// binding — guard included — into one cartesian product; every stored
// row of the representative is recursed through, and its multiplicity is
// never read, neither as a filter nor as an output factor. Each row's product is
// folded into the accumulated result with Merge — an overwrite on shared
// tuple keys, not a sum, matching the reference algorithm's intent (its
// own `result.merge(temp)` / `temp.merge(...)` calls discard the
// returned relation at both use sites, since merge there is
// non-mutating; reproducing that literally would silently drop every
// row, so the accumulation is made explicit here instead).
func (eng *Engine) enumerateNode(n *GJTNode, tup relation.Tuple) (*relation.MultisetRelation, error) {
	pvar := n.PVar()
	key, err := tup.Project(pvar)
	if err != nil {
		return nil, err
	}

	if len(n.Children) == 0 {
		return n.Lambda.Retrieve(pvar, key)
	}

	rows, err := n.Lambda.Retrieve(pvar, key)
	if err != nil {
		return nil, err
	}

	result := relation.NewMultisetRelation("", subtreeVars(n))
	for _, row := range rows.Entries() {
		var temp *relation.MultisetRelation
		for _, child := range n.Children {
			contribution, err := eng.enumerateNode(child, row.Tuple)
			if err != nil {
				return nil, err
			}
			if temp == nil {
				temp = contribution
			} else {
				temp = temp.CartProd(contribution)
			}
		}
		if temp != nil {
			result = result.Merge(temp)
		}
	}
	return result, nil
}

// subtreeVars returns the union of attribute sets of every atom leaf
// under n, i.e. the attribute set the full join result under n will have.
func subtreeVars(n *GJTNode) relation.VarSet {
	if n.Label.IsAtom {
		return n.Label.Vars
	}
	out := relation.NewVarSet()
	for _, c := range n.NonGuards() {
		out = out.Union(subtreeVars(c))
	}
	return out.Union(n.Guard.Label.Vars)
}

// Update folds a batch of base-relation deltas through the tree: bottom-up
// delta computation (computeDeltas), then a top-down pass applying each
// node's Δλ/Δψ/Δγ into its λ/ψ/γ, then a rebuild of every stale index.
func (eng *Engine) Update(delta *relation.Catalog) error {
	span, _ := opentracing.StartSpanFromContext(context.Background(), "gjt.Update")
	defer span.Finish()

	if eng.tree.Root == nil {
		return nil
	}
	if err := eng.computeDeltas(eng.tree.Root, delta); err != nil {
		return err
	}
	eng.applyDeltas(eng.tree.Root)
	eng.rebuildIndices(eng.tree.Root)
	return nil
}

// computeDeltas is the post-order pass that fills in every node's
// Δλ/Δψ(/Δγ) (spec §4.5.4). An atom leaf's Δλ comes directly from the
// batch (zero if the leaf's relation was not touched). A representative's
// deltas fold in every non-guard child's own Δψ on top of the guard's,
// then recompute Δγ/Δλ from that combined set of touched bindings — see
// computeRepresentativeDeltas for the per-tuple formula.
func (eng *Engine) computeDeltas(n *GJTNode, delta *relation.Catalog) error {
	for _, c := range n.Children {
		if err := eng.computeDeltas(c, delta); err != nil {
			return err
		}
	}

	pvar := n.PVar()

	if n.Label.IsAtom {
		if delta.Has(n.Label.Label) {
			d, err := delta.Get(n.Label.Label)
			if err != nil {
				return err
			}
			n.DeltaLambda = d.Copy()
		} else {
			n.DeltaLambda = relation.NewMultisetRelation("", n.Label.Vars)
		}
	} else if err := eng.computeRepresentativeDeltas(n, pvar); err != nil {
		return err
	}

	dPsi, err := n.DeltaLambda.Project(pvar)
	if err != nil {
		return err
	}
	n.DeltaPsi = dPsi

	eng.nodeLog(n).WithFields(logrus.Fields{"delta_size": n.DeltaLambda.Len()}).Debug("computed delta")
	return nil
}

// computeRepresentativeDeltas fills in n.DeltaLambda and n.DeltaGamma for
// a representative node (n.DeltaPsi is derived from DeltaLambda by the
// caller, as for every node). The set of bindings that can possibly have
// changed is the guard's own Δψ, plus, for every non-guard child's own
// touched bindings, whatever γ rows share that child's pvar projection.
// For each such binding tup: Δγ is the change in γ's count for tup (the
// guard's new total there minus γ's old count); Δλ is the change in the
// full cartesian count obtained by multiplying, over every child
// including the guard, the guard's new total count (its old ψ plus its
// Δψ) at tup's projection onto that child's pvar.
func (eng *Engine) computeRepresentativeDeltas(n *GJTNode, pvar relation.VarSet) error {
	n.DeltaLambda = relation.NewMultisetRelation("", n.Label.Vars)
	n.DeltaGamma = relation.NewMultisetRelation("", relation.NewVarSet())

	temp := n.Guard.DeltaPsi.Copy()
	for _, ngChild := range n.NonGuards() {
		ngPVar := ngChild.PVar()
		for _, row := range ngChild.DeltaPsi.Entries() {
			key, err := row.Tuple.Project(ngPVar)
			if err != nil {
				return err
			}
			matched, err := n.Gamma.Retrieve(ngPVar, key)
			if err != nil {
				return err
			}
			temp = temp.Merge(matched)
		}
	}

	for _, row := range temp.Entries() {
		tup := row.Tuple

		n.DeltaGamma.SetMultiplicity(tup,
			n.Guard.Psi.GetMultiplicity(tup)+n.Guard.DeltaPsi.GetMultiplicity(tup)-n.Gamma.GetMultiplicity(tup))

		mult := 1
		for _, child := range n.Children {
			childPVar := child.PVar()
			ctup, err := tup.Project(childPVar)
			if err != nil {
				return err
			}
			mult *= n.Guard.Psi.GetMultiplicity(ctup) + n.Guard.DeltaPsi.GetMultiplicity(ctup)
		}
		n.DeltaLambda.SetMultiplicity(tup, mult-n.Lambda.GetMultiplicity(tup))
	}
	return nil
}

// applyDeltas walks the tree top-down, folding each node's computed
// deltas into its live λ/ψ/γ via MultisetRelation.Add.
func (eng *Engine) applyDeltas(n *GJTNode) {
	n.Lambda.Add(n.DeltaLambda)
	n.Psi.Add(n.DeltaPsi)
	if !n.Label.IsAtom {
		n.Gamma.Add(n.DeltaGamma)
	}
	for _, c := range n.Children {
		eng.applyDeltas(c)
	}
}

// rebuildIndices rebuilds every index this engine relies on, since Add
// mutates multiplicities in place without touching previously built
// buckets. Every node's λ is reindexed on its own pvar (Enumerate reads
// through that index for every child, guard included), and every
// representative's γ is reindexed on each non-guard child's pvar
// (computeDeltas reads through those on the next Update).
func (eng *Engine) rebuildIndices(n *GJTNode) {
	n.Lambda.CreateIndex(n.PVar())
	if !n.Label.IsAtom {
		for _, nonGuard := range n.NonGuards() {
			n.Gamma.CreateIndex(nonGuard.PVar())
		}
	}
	for _, c := range n.Children {
		eng.rebuildIndices(c)
	}
}
