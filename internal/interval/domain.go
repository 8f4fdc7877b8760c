package interval

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/christian-fr/filter-branching-check-fork/internal/enum"
	"github.com/christian-fr/filter-branching-check-fork/internal/symbolic"
)

// Piece is one disjoint slice of the real line produced by Refine, tagged
// with the consecutive integer member id it is presented as to package
// enum.
type Piece struct {
	ID  string
	Set Set
}

// BuildDomain labels the disjoint pieces of a refined set list with
// consecutive integer ids ordered by ascending lower bound and wraps them in
// an enum.Domain, so the rest of the pipeline (brute force, simplify_enums,
// the graph engine) can treat an open numeric variable exactly like any
// other finite domain.
func BuildDomain(varName string, refined []Set) ([]Piece, *enum.Domain, error) {
	sorted := append([]Set(nil), refined...)
	sort.Slice(sorted, func(i, j int) bool {
		return cmpEndpoint(sorted[i].Pieces[0].lo(), sorted[j].Pieces[0].lo()) < 0
	})

	pieces := make([]Piece, len(sorted))
	members := make([]string, len(sorted))
	for i, s := range sorted {
		id := strconv.Itoa(i + 1)
		pieces[i] = Piece{ID: id, Set: s}
		members[i] = id
	}

	d, err := enum.NewDomain(varName, symbolic.TNumber, members)
	if err != nil {
		return nil, nil, err
	}
	return pieces, d, nil
}

// Lift rewrites the original inequality's satisfying set into a disjunction
// over the enum-member literals whose interval piece is a subset of it.
func Lift(original Set, pieces []Piece, d *enum.Domain) (symbolic.Expr, error) {
	var acc symbolic.Expr
	for _, p := range pieces {
		if Subset(p.Set, original) {
			eq, err := d.Eq(p.ID)
			if err != nil {
				return nil, err
			}
			if acc == nil {
				acc = eq
			} else {
				acc = symbolic.Or(acc, eq)
			}
		}
	}
	if acc == nil {
		return nil, fmt.Errorf("interval lifting for %q produced no matching piece", d.VarName)
	}
	return acc, nil
}
