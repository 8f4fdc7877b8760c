package check

import (
	"strconv"

	"github.com/mpvl/unique"

	fbcerrors "github.com/christian-fr/filter-branching-check-fork/internal/errors"
	"github.com/christian-fr/filter-branching-check-fork/internal/enum"
	"github.com/christian-fr/filter-branching-check-fork/internal/model"
	"github.com/christian-fr/filter-branching-check-fork/internal/symbolic"
)

// intSlice adapts a []int to github.com/mpvl/unique's Interface (a
// sort.Interface extended with Truncate), used to sort and dedupe the
// numeric value list of a response domain.
type intSlice []int

func (s intSlice) Len() int           { return len(s) }
func (s intSlice) Less(i, j int) bool { return s[i] < s[j] }
func (s intSlice) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s *intSlice) Truncate(n int)    { *s = (*s)[:n] }

// dedupFirstSeen removes duplicates from vals preserving first-seen order:
// the first declaring page's uid order defines enum member order.
func dedupFirstSeen(vals []string) []string {
	seen := make(map[string]bool, len(vals))
	var out []string
	for _, v := range vals {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// EnumDomains builds the per-variable string (uid-keyed) and number
// (value-keyed, named "{var}_NUM") domains from the response domains
// collected by the loader, validating that every page declaring a given
// variable's response domain agrees on its (uid -> value) map.
func EnumDomains(q *model.Questionnaire) (map[string]*enum.Domain, map[string]*enum.Domain, error) {
	first := map[string]map[string]int{} // variable -> uid -> value, from the first page that declared it
	firstPage := map[string]string{}     // variable -> uid of the first declaring page
	order := map[string][]string{}       // variable -> uids in first-seen order

	var errs fbcerrors.List

	for _, page := range q.Pages {
		for _, rd := range page.ResponseDomains {
			m := map[string]int{}
			for _, o := range rd.Options {
				m[o.UID] = o.Value
			}
			existing, seen := first[rd.Variable]
			if !seen {
				first[rd.Variable] = m
				firstPage[rd.Variable] = page.UID
				for _, o := range rd.Options {
					order[rd.Variable] = append(order[rd.Variable], o.UID)
				}
				continue
			}
			if !sameMap(existing, m) {
				errs.Add(&fbcerrors.EnumConflictError{
					Variable:   rd.Variable,
					FirstPage:  firstPage[rd.Variable],
					SecondPage: page.UID,
					Detail:     "differing uid-to-value maps for the same response domain",
				})
				continue
			}
			for _, o := range rd.Options {
				if !containsStr(order[rd.Variable], o.UID) {
					order[rd.Variable] = append(order[rd.Variable], o.UID)
				}
			}
		}
	}

	if len(errs) > 0 {
		return nil, nil, errs
	}

	strDomains := map[string]*enum.Domain{}
	numDomains := map[string]*enum.Domain{}

	for name, v := range q.Variables {
		if v.Type != model.TEnum {
			continue
		}
		uids, ok := order[name]
		if !ok || len(uids) == 0 {
			errs.Add(&fbcerrors.EmptyEnumError{Variable: name})
			continue
		}
		uids = dedupFirstSeen(uids)
		d, err := enum.NewDomain(name, symbolic.TString, uids)
		if err != nil {
			errs.Add(&fbcerrors.EmptyEnumError{Variable: name})
			continue
		}
		strDomains[name] = d

		values := first[name]
		vals := make(intSlice, 0, len(uids))
		for _, uid := range uids {
			vals = append(vals, values[uid])
		}
		unique.Sort(&vals)
		numMembers := make([]string, len(vals))
		for i, val := range vals {
			numMembers[i] = strconv.Itoa(val)
		}
		nd, err := enum.NewDomain(name+"_NUM", symbolic.TNumber, numMembers)
		if err != nil {
			errs.Add(&fbcerrors.EmptyEnumError{Variable: name + "_NUM"})
			continue
		}
		numDomains[name+"_NUM"] = nd
	}

	if len(errs) > 0 {
		return nil, nil, errs
	}
	return strDomains, numDomains, nil
}

func sameMap(a, b map[string]int) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

func containsStr(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

