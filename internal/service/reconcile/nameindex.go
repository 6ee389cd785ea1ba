package reconcile

import (
	"sort"
	"strings"
	"time"

	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/employee"
	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/schedule"
)

// NameIndex maps every plausible device-reported name pattern to its
// candidate employees. Built once per upload batch from the full
// directory and treated as immutable for the batch; never rebuilt
// mid-run.
//
// Devices export progressively-qualified names: a bare last name
// ("rosel"), last name plus the first two letters of the first name
// ("robinios je"), last name plus a single initial ("cabarliza a"), or
// full-name variants. All patterns are normalized: lowercased, commas
// removed, whitespace collapsed.
type NameIndex struct {
	patterns map[string][]employee.Employee
}

// BuildNameIndex constructs the pattern index. Candidates under each
// pattern are kept in (last name, first name) order so collision
// fallbacks are deterministic across runs.
func BuildNameIndex(employees []employee.Employee) NameIndex {
	sorted := make([]employee.Employee, len(employees))
	copy(sorted, employees)
	sort.Slice(sorted, func(i, j int) bool {
		li, lj := strings.ToLower(sorted[i].LastName), strings.ToLower(sorted[j].LastName)
		if li != lj {
			return li < lj
		}
		return strings.ToLower(sorted[i].FirstName) < strings.ToLower(sorted[j].FirstName)
	})

	idx := NameIndex{patterns: make(map[string][]employee.Employee)}
	for _, e := range sorted {
		for _, p := range namePatterns(e) {
			if containsEmployee(idx.patterns[p], e.ID) {
				continue
			}
			idx.patterns[p] = append(idx.patterns[p], e)
		}
	}
	return idx
}

// NormalizeName canonicalizes a device-reported name for lookup.
func NormalizeName(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, ",", "")
	return strings.Join(strings.Fields(s), " ")
}

// namePatterns generates every lookup pattern one employee can appear
// under, including compound first names and middle-name variants.
func namePatterns(e employee.Employee) []string {
	last := NormalizeName(e.LastName)
	firstTokens := strings.Fields(NormalizeName(e.FirstName))
	if last == "" {
		return nil
	}

	set := map[string]struct{}{last: {}}
	add := func(p string) { set[p] = struct{}{} }

	firstFull := strings.Join(firstTokens, " ")
	if firstFull != "" {
		add(last + " " + firstFull)
		add(firstFull + " " + last)
	}
	for _, tok := range firstTokens {
		add(last + " " + tok)
		add(last + " " + tok[:1])
		if len(tok) >= 2 {
			add(last + " " + tok[:2])
		}
	}
	if e.MiddleName != nil {
		middle := NormalizeName(*e.MiddleName)
		if middle != "" && firstFull != "" {
			add(last + " " + firstFull + " " + middle)
			add(last + " " + firstFull + " " + middle[:1])
		}
	}

	patterns := make([]string, 0, len(set))
	for p := range set {
		patterns = append(patterns, p)
	}
	sort.Strings(patterns)
	return patterns
}

func containsEmployee(list []employee.Employee, id string) bool {
	for _, e := range list {
		if e.ID == id {
			return true
		}
	}
	return false
}

// shiftBucket buckets an hour into the device operators' coarse shift
// bands: morning 06-12, afternoon 12-18, evening otherwise.
func shiftBucket(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 18:
		return "afternoon"
	default:
		return "evening"
	}
}

// Match resolves a device-reported name to exactly one employee.
//
// Collisions disambiguate in order:
//  1. A single-letter-initial pattern resolves to the candidate whose
//     first two first-name letters sort alphabetically first; the device
//     convention reserves the bare initial for that name.
//  2. The earliest scan's hour infers a shift band and prefers the
//     candidate whose active schedule starts in the same band.
//  3. First candidate in index order. Deterministic but arbitrary; the
//     note flags it for operator attention.
func (idx NameIndex) Match(rawName string, earliestScan *time.Time, schedules map[string]schedule.Schedule) (employee.Employee, bool, string) {
	pattern := NormalizeName(rawName)
	candidates := idx.patterns[pattern]
	if len(candidates) == 0 {
		return employee.Employee{}, false, ""
	}
	if len(candidates) == 1 {
		return candidates[0], true, ""
	}

	tokens := strings.Fields(pattern)
	if len(tokens) > 1 && len(tokens[len(tokens)-1]) == 1 {
		best := candidates[0]
		for _, c := range candidates[1:] {
			if firstTwoLetters(c.FirstName) < firstTwoLetters(best.FirstName) {
				best = c
			}
		}
		return best, true, ""
	}

	if earliestScan != nil {
		bucket := shiftBucket(earliestScan.Hour())
		var inBucket []employee.Employee
		for _, c := range candidates {
			sched, ok := schedules[c.ID]
			if !ok {
				continue
			}
			if shiftBucket(sched.TimeIn.Hour()) == bucket {
				inBucket = append(inBucket, c)
			}
		}
		if len(inBucket) == 1 {
			return inBucket[0], true, ""
		}
		if len(inBucket) > 1 {
			candidates = inBucket
		}
	}

	return candidates[0], true, "name collision resolved by index order; review match for \"" + rawName + "\""
}

func firstTwoLetters(first string) string {
	n := NormalizeName(first)
	if len(n) < 2 {
		return n
	}
	return n[:2]
}
