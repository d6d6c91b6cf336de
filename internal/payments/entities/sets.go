package entities

import (
	"encoding/json"
	"slices"
	"strings"
)

// PaymentSet holds payments deduplicated by ID.
type PaymentSet map[string]Payment

func NewPaymentSet(payments ...Payment) PaymentSet {
	set := make(PaymentSet, len(payments))
	for _, p := range payments {
		set.Add(p)
	}
	return set
}

func (s PaymentSet) Add(p Payment) {
	s[p.ID] = p
}

func (s PaymentSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

func (s PaymentSet) Len() int {
	return len(s)
}

// Slice returns the payments ordered by date, then ID.
func (s PaymentSet) Slice() []Payment {
	out := make([]Payment, 0, len(s))
	for _, p := range s {
		out = append(out, p)
	}
	SortByDate(out)
	return out
}

func (s PaymentSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Slice())
}

// SortByDate orders payments by date, oldest first, breaking ties by ID.
func SortByDate(payments []Payment) {
	slices.SortFunc(payments, func(a, b Payment) int {
		if c := a.PaymentDate.Compare(b.PaymentDate); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// ProductSet holds distinct product names.
type ProductSet map[string]struct{}

func NewProductSet(names ...string) ProductSet {
	set := make(ProductSet, len(names))
	for _, name := range names {
		set.Add(name)
	}
	return set
}

func (s ProductSet) Add(name string) {
	s[name] = struct{}{}
}

func (s ProductSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

func (s ProductSet) Len() int {
	return len(s)
}

func (s ProductSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

func (s ProductSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}
