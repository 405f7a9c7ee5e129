package facet

import "fmt"

// Selection holds the active facet values. Set-valued facets keep insertion
// order so the derived filter expression is deterministic.
type Selection struct {
	sets      map[Code][]string
	sentiment string
	product   string
	reviewer  string
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{sets: make(map[Code][]string)}
}

// Add appends value to a set-valued facet. Duplicates are ignored.
func (s *Selection) Add(c Code, value string) error {
	if !c.IsMultiValue() {
		return fmt.Errorf("facet %q is not set-valued", c)
	}
	for _, v := range s.sets[c] {
		if v == value {
			return nil
		}
	}
	s.sets[c] = append(s.sets[c], value)
	return nil
}

// Remove deletes value from a set-valued facet.
func (s *Selection) Remove(c Code, value string) {
	vals := s.sets[c]
	for i, v := range vals {
		if v == value {
			s.sets[c] = append(vals[:i:i], vals[i+1:]...)
			return
		}
	}
}

// Toggle adds value if absent, removes it otherwise.
func (s *Selection) Toggle(c Code, value string) error {
	for _, v := range s.sets[c] {
		if v == value {
			s.Remove(c, value)
			return nil
		}
	}
	return s.Add(c, value)
}

// Values returns the selected values of a set-valued facet in insertion order.
func (s *Selection) Values(c Code) []string { return s.sets[c] }

// Set assigns a singleton facet. Use All to clear it.
func (s *Selection) Set(c Code, value string) error {
	switch c {
	case Sentiment:
		s.sentiment = value
	case Product:
		s.product = value
	case Reviewer:
		s.reviewer = value
	default:
		return fmt.Errorf("facet %q is not a singleton", c)
	}
	return nil
}

// Singleton returns the value of a singleton facet.
func (s *Selection) Singleton(c Code) string {
	switch c {
	case Sentiment:
		return s.sentiment
	case Product:
		return s.product
	case Reviewer:
		return s.reviewer
	}
	return ""
}

// Clear resets every facet.
func (s *Selection) Clear() {
	s.sets = make(map[Code][]string)
	s.sentiment, s.product, s.reviewer = "", "", ""
}

// IsEmpty reports whether no facet value is selected.
func (s *Selection) IsEmpty() bool {
	for _, v := range s.sets {
		if len(v) > 0 {
			return false
		}
	}
	return s.sentiment == "" && s.product == "" && s.reviewer == ""
}
