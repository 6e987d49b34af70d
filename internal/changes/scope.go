package changes

import "strings"

// ScopeSeparator joins multiple scopes in a commit header.
const ScopeSeparator = ","

// Scopes is an insertion-ordered set of commit scopes.
type Scopes struct {
	values []string
}

// ExtractScope derives the commit scopes from the staged paths. The scope of a
// nested path is its second segment, top-level files contribute RootKey, and
// anything below the reserved directory scopes to the reserved name itself.
func ExtractScope(paths []string, reserved string) Scopes {
	var s Scopes
	for _, path := range paths {
		if path == "" {
			continue
		}
		parts := strings.SplitN(path, "/", 3)
		switch {
		case len(parts) < 2 || parts[1] == "":
			s.add(RootKey)
		case reserved != "" && parts[0] == reserved:
			s.add(reserved)
		default:
			s.add(parts[1])
		}
	}
	return s
}

func (s *Scopes) add(v string) {
	if s.contains(v) {
		return
	}
	s.values = append(s.values, v)
}

func (s Scopes) contains(v string) bool {
	for _, existing := range s.values {
		if existing == v {
			return true
		}
	}
	return false
}

// Values returns the scopes in discovery order.
func (s Scopes) Values() []string {
	return append([]string(nil), s.values...)
}

// String joins the scopes for the "type (scope): " header.
func (s Scopes) String() string {
	return strings.Join(s.values, ScopeSeparator)
}
