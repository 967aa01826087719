package domain

import "strings"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleIntern Role = "intern"
)

// User is the session collaborator's shape: whoever can authenticate one of
// these is good enough, the engine only ever reads the ID.
type User struct {
	ID   string
	Name string
	Role Role
}

// Roster is the set of known people, used to resolve display names for the
// review views and name search.
type Roster []User

// Find returns the user with the given ID, or false if unknown.
func (r Roster) Find(id string) (User, bool) {
	for _, u := range r {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// NameOf resolves a display name, falling back to the raw ID for entries
// belonging to someone no longer on the roster.
func (r Roster) NameOf(id string) string {
	if u, ok := r.Find(id); ok {
		return u.Name
	}
	return id
}

// MatchName reports whether the user's display name contains the query,
// case-insensitively. An empty query matches everyone.
func (r Roster) MatchName(id, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.NameOf(id)), strings.ToLower(query))
}

// Interns returns the roster members with the intern role.
func (r Roster) Interns() Roster {
	var out Roster
	for _, u := range r {
		if u.Role == RoleIntern {
			out = append(out, u)
		}
	}
	return out
}
