package store

import (
	"fmt"

	"github.com/devrimk/punchcard/internal/domain"
)

// Roster returns the known users. The table is seeded at migration time; a
// deployment edits it directly, there is no management surface.
func (s *Store) Roster() (domain.Roster, error) {
	rows, err := s.db.Query(`SELECT id, name, role FROM users ORDER BY role, name`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var roster domain.Roster
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Role); err != nil {
			return nil, err
		}
		roster = append(roster, u)
	}
	return roster, rows.Err()
}
