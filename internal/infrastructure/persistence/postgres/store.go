package postgres

// Store groups one instance of every repository over a shared pool.
type Store struct {
	Materials  *MaterialRepository
	Progress   *ProgressRepository
	Mentors    *MentorRepository
	Businesses *BusinessRepository
	Sessions   *MentoriaRepository
}

// NewStore creates the repositories on conn.
func NewStore(conn *Connection) *Store {
	return &Store{
		Materials:  NewMaterialRepository(conn),
		Progress:   NewProgressRepository(conn),
		Mentors:    NewMentorRepository(conn),
		Businesses: NewBusinessRepository(conn),
		Sessions:   NewMentoriaRepository(conn),
	}
}
