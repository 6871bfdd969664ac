package memory

// Store groups one instance of every repository.
type Store struct {
	Materials  *MaterialRepository
	Progress   *ProgressRepository
	Mentors    *MentorRepository
	Businesses *BusinessRepository
	Sessions   *MentoriaRepository
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		Materials:  NewMaterialRepository(),
		Progress:   NewProgressRepository(),
		Mentors:    NewMentorRepository(),
		Businesses: NewBusinessRepository(),
		Sessions:   NewMentoriaRepository(),
	}
}
