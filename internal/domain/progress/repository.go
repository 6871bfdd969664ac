package progress

import "context"

// Repository stores progress records.
type Repository interface {
	// Get returns the record for (mentorID, materialID), or (nil, nil) when the
	// mentor never touched the material.
	Get(ctx context.Context, mentorID, materialID string) (*Progress, error)

	// ListByMentor returns every record of a mentor.
	ListByMentor(ctx context.Context, mentorID string) ([]*Progress, error)

	// StartIfAbsent inserts p unless a record already exists for the pair, and
	// returns the stored record. Concurrent starts converge on one record with
	// the first started_at.
	StartIfAbsent(ctx context.Context, p *Progress) (*Progress, error)

	// Save upserts p and returns the stored record. A started_at or
	// completed_at already stored is kept over the one in p.
	Save(ctx context.Context, p *Progress) (*Progress, error)
}
