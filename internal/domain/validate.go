package domain

import "fmt"

func inRange(name string, v, lo, hi int) error {
	if v < lo || v > hi {
		return fmt.Errorf("%w: %s=%d not in [%d,%d]", ErrScoreOutOfRange, name, v, lo, hi)
	}
	return nil
}

// Validate checks the rubric bounds and fills in Total.
func (s *TeacherScore) Validate() error {
	for _, c := range []struct {
		name   string
		v, max int
	}{
		{"completeness", s.Completeness, 10},
		{"quality", s.Quality, 20},
		{"presentation", s.Presentation, 10},
		{"defense", s.Defense, 10},
	} {
		if err := inRange(c.name, c.v, 0, c.max); err != nil {
			return err
		}
	}
	s.Total = s.Completeness + s.Quality + s.Presentation + s.Defense
	return nil
}

// Peer sub-scores are bounded to [PeerScoreMin, PeerScoreMax].
const (
	PeerScoreMin = 6
	PeerScoreMax = 10
)

// Validate rejects self scoring and out-of-range sub-scores, then fills in Total.
func (s *PeerScore) Validate() error {
	if s.FromTeamID == s.ToTeamID {
		return ErrSelfScoring
	}
	for _, c := range []struct {
		name string
		v    int
	}{
		{"content", s.Content},
		{"collaboration", s.Collaboration},
		{"interaction", s.Interaction},
	} {
		if err := inRange(c.name, c.v, PeerScoreMin, PeerScoreMax); err != nil {
			return err
		}
	}
	s.Total = s.Content + s.Collaboration + s.Interaction
	return nil
}

// ApplyScore marks the question scored with the given rubric.
func (q *Question) ApplyScore(relevance, depth, inspiration int) error {
	if err := inRange("relevance", relevance, 0, 5); err != nil {
		return err
	}
	if err := inRange("depth", depth, 0, 10); err != nil {
		return err
	}
	if err := inRange("inspiration", inspiration, 0, 5); err != nil {
		return err
	}
	q.Relevance = relevance
	q.Depth = depth
	q.Inspiration = inspiration
	q.TotalScore = relevance + depth + inspiration
	q.Scored = true
	return nil
}
