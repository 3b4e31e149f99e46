package domain

import "errors"

var (
	// ErrCollectionNotFound is returned when a collection key is unknown to the backing store.
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrRemoteUnavailable wraps transient failures talking to the persistence service.
	ErrRemoteUnavailable = errors.New("remote store unavailable")
	// ErrTeamNotFound is returned when an operation references an unknown team.
	ErrTeamNotFound = errors.New("team not found")
	// ErrQuestionNotFound indicates a question ID is not in the questions collection.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrSelfScoring is returned when a team tries to score or question itself.
	ErrSelfScoring = errors.New("team cannot evaluate itself")
	// ErrScoreOutOfRange indicates a sub-score outside its allowed bounds.
	ErrScoreOutOfRange = errors.New("score out of range")
	// ErrInvalidPhase indicates an unknown session phase.
	ErrInvalidPhase = errors.New("invalid session phase")
	// ErrEmptyContent is returned when a question has no text.
	ErrEmptyContent = errors.New("question content is empty")
	// ErrEmptyName is returned when a team or member name is blank.
	ErrEmptyName = errors.New("name is empty")
	// ErrNoActiveTeam is returned when a session action needs a presenting team.
	ErrNoActiveTeam = errors.New("no active team")
)
