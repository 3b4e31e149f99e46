package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/24K-GA/AI-Course-EvalMate/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// avatars are handed out to new teams by list position.
var avatars = []string{"🚀", "🎯", "💡", "🔥", "⭐", "🏆", "🎨", "🤖", "📊", "🌟", "🎮", "💻"}

// EvalService exposes the evaluation collections as typed records on top of a Store.
type EvalService struct {
	store *Store
	newID func() string
}

func NewEvalService(store *Store) *EvalService {
	return &EvalService{store: store, newID: uuid.NewString}
}

// Store returns the underlying store, e.g. for subscriptions.
func (s *EvalService) Store() *Store {
	return s.store
}

func (s *EvalService) now() int64 {
	return s.store.Clock().Now().UnixMilli()
}

// decodeList treats a missing or malformed collection as empty.
func decodeList[T any](name string, raw json.RawMessage) []T {
	out := []T{}
	if len(raw) == 0 || string(raw) == "null" {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Warn().Err(err).Str("collection", name).Msg("malformed collection, using empty value")
		return []T{}
	}
	return out
}

func list[T any](s *Store, name string) []T {
	return decodeList[T](name, s.Get(name))
}

func freshList[T any](ctx context.Context, s *Store, name string) ([]T, error) {
	raw, err := s.Fresh(ctx, name)
	return decodeList[T](name, raw), err
}

// ---- teams ----

// Teams returns the cached team list in group order.
func (s *EvalService) Teams() []domain.Team {
	return list[domain.Team](s.store, domain.CollectionTeams)
}

// TeamsFresh reads the team list from the remote.
func (s *EvalService) TeamsFresh(ctx context.Context) ([]domain.Team, error) {
	return freshList[domain.Team](ctx, s.store, domain.CollectionTeams)
}

// Team looks up a team by ID.
func (s *EvalService) Team(id string) (domain.Team, bool) {
	for _, t := range s.Teams() {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Team{}, false
}

// SaveTeams replaces the team list, renumbering groups to match list order.
func (s *EvalService) SaveTeams(ctx context.Context, teams []domain.Team) error {
	out := make([]domain.Team, len(teams))
	copy(out, teams)
	for i := range out {
		out[i].GroupNumber = i + 1
		if out[i].Members == nil {
			out[i].Members = []domain.Member{}
		}
	}
	return s.store.Set(ctx, domain.CollectionTeams, out)
}

// AddTeam appends a new team with the next group number.
func (s *EvalService) AddTeam(ctx context.Context, name string) (domain.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Team{}, domain.ErrEmptyName
	}
	teams := s.Teams()
	team := domain.Team{
		ID:          s.newID(),
		Name:        name,
		GroupNumber: len(teams) + 1,
		Members:     []domain.Member{},
		Avatar:      avatars[len(teams)%len(avatars)],
	}
	return team, s.SaveTeams(ctx, append(teams, team))
}

// UpdateTeam replaces the team with the same ID, keeping its position.
func (s *EvalService) UpdateTeam(ctx context.Context, team domain.Team) error {
	teams := s.Teams()
	for i := range teams {
		if teams[i].ID == team.ID {
			teams[i] = team
			return s.SaveTeams(ctx, teams)
		}
	}
	return domain.ErrTeamNotFound
}

// DeleteTeam removes a team; later teams move up one group number.
func (s *EvalService) DeleteTeam(ctx context.Context, id string) error {
	teams := s.Teams()
	kept := teams[:0]
	for _, t := range teams {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(teams) {
		return domain.ErrTeamNotFound
	}
	return s.SaveTeams(ctx, kept)
}

// AddMember appends a member to a team.
func (s *EvalService) AddMember(ctx context.Context, teamID, name string) (domain.Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Member{}, domain.ErrEmptyName
	}
	team, ok := s.Team(teamID)
	if !ok {
		return domain.Member{}, domain.ErrTeamNotFound
	}
	member := domain.Member{ID: s.newID(), Name: name}
	team.Members = append(team.Members, member)
	return member, s.UpdateTeam(ctx, team)
}

// RemoveMember drops a member from a team. Unknown members are ignored.
func (s *EvalService) RemoveMember(ctx context.Context, teamID, memberID string) error {
	team, ok := s.Team(teamID)
	if !ok {
		return domain.ErrTeamNotFound
	}
	members := make([]domain.Member, 0, len(team.Members))
	for _, m := range team.Members {
		if m.ID != memberID {
			members = append(members, m)
		}
	}
	team.Members = members
	return s.UpdateTeam(ctx, team)
}

// ---- teacher scores ----

func (s *EvalService) TeacherScores() []domain.TeacherScore {
	return list[domain.TeacherScore](s.store, domain.CollectionTeacherScores)
}

// TeacherScore returns the teacher score of a team, if any.
func (s *EvalService) TeacherScore(teamID string) (domain.TeacherScore, bool) {
	for _, sc := range s.TeacherScores() {
		if sc.TeamID == teamID {
			return sc, true
		}
	}
	return domain.TeacherScore{}, false
}

// SaveTeacherScore upserts by team.
func (s *EvalService) SaveTeacherScore(ctx context.Context, score domain.TeacherScore) error {
	scores := s.TeacherScores()
	for i := range scores {
		if scores[i].TeamID == score.TeamID {
			scores[i] = score
			return s.store.Set(ctx, domain.CollectionTeacherScores, scores)
		}
	}
	return s.store.Set(ctx, domain.CollectionTeacherScores, append(scores, score))
}

// SubmitTeacherScore validates the rubric, computes the total and stamps it.
func (s *EvalService) SubmitTeacherScore(ctx context.Context, score domain.TeacherScore) (domain.TeacherScore, error) {
	if _, ok := s.Team(score.TeamID); !ok {
		return domain.TeacherScore{}, domain.ErrTeamNotFound
	}
	if err := score.Validate(); err != nil {
		return domain.TeacherScore{}, err
	}
	score.Timestamp = s.now()
	return score, s.SaveTeacherScore(ctx, score)
}

// ---- peer scores ----

func (s *EvalService) PeerScores() []domain.PeerScore {
	return list[domain.PeerScore](s.store, domain.CollectionPeerScores)
}

// PeerScoresFor returns the scores a team received.
func (s *EvalService) PeerScoresFor(toTeamID string) []domain.PeerScore {
	var out []domain.PeerScore
	for _, sc := range s.PeerScores() {
		if sc.ToTeamID == toTeamID {
			out = append(out, sc)
		}
	}
	return out
}

// HasPeerScored reports whether from already rated to.
func (s *EvalService) HasPeerScored(fromTeamID, toTeamID string) bool {
	for _, sc := range s.PeerScores() {
		if sc.FromTeamID == fromTeamID && sc.ToTeamID == toTeamID {
			return true
		}
	}
	return false
}

// SavePeerScore upserts by (from, to) without further checks.
func (s *EvalService) SavePeerScore(ctx context.Context, score domain.PeerScore) error {
	scores := s.PeerScores()
	for i := range scores {
		if scores[i].FromTeamID == score.FromTeamID && scores[i].ToTeamID == score.ToTeamID {
			scores[i] = score
			return s.store.Set(ctx, domain.CollectionPeerScores, scores)
		}
	}
	return s.store.Set(ctx, domain.CollectionPeerScores, append(scores, score))
}

// SubmitPeerScore is the student-facing entry point: both teams must exist, a
// team cannot rate itself, and sub-scores respect the floor.
func (s *EvalService) SubmitPeerScore(ctx context.Context, score domain.PeerScore) (domain.PeerScore, error) {
	if _, ok := s.Team(score.FromTeamID); !ok {
		return domain.PeerScore{}, fmt.Errorf("from team %q: %w", score.FromTeamID, domain.ErrTeamNotFound)
	}
	if _, ok := s.Team(score.ToTeamID); !ok {
		return domain.PeerScore{}, fmt.Errorf("to team %q: %w", score.ToTeamID, domain.ErrTeamNotFound)
	}
	if err := score.Validate(); err != nil {
		return domain.PeerScore{}, err
	}
	score.Timestamp = s.now()
	return score, s.SavePeerScore(ctx, score)
}

// ---- questions ----

func (s *EvalService) Questions() []domain.Question {
	return list[domain.Question](s.store, domain.CollectionQuestions)
}

// QuestionsFor returns questions asked of the target team.
func (s *EvalService) QuestionsFor(targetTeamID string) []domain.Question {
	var out []domain.Question
	for _, q := range s.Questions() {
		if q.TargetTeamID == targetTeamID {
			out = append(out, q)
		}
	}
	return out
}

// QuestionsBy returns questions asked by a team.
func (s *EvalService) QuestionsBy(askingTeamID string) []domain.Question {
	var out []domain.Question
	for _, q := range s.Questions() {
		if q.AskingTeamID == askingTeamID {
			out = append(out, q)
		}
	}
	return out
}

func (s *EvalService) QuestionCount(askingTeamID string) int {
	return len(s.QuestionsBy(askingTeamID))
}

// AddQuestion appends a question as-is.
func (s *EvalService) AddQuestion(ctx context.Context, q domain.Question) error {
	return s.store.Set(ctx, domain.CollectionQuestions, append(s.Questions(), q))
}

// AskQuestion records a new unscored question from one team to another.
func (s *EvalService) AskQuestion(ctx context.Context, askingTeamID, targetTeamID, content string) (domain.Question, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Question{}, domain.ErrEmptyContent
	}
	if askingTeamID == targetTeamID {
		return domain.Question{}, domain.ErrSelfScoring
	}
	asking, ok := s.Team(askingTeamID)
	if !ok {
		return domain.Question{}, fmt.Errorf("asking team %q: %w", askingTeamID, domain.ErrTeamNotFound)
	}
	if _, ok := s.Team(targetTeamID); !ok {
		return domain.Question{}, fmt.Errorf("target team %q: %w", targetTeamID, domain.ErrTeamNotFound)
	}
	q := domain.Question{
		ID:             s.newID(),
		AskingTeamID:   askingTeamID,
		AskingTeamName: asking.Name,
		TargetTeamID:   targetTeamID,
		Content:        content,
		Timestamp:      s.now(),
	}
	return q, s.AddQuestion(ctx, q)
}

// UpdateQuestion replaces the question with the same ID.
func (s *EvalService) UpdateQuestion(ctx context.Context, q domain.Question) error {
	questions := s.Questions()
	for i := range questions {
		if questions[i].ID == q.ID {
			questions[i] = q
			return s.store.Set(ctx, domain.CollectionQuestions, questions)
		}
	}
	return domain.ErrQuestionNotFound
}

// ScoreQuestion applies the teacher's rubric to a question. Re-scoring overwrites.
func (s *EvalService) ScoreQuestion(ctx context.Context, id string, relevance, depth, inspiration int) (domain.Question, error) {
	for _, q := range s.Questions() {
		if q.ID != id {
			continue
		}
		if err := q.ApplyScore(relevance, depth, inspiration); err != nil {
			return domain.Question{}, err
		}
		return q, s.UpdateQuestion(ctx, q)
	}
	return domain.Question{}, domain.ErrQuestionNotFound
}

// ---- derived ----

// Rankings computes the current leaderboard from cached collections.
func (s *EvalService) Rankings() []domain.TeamFinalScore {
	return Rankings(s.Teams(), s.TeacherScores(), s.PeerScores(), s.Questions())
}

func (s *EvalService) QuestionStats() []domain.TeamQuestionStats {
	return QuestionStats(s.Teams(), s.Questions())
}

// Report returns ranked rows for export.
func (s *EvalService) Report() []domain.ReportRow {
	return Report(s.Rankings())
}

// Refresh pulls every collection from the remote; the first failure is returned
// after all collections were attempted.
func (s *EvalService) Refresh(ctx context.Context) error {
	var first error
	for _, name := range domain.Collections {
		if _, err := s.store.Fresh(ctx, name); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// ---- lifecycle ----

// Reset clears every collection back to defaults.
func (s *EvalService) Reset(ctx context.Context) error {
	return s.store.Reset(ctx)
}

// Seed stores teams only when no team exists yet. It reports whether it did.
// With the remote down the local copy decides.
func (s *EvalService) Seed(ctx context.Context, teams []domain.Team) (bool, error) {
	current, err := s.TeamsFresh(ctx)
	if err != nil && !errors.Is(err, domain.ErrRemoteUnavailable) {
		return false, err
	}
	if len(current) > 0 {
		return false, nil
	}
	return true, s.SaveTeams(ctx, teams)
}
