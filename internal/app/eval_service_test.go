package app

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/24K-GA/AI-Course-EvalMate/internal/domain"
)

func newTestService(t *testing.T) (*EvalService, *flakyRemote) {
	t.Helper()
	remote := newFlakyRemote()
	store := newTestStore(t, remote)
	warm(t, store)
	svc := NewEvalService(store)
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return svc, remote
}

func seedTeams(t *testing.T, svc *EvalService, names ...string) []domain.Team {
	t.Helper()
	var out []domain.Team
	for _, name := range names {
		team, err := svc.AddTeam(context.Background(), name)
		if err != nil {
			t.Fatalf("add team %s: %v", name, err)
		}
		out = append(out, team)
	}
	return out
}

func TestTeamsAreRenumberedOnDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	teams := seedTeams(t, svc, "A", "B", "C")

	if teams[2].GroupNumber != 3 || teams[1].Avatar == teams[0].Avatar {
		t.Fatalf("unexpected new teams %+v", teams)
	}
	if err := svc.DeleteTeam(ctx, teams[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got := svc.Teams()
	if len(got) != 2 || got[0].Name != "B" || got[0].GroupNumber != 1 || got[1].GroupNumber != 2 {
		t.Fatalf("expected B,C renumbered 1,2, got %+v", got)
	}
	if err := svc.DeleteTeam(ctx, "missing"); !errors.Is(err, domain.ErrTeamNotFound) {
		t.Fatalf("expected ErrTeamNotFound, got %v", err)
	}
	if _, err := svc.AddTeam(ctx, "   "); !errors.Is(err, domain.ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestSaveTeamsFixesGroupNumbers(t *testing.T) {
	svc, _ := newTestService(t)
	err := svc.SaveTeams(context.Background(), []domain.Team{
		{ID: "x", Name: "X", GroupNumber: 7},
		{ID: "y", Name: "Y", GroupNumber: 7},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	got := svc.Teams()
	if got[0].GroupNumber != 1 || got[1].GroupNumber != 2 || got[0].Members == nil {
		t.Fatalf("unexpected teams %+v", got)
	}
}

func TestMembers(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	team := seedTeams(t, svc, "A")[0]

	m, err := svc.AddMember(ctx, team.ID, "Alice")
	if err != nil {
		t.Fatalf("add member: %v", err)
	}
	if _, err := svc.AddMember(ctx, team.ID, "Bob"); err != nil {
		t.Fatalf("add member: %v", err)
	}
	if err := svc.RemoveMember(ctx, team.ID, m.ID); err != nil {
		t.Fatalf("remove member: %v", err)
	}
	got, _ := svc.Team(team.ID)
	if len(got.Members) != 1 || got.Members[0].Name != "Bob" {
		t.Fatalf("expected only Bob, got %+v", got.Members)
	}
}

func TestRecordsRoundTripThroughAFreshStore(t *testing.T) {
	ctx := context.Background()
	svc, remote := newTestService(t)
	teams := seedTeams(t, svc, "A", "B")

	teacher, err := svc.SubmitTeacherScore(ctx, domain.TeacherScore{TeamID: teams[0].ID, Completeness: 9, Quality: 18, Presentation: 7, Defense: 6})
	if err != nil {
		t.Fatalf("teacher score: %v", err)
	}
	peer, err := svc.SubmitPeerScore(ctx, domain.PeerScore{FromTeamID: teams[1].ID, ToTeamID: teams[0].ID, Content: 9, Collaboration: 8, Interaction: 7})
	if err != nil {
		t.Fatalf("peer score: %v", err)
	}
	q, err := svc.AskQuestion(ctx, teams[1].ID, teams[0].ID, "  Why this model?  ")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	q, err = svc.ScoreQuestion(ctx, q.ID, 4, 8, 3)
	if err != nil {
		t.Fatalf("score question: %v", err)
	}

	other := NewEvalService(newTestStore(t, remote))
	if err := other.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := other.Teams(); !reflect.DeepEqual(got, svc.Teams()) {
		t.Fatalf("teams differ: %+v vs %+v", got, svc.Teams())
	}
	if got, _ := other.TeacherScore(teams[0].ID); got != teacher || got.Total != 40 {
		t.Fatalf("teacher score differs: %+v vs %+v", got, teacher)
	}
	if got := other.PeerScoresFor(teams[0].ID); len(got) != 1 || got[0] != peer || got[0].Total != 24 {
		t.Fatalf("peer scores differ: %+v vs %+v", got, peer)
	}
	if got := other.QuestionsFor(teams[0].ID); len(got) != 1 || got[0] != q {
		t.Fatalf("questions differ: %+v vs %+v", got, q)
	}
	if q.Content != "Why this model?" || !q.Scored || q.TotalScore != 15 || q.AskingTeamName != "B" {
		t.Fatalf("unexpected question %+v", q)
	}
}

func TestPeerScoresRejectSelfAndUpsert(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	teams := seedTeams(t, svc, "A", "B")

	if _, err := svc.SubmitPeerScore(ctx, domain.PeerScore{FromTeamID: teams[0].ID, ToTeamID: teams[0].ID, Content: 8, Collaboration: 8, Interaction: 8}); !errors.Is(err, domain.ErrSelfScoring) {
		t.Fatalf("expected ErrSelfScoring, got %v", err)
	}
	if _, err := svc.SubmitPeerScore(ctx, domain.PeerScore{FromTeamID: teams[0].ID, ToTeamID: teams[1].ID, Content: 5, Collaboration: 8, Interaction: 8}); !errors.Is(err, domain.ErrScoreOutOfRange) {
		t.Fatalf("expected ErrScoreOutOfRange, got %v", err)
	}
	if _, err := svc.SubmitPeerScore(ctx, domain.PeerScore{FromTeamID: "ghost", ToTeamID: teams[1].ID, Content: 8, Collaboration: 8, Interaction: 8}); !errors.Is(err, domain.ErrTeamNotFound) {
		t.Fatalf("expected ErrTeamNotFound, got %v", err)
	}

	for _, content := range []int{6, 10} {
		if _, err := svc.SubmitPeerScore(ctx, domain.PeerScore{FromTeamID: teams[0].ID, ToTeamID: teams[1].ID, Content: content, Collaboration: 8, Interaction: 8}); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	got := svc.PeerScores()
	if len(got) != 1 || got[0].Total != 26 {
		t.Fatalf("expected a single upserted score of 26, got %+v", got)
	}
	if !svc.HasPeerScored(teams[0].ID, teams[1].ID) || svc.HasPeerScored(teams[1].ID, teams[0].ID) {
		t.Fatalf("HasPeerScored is direction-sensitive")
	}
}

func TestQuestionValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	teams := seedTeams(t, svc, "A", "B")

	if _, err := svc.AskQuestion(ctx, teams[0].ID, teams[1].ID, " "); !errors.Is(err, domain.ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
	if _, err := svc.AskQuestion(ctx, teams[0].ID, teams[0].ID, "self?"); !errors.Is(err, domain.ErrSelfScoring) {
		t.Fatalf("expected ErrSelfScoring, got %v", err)
	}
	if _, err := svc.ScoreQuestion(ctx, "missing", 1, 1, 1); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
	q, err := svc.AskQuestion(ctx, teams[0].ID, teams[1].ID, "How?")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if _, err := svc.ScoreQuestion(ctx, q.ID, 6, 1, 1); !errors.Is(err, domain.ErrScoreOutOfRange) {
		t.Fatalf("expected ErrScoreOutOfRange, got %v", err)
	}
	if n := svc.QuestionCount(teams[0].ID); n != 1 {
		t.Fatalf("expected 1 question asked, got %d", n)
	}
	if len(svc.QuestionsBy(teams[0].ID)) != 1 || len(svc.QuestionsBy(teams[1].ID)) != 0 {
		t.Fatalf("QuestionsBy filters by asking team")
	}
}

func TestSeedOnlyWhenEmptyAndReset(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	demo := []domain.Team{{ID: "d1", Name: "Demo"}}

	if seeded, err := svc.Seed(ctx, demo); err != nil || !seeded {
		t.Fatalf("expected seed, got seeded=%v err=%v", seeded, err)
	}
	if seeded, err := svc.Seed(ctx, demo); err != nil || seeded {
		t.Fatalf("expected second seed to be skipped, got seeded=%v err=%v", seeded, err)
	}

	if err := svc.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := svc.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if n := len(svc.Teams()); n != 0 {
		t.Fatalf("expected no teams after reset, got %d", n)
	}
}

func TestOperationsContinueOnShadowWhileRemoteDown(t *testing.T) {
	ctx := context.Background()
	svc, remote := newTestService(t)
	teams := seedTeams(t, svc, "A")

	remote.down.Store(true)
	_, err := svc.SubmitTeacherScore(ctx, domain.TeacherScore{TeamID: teams[0].ID, Completeness: 10, Quality: 20, Presentation: 10, Defense: 10})
	if !errors.Is(err, domain.ErrRemoteUnavailable) {
		t.Fatalf("expected ErrRemoteUnavailable, got %v", err)
	}
	if got, ok := svc.TeacherScore(teams[0].ID); !ok || got.Total != 50 {
		t.Fatalf("expected local score of 50, got %+v ok=%v", got, ok)
	}
	if r := svc.Rankings(); len(r) != 1 || r[0].TotalScore != 50 {
		t.Fatalf("rankings should use the local value, got %+v", r)
	}
}
