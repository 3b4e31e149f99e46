package app

import (
	"math"
	"sort"

	"github.com/24K-GA/AI-Course-EvalMate/internal/domain"
)

// QuestionTarget is how many questions each team is expected to ask.
const QuestionTarget = 3

// trimThreshold is the sample size from which one min and one max peer score are dropped.
const trimThreshold = 4

// PeerAverage returns the mean peer total received by teamID. Once enough peers
// have rated the team, exactly one lowest and one highest total are discarded.
func PeerAverage(scores []domain.PeerScore, teamID string) float64 {
	totals := make([]int, 0, len(scores))
	for _, s := range scores {
		if s.ToTeamID == teamID {
			totals = append(totals, s.Total)
		}
	}
	if len(totals) == 0 {
		return 0
	}
	if len(totals) >= trimThreshold {
		sort.Ints(totals)
		totals = totals[1 : len(totals)-1]
	}
	sum := 0
	for _, t := range totals {
		sum += t
	}
	return float64(sum) / float64(len(totals))
}

// QuestionAverage returns the mean score of the scored questions asked by teamID.
// Unscored questions count for nothing.
func QuestionAverage(questions []domain.Question, teamID string) float64 {
	sum, n := 0, 0
	for _, q := range questions {
		if q.AskingTeamID == teamID && q.Scored {
			sum += q.TotalScore
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// FinalScore combines the three components for a team. The displayed components
// are rounded individually; the total is rounded once from the raw components.
func FinalScore(team domain.Team, teacher []domain.TeacherScore, peers []domain.PeerScore, questions []domain.Question) domain.TeamFinalScore {
	teacherTotal := 0
	for _, s := range teacher {
		if s.TeamID == team.ID {
			teacherTotal = s.Total
			break
		}
	}
	peer := PeerAverage(peers, team.ID)
	question := QuestionAverage(questions, team.ID)

	return domain.TeamFinalScore{
		TeamID:        team.ID,
		TeamName:      team.Name,
		GroupNumber:   team.GroupNumber,
		TeacherScore:  float64(teacherTotal),
		PeerScoreAvg:  round1(peer),
		QuestionScore: round1(question),
		TotalScore:    round1(float64(teacherTotal) + peer + question),
	}
}

// Rankings scores every team and orders them by total, best first. Ties keep
// the order of teams.
func Rankings(teams []domain.Team, teacher []domain.TeacherScore, peers []domain.PeerScore, questions []domain.Question) []domain.TeamFinalScore {
	out := make([]domain.TeamFinalScore, 0, len(teams))
	for _, t := range teams {
		out = append(out, FinalScore(t, teacher, peers, questions))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalScore > out[j].TotalScore
	})
	return out
}

// QuestionStats reports, per team, how many questions it has asked regardless of status.
func QuestionStats(teams []domain.Team, questions []domain.Question) []domain.TeamQuestionStats {
	counts := make(map[string]int, len(teams))
	for _, q := range questions {
		counts[q.AskingTeamID]++
	}
	out := make([]domain.TeamQuestionStats, 0, len(teams))
	for _, t := range teams {
		n := counts[t.ID]
		out = append(out, domain.TeamQuestionStats{
			TeamID:        t.ID,
			QuestionCount: n,
			TargetCount:   QuestionTarget,
			Completed:     n >= QuestionTarget,
		})
	}
	return out
}

// Report numbers ranked scores for export.
func Report(rankings []domain.TeamFinalScore) []domain.ReportRow {
	rows := make([]domain.ReportRow, 0, len(rankings))
	for i, r := range rankings {
		rows = append(rows, domain.ReportRow{
			Rank:          i + 1,
			GroupNumber:   r.GroupNumber,
			TeamName:      r.TeamName,
			TeacherScore:  r.TeacherScore,
			PeerScoreAvg:  r.PeerScoreAvg,
			QuestionScore: r.QuestionScore,
			TotalScore:    r.TotalScore,
		})
	}
	return rows
}

// Progress counts teams that already have a teacher score.
func Progress(rankings []domain.TeamFinalScore) int {
	n := 0
	for _, r := range rankings {
		if r.TeacherScore > 0 {
			n++
		}
	}
	return n
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
