package domain

// Collection names shared by the client cache and the persistence service.
const (
	CollectionTeams         = "teams"
	CollectionTeacherScores = "teacherScores"
	CollectionPeerScores    = "peerScores"
	CollectionQuestions     = "questions"
	CollectionSession       = "session"
)

// Collections lists every known collection in a stable order.
var Collections = []string{
	CollectionTeams,
	CollectionTeacherScores,
	CollectionPeerScores,
	CollectionQuestions,
	CollectionSession,
}

// Member is a student belonging to a team.
type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Team is a presenting group. GroupNumber always equals its 1-based list position.
type Team struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	GroupNumber int      `json:"groupNumber"`
	Members     []Member `json:"members"`
	Avatar      string   `json:"avatar"`
}

// TeacherScore is the teacher's rubric for a team (max 50).
type TeacherScore struct {
	TeamID       string `json:"teamId"`
	Completeness int    `json:"completeness"` // 0-10
	Quality      int    `json:"quality"`      // 0-20
	Presentation int    `json:"presentation"` // 0-10
	Defense      int    `json:"defense"`      // 0-10
	Total        int    `json:"total"`
	Timestamp    int64  `json:"timestamp"`
}

// PeerScore is one team's rating of another team (max 30).
type PeerScore struct {
	FromTeamID    string `json:"fromTeamId"`
	ToTeamID      string `json:"toTeamId"`
	Content       int    `json:"content"`
	Collaboration int    `json:"collaboration"`
	Interaction   int    `json:"interaction"`
	Total         int    `json:"total"`
	Timestamp     int64  `json:"timestamp"`
}

// Question is asked by one team of the presenting team and later scored by the teacher (max 20).
type Question struct {
	ID             string `json:"id"`
	AskingTeamID   string `json:"askingTeamId"`
	AskingTeamName string `json:"askingTeamName"`
	TargetTeamID   string `json:"targetTeamId"`
	Content        string `json:"content"`
	Timestamp      int64  `json:"timestamp"`
	Scored         bool   `json:"scored"`
	Relevance      int    `json:"relevance"`   // 0-5
	Depth          int    `json:"depth"`       // 0-10
	Inspiration    int    `json:"inspiration"` // 0-5
	TotalScore     int    `json:"totalScore"`
}

// TeamQuestionStats tracks how many questions a team has asked against the target.
type TeamQuestionStats struct {
	TeamID        string `json:"teamId"`
	QuestionCount int    `json:"questionCount"`
	TargetCount   int    `json:"targetCount"`
	Completed     bool   `json:"completed"`
}

// TeamFinalScore is the derived composite score of a team.
type TeamFinalScore struct {
	TeamID        string  `json:"teamId"`
	TeamName      string  `json:"teamName"`
	GroupNumber   int     `json:"groupNumber"`
	TeacherScore  float64 `json:"teacherScore"`
	PeerScoreAvg  float64 `json:"peerScoreAvg"`
	QuestionScore float64 `json:"questionScore"`
	TotalScore    float64 `json:"totalScore"`
}

// ReportRow is one line of the exported ranking.
type ReportRow struct {
	Rank          int     `json:"rank"`
	GroupNumber   int     `json:"groupNumber"`
	TeamName      string  `json:"teamName"`
	TeacherScore  float64 `json:"teacherScore"`
	PeerScoreAvg  float64 `json:"peerScoreAvg"`
	QuestionScore float64 `json:"questionScore"`
	TotalScore    float64 `json:"totalScore"`
}
