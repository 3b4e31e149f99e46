package domain

import "encoding/json"

// DefaultDocument returns the empty document the persistence service starts from.
func DefaultDocument() map[string]json.RawMessage {
	session, _ := json.Marshal(DefaultSession())
	return map[string]json.RawMessage{
		CollectionTeams:         json.RawMessage(`[]`),
		CollectionTeacherScores: json.RawMessage(`[]`),
		CollectionPeerScores:    json.RawMessage(`[]`),
		CollectionQuestions:     json.RawMessage(`[]`),
		CollectionSession:       session,
	}
}
