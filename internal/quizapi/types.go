package quizapi

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// League is an upstream competition.
type League struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
	Logo    string `json:"logo,omitempty"`
}

// TeamInfo describes a club.
type TeamInfo struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Code    string `json:"code,omitempty"`
	Country string `json:"country,omitempty"`
	Logo    string `json:"logo,omitempty"`
}

// Venue describes a stadium.
type Venue struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city,omitempty"`
	Capacity int64  `json:"capacity,omitempty"`
}

// Team is the upstream team entry: club info plus its home venue.
type Team struct {
	Team  TeamInfo `json:"team"`
	Venue Venue    `json:"venue"`
}

// FixtureInfo carries the match identity and schedule.
type FixtureInfo struct {
	ID        int64  `json:"id"`
	Referee   string `json:"referee,omitempty"`
	Timezone  string `json:"timezone,omitempty"`
	Date      string `json:"date,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// Score is a home/away goal pair.
type Score struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// Fixture is a match with its participants and result. Upstream payloads
// carry more fields than these; unknown ones are dropped at this boundary so
// the drift never propagates inward.
type Fixture struct {
	Fixture FixtureInfo `json:"fixture"`
	League  *League     `json:"league,omitempty"`
	Teams   *struct {
		Home TeamInfo `json:"home"`
		Away TeamInfo `json:"away"`
	} `json:"teams,omitempty"`
	Goals *Score `json:"goals,omitempty"`
}

// Answer is one option of a quiz question in canonical form.
type Answer struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Question is a quiz question in canonical form.
type Question struct {
	Text    string   `json:"question"`
	Answers []Answer `json:"answers"`
}

// Quiz is the canonical internal representation of a generated quiz.
type Quiz struct {
	Fixture   *Fixture   `json:"fixture,omitempty"`
	Questions []Question `json:"questions"`
}

// rawAnswer is the upstream answer shape: {"type": "OK"|"BAD", "txt": "..."}.
type rawAnswer struct {
	Type string `json:"type"`
	Txt  string `json:"txt"`
}

// rawQuestion is the upstream question shape.
type rawQuestion struct {
	Question string      `json:"question"`
	Answers  []rawAnswer `json:"answers"`
}

// decodeQuiz normalizes the upstream quiz response. The API returns questions
// as top-level properties keyed by numeric strings ("0", "1", ...) next to a
// "fixture" entry; this flattens them into an ordered slice with canonical
// answer flags.
func decodeQuiz(raw []byte) (*Quiz, error) {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode quiz response: %w", err)
	}

	quiz := &Quiz{}

	indexes := make([]int, 0, len(entries))
	for key := range entries {
		if idx, err := strconv.Atoi(key); err == nil {
			indexes = append(indexes, idx)
		}
	}
	sort.Ints(indexes)

	for _, idx := range indexes {
		var rq rawQuestion
		if err := json.Unmarshal(entries[strconv.Itoa(idx)], &rq); err != nil {
			return nil, fmt.Errorf("decode quiz question %d: %w", idx, err)
		}

		q := Question{Text: rq.Question, Answers: make([]Answer, 0, len(rq.Answers))}
		for _, a := range rq.Answers {
			q.Answers = append(q.Answers, Answer{
				Text:    a.Txt,
				Correct: strings.EqualFold(a.Type, "OK"),
			})
		}
		quiz.Questions = append(quiz.Questions, q)
	}

	if rawFixture, ok := entries["fixture"]; ok {
		var fixture Fixture
		if err := json.Unmarshal(rawFixture, &fixture); err != nil {
			return nil, fmt.Errorf("decode quiz fixture: %w", err)
		}
		quiz.Fixture = &fixture
	}

	return quiz, nil
}
