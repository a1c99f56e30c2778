package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodePayload(t *testing.T, raw string) *TodoPayload {
	t.Helper()
	var p TodoPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return &p
}

func TestTodoPayload_CreateDefaults(t *testing.T) {
	p := decodePayload(t, `{"title":"  Finish project ","tags":[{"name":"Work"},{"name":"Home","color":"#00ff00"}]}`)
	require.NoError(t, p.Validate(false))

	todo := p.NewTodo(42)
	assert.Equal(t, "Finish project", todo.Title)
	assert.Equal(t, PriorityMedium, todo.Priority)
	assert.Equal(t, StatusPending, todo.Status)
	assert.Equal(t, int64(42), todo.UserID)

	tags, ok := p.TagList()
	require.True(t, ok)
	assert.Equal(t, []Tag{{Name: "Work", Color: DefaultTagColor}, {Name: "Home", Color: "#00ff00"}}, tags)
}

func TestTodoPayload_Validate(t *testing.T) {
	long := strings.Repeat("x", MaxTitleLength+1)
	tests := []struct {
		name    string
		body    string
		partial bool
		fields  []string
	}{
		{"missing title", `{}`, false, []string{"title"}},
		{"missing title partial", `{}`, true, nil},
		{"blank title", `{"title":"  "}`, true, []string{"title"}},
		{"long title", `{"title":"` + long + `"}`, false, []string{"title"}},
		{"bad priority", `{"title":"x","priority":5}`, false, []string{"priority"}},
		{"bad status", `{"title":"x","status":"done"}`, false, []string{"status"}},
		{"bad due date", `{"title":"x","due_date":"next week"}`, false, []string{"due_date"}},
		{"null due date", `{"title":"x","due_date":null}`, false, nil},
		{"bad tag", `{"title":"x","tags":[{"color":"#FFF"}]}`, false, []string{"tags[0].name", "tags[0].color"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := decodePayload(t, tt.body).Validate(tt.partial)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			for _, f := range tt.fields {
				assert.Contains(t, verr.Fields, f)
			}
		})
	}
}

func TestTodoPayload_ApplyPartial(t *testing.T) {
	desc := "keep me"
	due := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	todo := &Todo{Title: "old", Description: &desc, DueDate: &due, Priority: PriorityLow, Status: StatusPending}

	p := decodePayload(t, `{"priority":4}`)
	require.NoError(t, p.Validate(true))
	p.ApplyTo(todo)
	assert.Equal(t, "old", todo.Title)
	assert.Equal(t, PriorityCritical, todo.Priority)
	require.NotNil(t, todo.Description)
	require.NotNil(t, todo.DueDate)
	_, replace := p.TagList()
	assert.False(t, replace)

	p = decodePayload(t, `{"description":null,"due_date":null}`)
	require.NoError(t, p.Validate(true))
	p.ApplyTo(todo)
	assert.Nil(t, todo.Description)
	assert.Nil(t, todo.DueDate)

	p = decodePayload(t, `{"due_date":"2031-05-06 07:08"}`)
	require.NoError(t, p.Validate(true))
	p.ApplyTo(todo)
	require.NotNil(t, todo.DueDate)
	assert.Equal(t, time.Date(2031, 5, 6, 7, 8, 0, 0, time.UTC), *todo.DueDate)
}

func TestStatusPayload(t *testing.T) {
	s := "in_progress"
	got, err := StatusPayload{Status: &s}.Validate()
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, got)

	bad := "done"
	_, err = StatusPayload{Status: &bad}.Validate()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"Invalid status"}, verr.Fields["status"])

	_, err = StatusPayload{}.Validate()
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"This field is required."}, verr.Fields["status"])
}

func TestParseTimestamp(t *testing.T) {
	for _, in := range []string{
		"2030-01-02T03:04:05Z",
		"2030-01-02T05:04:05+02:00",
		"2030-01-02T03:04:05",
		"2030-01-02 03:04:05",
	} {
		ts, err := ParseTimestamp(in)
		require.NoError(t, err, in)
		assert.Equal(t, time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC), ts, in)
	}

	ts, err := ParseTimestamp("2030-01-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC), ts)

	_, err = ParseTimestamp("01/02/2030")
	assert.Error(t, err)
}

func TestTodoPayload_ValidationMessages(t *testing.T) {
	p := decodePayload(t, `{"title":"   ","priority":0,"status":"done","tags":[{"name":"ok"},{"name":"","color":"red"}]}`)
	err := p.Validate(false)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string][]string{
		"title":         {"This field may not be blank."},
		"priority":      {`"0" is not a valid choice.`},
		"status":        {`"done" is not a valid choice.`},
		"tags[1].name":  {"This field may not be blank."},
		"tags[1].color": {"Enter a valid hex color such as #FF0000."},
	}, verr.Fields)

	long := decodePayload(t, `{"title":"`+strings.Repeat("é", MaxTitleLength)+`"}`)
	assert.NoError(t, long.Validate(false), "length counts characters, not bytes")

	p = decodePayload(t, `{"title":"x","priority":9}`)
	require.ErrorAs(t, p.Validate(true), &verr)
	assert.Equal(t, []string{`"9" is not a valid choice.`}, verr.Fields["priority"])
}

func TestTagPayload_Validate(t *testing.T) {
	decode := func(raw string) *TagPayload {
		var p TagPayload
		require.NoError(t, json.Unmarshal([]byte(raw), &p))
		return &p
	}

	p := decode(`{"name":"  Work  ","color":"#00ff00"}`)
	require.NoError(t, p.Validate(false))
	assert.Equal(t, Tag{Name: "Work", Color: "#00ff00"}, p.ToTag())

	var verr *ValidationError
	require.ErrorAs(t, decode(`{}`).Validate(false), &verr)
	assert.Equal(t, []string{"This field is required."}, verr.Fields["name"])

	require.NoError(t, decode(`{"color":"#000000"}`).Validate(true))

	require.ErrorAs(t, decode(`{"name":"`+strings.Repeat("x", 51)+`"}`).Validate(false), &verr)
	assert.Equal(t, []string{"Ensure this field has no more than 50 characters."}, verr.Fields["name"])

	require.ErrorAs(t, decode(`{"name":"x","color":"#FFF"}`).Validate(false), &verr)
	assert.Contains(t, verr.Fields, "color")
}
