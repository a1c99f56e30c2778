package store

import (
	"strings"

	"github.com/jalexanderII/zero-todos/models"
)

var orderColumns = map[string]string{
	"priority":   "todos.priority",
	"due_date":   "todos.due_date",
	"created_at": "todos.created_at",
	"updated_at": "todos.updated_at",
}

const defaultOrder = "todos.priority DESC, todos.due_date IS NULL, todos.due_date ASC, todos.id ASC"

// todoQuery accumulates WHERE conditions. It can only be created through
// scopedTodoQuery, so every todo query starts from the owner condition.
type todoQuery struct {
	conditions []string
	args       []interface{}
}

func scopedTodoQuery(ownerID int64) *todoQuery {
	return &todoQuery{
		conditions: []string{"todos.user_id = ?"},
		args:       []interface{}{ownerID},
	}
}

func (q *todoQuery) add(cond string, args ...interface{}) {
	q.conditions = append(q.conditions, cond)
	q.args = append(q.args, args...)
}

func (q *todoQuery) where() string {
	return " WHERE " + strings.Join(q.conditions, " AND ")
}

// apply translates a parsed filter into conditions.
func (q *todoQuery) apply(f models.TodoFilter) {
	if f.Title != nil {
		q.add(`LOWER(todos.title) LIKE ? ESCAPE '\'`, containsPattern(*f.Title))
	}
	if f.TitleExact != nil {
		q.add("todos.title = ?", *f.TitleExact)
	}
	if f.Priority != nil {
		q.add("todos.priority = ?", *f.Priority)
	}
	if f.PriorityGT != nil {
		q.add("todos.priority > ?", *f.PriorityGT)
	}
	if f.PriorityLT != nil {
		q.add("todos.priority < ?", *f.PriorityLT)
	}
	if f.Status != nil {
		q.add("LOWER(todos.status) = ?", strings.ToLower(*f.Status))
	}
	if len(f.StatusIn) > 0 {
		placeholders := make([]string, len(f.StatusIn))
		args := make([]interface{}, len(f.StatusIn))
		for i, s := range f.StatusIn {
			placeholders[i] = "?"
			args[i] = string(s)
		}
		q.add("todos.status IN ("+strings.Join(placeholders, ", ")+")", args...)
	}
	if f.DueDate != nil {
		q.add("todos.due_date = ?", f.DueDate.UTC())
	}
	if f.DueDateGT != nil {
		q.add("todos.due_date > ?", f.DueDateGT.UTC())
	}
	if f.DueDateLT != nil {
		q.add("todos.due_date < ?", f.DueDateLT.UTC())
	}
	if f.Tag != nil {
		q.add(`EXISTS (
			SELECT 1 FROM todo_tags tt
			JOIN tags tg ON tg.id = tt.tag_id
			WHERE tt.todo_id = todos.id AND LOWER(tg.name) = ?)`, strings.ToLower(*f.Tag))
	}
	for _, term := range f.Search {
		p := containsPattern(term)
		q.add(`(LOWER(todos.title) LIKE ? ESCAPE '\' OR LOWER(COALESCE(todos.description, '')) LIKE ? ESCAPE '\')`, p, p)
	}
}

// orderBy renders the ordering clause. Unknown fields are dropped; nothing
// usable falls back to priority desc, due date asc with nulls last.
func orderBy(fields []models.OrderField) string {
	parts := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		col, ok := orderColumns[f.Field]
		if !ok {
			continue
		}
		dir := "ASC"
		if f.Desc {
			dir = "DESC"
		}
		if f.Field == "due_date" {
			parts = append(parts, col+" IS NULL")
		}
		parts = append(parts, col+" "+dir)
	}
	if len(parts) == 0 {
		return " ORDER BY " + defaultOrder
	}
	parts = append(parts, "todos.id ASC")
	return " ORDER BY " + strings.Join(parts, ", ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
