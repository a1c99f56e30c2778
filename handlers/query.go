package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jalexanderII/zero-todos/models"
	"github.com/jalexanderII/zero-todos/store"
)

// ParseTodoFilter reads the list query string. Malformed numbers and dates are
// a ValidationError; a malformed page is store.ErrInvalidPage.
func ParseTodoFilter(c *fiber.Ctx) (models.TodoFilter, error) {
	var f models.TodoFilter
	errs := &models.ValidationError{}

	f.Title = optString(c, "title")
	if f.Title == nil {
		f.Title = optString(c, "title__icontains")
	}
	f.TitleExact = optString(c, "title__exact")

	f.Priority = optInt(c, "priority", errs)
	f.PriorityGT = optInt(c, "priority__gt", errs)
	f.PriorityLT = optInt(c, "priority__lt", errs)

	f.Status = optString(c, "status")

	f.DueDate = optTime(c, "due_date", errs)
	f.DueDateGT = optTime(c, "due_date__gt", errs)
	f.DueDateLT = optTime(c, "due_date__lt", errs)

	f.Tag = optString(c, "tags")
	f.Search = searchTerms(c.Query("search"))

	ordering := c.Query("ordering")
	if ordering == "" {
		ordering = c.Query("order_by")
	}
	f.Ordering = parseOrdering(ordering)

	if err := errs.OrNil(); err != nil {
		return f, err
	}

	page, err := parsePage(c.Query("page"))
	if err != nil {
		return f, err
	}
	f.Page = page
	return f, nil
}

func optString(c *fiber.Ctx, key string) *string {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return nil
	}
	return &v
}

func optInt(c *fiber.Ctx, key string, errs *models.ValidationError) *int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		errs.Add(key, "Enter a number.")
		return nil
	}
	return &n
}

func optTime(c *fiber.Ctx, key string, errs *models.ValidationError) *time.Time {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	t, err := models.ParseTimestamp(raw)
	if err != nil {
		errs.Add(key, "Enter a valid date/time.")
		return nil
	}
	return &t
}

func searchTerms(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

func parseOrdering(raw string) []models.OrderField {
	var fields []models.OrderField
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		desc := strings.HasPrefix(part, "-")
		fields = append(fields, models.OrderField{Field: strings.TrimPrefix(part, "-"), Desc: desc})
	}
	return fields
}

func parsePage(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, store.ErrInvalidPage
	}
	return n, nil
}
