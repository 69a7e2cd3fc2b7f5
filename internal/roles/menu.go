package roles

import (
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Component custom ids.
const (
	SelectID   = "role-select"
	prevPrefix = "roles-prev_"
	nextPrefix = "roles-next_"
)

// Page is one screen of the role menu. Index is zero-based.
type Page struct {
	Roles      []*discordgo.Role
	Index      int
	TotalPages int
	Total      int
}

func (p Page) HasPrev() bool { return p.Index > 0 }

func (p Page) HasNext() bool { return p.Index+1 < p.TotalPages }

// Paginate returns page index of list. ok is false when the page is empty.
func (p Policy) Paginate(list []*discordgo.Role, index int) (Page, bool) {
	perPage := p.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	total := len(list)
	start := index * perPage
	if index < 0 || start >= total {
		return Page{}, false
	}
	end := start + perPage
	if end > total {
		end = total
	}

	return Page{
		Roles:      list[start:end],
		Index:      index,
		TotalPages: (total + perPage - 1) / perPage,
		Total:      total,
	}, true
}

// PrevID and NextID encode the page a button was rendered on.
func PrevID(page int) string { return prevPrefix + strconv.Itoa(page) }

func NextID(page int) string { return nextPrefix + strconv.Itoa(page) }

// IsPageButton reports whether customID belongs to a pagination button.
func IsPageButton(customID string) bool {
	return strings.HasPrefix(customID, prevPrefix) || strings.HasPrefix(customID, nextPrefix)
}

// TargetPage decodes a pagination button id into the page to show.
func TargetPage(customID string) (int, bool) {
	var (
		raw   string
		delta int
	)
	switch {
	case strings.HasPrefix(customID, nextPrefix):
		raw, delta = strings.TrimPrefix(customID, nextPrefix), 1
	case strings.HasPrefix(customID, prevPrefix):
		raw, delta = strings.TrimPrefix(customID, prevPrefix), -1
	default:
		return 0, false
	}

	page, err := strconv.Atoi(raw)
	if err != nil || page < 0 {
		return 0, false
	}
	target := page + delta
	if target < 0 {
		return 0, false
	}
	return target, true
}
