package requests

import (
	"strconv"
	"strings"

	"canna-backoffice-requests/internal/domain"
)

// Filter returns the requests whose name, email or id contains term, ignoring case.
// An empty term returns the list unchanged. Order is preserved.
func Filter(list []domain.PendingRequest, term string) []domain.PendingRequest {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return list
	}

	out := make([]domain.PendingRequest, 0, len(list))
	for _, r := range list {
		if matches(r, needle) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r domain.PendingRequest, needle string) bool {
	return strings.Contains(strings.ToLower(r.Name()), needle) ||
		strings.Contains(strings.ToLower(r.Email()), needle) ||
		strings.Contains(strconv.Itoa(int(r.Key().ID)), needle)
}
