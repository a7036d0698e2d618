package ports

import "github.com/atvirokodosprendimai/loginwatch/internal/core/domain"

// AuditTokenizer expands one raw input line into zero or more audit events.
type AuditTokenizer interface {
	Events(line string) ([]domain.AuditEvent, error)
}
