package ports

import "github.com/atvirokodosprendimai/loginwatch/internal/core/domain"

type Extractor interface {
	Extract(line string) (domain.LoginFact, bool, error)
}
