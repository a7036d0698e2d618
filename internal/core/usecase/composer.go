package usecase

import (
	"fmt"
	"strings"

	"github.com/atvirokodosprendimai/loginwatch/internal/core/domain"
)

const DefaultHostLabel = "ROBERTSERVER"

type Composer struct {
	hostLabel  string
	exclusions *ExclusionSet
}

// NewComposer returns a Composer rendering messages under hostLabel. An empty
// label falls back to DefaultHostLabel.
func NewComposer(hostLabel string, exclusions *ExclusionSet) *Composer {
	if strings.TrimSpace(hostLabel) == "" {
		hostLabel = DefaultHostLabel
	}
	return &Composer{hostLabel: hostLabel, exclusions: exclusions}
}

func (c *Composer) Compose(fact domain.LoginFact, location domain.Location) domain.Notification {
	return domain.Notification{User: fact.User, Address: fact.Address, Location: location}
}

func (c *Composer) ShouldSuppress(n domain.Notification) bool {
	return c.exclusions.IsExcluded(n.Address)
}

// Render formats n with the Markdown dialect understood by the messaging API.
func (c *Composer) Render(n domain.Notification) string {
	return strings.Join([]string{
		fmt.Sprintf("*💻 %s 💻*", c.hostLabel),
		"-----------",
		"*✅ Successful login*",
		"-----------",
		fmt.Sprintf("🛜 `%s`", n.Address),
		fmt.Sprintf("🌍 %s, %s", n.Location.City, n.Location.Country),
		"",
		fmt.Sprintf("👤 `%s`", n.User),
	}, "\n")
}
