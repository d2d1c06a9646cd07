package domain

import (
	"github.com/google/uuid"
	memberdomain "github.com/holaplex/hub-orgs/internal/membership/domain"
	orgdomain "github.com/holaplex/hub-orgs/internal/organization/domain"
)

type Kind string

const (
	KindOwner  Kind = "owner"
	KindMember Kind = "member"
)

// Affiliation is either an ownership or a membership; exactly one of Owner
// and Member is set, matching Kind.
type Affiliation struct {
	Kind   Kind                 `json:"kind"`
	Owner  *orgdomain.Owner     `json:"owner,omitempty"`
	Member *memberdomain.Member `json:"member,omitempty"`
}

func FromOwner(owner orgdomain.Owner) Affiliation {
	return Affiliation{Kind: KindOwner, Owner: &owner}
}

func FromMember(member memberdomain.Member) Affiliation {
	return Affiliation{Kind: KindMember, Member: &member}
}

func (a Affiliation) OrganizationID() uuid.UUID {
	switch a.Kind {
	case KindOwner:
		return a.Owner.OrganizationID
	case KindMember:
		return a.Member.OrganizationID
	}
	return uuid.Nil
}

// OrganizationIDs lists the distinct organizations in order of first appearance.
func OrganizationIDs(affiliations []Affiliation) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(affiliations))
	ids := make([]uuid.UUID, 0, len(affiliations))
	for _, a := range affiliations {
		id := a.OrganizationID()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
