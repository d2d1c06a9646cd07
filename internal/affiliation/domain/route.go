package domain

import "github.com/google/uuid"

const (
	PathNewOrganization = "/organizations/new"
	PathProjects        = "/projects"
	PathOrganizations   = "/organizations"
)

// Route is where a browser goes after login. Organization is set only when
// the user belongs to exactly one organization.
type Route struct {
	Path         string
	Organization *uuid.UUID
}

func RouteFor(orgIDs []uuid.UUID) Route {
	switch len(orgIDs) {
	case 0:
		return Route{Path: PathNewOrganization}
	case 1:
		id := orgIDs[0]
		return Route{Path: PathProjects, Organization: &id}
	default:
		return Route{Path: PathOrganizations}
	}
}
