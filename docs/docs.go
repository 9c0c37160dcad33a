// Package docs Robotics Club API.
//
// Documentation of the Robotics Club API.
//
//	Schemes: https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
//	Security:
//	- basic
//
//	SecurityDefinitions:
//	basic:
//	  type: basic
//
// swagger:meta
package docs

import (
	"github.com/roboclub/club-api/models"
)

// swagger:route GET /health health healthEndpointID
// Lists the healthchex of the web service api.
// responses:
//   200: healthResponse

// Shows the current health of the api. true means it is alive, false means it is not.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body models.HealthCheckResponse
}

// swagger:route GET /api/v1/team/{team_id} teams teamByID
// Gets a single team by ID.
// responses:
//   200: teamByIDResponse

// Shows a single team by the given {ID}
// swagger:response teamByIDResponse
type teamByIDResponseWrapper struct {
	// in:body
	Body models.Team
}

// swagger:route GET /api/v1/inventory inventory listComponents
// Lists the inventory.
// responses:
//   200: componentsResponse

// The components in the inventory.
// swagger:response componentsResponse
type componentsResponseWrapper struct {
	// in:body
	Body []models.Component
}

// swagger:route GET /api/v1/issuances issuances listIssuances
// Lists all issuance requests.
// responses:
//   200: issuancesResponse

// The issuance ledger, newest first.
// swagger:response issuancesResponse
type issuancesResponseWrapper struct {
	// in:body
	Body []models.Issuance
}
