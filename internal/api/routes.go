package api

import (
	"net/http"

	"github.com/tendline/tendline/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	routes.Register(
		mux,
		domain.Contacts.Handler(rescheduler{sys: domain.Engagements}).Routes(),
		domain.Engagements.Handler().Routes(),
	)
}
