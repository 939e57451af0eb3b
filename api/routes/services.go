package routes

import (
	"fmt"

	"github.com/sitecms/sitecms-backend/api/controllers"
	"github.com/sitecms/sitecms-backend/internal/attachments"
	"github.com/sitecms/sitecms-backend/internal/heroes"
	"github.com/sitecms/sitecms-backend/internal/locations"
	"github.com/sitecms/sitecms-backend/internal/offers"
	"github.com/sitecms/sitecms-backend/internal/otherinfo"
	"github.com/sitecms/sitecms-backend/internal/promotions"
	"github.com/sitecms/sitecms-backend/internal/services"
	"github.com/sitecms/sitecms-backend/internal/team"
	"github.com/sitecms/sitecms-backend/pkg/db"
	"github.com/sitecms/sitecms-backend/pkg/logger"
)

// Services are the resource services the router dispatches to.
type Services struct {
	Heroes     heroes.Service
	Team       team.Service
	Locations  locations.Service
	Services   services.Service
	Promotions promotions.Service
	Offers     offers.Service
	OtherInfo  otherinfo.Service
	Images     controllers.ImageOpener
}

// NewServices builds every resource service over one database client and
// one image attachment service.
func NewServices(client *db.Client, images *attachments.Service, logg *logger.Logger) (Services, error) {
	if client == nil {
		return Services{}, fmt.Errorf("database client required")
	}
	if images == nil {
		return Services{}, fmt.Errorf("attachment service required")
	}
	gdb := client.DB()

	heroSvc, err := heroes.NewService(heroes.NewRepository(gdb), client, images)
	if err != nil {
		return Services{}, fmt.Errorf("hero service: %w", err)
	}
	teamSvc, err := team.NewService(team.NewRepository(gdb), client, images)
	if err != nil {
		return Services{}, fmt.Errorf("team service: %w", err)
	}
	serviceRepo := services.NewRepository(gdb)
	serviceSvc, err := services.NewService(serviceRepo, client, images)
	if err != nil {
		return Services{}, fmt.Errorf("service service: %w", err)
	}
	locationSvc, err := locations.NewService(
		locations.NewRepository(gdb),
		serviceRepo,
		locations.NewAssociationRepository(gdb),
		client,
		images,
	)
	if err != nil {
		return Services{}, fmt.Errorf("location service: %w", err)
	}
	promotionSvc, err := promotions.NewService(promotions.NewRepository(gdb), client, images)
	if err != nil {
		return Services{}, fmt.Errorf("promotion service: %w", err)
	}
	offerSvc, err := offers.NewService(offers.NewRepository(gdb), client, images)
	if err != nil {
		return Services{}, fmt.Errorf("offer service: %w", err)
	}
	infoSvc, err := otherinfo.NewService(otherinfo.NewRepository(gdb), client, logg)
	if err != nil {
		return Services{}, fmt.Errorf("other info service: %w", err)
	}

	return Services{
		Heroes:     heroSvc,
		Team:       teamSvc,
		Locations:  locationSvc,
		Services:   serviceSvc,
		Promotions: promotionSvc,
		Offers:     offerSvc,
		OtherInfo:  infoSvc,
		Images:     images,
	}, nil
}
