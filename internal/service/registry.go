package service

import (
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Registry holds the repository of every panel resource.
type Registry struct {
	Members      *Repository[models.Member]
	News         *Repository[models.News]
	Calendar     *Repository[models.CalendarEvent]
	Finance      *Repository[models.FinanceEntry]
	RollCalls    *Repository[models.RollCall]
	Profiles     *Repository[models.Profile]
	JoinRequests *Repository[models.JoinRequest]
	Atas         *AtaService
}

func NewRegistry(db *gorm.DB, logger *logrus.Logger) *Registry {
	return &Registry{
		Members:      NewRepository[models.Member](db, "member", "name ASC, id ASC", logger),
		News:         NewRepository[models.News](db, "news", "published_at DESC, id DESC", logger),
		Calendar:     NewRepository[models.CalendarEvent](db, "calendar event", "starts_at ASC, id ASC", logger),
		Finance:      NewRepository[models.FinanceEntry](db, "finance entry", "date DESC, id DESC", logger),
		RollCalls:    NewRepository[models.RollCall](db, "roll call", "date DESC, id DESC", logger),
		Profiles:     NewRepository[models.Profile](db, "profile", "name ASC, id ASC", logger),
		JoinRequests: NewRepository[models.JoinRequest](db, "join request", "created_at DESC, id DESC", logger),
		Atas:         NewAtaService(db, logger),
	}
}
