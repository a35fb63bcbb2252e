package serviceorder

import (
	"github.com/smallbiznis/taller/internal/serviceorder/repository"
	"github.com/smallbiznis/taller/internal/serviceorder/service"
	"go.uber.org/fx"
)

var Module = fx.Module("serviceorder",
	fx.Provide(
		repository.NewRepository,
		service.NewService,
	),
)
