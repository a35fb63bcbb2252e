package publictoken

import (
	"github.com/smallbiznis/taller/internal/publictoken/repository"
	"github.com/smallbiznis/taller/internal/publictoken/service"
	"go.uber.org/fx"
)

var Module = fx.Module("publictoken",
	fx.Provide(
		repository.NewRepository,
		service.NewService,
	),
)
