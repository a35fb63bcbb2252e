package quote

import (
	"github.com/smallbiznis/taller/internal/quote/repository"
	"github.com/smallbiznis/taller/internal/quote/service"
	"go.uber.org/fx"
)

var Module = fx.Module("quote",
	fx.Provide(
		repository.NewRepository,
		service.NewService,
	),
)
