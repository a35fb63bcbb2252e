package customer

import (
	"github.com/smallbiznis/taller/internal/customer/domain"
	"github.com/smallbiznis/taller/internal/customer/service"
	"github.com/smallbiznis/taller/pkg/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("customer",
	fx.Provide(
		repository.ProvideStore[domain.Customer],
		service.NewService,
	),
)
