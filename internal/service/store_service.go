package service

import (
	"context"
	"strings"

	"github.com/prperemyshlev/connect-service/internal/apperr"
	"github.com/prperemyshlev/connect-service/internal/catalog"
	"github.com/prperemyshlev/connect-service/internal/domain"
	"github.com/prperemyshlev/connect-service/internal/dto"
	"github.com/prperemyshlev/connect-service/internal/repository"
	"github.com/prperemyshlev/connect-service/internal/utils"
	"go.uber.org/zap"
)

type storeService struct {
	repos   *repository.Repositories
	tx      repository.Transactor
	catalog *catalog.Catalog
	logger  *zap.Logger
}

// NewStoreService creates a new store service
func NewStoreService(
	repos *repository.Repositories,
	tx repository.Transactor,
	catalog *catalog.Catalog,
	logger *zap.Logger,
) StoreService {
	return &storeService{
		repos:   repos,
		tx:      tx,
		catalog: catalog,
		logger:  logger,
	}
}

func (s *storeService) Sectors() []catalog.Sector {
	return s.catalog.Sectors()
}

// Detail returns the token's store, creating default settings on first read
func (s *storeService) Detail(ctx context.Context, claims *utils.AccessClaims) (*dto.StoreDetail, error) {
	store, err := s.repos.Store.GetByID(ctx, claims.Store)
	if err != nil {
		return nil, notFound(err, "store not found")
	}

	settings, err := s.repos.StoreSettings.GetOrCreate(ctx, store.ID)
	if err != nil {
		return nil, err
	}

	return &dto.StoreDetail{
		Name:        store.Name,
		Description: store.Description,
		Sector:      store.Sector,
		Terminology: store.Terminology,
		Address:     addressView(store.Address),
		Contact:     dto.Contact(store.Contact),
		Settings: dto.StoreSettings{
			ShowStock:               settings.ShowStock,
			InfiniteStock:           settings.InfiniteStock,
			ShowItemsWithPromotions: settings.ShowItemsWithPromotions,
			IsPublic:                settings.IsPublic,
		},
		CreatedAt: store.CreatedAt,
		UpdatedAt: store.UpdatedAt,
	}, nil
}

func (s *storeService) Update(ctx context.Context, claims *utils.AccessClaims, req *dto.UpdateStoreRequest) error {
	return s.tx.WithTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		actor, err := resolveActor(ctx, repos.Account, claims)
		if err != nil {
			return err
		}

		store, err := repos.Store.GetByID(ctx, claims.Store)
		if err != nil {
			return notFound(err, "store not found")
		}

		if req.Name != nil || req.Description != nil || req.Address != nil || req.Contact != nil {
			if req.Name != nil {
				store.Name = strings.TrimSpace(*req.Name)
			}
			if req.Description != nil {
				store.Description = strings.TrimSpace(*req.Description)
			}
			if req.Address != nil {
				store.Address = domainAddress(*req.Address)
			}
			if req.Contact != nil {
				store.Contact = domain.Contact(*req.Contact)
			}
			if err := repos.Store.Update(ctx, store); err != nil {
				return notFound(err, "store not found")
			}
		}

		if req.Settings != nil {
			settings, err := repos.StoreSettings.GetOrCreate(ctx, store.ID)
			if err != nil {
				return err
			}
			applySettings(settings, req.Settings)
			if err := repos.StoreSettings.Update(ctx, settings); err != nil {
				return err
			}
		}

		s.logger.Info("store updated",
			zap.String("store_id", store.ID),
			zap.String("updated_by", actor.ID),
			zap.String("actor_type", actor.Type),
		)
		return nil
	})
}

// UpdateSector moves the store to a catalog sector and adopts its vocabulary
func (s *storeService) UpdateSector(ctx context.Context, claims *utils.AccessClaims, req *dto.UpdateSectorRequest) (catalog.Sector, error) {
	sector, ok := s.catalog.Sector(strings.TrimSpace(req.Sector))
	if !ok {
		return catalog.Sector{}, apperr.BadRequest("invalid sector")
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		actor, err := resolveActor(ctx, repos.Account, claims)
		if err != nil {
			return err
		}

		store, err := repos.Store.GetByID(ctx, claims.Store)
		if err != nil {
			return notFound(err, "store not found")
		}

		store.Sector = sector.Key
		store.Terminology = sector.Terminology
		if err := repos.Store.Update(ctx, store); err != nil {
			return notFound(err, "store not found")
		}

		s.logger.Info("store sector updated",
			zap.String("store_id", store.ID),
			zap.String("sector", sector.Key),
			zap.String("updated_by", actor.ID),
		)
		return nil
	})
	if err != nil {
		return catalog.Sector{}, err
	}

	return sector, nil
}

func applySettings(settings *domain.StoreSettings, patch *dto.SettingsPatch) {
	if patch.ShowStock != nil {
		settings.ShowStock = *patch.ShowStock
	}
	if patch.InfiniteStock != nil {
		settings.InfiniteStock = *patch.InfiniteStock
	}
	if patch.ShowItemsWithPromotions != nil {
		settings.ShowItemsWithPromotions = *patch.ShowItemsWithPromotions
	}
	if patch.IsPublic != nil {
		settings.IsPublic = *patch.IsPublic
	}
}

func domainAddress(a dto.Address) domain.Address {
	return domain.Address{
		Street:      strings.TrimSpace(a.Street),
		City:        strings.TrimSpace(a.City),
		State:       strings.TrimSpace(a.State),
		Country:     strings.TrimSpace(a.Country),
		ZipCode:     strings.TrimSpace(a.ZipCode),
		Coordinates: domain.Coordinates(a.Coordinates),
	}
}

func addressView(a domain.Address) dto.Address {
	return dto.Address{
		Street:      a.Street,
		City:        a.City,
		State:       a.State,
		Country:     a.Country,
		ZipCode:     a.ZipCode,
		Coordinates: dto.Coordinates(a.Coordinates),
	}
}
