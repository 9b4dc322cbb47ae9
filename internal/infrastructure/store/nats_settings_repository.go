// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/openassembly/governance-service/internal/domain"
	"github.com/openassembly/governance-service/internal/domain/models"
)

// NatsSettingsRepository is the NATS KV store repository for organization
// governance settings.
type NatsSettingsRepository struct {
	*NatsBaseRepository[models.OrganizationSettings]
}

// NewNatsSettingsRepository creates a new NATS KV store repository for
// organization governance settings.
func NewNatsSettingsRepository(kvStore INatsKeyValue) *NatsSettingsRepository {
	return &NatsSettingsRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.OrganizationSettings](kvStore, "organization settings"),
	}
}

// Get retrieves an organization's governance settings.
func (r *NatsSettingsRepository) Get(ctx context.Context, organizationUID string) (*models.OrganizationSettings, error) {
	return r.NatsBaseRepository.Get(ctx, organizationUID)
}

// Put stores an organization's governance settings, replacing any previous
// configuration.
func (r *NatsSettingsRepository) Put(ctx context.Context, settings *models.OrganizationSettings) error {
	if settings.OrganizationUID == "" {
		return domain.NewValidationError("organization UID is required")
	}

	return r.Create(ctx, settings.OrganizationUID, settings)
}
