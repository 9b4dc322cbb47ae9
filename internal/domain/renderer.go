// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/openassembly/governance-service/internal/domain/models"
)

// ProtocolRenderer requests a human-readable document rendering of a
// finalized protocol from the external renderer. Rendering is asynchronous;
// the rendered document reference comes back later through
// AttachRenderedDocument.
type ProtocolRenderer interface {
	RequestRender(ctx context.Context, protocol *models.MeetingProtocol) error
}
