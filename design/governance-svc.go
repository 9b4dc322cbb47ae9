// Copyright The Open Assembly Project contributors.
// SPDX-License-Identifier: MIT

package design

import (
	. "goa.design/goa/v3/dsl" //nolint:staticcheck // ST1001: the recommended way of using the goa DSL package is with the . import
)

// JWTAuth is the DSL JWT security type for authentication.
var JWTAuth = JWTSecurity("jwt", func() {
	Description("Heimdall authorization")
})

var _ = Service("Governance Service", func() {
	Description("The Governance Service keeps the vote ledger, tallies, quorum and meeting protocols for associations.")

	Method("readyz", func() {
		Description("Check if the service is able to take inbound requests.")
		Meta("swagger:generate", "false")
		Result(Bytes, func() {
			Example("OK")
		})
		Error("ServiceUnavailable", ServiceUnavailableError, "Service is unavailable")
		HTTP(func() {
			GET("/readyz")
			Response(StatusOK, func() {
				ContentType("text/plain")
			})
			Response("ServiceUnavailable", StatusServiceUnavailable)
		})
	})

	Method("livez", func() {
		Description("Check if the service is alive.")
		Meta("swagger:generate", "false")
		Result(Bytes, func() {
			Example("OK")
		})
		HTTP(func() {
			GET("/livez")
			Response(StatusOK, func() {
				ContentType("text/plain")
			})
		})
	})

	Method("get-vote-tally", func() {
		Description("Get the reconciled tally of a vote")

		Security(JWTAuth)

		Payload(func() {
			BearerTokenAttribute()
			VersionAttribute()
			UIDAttribute("vote_uid", "The vote UID")
			Required("vote_uid")
		})

		Result(VoteTally)

		Error("BadRequest", BadRequestError, "Bad request")
		Error("Unauthorized", UnauthorizedError, "Unauthorized")
		Error("NotFound", NotFoundError, "Vote not found")
		Error("InternalServerError", InternalServerError, "Internal server error")
		Error("ServiceUnavailable", ServiceUnavailableError, "Service unavailable")

		HTTP(func() {
			GET("/votes/{vote_uid}/tally")
			Param("version:v")
			Param("vote_uid")
			Header("bearer_token:Authorization")
			Response(StatusOK)
			Response("BadRequest", StatusBadRequest)
			Response("Unauthorized", StatusUnauthorized)
			Response("NotFound", StatusNotFound)
			Response("InternalServerError", StatusInternalServerError)
			Response("ServiceUnavailable", StatusServiceUnavailable)
		})
	})

	Method("get-quorum", func() {
		Description("Get the quorum status of a meeting")

		Security(JWTAuth)

		Payload(func() {
			BearerTokenAttribute()
			VersionAttribute()
			UIDAttribute("meeting_uid", "The meeting UID")
			Required("meeting_uid")
		})

		Result(QuorumResult)

		Error("BadRequest", BadRequestError, "Bad request")
		Error("Unauthorized", UnauthorizedError, "Unauthorized")
		Error("NotFound", NotFoundError, "Meeting not found")
		Error("InternalServerError", InternalServerError, "Internal server error")
		Error("ServiceUnavailable", ServiceUnavailableError, "Eligible member count unavailable")

		HTTP(func() {
			GET("/meetings/{meeting_uid}/quorum")
			Param("version:v")
			Param("meeting_uid")
			Header("bearer_token:Authorization")
			Response(StatusOK)
			Response("BadRequest", StatusBadRequest)
			Response("Unauthorized", StatusUnauthorized)
			Response("NotFound", StatusNotFound)
			Response("InternalServerError", StatusInternalServerError)
			Response("ServiceUnavailable", StatusServiceUnavailable)
		})
	})

	Method("get-protocol", func() {
		Description("Get the final protocol of a meeting")

		Security(JWTAuth)

		Payload(func() {
			BearerTokenAttribute()
			VersionAttribute()
			UIDAttribute("meeting_uid", "The meeting UID")
			Required("meeting_uid")
		})

		Result(MeetingProtocol)

		Error("BadRequest", BadRequestError, "Bad request")
		Error("Unauthorized", UnauthorizedError, "Unauthorized")
		Error("Forbidden", ForbiddenError, "Forbidden")
		Error("NotFound", NotFoundError, "No final protocol for this meeting")
		Error("InternalServerError", InternalServerError, "Internal server error")
		Error("ServiceUnavailable", ServiceUnavailableError, "Service unavailable")

		HTTP(func() {
			GET("/meetings/{meeting_uid}/protocol")
			Param("version:v")
			Param("meeting_uid")
			Header("bearer_token:Authorization")
			Response(StatusOK)
			Response("BadRequest", StatusBadRequest)
			Response("Unauthorized", StatusUnauthorized)
			Response("Forbidden", StatusForbidden)
			Response("NotFound", StatusNotFound)
			Response("InternalServerError", StatusInternalServerError)
			Response("ServiceUnavailable", StatusServiceUnavailable)
		})
	})
})
