package design

import . "goa.design/goa/v3/dsl"

// BearerTokenAttribute is a reusable token attribute for JWT authentication.
func BearerTokenAttribute() {
	Token("bearer_token", String, func() {
		Description("JWT token issued by Heimdall")
		Example("eyJhbGci...")
	})
}

// VersionAttribute is a reusable version attribute.
func VersionAttribute() {
	Attribute("version", String, "Version of the API", func() {
		Enum("1")
		Example("1")
	})
}

// UIDAttribute is a reusable resource UID attribute.
func UIDAttribute(name, description string) {
	Attribute(name, String, description, func() {
		Format(FormatUUID)
		Example("7cad5a8d-19d0-41a4-81a6-043453daf9ee")
	})
}

//
// Result types
//

// TallyCounts is the per-choice ballot counts of one channel.
var TallyCounts = Type("TallyCounts", func() {
	Attribute("for", Int, "Ballots cast in favor")
	Attribute("against", Int, "Ballots cast against")
	Attribute("abstain", Int, "Abstentions")
	Attribute("total", Int, "Total ballots")
	Required("for", "against", "abstain", "total")
})

// VoteTally is the reconciled result of a vote.
var VoteTally = Type("VoteTally", func() {
	UIDAttribute("vote_uid", "UID of the vote")
	Attribute("vote_status", String, "Vote status", func() {
		Enum("open", "closed")
	})
	Attribute("live", TallyCounts, "Ballots cast over the live channel")
	Attribute("remote", TallyCounts, "Ballots cast over the remote channel")
	Attribute("combined", TallyCounts, "Live and remote ballots combined")
	Required("vote_uid", "vote_status", "live", "remote", "combined")
})

// QuorumResult is the outcome of a quorum computation.
var QuorumResult = Type("QuorumResult", func() {
	Attribute("present_in_person", Int, "Members checked in at the venue")
	Attribute("present_written", Int, "Members represented by written proxy")
	Attribute("present_remote", Int, "Members registered for remote participation")
	Attribute("present_total", Int, "Total present members")
	Attribute("total_eligible", Int, "Eligible members of the organization")
	Attribute("required_count", Int, "Present members the quorum rule requires")
	Attribute("has_quorum", Boolean, "Whether the meeting may validly decide")
	Attribute("quorum_percentage", Float64, "Present share of the eligible membership")
	Required("present_total", "total_eligible", "required_count", "has_quorum")
})

// MeetingProtocol is a stored meeting protocol.
var MeetingProtocol = Type("MeetingProtocol", func() {
	UIDAttribute("uid", "UID of the protocol")
	UIDAttribute("meeting_uid", "UID of the meeting")
	UIDAttribute("organization_uid", "UID of the organization")
	Attribute("protocol_number", Int64, "Organization-scoped protocol number")
	Attribute("reference", String, "Human-shareable short reference code")
	Attribute("version", Int, "Protocol version")
	Attribute("status", String, "Protocol status", func() {
		Enum("draft", "final")
	})
	Attribute("finalized_at", String, "The date and time the protocol was finalized", func() {
		Format(FormatDateTime)
	})
	Attribute("document_ref", String, "Reference to the rendered document")
	Required("uid", "meeting_uid", "organization_uid", "status")
})

//
// Error types
//

// BadRequestError is the DSL type for a bad request error.
var BadRequestError = Type("BadRequestError", func() {
	Attribute("code", String, "HTTP status code", func() {
		Example("400")
	})
	Attribute("message", String, "Error message", func() {
		Example("The request was invalid.")
	})
	Required("code", "message")
})

// NotFoundError is the DSL type for a not found error.
var NotFoundError = Type("NotFoundError", func() {
	Attribute("code", String, "HTTP status code", func() {
		Example("404")
	})
	Attribute("message", String, "Error message", func() {
		Example("The resource was not found.")
	})
	Required("code", "message")
})

// UnauthorizedError is the DSL type for an unauthorized error.
var UnauthorizedError = Type("UnauthorizedError", func() {
	Attribute("code", String, "HTTP status code", func() {
		Example("401")
	})
	Attribute("message", String, "Error message", func() {
		Example("The request is unauthorized.")
	})
	Required("code", "message")
})

// ForbiddenError is the DSL type for a forbidden error.
var ForbiddenError = Type("ForbiddenError", func() {
	Attribute("code", String, "HTTP status code", func() {
		Example("403")
	})
	Attribute("message", String, "Error message", func() {
		Example("The principal may not perform this operation.")
	})
	Required("code", "message")
})

// ConflictError is the DSL type for a conflict error.
var ConflictError = Type("ConflictError", func() {
	Attribute("code", String, "HTTP status code", func() {
		Example("409")
	})
	Attribute("message", String, "Error message", func() {
		Example("The resource already exists.")
	})
	Required("code", "message")
})

// InternalServerError is the DSL type for an internal server error.
var InternalServerError = Type("InternalServerError", func() {
	Attribute("code", String, "HTTP status code", func() {
		Example("500")
	})
	Attribute("message", String, "Error message", func() {
		Example("An internal server error occurred.")
	})
	Required("code", "message")
})

// ServiceUnavailableError is the DSL type for a service unavailable error.
var ServiceUnavailableError = Type("ServiceUnavailableError", func() {
	Attribute("code", String, "HTTP status code", func() {
		Example("503")
	})
	Attribute("message", String, "Error message", func() {
		Example("The service is unavailable.")
	})
	Required("code", "message")
})
