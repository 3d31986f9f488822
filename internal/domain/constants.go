package domain

const (
	RoleAdmin = "ADMIN"
	RoleOwner = "OWNER"
)

const (
	BusinessStatusApproved = "approved"
	BusinessStatusPending  = "pending"
	BusinessStatusRejected = "rejected"
)

const (
	FieldTypeRating  = "rating"
	FieldTypeComment = "comment"
)

// Rating routing thresholds. A business may override these per tenant;
// zero values on the business fall back to the defaults below.
const (
	// DefaultRedirectMinRating is the lowest primary rating that sends the
	// customer to the public review link instead of the internal dashboard.
	DefaultRedirectMinRating = 4
	// DefaultMinSubstantialComment is the trimmed comment length at which a
	// high rating is persisted anyway instead of redirected.
	DefaultMinSubstantialComment = 10
)

// Rating bounds for a star rating answer.
const (
	RatingMin = 1
	RatingMax = 5
)
