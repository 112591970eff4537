package enums

type ProjectionDLQReason string

const (
	ProjectionDLQReasonMaxAttempts  ProjectionDLQReason = "max_attempts"
	ProjectionDLQReasonNonRetryable ProjectionDLQReason = "non_retryable"
)

var validProjectionDLQReasons = []ProjectionDLQReason{
	ProjectionDLQReasonMaxAttempts,
	ProjectionDLQReasonNonRetryable,
}

func (r ProjectionDLQReason) IsValid() bool {
	for _, candidate := range validProjectionDLQReasons {
		if candidate == r {
			return true
		}
	}
	return false
}
