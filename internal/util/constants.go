package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

// NotApplicableRole is the target role when nothing can be resolved.
const NotApplicableRole = "N/A"

const (
	DefaultBaseSalary = 50000
	DefaultMaxSalary  = 120000
)

const (
	DefaultRoadmapDays = 30
	MinRoadmapDays     = 7
	MaxRoadmapDays     = 180
	TaskXPReward       = 15
	QuizQuestionCount  = 5
)

const (
	ContextUserKey      = "user"
	ContextConfigKey    = "config"
	ContextRequestIDKey = "request_id"
	RequestIDHeader     = "X-Request-ID"
)
