package model

// HeatmapWeeks x HeatmapDays cells cover the contribution window.
const (
	HeatmapWeeks = 52
	HeatmapDays  = 7
)

// Heatmap is 52 weeks of 7 day counters, oldest first.
type Heatmap [HeatmapWeeks][HeatmapDays]int

// Total sums every cell.
func (h *Heatmap) Total() int {
	total := 0
	for _, week := range h {
		for _, c := range week {
			total += c
		}
	}
	return total
}

type SkillCompetency struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// swagger:model JobListing
type JobListing struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	URL      string `json:"url"`
	Salary   string `json:"salary,omitempty"`
}

type JobMarketSource string

const (
	JobSourceLive     JobMarketSource = "live"
	JobSourceCache    JobMarketSource = "cache"
	JobSourceFallback JobMarketSource = "fallback"
	JobSourceNone     JobMarketSource = "none"
)

type JobMarketSummary struct {
	TotalJobs int             `json:"totalJobs"`
	Jobs      []JobListing    `json:"jobs"`
	Source    JobMarketSource `json:"source"`
}

// swagger:model OverviewResult
type OverviewResult struct {
	MarketValue              int               `json:"marketValue"`
	MarketValueChange        int               `json:"marketValueChange"`
	SkillPercentile          int               `json:"skillPercentile"`
	SkillPercentileChange    int               `json:"skillPercentileChange"`
	InterviewReadiness       int               `json:"interviewReadiness"`
	InterviewReadinessChange int               `json:"interviewReadinessChange"`
	ProbabilityOfSuccess     int               `json:"probabilityOfSuccess"`
	ContributionLog          int               `json:"contributionLog"`
	Heatmap                  Heatmap           `json:"heatmap"`
	XPSeries                 []int             `json:"xpSeries"`
	Competencies             []SkillCompetency `json:"competencies"`
	TargetRole               string            `json:"targetRole"`
	EstimatedBreakthrough    string            `json:"estimatedBreakthrough"`
	ContributionDates        []string          `json:"contributionDates"`
	JobMarket                JobMarketSummary  `json:"jobMarket"`
}
