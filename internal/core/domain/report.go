package domain

import "fmt"

// Trajectory describes the direction of travel of the overall health score.
type Trajectory string

// Available trajectories.
const (
	TrajectoryImproving Trajectory = "improving"
	TrajectoryStable    Trajectory = "stable"
	TrajectoryDeclining Trajectory = "declining"
	TrajectoryUnknown   Trajectory = "unknown"
)

// IsValid returns true if the trajectory is recognised.
func (t Trajectory) IsValid() bool {
	switch t {
	case TrajectoryImproving, TrajectoryStable, TrajectoryDeclining, TrajectoryUnknown:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t Trajectory) String() string {
	return string(t)
}

// FindingType classifies a finding. The set is open: upstream scoring may
// emit additional types, which filters still match by equality.
type FindingType string

// Well-known finding types.
const (
	FindingStrength FindingType = "strength"
	FindingGap      FindingType = "gap"
	FindingRisk     FindingType = "risk"
)

// ReportContext is the normalised, already-scored business health snapshot
// for one company and run. It is produced upstream and is read-only for the
// duration of a render.
type ReportContext struct {
	// CompanyName is the subject of the assessment.
	CompanyName string `json:"companyName" yaml:"companyName"`

	// RunID identifies the assessment run that produced this snapshot.
	RunID string `json:"runId" yaml:"runId"`

	// OverallHealth is the headline score.
	OverallHealth OverallHealth `json:"overallHealth" yaml:"overallHealth"`

	Chapters        []Chapter        `json:"chapters" yaml:"chapters"`
	Dimensions      []Dimension      `json:"dimensions" yaml:"dimensions"`
	Findings        []Finding        `json:"findings" yaml:"findings"`
	Recommendations []Recommendation `json:"recommendations" yaml:"recommendations"`
	QuickWins       []QuickWin       `json:"quickWins" yaml:"quickWins"`
	Risks           []Risk           `json:"risks" yaml:"risks"`
	Roadmap         Roadmap          `json:"roadmap" yaml:"roadmap"`

	// Narratives holds already-resolved narrative text keyed by purpose
	// (e.g. "executive_summary"). The engine never generates these itself.
	Narratives []Narrative `json:"narratives,omitempty" yaml:"narratives,omitempty"`
}

// OverallHealth is the headline health score for a run.
type OverallHealth struct {
	Score      float64    `json:"score" yaml:"score"`
	Status     string     `json:"status" yaml:"status"`
	Trajectory Trajectory `json:"trajectory" yaml:"trajectory"`
	Band       string     `json:"band" yaml:"band"`
}

// Chapter groups related dimensions (e.g. "Growth Engine").
type Chapter struct {
	Code       string   `json:"code" yaml:"code"`
	Name       string   `json:"name" yaml:"name"`
	Score      *float64 `json:"score,omitempty" yaml:"score,omitempty"`
	Band       string   `json:"band,omitempty" yaml:"band,omitempty"`
	Narrative  string   `json:"narrative,omitempty" yaml:"narrative,omitempty"`
	Dimensions []string `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
}

// Dimension is a single scored area of the business.
type Dimension struct {
	Code        string   `json:"code" yaml:"code"`
	Name        string   `json:"name" yaml:"name"`
	ChapterCode string   `json:"chapterCode,omitempty" yaml:"chapterCode,omitempty"`
	Score       *float64 `json:"score,omitempty" yaml:"score,omitempty"`
	Band        string   `json:"band,omitempty" yaml:"band,omitempty"`
	Benchmark   *float64 `json:"benchmark,omitempty" yaml:"benchmark,omitempty"`
}

// Finding is an observation surfaced by scoring.
type Finding struct {
	Type          FindingType `json:"type" yaml:"type"`
	DimensionCode string      `json:"dimensionCode,omitempty" yaml:"dimensionCode,omitempty"`
	ShortLabel    string      `json:"shortLabel,omitempty" yaml:"shortLabel,omitempty"`
	Narrative     string      `json:"narrative" yaml:"narrative"`
	Score         *float64    `json:"score,omitempty" yaml:"score,omitempty"`
}

// Recommendation is a suggested action.
type Recommendation struct {
	Theme         string   `json:"theme" yaml:"theme"`
	DimensionCode string   `json:"dimensionCode,omitempty" yaml:"dimensionCode,omitempty"`
	Narrative     string   `json:"narrative" yaml:"narrative"`
	Priority      int      `json:"priority,omitempty" yaml:"priority,omitempty"`
	Horizon       string   `json:"horizon,omitempty" yaml:"horizon,omitempty"`
	Score         *float64 `json:"score,omitempty" yaml:"score,omitempty"`
}

// QuickWin is a low-effort, high-impact action.
type QuickWin struct {
	Name          string `json:"name" yaml:"name"`
	DimensionCode string `json:"dimensionCode,omitempty" yaml:"dimensionCode,omitempty"`
	Narrative     string `json:"narrative,omitempty" yaml:"narrative,omitempty"`
	Effort        string `json:"effort,omitempty" yaml:"effort,omitempty"`
	Impact        string `json:"impact,omitempty" yaml:"impact,omitempty"`
	Done          bool   `json:"done,omitempty" yaml:"done,omitempty"`
}

// Risk is a business risk with a 0-10 severity.
//
// Severity is deliberately loose: upstream data may carry a number, null,
// or a non-numeric marker. Renderers classify it and show "N/A" when it
// cannot be read as a number.
type Risk struct {
	Category          string `json:"category" yaml:"category"`
	DimensionCode     string `json:"dimensionCode,omitempty" yaml:"dimensionCode,omitempty"`
	Severity          any    `json:"severity" yaml:"severity"`
	Likelihood        any    `json:"likelihood,omitempty" yaml:"likelihood,omitempty"`
	Narrative         string `json:"narrative" yaml:"narrative"`
	MitigationSummary string `json:"mitigationSummary,omitempty" yaml:"mitigationSummary,omitempty"`
}

// Roadmap is the phased improvement plan.
type Roadmap struct {
	Phases []Phase `json:"phases" yaml:"phases"`
}

// Phase is one stage of the roadmap.
type Phase struct {
	Name           string   `json:"name" yaml:"name"`
	TimeHorizon    string   `json:"timeHorizon" yaml:"timeHorizon"`
	Narrative      string   `json:"narrative,omitempty" yaml:"narrative,omitempty"`
	KeyMilestones  []string `json:"keyMilestones,omitempty" yaml:"keyMilestones,omitempty"`
	DimensionCodes []string `json:"dimensionCodes,omitempty" yaml:"dimensionCodes,omitempty"`
}

// Narrative is a block of already-generated prose.
type Narrative struct {
	Key        string `json:"key" yaml:"key"`
	Text       string `json:"text" yaml:"text"`
	TokensUsed int    `json:"tokensUsed,omitempty" yaml:"tokensUsed,omitempty"`
	Fallback   bool   `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// Validate checks the fields every render depends on.
// Everything else is optional and degrades to "no data" at render time.
func (c *ReportContext) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: context is nil", ErrInvalidReportContext)
	}
	score := c.OverallHealth.Score
	if score < 0 || score > 100 {
		return fmt.Errorf("%w: overall score %.1f outside 0-100", ErrInvalidReportContext, score)
	}
	if c.OverallHealth.Trajectory != "" && !c.OverallHealth.Trajectory.IsValid() {
		return fmt.Errorf("%w: unknown trajectory %q", ErrInvalidReportContext, c.OverallHealth.Trajectory)
	}
	return nil
}

// NarrativeText returns the narrative for key, if present.
func (c *ReportContext) NarrativeText(key string) (string, bool) {
	for _, n := range c.Narratives {
		if n.Key == key {
			return n.Text, true
		}
	}
	return "", false
}

// WithNarrative returns a shallow copy of the context with the narrative set.
// The receiver is never mutated.
func (c *ReportContext) WithNarrative(n Narrative) *ReportContext {
	cp := *c
	cp.Narratives = make([]Narrative, 0, len(c.Narratives)+1)
	replaced := false
	for _, existing := range c.Narratives {
		if existing.Key == n.Key {
			cp.Narratives = append(cp.Narratives, n)
			replaced = true
			continue
		}
		cp.Narratives = append(cp.Narratives, existing)
	}
	if !replaced {
		cp.Narratives = append(cp.Narratives, n)
	}
	return &cp
}
