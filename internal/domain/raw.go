package domain

// Raw Bamboo-flavoured payload shapes. These mirror the data provider's wire
// format and are validated at the ingestion boundary (normalizer, log
// lookup); downstream code only sees the canonical types.

// Link is a Bamboo hypermedia reference.
type Link struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

// KeyRef is a nested key object such as planKey: {key: "PROJ-PLAN1"}.
type KeyRef struct {
	Key string `json:"key"`
}

// Counted carries the pagination header Bamboo attaches to collections.
type Counted struct {
	Size       int `json:"size"`
	StartIndex int `json:"start-index"`
	MaxResult  int `json:"max-result"`
}

// PlanRecord is one raw plan entry from the listing payload.
type PlanRecord struct {
	ShortName                 string  `json:"shortName"`
	ShortKey                  string  `json:"shortKey"`
	Type                      string  `json:"type"`
	Enabled                   bool    `json:"enabled"`
	Link                      Link    `json:"link"`
	Key                       string  `json:"key"`
	Name                      string  `json:"name"`
	PlanKey                   KeyRef  `json:"planKey"`
	ProjectKey                string  `json:"projectKey"`
	ProjectName               string  `json:"projectName"`
	Description               string  `json:"description"`
	IsActive                  bool    `json:"isActive"`
	IsBuilding                bool    `json:"isBuilding"`
	AverageBuildTimeInSeconds int     `json:"averageBuildTimeInSeconds"`
	Actions                   Counted `json:"actions"`
	Stages                    Counted `json:"stages"`
	Branches                  Counted `json:"branches"`
	VariableContext           Counted `json:"variableContext"`
}

// PlanCollection is the paginated plan list inside a listing payload.
type PlanCollection struct {
	Counted
	Plan []PlanRecord `json:"plan"`
}

// PlanListing is the raw plan listing payload.
type PlanListing struct {
	Plans  PlanCollection `json:"plans"`
	Expand string         `json:"expand"`
	Link   Link           `json:"link"`
}

// PlanRef is the compact plan reference embedded in a build result.
type PlanRef struct {
	ShortName string `json:"shortName"`
	ShortKey  string `json:"shortKey"`
	Type      string `json:"type"`
	Enabled   bool   `json:"enabled"`
	Link      Link   `json:"link"`
	Key       string `json:"key"`
	Name      string `json:"name"`
}

// BuildResult is one raw build result entry for a plan.
type BuildResult struct {
	Expand                   string  `json:"expand"`
	Link                     Link    `json:"link"`
	Plan                     PlanRef `json:"plan"`
	PlanName                 string  `json:"planName"`
	ProjectName              string  `json:"projectName"`
	BuildResultKey           string  `json:"buildResultKey"`
	LifeCycleState           string  `json:"lifeCycleState"`
	ID                       int     `json:"id"`
	BuildNumber              int     `json:"buildNumber"`
	State                    string  `json:"state"`
	BuildState               string  `json:"buildState"`
	Number                   int     `json:"number"`
	BuildRelativeTime        string  `json:"buildRelativeTime"`
	BuildTestSummary         string  `json:"buildTestSummary"`
	SuccessfulTestCount      int     `json:"successfulTestCount"`
	FailedTestCount          int     `json:"failedTestCount"`
	QuarantinedTestCount     int     `json:"quarantinedTestCount"`
	SkippedTestCount         int     `json:"skippedTestCount"`
	Continuable              bool    `json:"continuable"`
	OnceOff                  bool    `json:"onceOff"`
	Restartable              bool    `json:"restartable"`
	NotRunYet                bool    `json:"notRunYet"`
	Finished                 bool    `json:"finished"`
	Successful               bool    `json:"successful"`
	BuildReason              string  `json:"buildReason"`
	ReasonSummary            string  `json:"reasonSummary"`
	BuildDurationInSeconds   int     `json:"buildDurationInSeconds"`
	BuildDuration            int     `json:"buildDuration"`
	BuildDurationDescription string  `json:"buildDurationDescription"`
	VCSRevisionKey           string  `json:"vcsRevisionKey"`
	Key                      string  `json:"key"`
}

// ResultCollection is the paginated result list for one plan.
type ResultCollection struct {
	Counted
	Result []BuildResult `json:"result"`
}

// ResultListing is the raw build results payload for one plan.
type ResultListing struct {
	Results ResultCollection `json:"results"`
}
