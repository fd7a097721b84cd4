package metrics

import (
	"time"
)

type SearchMetric struct {
	Rounds      int // Completed rounds
	Budget      int // Configured rounds
	Nodes       int // Nodes created, root included
	MaxDepth    int
	Duration    time.Duration
	Interrupted bool // Deadline reached before the budget
}

type MoveMetric struct {
	Step   int
	Player string
	SearchMetric
}

type GameMetric struct {
	StartingPlayer string
	Winner         string
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

// Collector gathers statistics of a single search. Searches are sequential,
// so implementations need no synchronization.
type Collector interface {
	Start(budget int)
	AddRound(depth int)
	AddNodes(count int)
	Interrupt()
	Complete() SearchMetric
}

type collector struct {
	startTime time.Time
	metric    SearchMetric
}

func NewCollector() Collector {
	return &collector{}
}

func (c *collector) Start(budget int) {
	c.startTime = time.Now()
	c.metric = SearchMetric{Budget: budget, Nodes: 1}
}

func (c *collector) AddRound(depth int) {
	c.metric.Rounds++
	c.metric.MaxDepth = max(c.metric.MaxDepth, depth)
}

func (c *collector) AddNodes(count int) {
	c.metric.Nodes += count
}

func (c *collector) Interrupt() {
	c.metric.Interrupted = true
}

func (c *collector) Complete() SearchMetric {
	c.metric.Duration = time.Since(c.startTime)
	return c.metric
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (c *dummyCollector) Start(budget int)       {}
func (c *dummyCollector) AddRound(depth int)     {}
func (c *dummyCollector) AddNodes(count int)     {}
func (c *dummyCollector) Interrupt()             {}
func (c *dummyCollector) Complete() SearchMetric { return SearchMetric{} }
