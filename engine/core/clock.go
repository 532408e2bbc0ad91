package core

import "time"

type Clock struct {
	startTime time.Time
	elapsed   time.Duration
	laps      []Lap
}

// Lap is the duration of one named build phase.
type Lap struct {
	Name     string
	Duration time.Duration
}

func NewClock() *Clock {
	return &Clock{}
}

// Updates the provided clock. Should be called just before checking elapsed time.
// Has no effect on non-started clocks.
func (c *Clock) Update() {
	if !c.startTime.IsZero() {
		c.elapsed = time.Since(c.startTime)
	}
}

// Starts the provided clock. Resets elapsed time and recorded laps.
func (c *Clock) Start() {
	c.startTime = time.Now()
	c.elapsed = 0
	c.laps = c.laps[:0]
}

// Stops the provided clock. Does not reset elapsed time.
func (c *Clock) Stop() {
	c.Update()
	c.startTime = time.Time{}
}

// Lap records the time spent since the previous lap (or Start) under name.
func (c *Clock) Lap(name string) time.Duration {
	if c.startTime.IsZero() {
		return 0
	}
	c.Update()
	var before time.Duration
	for _, l := range c.laps {
		before += l.Duration
	}
	d := c.elapsed - before
	c.laps = append(c.laps, Lap{Name: name, Duration: d})
	return d
}

func (c *Clock) Laps() []Lap {
	return append([]Lap(nil), c.laps...)
}

func (c *Clock) Elapsed() time.Duration {
	return c.elapsed
}
