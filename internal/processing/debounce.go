package processing

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const DefaultHealthSummaryDebounce = 5 * time.Second

// Debouncer runs an action once its key stayed quiet for the delay.
// Each key has its own timer: a new trigger restarts the wait of that key only.
type Debouncer struct {
	clock clockwork.Clock
	delay time.Duration

	mu     sync.Mutex
	timers map[string]clockwork.Timer
}

func NewDebouncer(clock clockwork.Clock, delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultHealthSummaryDebounce
	}

	return &Debouncer{
		clock:  clock,
		delay:  delay,
		timers: map[string]clockwork.Timer{},
	}
}

func (d *Debouncer) Trigger(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if timer, ok := d.timers[key]; ok {
		timer.Stop()
	}

	var timer clockwork.Timer

	timer = d.clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		current, ok := d.timers[key]
		if ok && current == timer {
			delete(d.timers, key)
		}
		d.mu.Unlock()

		fn()
	})

	d.timers[key] = timer
}

// Pending returns the number of keys waiting to fire.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.timers)
}

// Stop cancels every pending action.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for key, timer := range d.timers {
		timer.Stop()
		delete(d.timers, key)
	}
}
