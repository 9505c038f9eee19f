package cmd

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// progressPrinter redraws a single status line while a batch runs.
type progressPrinter struct {
	out     io.Writer
	total   int
	label   string
	refresh time.Duration

	mu      sync.Mutex
	ok      int
	fail    int
	elapsed time.Duration

	updates  chan struct{}
	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

func newProgressPrinter(out io.Writer, total int, label string) *progressPrinter {
	if total <= 0 {
		total = 1
	}
	return &progressPrinter{
		out:     out,
		total:   total,
		label:   label,
		refresh: 300 * time.Millisecond,
		updates: make(chan struct{}, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

func (p *progressPrinter) Start() {
	go p.loop()
}

// Record counts one finished target. Safe for concurrent use.
func (p *progressPrinter) Record(target string, err error, elapsed time.Duration) {
	p.mu.Lock()
	if err == nil {
		p.ok++
	} else {
		p.fail++
	}
	p.elapsed += elapsed
	p.mu.Unlock()

	select {
	case p.updates <- struct{}{}:
	default:
	}
}

// Stop ends the redraw loop and prints the final line.
func (p *progressPrinter) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)
		<-p.stopped
		fmt.Fprintf(p.out, "\r%s\r%s\n", strings.Repeat(" ", 80), p.line())
	})
}

func (p *progressPrinter) loop() {
	defer close(p.stopped)
	ticker := time.NewTicker(p.refresh)
	defer ticker.Stop()

	for {
		select {
		case <-p.updates:
			fmt.Fprintf(p.out, "\r%s", p.line())
		case <-ticker.C:
			fmt.Fprintf(p.out, "\r%s", p.line())
		case <-p.done:
			return
		}
	}
}

func (p *progressPrinter) line() string {
	p.mu.Lock()
	ok, fail, elapsed := p.ok, p.fail, p.elapsed
	p.mu.Unlock()

	completed := ok + fail
	total := p.total
	if completed > total {
		total = completed
	}

	percent := float64(completed) / float64(total) * 100
	avg := 0.0
	if completed > 0 {
		avg = elapsed.Seconds() / float64(completed)
	}
	return fmt.Sprintf("[%s] Progress: %d/%d (%.1f%%) OK:%d Fail:%d Avg:%.2fs",
		p.label, completed, total, percent, ok, fail, avg)
}
