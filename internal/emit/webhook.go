package emit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"
)

const userAgent = "demo-data/1.0"

// Sender delivers rendered events to a webhook endpoint, one POST per event.
// Each payload is the event object itself at the top level, never wrapped in
// an array or an "events" key, so rule engines can address fields at
// event/<field> paths. Each event gets exactly one attempt.
type Sender struct {
	url     string
	client  *http.Client
	delay   time.Duration
	workers int
}

// NewSender creates a sender for url with a per-request timeout.
func NewSender(url string, timeout time.Duration) *Sender {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Sender{
		url:     url,
		client:  &http.Client{Timeout: timeout},
		workers: 1,
	}
}

// WithDelay returns a copy that pauses between sequential sends.
func (s *Sender) WithDelay(d time.Duration) *Sender {
	s2 := *s
	s2.delay = d
	return &s2
}

// WithWorkers returns a copy that sends with up to n concurrent workers.
// Values above 1 disable the inter-send delay.
func (s *Sender) WithWorkers(n int) *Sender {
	s2 := *s
	if n > 0 {
		s2.workers = n
	}
	return &s2
}

// Send attempts delivery of every event and reports a summary. One event's
// failure never aborts the rest.
func (s *Sender) Send(ctx context.Context, events []map[string]any) Summary {
	sum := Summary{RunID: uuid.NewString(), Total: len(events)}
	if len(events) == 0 {
		return sum
	}
	slog.Info("sending events", "count", len(events), "url", s.url, "run_id", sum.RunID)
	if s.workers > 1 {
		s.sendConcurrent(ctx, events, &sum)
	} else {
		s.sendSequential(ctx, events, &sum)
	}
	slog.Info("delivery complete", "sent", sum.Sent, "failed", sum.Failed, "run_id", sum.RunID)
	return sum
}

func (s *Sender) sendSequential(ctx context.Context, events []map[string]any, sum *Summary) {
	for i, ev := range events {
		if err := s.post(ctx, ev); err != nil {
			recordFailure(sum, i, err)
		} else {
			sum.Sent++
			if (i+1)%10 == 0 || i+1 == len(events) {
				slog.Info("send progress", "done", i+1, "total", len(events))
			}
		}
		if s.delay > 0 && i+1 < len(events) {
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.delay):
			}
		}
	}
}

func (s *Sender) sendConcurrent(ctx context.Context, events []map[string]any, sum *Summary) {
	// bounded concurrency
	sem := make(chan struct{}, s.workers)
	type result struct {
		idx int
		err error
	}
	done := make(chan result, len(events))
	for i, ev := range events {
		i, ev := i, ev
		sem <- struct{}{}
		go func() {
			defer func() { <-sem }()
			done <- result{idx: i, err: s.post(ctx, ev)}
		}()
	}
	for range events {
		r := <-done
		if r.err != nil {
			recordFailure(sum, r.idx, r.err)
		} else {
			sum.Sent++
		}
	}
	sort.Slice(sum.Failures, func(a, b int) bool {
		return sum.Failures[a].Index < sum.Failures[b].Index
	})
}

func recordFailure(sum *Summary, idx int, err error) {
	sum.Failed++
	sum.Failures = append(sum.Failures, SendFailure{
		Index:  idx,
		Reason: fmt.Sprintf("event %d: %v", idx, err),
	})
	slog.Warn("event send failed", "index", idx, "err", err)
}

func (s *Sender) post(ctx context.Context, event map[string]any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}
