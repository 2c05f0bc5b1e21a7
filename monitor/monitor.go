/*
monitor.go - Watches the published ACM documents for new editions

PURPOSE:
  HRD Corp republishes the ACM guide and table as PDFs at fixed URLs. The
  monitor fetches each watched document, fingerprints the body and compares
  it with the fingerprint stored on the previous check. A changed document
  or a failed fetch raises an alert so an administrator can review the new
  edition and update the rate table.

DESIGN:
  - Runs a background goroutine with a configurable check interval
  - The first check after start records a baseline and never alerts
  - First sighting of a document stores its hash without alerting
  - State is persisted per document key in monitor_state
  - Alerts are delivered through an Alerter (SMTP in production)

CONFIGURATION:
  - Interval: How often to check (default: 1 week)
  - Enabled:  Whether the scheduler is active (default: true)

USAGE:
  m := monitor.New(store, monitor.DefaultDocuments(), alerter, log)
  m.Start()
  // ... later
  m.Stop()

SEE ALSO:
  - alert.go: Alert delivery
  - api/handlers.go: Manual check endpoint
*/
package monitor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/warp/acm-engine/logging"
	"github.com/warp/acm-engine/store/sqlite"
)

// UserAgent identifies monitor fetches.
const UserAgent = "HRDCorp-ACM-Monitor/1.0"

// Document is one watched publication.
type Document struct {
	Key   string `mapstructure:"key" json:"key"`
	Label string `mapstructure:"label" json:"label"`
	URL   string `mapstructure:"url" json:"url"`
}

// DefaultDocuments returns the ACM guide and table at their published URLs.
func DefaultDocuments() []Document {
	return []Document{
		{
			Key:   "acm_guide",
			Label: "ACM Guide (Allowable Cost Matrix)",
			URL:   "https://hrdcorp.gov.my/wp-content/uploads/2025/12/Jan-2026-Version_Allowable-Cost-Matrix-2025.pdf",
		},
		{
			Key:   "acm_table",
			Label: "ACM Table (November 2025 Edition)",
			URL:   "https://hrdcorp.gov.my/wp-content/uploads/2025/11/Attachment-ACM-Table-November-2025-Edition.pdf",
		},
	}
}

// Report is the outcome of one check.
type Report struct {
	CheckedAt time.Time
	States    []sqlite.MonitorState
	Alerts    []Alert
}

// Monitor periodically checks watched documents.
type Monitor struct {
	Store     *sqlite.Store
	Documents []Document
	Alerter   Alerter
	Interval  time.Duration
	Enabled   bool

	client *retryablehttp.Client
	log    *logging.Logger
	now    func() time.Time

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
	check  sync.Mutex // one check at a time
}

// New creates a monitor with a weekly interval.
func New(store *sqlite.Store, docs []Document, alerter Alerter, log *logging.Logger) *Monitor {
	log = logging.Or(log)
	if alerter == nil {
		alerter = LogAlerter{Log: log}
	}
	return &Monitor{
		Store:     store,
		Documents: docs,
		Alerter:   alerter,
		Interval:  7 * 24 * time.Hour,
		Enabled:   true,
		client:    newClient(log),
		log:       log,
		now:       time.Now,
	}
}

func newClient(log *logging.Logger) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.HTTPClient.Timeout = 30 * time.Second
	client.HTTPClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) > 5 {
			return errors.New("too many redirects")
		}
		return nil
	}
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.Logger = leveledLogger{log}
	return client
}

// =============================================================================
// SCHEDULER
// =============================================================================

// Start runs a baseline check, then checks on every tick.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.Enabled {
		m.log.Info("[Monitor] Disabled, not starting")
		return
	}
	if m.ticker != nil {
		return
	}

	m.ticker = time.NewTicker(m.Interval)
	m.stop = make(chan struct{})
	m.wg.Add(1)

	go m.run(m.ticker, m.stop)

	m.log.Infof("[Monitor] Started with check interval: %v", m.Interval)
}

// Stop stops the scheduler and waits for an in-flight check.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ticker != nil {
		m.ticker.Stop()
		close(m.stop)
		m.wg.Wait()
		m.ticker = nil
		m.log.Info("[Monitor] Stopped")
	}
}

func (m *Monitor) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer m.wg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-stop
		cancel()
	}()

	m.log.Info("[Monitor] Startup baseline check (no alerts sent)")
	if _, err := m.Check(ctx, true); err != nil {
		m.log.Errorf("[Monitor] Startup check: %v", err)
	}

	for {
		select {
		case <-ticker.C:
			if _, err := m.Check(ctx, false); err != nil {
				m.log.Errorf("[Monitor] Check: %v", err)
			}
		case <-stop:
			return
		}
	}
}

// NextRunTime returns when the next scheduled check will occur.
func (m *Monitor) NextRunTime() time.Time {
	return m.now().Add(m.Interval)
}

// =============================================================================
// CHECK
// =============================================================================

// Check fetches every watched document once and persists what it saw.
// A baseline check records hashes and never alerts. The returned error
// covers storage only; fetch failures are reported in the states and, when
// not a baseline, as alerts.
func (m *Monitor) Check(ctx context.Context, baseline bool) (*Report, error) {
	m.check.Lock()
	defer m.check.Unlock()

	report := &Report{CheckedAt: m.now().UTC()}
	for _, doc := range m.Documents {
		prev, err := m.Store.GetMonitorState(ctx, doc.Key)
		if err != nil {
			return nil, fmt.Errorf("load state %s: %w", doc.Key, err)
		}

		st, alert := m.checkOne(ctx, doc, prev, report.CheckedAt)
		if alert != nil && !baseline {
			report.Alerts = append(report.Alerts, *alert)
		}
		if err := m.Store.SaveMonitorState(ctx, st); err != nil {
			return nil, fmt.Errorf("save state %s: %w", doc.Key, err)
		}
		report.States = append(report.States, st)
	}

	if len(report.Alerts) > 0 {
		if err := m.Alerter.Send(ctx, report.Alerts); err != nil {
			m.log.Errorf("[Monitor] Alert delivery failed: %v", err)
		}
	}
	m.log.Infof("[Monitor] Check complete: %d document(s), %d alert(s)", len(report.States), len(report.Alerts))
	return report, nil
}

func (m *Monitor) checkOne(ctx context.Context, doc Document, prev *sqlite.MonitorState, now time.Time) (sqlite.MonitorState, *Alert) {
	st := sqlite.MonitorState{Key: doc.Key, URL: doc.URL, LastChecked: &now}
	if prev != nil {
		st.Hash = prev.Hash
		st.LastChanged = prev.LastChanged
	}

	hash, err := m.fetchHash(ctx, doc.URL)
	if err != nil {
		m.log.Warnf("[Monitor] %s: fetch failed: %v", doc.Key, err)
		st.LastError = err.Error()
		return st, &Alert{Document: doc, Err: err.Error()}
	}

	switch {
	case st.Hash == "":
		m.log.Infof("[Monitor] %s: first check, hash stored", doc.Key)
		st.Hash = hash
		return st, nil
	case st.Hash != hash:
		m.log.Infof("[Monitor] %s: changed", doc.Key)
		st.Hash = hash
		st.LastChanged = &now
		return st, &Alert{Document: doc, Changed: true}
	}
	return st, nil
}

func (m *Monitor) fetchHash(ctx context.Context, url string) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := m.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	h := sha256.New()
	if _, err := io.Copy(h, resp.Body); err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// leveledLogger routes retryablehttp logs through zap.
type leveledLogger struct {
	l *logging.Logger
}

func (l leveledLogger) Error(msg string, kv ...any) { l.l.Errorw("[Monitor] "+msg, kv...) }
func (l leveledLogger) Info(msg string, kv ...any)  { l.l.Debugw("[Monitor] "+msg, kv...) }
func (l leveledLogger) Debug(msg string, kv ...any) { l.l.Debugw("[Monitor] "+msg, kv...) }
func (l leveledLogger) Warn(msg string, kv ...any)  { l.l.Warnw("[Monitor] "+msg, kv...) }
