package admin

import (
	"sync"
	"time"

	"journal-app/internal/domain/journal"
	"journal-app/internal/domain/users"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	reportTTL     = 5 * time.Minute
	recentLogRows = 10
)

type LogEntry struct {
	Time   string `json:"time"`
	User   string `json:"user"`
	Action string `json:"action"`
	Status string `json:"status"` // Success | Loss
}

type Snapshot struct {
	TotalUsers    int64      `json:"totalUsers"`
	TotalJournals int64      `json:"totalJournals"`
	ActiveToday   int64      `json:"activeToday"`
	Logs          []LogEntry `json:"logs"`
	Cached        bool       `json:"cached"`
	LastUpdated   string     `json:"lastUpdated"`
}

// ReportCache memoizes the platform report for a fixed TTL. One
// instance is constructed at startup and injected into the handler.
// Concurrent misses are coalesced into a single recomputation; all
// waiters receive the same snapshot. Writes elsewhere never invalidate
// it; staleness up to the TTL is accepted.
type ReportCache struct {
	DB  *gorm.DB
	TTL time.Duration
	Now func() time.Time

	mu         sync.Mutex
	group      singleflight.Group
	snapshot   *Snapshot
	computedAt time.Time
}

func NewReportCache(db *gorm.DB) *ReportCache {
	return &ReportCache{DB: db, TTL: reportTTL, Now: time.Now}
}

func (rc *ReportCache) clock() time.Time {
	if rc.Now != nil {
		return rc.Now()
	}
	return time.Now()
}

func (rc *ReportCache) Get() (Snapshot, error) {
	now := rc.clock()

	rc.mu.Lock()
	if rc.snapshot != nil && now.Sub(rc.computedAt) < rc.TTL {
		snap := *rc.snapshot
		rc.mu.Unlock()
		snap.Cached = true
		return snap, nil
	}
	rc.mu.Unlock()

	v, err, _ := rc.group.Do("report", func() (interface{}, error) {
		snap, err := rc.compute(now)
		if err != nil {
			return nil, err
		}
		rc.mu.Lock()
		rc.snapshot = &snap
		rc.computedAt = rc.clock()
		rc.mu.Unlock()
		return snap, nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return v.(Snapshot), nil
}

func (rc *ReportCache) Invalidate() {
	rc.mu.Lock()
	rc.snapshot = nil
	rc.mu.Unlock()
}

func (rc *ReportCache) compute(now time.Time) (Snapshot, error) {
	var snap Snapshot

	if err := rc.DB.Model(&users.User{}).Count(&snap.TotalUsers).Error; err != nil {
		return Snapshot{}, err
	}
	if err := rc.DB.Model(&journal.Journal{}).Count(&snap.TotalJournals).Error; err != nil {
		return Snapshot{}, err
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := rc.DB.Model(&journal.Trade{}).
		Where("created_at >= ?", startOfDay).
		Distinct("user_id").
		Count(&snap.ActiveToday).Error; err != nil {
		return Snapshot{}, err
	}

	var entries []journal.ActivityLog
	if err := rc.DB.Order("created_at DESC").Limit(recentLogRows).Find(&entries).Error; err != nil {
		return Snapshot{}, err
	}

	snap.Logs = make([]LogEntry, 0, len(entries))
	for _, e := range entries {
		snap.Logs = append(snap.Logs, LogEntry{
			Time:   e.CreatedAt.Format("2006-01-02 15:04"),
			User:   e.UserEmail,
			Action: e.Action,
			Status: e.Status,
		})
	}

	snap.Cached = false
	snap.LastUpdated = now.Format("2006-01-02 15:04:05")
	return snap, nil
}
