package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Check pings one dependency.
type Check struct {
	Name    string
	Timeout time.Duration
	Ping    func(ctx context.Context) error
}

func PostgresCheck(pool *pgxpool.Pool) Check {
	return Check{Name: "postgres", Timeout: 3 * time.Second, Ping: func(ctx context.Context) error {
		return pool.Ping(ctx)
	}}
}

func SQLiteCheck(db *gorm.DB) Check {
	return Check{Name: "sqlite", Timeout: time.Second, Ping: func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}}
}

func RedisCheck(client *redislib.Client) Check {
	return Check{Name: "redis", Timeout: 2 * time.Second, Ping: func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}}
}

// Monitor periodically pings the remote store and redis.
type Monitor struct {
	store Check
	redis Check

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

func New(store, redis Check, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		store:    store,
		redis:    redis,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Store && m.status.Redis
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Refresh()
	for {
		select {
		case <-ticker.C:
			m.Refresh()
		case <-m.stopCh:
			return
		}
	}
}

// Refresh pings every dependency now.
func (m *Monitor) Refresh() Status {
	storeOK := m.healthy(m.store)
	redisOK := m.healthy(m.redis)
	status := Status{
		Store:       storeOK,
		StoreDriver: m.store.Name,
		Redis:       redisOK,
		Checks:      map[string]bool{},
		LastCheck:   time.Now(),
	}
	if m.store.Name != "" {
		status.Checks[m.store.Name] = storeOK
	}
	if m.redis.Name != "" {
		status.Checks[m.redis.Name] = redisOK
	}

	m.mu.Lock()
	prev := m.status
	m.status = status
	m.mu.Unlock()

	if !prev.LastCheck.IsZero() && (prev.Store != storeOK || prev.Redis != redisOK) {
		m.logger.Warn("dependency status changed",
			zap.Bool("store", storeOK),
			zap.Bool("redis", redisOK))
	}
	return status
}

func (m *Monitor) healthy(c Check) bool {
	if c.Ping == nil {
		return false
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		m.logger.Debug("dependency check failed", zap.String("dependency", c.Name), zap.Error(err))
		return false
	}
	return true
}
