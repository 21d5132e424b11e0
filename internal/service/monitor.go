package service

import (
	"sync"
	"time"
)

// Monitor 监控服务,用于统计错误和处理量
type Monitor struct {
	mu sync.RWMutex

	// 错误统计
	DecodeErrors int64
	LookupErrors int64
	DBErrors     int64
	IngestFailed int64

	// 处理量统计
	AnalyticsRequests int64
	IngestProcessed   int64

	// 时间统计
	LastDecodeError time.Time
	LastLookupError time.Time
	LastDBError     time.Time
	LastIngestTime  time.Time
}

var globalMonitor = &Monitor{}

// GetMonitor 获取全局监控实例
func GetMonitor() *Monitor {
	return globalMonitor
}

// RecordDecodeError 记录明细解析错误
func (m *Monitor) RecordDecodeError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DecodeErrors++
	m.LastDecodeError = time.Now()
}

// RecordLookupError 记录商品目录查询错误
func (m *Monitor) RecordLookupError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LookupErrors++
	m.LastLookupError = time.Now()
}

// RecordDBError 记录数据库错误
func (m *Monitor) RecordDBError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DBErrors++
	m.LastDBError = time.Now()
}

// RecordAnalyticsRequest 记录一次统计请求
func (m *Monitor) RecordAnalyticsRequest() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AnalyticsRequests++
}

// RecordIngestProcessed 记录一条入库成功的订单消息
func (m *Monitor) RecordIngestProcessed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.IngestProcessed++
	m.LastIngestTime = time.Now()
}

// RecordIngestFailed 记录一条入库失败的订单消息
func (m *Monitor) RecordIngestFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.IngestFailed++
	m.LastIngestTime = time.Now()
}

// MonitorStats 监控统计值的一次快照
type MonitorStats struct {
	DecodeErrors int64 `json:"decode_errors"`
	LookupErrors int64 `json:"lookup_errors"`
	DBErrors     int64 `json:"db_errors"`
	IngestFailed int64 `json:"ingest_failed"`

	AnalyticsRequests int64 `json:"analytics_requests"`
	IngestProcessed   int64 `json:"ingest_processed"`

	LastDecodeError time.Time `json:"last_decode_error"`
	LastLookupError time.Time `json:"last_lookup_error"`
	LastDBError     time.Time `json:"last_db_error"`
	LastIngestTime  time.Time `json:"last_ingest_time"`
}

// Snapshot 返回当前统计值的拷贝
func (m *Monitor) Snapshot() MonitorStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return MonitorStats{
		DecodeErrors:      m.DecodeErrors,
		LookupErrors:      m.LookupErrors,
		DBErrors:          m.DBErrors,
		IngestFailed:      m.IngestFailed,
		AnalyticsRequests: m.AnalyticsRequests,
		IngestProcessed:   m.IngestProcessed,
		LastDecodeError:   m.LastDecodeError,
		LastLookupError:   m.LastLookupError,
		LastDBError:       m.LastDBError,
		LastIngestTime:    m.LastIngestTime,
	}
}
