package report

import (
	"encoding/json"
	"time"
)

// Row описывает одну ячейку развёртки: метод, число воркеров, число бит хэша
// и средняя пропускная способность в миллионах записей в секунду.
type Row struct {
	RunID       string    `json:"run_id"`
	Method      string    `json:"method"`
	WorkerCount int       `json:"worker_count"`
	HashBits    int       `json:"hash_bits"`
	Throughput  float64   `json:"throughput_mtps"`
	Runs        int       `json:"runs"`
	Dropped     int       `json:"dropped,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

func (r Row) Bytes() ([]byte, error) {
	return json.Marshal(r)
}
