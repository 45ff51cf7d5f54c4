// Package vector 提供双模式向量存储：外部索引优先，故障时单向切换到内存索引
package vector

import (
	"context"
	"math"
	"sort"
	"sync"
)

// memoryRecord 带插入序号的记录，序号用于同分结果的稳定排序
type memoryRecord struct {
	Record
	seq uint64
}

// MemoryIndex 内存向量索引，用余弦相似度做暴力检索
type MemoryIndex struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
	nextSeq uint64
}

// NewMemoryIndex 创建内存向量索引
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		records: make(map[string]memoryRecord),
	}
}

// Upsert 写入或覆盖记录。覆盖时保留原插入序号
func (m *MemoryIndex) Upsert(_ context.Context, records []Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rec := range records {
		seq := m.nextSeq
		if existing, ok := m.records[rec.ID]; ok {
			seq = existing.seq
		} else {
			m.nextSeq++
		}
		m.records[rec.ID] = memoryRecord{Record: rec, seq: seq}
	}
	return nil
}

// Search 余弦相似度检索，按得分降序返回前 topK 条，同分按插入顺序
func (m *MemoryIndex) Search(_ context.Context, query []float32, topK int, documentID string) ([]Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	type scored struct {
		Match
		seq uint64
	}
	candidates := make([]scored, 0, len(m.records))
	for _, rec := range m.records {
		if documentID != "" && rec.DocumentID != documentID {
			continue
		}
		candidates = append(candidates, scored{
			Match: Match{Record: rec.Record, Score: cosineSimilarity(query, rec.Embedding)},
			seq:   rec.seq,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].seq < candidates[j].seq
	})

	if topK > 0 && len(candidates) > topK {
		candidates = candidates[:topK]
	}
	matches := make([]Match, len(candidates))
	for i, c := range candidates {
		matches[i] = c.Match
	}
	return matches, nil
}

// DeleteByDocument 删除文档的所有记录
func (m *MemoryIndex) DeleteByDocument(_ context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, rec := range m.records {
		if rec.DocumentID == documentID {
			delete(m.records, id)
		}
	}
	return nil
}

// Len 返回记录数
func (m *MemoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// cosineSimilarity 计算余弦相似度，零向量返回 0
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
