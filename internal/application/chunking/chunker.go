// Package chunking 提供文档切分策略实现
package chunking

import (
	"fmt"
	"strings"

	"rag-interview-api/internal/domain/entity"
)

const (
	// fixedChunkSize 固定切分的目标片段长度（字符数）
	fixedChunkSize = 1000
	// fixedOverlap 相邻片段的重叠长度
	fixedOverlap = 200
	// semanticMaxChunkSize 语义切分的片段长度上限
	semanticMaxChunkSize = 1500
)

// Piece 切分产出的一个片段
type Piece struct {
	Text  string
	Start int
	End   int
}

// Chunk 按策略切分文本
func Chunk(text string, strategy entity.ChunkStrategy) ([]Piece, error) {
	switch strategy {
	case entity.ChunkStrategyFixedSize:
		return fixedSizeChunking(text, fixedChunkSize, fixedOverlap), nil
	case entity.ChunkStrategySemantic:
		return semanticChunking(text), nil
	default:
		return nil, fmt.Errorf("unknown chunking strategy: %s", strategy)
	}
}

// fixedSizeChunking 固定大小切分。
//
// 片段边界尽量吸附到句号：若窗口内最后一个句号落在片段中点之后，
// 则在句号处截断。下一个起点按 chunk_size-overlap 前进，但不会
// 早于当前片段终点。
func fixedSizeChunking(text string, chunkSize, overlap int) []Piece {
	runes := []rune(text)
	var pieces []Piece
	start := 0

	for start < len(runes) {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}

		if end < len(runes) {
			lastPeriod := lastIndexOfRune(runes, '.', start, end)
			if lastPeriod != -1 && lastPeriod > start+chunkSize/2 {
				end = lastPeriod + 1
			}
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			pieces = append(pieces, Piece{Text: chunk, Start: start, End: end})
		}

		next := start + chunkSize - overlap
		if next < end {
			next = end
		}
		start = next
	}

	return pieces
}

// semanticChunking 语义切分：按空行分段累积，超过上限时另起片段。
// 文本没有可用段落时退回固定大小切分。
func semanticChunking(text string) []Piece {
	paragraphs := strings.Split(text, "\n\n")
	var pieces []Piece
	var current strings.Builder
	offset := 0
	pieceStart := 0

	flush := func(end int) {
		chunk := strings.TrimSpace(current.String())
		if chunk != "" {
			pieces = append(pieces, Piece{Text: chunk, Start: pieceStart, End: end})
		}
		current.Reset()
	}

	for _, raw := range paragraphs {
		paraLen := len([]rune(raw))
		paragraph := strings.TrimSpace(raw)
		if paragraph == "" {
			offset += paraLen + 2
			continue
		}

		if current.Len() == 0 {
			pieceStart = offset
		}

		if len([]rune(current.String()))+len([]rune(paragraph)) < semanticMaxChunkSize {
			current.WriteString(paragraph)
			current.WriteString("\n\n")
		} else {
			flush(offset)
			pieceStart = offset
			current.WriteString(paragraph)
			current.WriteString("\n\n")
		}
		offset += paraLen + 2
	}
	flush(offset)

	if len(pieces) == 0 {
		return fixedSizeChunking(text, fixedChunkSize, fixedOverlap)
	}
	return pieces
}

// lastIndexOfRune 在 runes[start:end) 中查找 r 的最后出现位置
func lastIndexOfRune(runes []rune, r rune, start, end int) int {
	for i := end - 1; i >= start; i-- {
		if runes[i] == r {
			return i
		}
	}
	return -1
}
