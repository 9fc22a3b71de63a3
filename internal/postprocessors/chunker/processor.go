// Package chunker provides the text chunking processor.
package chunker

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// DefaultMinChunkSize is the default minimum chunk length; shorter chunks
// are folded into their successor.
const DefaultMinChunkSize = 100

// paragraphSeparator matches blank-line runs between paragraphs.
var paragraphSeparator = regexp.MustCompile(`\n[ \t]*\n[ \t\n]*`)

// Processor splits document content into chunks.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize         int
	overlap           int
	minSize           int
	respectBoundaries bool
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the target chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithMinSize sets the minimum chunk length for the merge pass.
func WithMinSize(minSize int) Option {
	return func(p *Processor) {
		if minSize >= 0 {
			p.minSize = minSize
		}
	}
}

// WithBoundaries toggles boundary-respecting chunking. When disabled, a
// fixed window slides across the body instead.
func WithBoundaries(respect bool) Option {
	return func(p *Processor) {
		p.respectBoundaries = respect
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize:         DefaultChunkSize,
		overlap:           DefaultChunkOverlap,
		minSize:           DefaultMinChunkSize,
		respectBoundaries: true,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Overlap must stay below chunk size for forward progress
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// piece is a chunk under construction: trimmed content plus the character
// span it covers in the original body.
type piece struct {
	content    string
	start, end int
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	body := doc.Content
	if body == "" {
		// Empty content produces no chunks
		return nil, nil
	}

	var pieces []piece
	switch {
	case len(body) <= p.chunkSize:
		pieces = []piece{{content: strings.TrimSpace(body), start: 0, end: len(body)}}
	case p.respectBoundaries:
		pieces = p.boundaryPieces(body)
	default:
		pieces = p.windowPieces(body)
	}

	pieces = p.mergeSmall(pieces)

	chunks := make([]domain.Chunk, 0, len(pieces))
	for i, pc := range pieces {
		chunks = append(chunks, domain.Chunk{
			ID:          uuid.New().String(),
			DocumentID:  doc.ID,
			Index:       i,
			Content:     pc.content,
			StartOffset: pc.start,
			EndOffset:   pc.end,
			Promotion:   doc.Promotion,
		})
	}
	return chunks, nil
}

// boundaryPieces accumulates paragraphs into chunks, closing a chunk
// before a paragraph would push it over the target size and seeding the
// next chunk with an overlap tail from the closed one.
func (p *Processor) boundaryPieces(body string) []piece {
	paras := paragraphs(body)
	if len(paras) == 0 {
		return []piece{{content: strings.TrimSpace(body), start: 0, end: len(body)}}
	}

	var pieces []piece
	curStart, curEnd := -1, -1

	for _, para := range paras {
		if curStart < 0 {
			curStart, curEnd = para.start, para.end
			continue
		}
		if para.end-curStart > p.chunkSize {
			pieces = append(pieces, makePiece(body, curStart, curEnd))
			curStart = p.overlapStart(body, curStart, curEnd)
			curEnd = para.end
			continue
		}
		curEnd = para.end
	}
	if curStart >= 0 {
		pieces = append(pieces, makePiece(body, curStart, curEnd))
	}
	return pieces
}

// windowPieces slides a fixed window across the body, advancing by
// chunkSize-overlap characters each step.
func (p *Processor) windowPieces(body string) []piece {
	step := p.chunkSize - p.overlap

	var pieces []piece
	for start := 0; start < len(body); start += step {
		end := start + p.chunkSize
		if end > len(body) {
			end = len(body)
		}
		pieces = append(pieces, makePiece(body, start, end))
		if end == len(body) {
			break
		}
	}
	return pieces
}

// mergeSmall folds chunks shorter than the minimum into their successor,
// concatenating content with a blank-line separator and widening offsets
// to span both. The final chunk is never folded forward.
func (p *Processor) mergeSmall(pieces []piece) []piece {
	if p.minSize <= 0 || len(pieces) < 2 {
		return pieces
	}

	merged := make([]piece, 0, len(pieces))
	for i := 0; i < len(pieces); i++ {
		pc := pieces[i]
		if len(pc.content) < p.minSize && i+1 < len(pieces) {
			next := &pieces[i+1]
			next.content = pc.content + "\n\n" + next.content
			next.start = pc.start
			continue
		}
		merged = append(merged, pc)
	}
	return merged
}

// overlapStart returns the offset the next chunk begins at: within the
// last overlap characters of the closed chunk, preferring the nearest
// following word boundary, falling back to a hard character cut.
func (p *Processor) overlapStart(body string, start, end int) int {
	if p.overlap <= 0 {
		return end
	}
	cut := end - p.overlap
	if cut <= start {
		return start
	}
	if isSpace(body[cut-1]) && !isSpace(body[cut]) {
		return cut
	}
	for i := cut; i < end; i++ {
		if !isSpace(body[i]) {
			continue
		}
		for i < end && isSpace(body[i]) {
			i++
		}
		if i < end {
			return i
		}
		break
	}
	return cut
}

// para is one paragraph with its character span in the body.
type para struct {
	start, end int
}

// paragraphs splits the body on blank-line separators, keeping spans and
// dropping whitespace-only segments.
func paragraphs(body string) []para {
	var paras []para
	cur := 0
	for _, sep := range paragraphSeparator.FindAllStringIndex(body, -1) {
		if strings.TrimSpace(body[cur:sep[0]]) != "" {
			paras = append(paras, para{start: cur, end: sep[0]})
		}
		cur = sep[1]
	}
	if cur < len(body) && strings.TrimSpace(body[cur:]) != "" {
		paras = append(paras, para{start: cur, end: len(body)})
	}
	return paras
}

func makePiece(body string, start, end int) piece {
	return piece{content: strings.TrimSpace(body[start:end]), start: start, end: end}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n'
}
